package database

// DataAccessor defines the common interface by which data gets
// accessed in a generic emberd database.
type DataAccessor interface {
	// Put sets the value for the given key. It overwrites
	// any previous value for that key.
	Put(key []byte, value []byte) error

	// Get gets the value for the given key. It returns
	// ErrNotFound if the given key does not exist.
	Get(key []byte) ([]byte, error)

	// Has returns true if the database does contain the
	// given key.
	Has(key []byte) (bool, error)

	// Delete deletes the value for the given key. Will not
	// return an error if the key doesn't exist.
	Delete(key []byte) error

	// Cursor begins a new cursor over the given bucket.
	Cursor(bucket *Bucket) (Cursor, error)
}

// Database defines the interface of the persistent base store. The UTXO
// set's bottom layer and all block-index metadata are persisted through
// this interface.
type Database interface {
	DataAccessor

	// Begin begins a new database transaction.
	Begin() (Transaction, error)

	// Close closes the database.
	Close() error
}

// Transaction defines the interface of a generic emberd database
// transaction. Writes are staged into a batch and are applied to the
// underlying database in a single atomic commit.
//
// Note: transactions provide data consistency over the state of
// the database as it was when the transaction started. There is
// NO guarantee that if one puts data into the transaction then
// it will be available to get within the same transaction.
type Transaction interface {
	DataAccessor

	// Rollback rolls back whatever changes were made to the
	// database within this transaction.
	Rollback() error

	// Commit commits whatever changes were made to the database
	// within this transaction atomically.
	Commit() error

	// RollbackUnlessClosed rolls back changes that were made to
	// the database within the transaction, unless the transaction
	// had already been closed using either Rollback or Commit.
	RollbackUnlessClosed() error
}

// Cursor iterates over database entries given some bucket.
type Cursor interface {
	// Next moves the iterator to the next key/value pair. It returns whether
	// the iterator is exhausted.
	Next() bool

	// Key returns the key of the current key/value pair, or ErrNotFound if done.
	// The full key is returned, including the prefix of the bucket the cursor
	// was opened with.
	Key() ([]byte, error)

	// Value returns the value of the current key/value pair, or ErrNotFound
	// if done.
	Value() ([]byte, error)

	// Close releases associated resources.
	Close() error
}
