package ldb

import (
	"github.com/emberchain/emberd/infrastructure/db/database"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// iteratorProvider is implemented by both *leveldb.DB and
// *leveldb.Snapshot.
type iteratorProvider interface {
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

// LevelDBCursor is a thin wrapper around native leveldb iterators.
type LevelDBCursor struct {
	ldbIterator iterator.Iterator
	bucket      *database.Bucket
	isClosed    bool
}

func newLevelDBCursor(provider iteratorProvider, bucket *database.Bucket) *LevelDBCursor {
	ldbIterator := provider.NewIterator(util.BytesPrefix(bucket.Path()), nil)
	return &LevelDBCursor{
		ldbIterator: ldbIterator,
		bucket:      bucket,
	}
}

// Next moves the iterator to the next key/value pair. It returns whether the
// iterator is exhausted. Panics if the cursor is closed.
func (c *LevelDBCursor) Next() bool {
	if c.isClosed {
		panic("cannot call next on a closed cursor")
	}
	return c.ldbIterator.Next()
}

// Key returns the key of the current key/value pair, or ErrNotFound if done.
// The full key is returned, including the prefix of the bucket the cursor
// was opened with.
func (c *LevelDBCursor) Key() ([]byte, error) {
	if c.isClosed {
		return nil, errors.New("cannot get the key of a closed cursor")
	}
	fullKeyPath := c.ldbIterator.Key()
	if fullKeyPath == nil {
		return nil, errors.Wrapf(database.ErrNotFound, "key not found in cursor over %s", c.bucket.Path())
	}
	fullKeyPathClone := make([]byte, len(fullKeyPath))
	copy(fullKeyPathClone, fullKeyPath)
	return fullKeyPathClone, nil
}

// Value returns the value of the current key/value pair, or ErrNotFound if
// done.
func (c *LevelDBCursor) Value() ([]byte, error) {
	if c.isClosed {
		return nil, errors.New("cannot get the value of a closed cursor")
	}
	value := c.ldbIterator.Value()
	if value == nil {
		return nil, errors.Wrapf(database.ErrNotFound, "value not found in cursor over %s", c.bucket.Path())
	}
	valueClone := make([]byte, len(value))
	copy(valueClone, value)
	return valueClone, nil
}

// Close releases associated resources.
func (c *LevelDBCursor) Close() error {
	if c.isClosed {
		return errors.New("cannot close an already closed cursor")
	}
	c.isClosed = true
	c.ldbIterator.Release()
	c.ldbIterator = nil
	return nil
}
