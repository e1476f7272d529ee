package model

// Store is a common interface for data stores that buffer changes in
// memory until they are committed within a database transaction
type Store interface {
	IsStaged() bool
	Discard()
	Commit(dbTx DBTransaction) error
}
