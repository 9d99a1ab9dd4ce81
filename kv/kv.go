// Package kv defines the ordered key value store the command server is built on.
package kv

type (
	// Option for KVDB
	Option struct {
		Dir string
	}

	// KVDB is the interface an embedded key value database implements to back the command server
	KVDB interface {
		Operation
		Open(option Option) error
		Close() error
		NewTransaction(update bool) Txn
	}

	// Operation on kv
	Operation interface {
		Set(k, v []byte) error
		Exists(k []byte) (bool, error)
		Get(k []byte) ([]byte, error)
		Delete(k []byte) error
		// Scan visits keys with prefix in ascending order until fn returns false.
		// key and value are only valid before fn returns.
		Scan(prefix []byte, fn func(key, value []byte) bool) error
	}

	// Txn for transaction
	Txn interface {
		Operation
		Commit() error
		Discard()
	}
)
