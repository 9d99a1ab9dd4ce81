// Package structure implements the Redis data types on top of a kv.Txn.
package structure

import (
	"errors"

	"github.com/zhiqiangxu/kvtable/kv"
	"github.com/zhiqiangxu/kvtable/kv/memcomparable"
)

var (
	// ErrWrongType when a key holds a value of another type
	ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")
	// ErrKeyHasNoPrefix used by TxStructure
	ErrKeyHasNoPrefix = errors.New("key has no prefix")
	// ErrInvalidDataKey when a data key does not decode
	ErrInvalidDataKey = errors.New("invalid data key")
	// ErrInvalidListMetaData used by TxStructure
	ErrInvalidListMetaData = errors.New("invalid list meta data")
	// ErrListDataMissing when an index inside the list range has no element
	ErrListDataMissing = errors.New("list element missing")
	// ErrInvalidTypeMeta when the type registry holds an unknown type
	ErrInvalidTypeMeta = errors.New("invalid type meta")
)

// TxStructure is one logical database inside a transaction
type TxStructure struct {
	txn    kv.Txn
	prefix []byte
}

// New is ctor for TxStructure
func New(txn kv.Txn, prefix []byte) *TxStructure {
	return &TxStructure{txn: txn, prefix: prefix}
}

// DBPrefix is the key prefix of the database numbered db
func DBPrefix(db int) []byte {
	return memcomparable.EncodeInt64([]byte{'d', 'b'}, int64(db))
}
