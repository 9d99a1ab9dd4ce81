package structure

import (
	"fmt"

	"github.com/tidwall/match"
	"github.com/zhiqiangxu/kvtable/kv"
)

// Kind is the type of the value held by a key
type Kind uint8

const (
	// KindNone for missing keys
	KindNone Kind = iota
	// KindString for SET/GET values
	KindString
	// KindHash for HSET/HGETALL values
	KindHash
	// KindList for LPUSH/LRANGE values
	KindList
	// KindSet for SADD/SMEMBERS values
	KindSet
	// KindZSet for ZADD/ZRANGE values
	KindZSet
)

var kindNames = [...]string{
	KindNone:   "none",
	KindString: "string",
	KindHash:   "hash",
	KindList:   "list",
	KindSet:    "set",
	KindZSet:   "zset",
}

// String returns what TYPE answers
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Type returns the kind of the value held by key
func (t *TxStructure) Type(key []byte) (kind Kind, err error) {
	v, err := t.txn.Get(t.encodeTypeMetaKey(key))
	if err == kv.ErrKeyNotFound {
		err = nil
		return
	}
	if err != nil {
		return
	}

	if len(v) != 1 || v[0] == byte(KindNone) || int(v[0]) >= len(kindNames) {
		err = ErrInvalidTypeMeta
		return
	}
	kind = Kind(v[0])
	return
}

// checkType fails with ErrWrongType when key holds something other than kind,
// found is false when key does not exist.
func (t *TxStructure) checkType(key []byte, kind Kind) (found bool, err error) {
	actual, err := t.Type(key)
	if err != nil {
		return
	}
	if actual == KindNone {
		return
	}
	if actual != kind {
		err = ErrWrongType
		return
	}
	found = true
	return
}

// prepareWrite checks the type of key and registers kind when key is new
func (t *TxStructure) prepareWrite(key []byte, kind Kind) (err error) {
	found, err := t.checkType(key, kind)
	if err != nil || found {
		return
	}
	err = t.txn.Set(t.encodeTypeMetaKey(key), []byte{byte(kind)})
	return
}

func (t *TxStructure) unregister(key []byte) error {
	return t.txn.Delete(t.encodeTypeMetaKey(key))
}

// Exists returns how many of keys exist, a key given twice counts twice
func (t *TxStructure) Exists(keys ...[]byte) (n int64, err error) {
	for _, key := range keys {
		var exists bool
		exists, err = t.txn.Exists(t.encodeTypeMetaKey(key))
		if err != nil {
			return
		}
		if exists {
			n++
		}
	}
	return
}

// Keys returns every key matching the glob pattern in ascending order
func (t *TxStructure) Keys(pattern string) (keys [][]byte, err error) {
	err = t.iterateKeys(func(key []byte) bool {
		if pattern == "*" || match.Match(string(key), pattern) {
			keys = append(keys, key)
		}
		return true
	})
	return
}

// DBSize returns the number of keys
func (t *TxStructure) DBSize() (n int64, err error) {
	err = t.iterateKeys(func([]byte) bool {
		n++
		return true
	})
	return
}

func (t *TxStructure) iterateKeys(fn func(key []byte) bool) (err error) {
	scanErr := t.txn.Scan(t.typeMetaPrefix(), func(ek, _ []byte) bool {
		var key []byte
		key, err = t.decodeTypeMetaKey(ek)
		if err != nil {
			return false
		}
		return fn(key)
	})
	if err == nil {
		err = scanErr
	}
	return
}

// Del removes keys whatever they hold, returns how many existed
func (t *TxStructure) Del(keys ...[]byte) (n int64, err error) {
	for _, key := range keys {
		var deleted bool
		deleted, err = t.del(key)
		if err != nil {
			return
		}
		if deleted {
			n++
		}
	}
	return
}

func (t *TxStructure) del(key []byte) (deleted bool, err error) {
	kind, err := t.Type(key)
	if err != nil || kind == KindNone {
		return
	}

	switch kind {
	case KindString:
		err = t.txn.Delete(t.encodeStringDataKey(key))
	case KindHash:
		err = t.HClear(key)
	case KindList:
		err = t.LClear(key)
	case KindSet:
		err = t.SClear(key)
	case KindZSet:
		err = t.ZClear(key)
	}
	if err != nil {
		return
	}

	err = t.unregister(key)
	deleted = err == nil
	return
}
