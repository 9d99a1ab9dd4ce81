package structure

import (
	"bytes"

	"github.com/zhiqiangxu/kvtable/kv"
	"github.com/zhiqiangxu/kvtable/kv/numeric"
)

// HashPair is the pair for (field, value) in a hash.
type HashPair struct {
	Field []byte
	Value []byte
}

type countMeta struct {
	Count int64
}

func (meta countMeta) Value() []byte {
	return numeric.Encode2Binary(uint64(meta.Count), nil)
}

func (meta countMeta) IsEmpty() bool {
	return meta.Count <= 0
}

// HSet sets the string value of a hash field, isNew is false when the field was overwritten.
func (t *TxStructure) HSet(key []byte, field []byte, value []byte) (isNew bool, err error) {
	if err = t.prepareWrite(key, KindHash); err != nil {
		return
	}

	dataKey := t.encodeHashDataKey(key, field)
	_, err = t.txn.Get(dataKey)
	if err == kv.ErrKeyNotFound {
		isNew = true
		err = nil
	}
	if err != nil {
		return
	}

	if err = t.txn.Set(dataKey, value); err != nil {
		return
	}
	if !isNew {
		return
	}

	err = t.incCount(t.encodeHashMetaKey(key), 1)
	return
}

// HGet gets the value of a hash field.
func (t *TxStructure) HGet(key []byte, field []byte) (value []byte, found bool, err error) {
	found, err = t.checkType(key, KindHash)
	if err != nil || !found {
		return
	}

	value, err = t.txn.Get(t.encodeHashDataKey(key, field))
	if err == kv.ErrKeyNotFound {
		found = false
		err = nil
	}
	return
}

// HLen gets the number of fields in a hash.
func (t *TxStructure) HLen(key []byte) (l int64, err error) {
	found, err := t.checkType(key, KindHash)
	if err != nil || !found {
		return
	}

	meta, err := t.loadCountMeta(t.encodeHashMetaKey(key))
	l = meta.Count
	return
}

// HGetAll gets all the fields and values in a hash, ordered by field.
func (t *TxStructure) HGetAll(key []byte) (res []HashPair, err error) {
	found, err := t.checkType(key, KindHash)
	if err != nil || !found {
		return
	}

	err = t.iterateHash(key, func(field []byte, value []byte) bool {
		res = append(res, HashPair{Field: field, Value: append([]byte{}, value...)})
		return true
	})
	return
}

// HClear removes the hash value of the key.
func (t *TxStructure) HClear(key []byte) (err error) {
	var dataKeys [][]byte
	err = t.iterateHash(key, func(field []byte, _ []byte) bool {
		dataKeys = append(dataKeys, t.encodeHashDataKey(key, field))
		return true
	})
	if err != nil {
		return
	}

	for _, k := range dataKeys {
		if err = t.txn.Delete(k); err != nil {
			return
		}
	}

	err = t.txn.Delete(t.encodeHashMetaKey(key))
	return
}

func (t *TxStructure) iterateHash(key []byte, fn func(field []byte, value []byte) bool) (err error) {
	dataPrefix := t.hashDataKeyPrefix(key)

	scanErr := t.txn.Scan(dataPrefix, func(ek []byte, value []byte) bool {
		if !bytes.HasPrefix(ek, dataPrefix) {
			return false
		}

		var field []byte
		field, err = decodeBytesSuffix(ek, dataPrefix)
		if err != nil {
			return false
		}

		return fn(field, value)
	})
	if err == nil {
		err = scanErr
	}
	return
}

func (t *TxStructure) incCount(metaKey []byte, delta int64) (err error) {
	meta, err := t.loadCountMeta(metaKey)
	if err != nil {
		return
	}

	meta.Count += delta
	if meta.IsEmpty() {
		err = t.txn.Delete(metaKey)
		return
	}
	err = t.txn.Set(metaKey, meta.Value())
	return
}

func (t *TxStructure) loadCountMeta(metaKey []byte) (m countMeta, err error) {
	v, err := t.txn.Get(metaKey)
	if err == kv.ErrKeyNotFound {
		err = nil
		return
	}
	if err != nil {
		return
	}

	count, err := numeric.DecodeFromBinary(v)
	if err != nil {
		return
	}
	m.Count = int64(count)
	return
}
