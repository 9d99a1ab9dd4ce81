package structure

import (
	"fmt"

	"github.com/zhiqiangxu/kvtable/kv"
	"github.com/zhiqiangxu/kvtable/kv/numeric"
)

type listMeta struct {
	LIndex int64
	RIndex int64
}

func (meta listMeta) Value() []byte {
	buf := make([]byte, 0, 16)
	buf = numeric.Encode2Binary(uint64(meta.LIndex), buf)
	buf = numeric.Encode2Binary(uint64(meta.RIndex), buf)
	return buf
}

func (meta listMeta) Len() int64 {
	return meta.RIndex - meta.LIndex
}

// LPush prepends one or multiple values to a list, returns the length after the push.
func (t *TxStructure) LPush(key []byte, values ...[]byte) (int64, error) {
	return t.listPush(key, true, values...)
}

// RPush appends one or multiple values to a list, returns the length after the push.
func (t *TxStructure) RPush(key []byte, values ...[]byte) (int64, error) {
	return t.listPush(key, false, values...)
}

func (t *TxStructure) listPush(key []byte, left bool, values ...[]byte) (l int64, err error) {
	if err = t.prepareWrite(key, KindList); err != nil {
		return
	}

	metaKey := t.encodeListMetaKey(key)
	meta, err := t.loadListMeta(metaKey)
	if err != nil {
		return
	}

	var index int64
	for _, v := range values {
		if left {
			meta.LIndex--
			index = meta.LIndex
		} else {
			index = meta.RIndex
			meta.RIndex++
		}

		if err = t.txn.Set(t.encodeListDataKey(key, index), v); err != nil {
			return
		}
	}

	if err = t.txn.Set(metaKey, meta.Value()); err != nil {
		return
	}
	l = meta.Len()
	return
}

// LLen gets the length of a list.
func (t *TxStructure) LLen(key []byte) (l int64, err error) {
	found, err := t.checkType(key, KindList)
	if err != nil || !found {
		return
	}

	meta, err := t.loadListMeta(t.encodeListMetaKey(key))
	l = meta.Len()
	return
}

// LRange returns the elements between start and stop inclusive, from left to right.
// Negative indexes count from the end of the list.
func (t *TxStructure) LRange(key []byte, start, stop int64) (elements [][]byte, err error) {
	found, err := t.checkType(key, KindList)
	if err != nil || !found {
		return
	}

	meta, err := t.loadListMeta(t.encodeListMetaKey(key))
	if err != nil {
		return
	}

	start, stop, ok := adjustRange(start, stop, meta.Len())
	if !ok {
		return
	}

	elements = make([][]byte, 0, stop-start+1)
	for index := meta.LIndex + start; index <= meta.LIndex+stop; index++ {
		var e []byte
		e, err = t.txn.Get(t.encodeListDataKey(key, index))
		if err == kv.ErrKeyNotFound {
			err = fmt.Errorf("%w: %q at index %d", ErrListDataMissing, key, index-meta.LIndex)
		}
		if err != nil {
			elements = nil
			return
		}
		elements = append(elements, e)
	}
	return
}

// LClear removes the list of the key.
func (t *TxStructure) LClear(key []byte) (err error) {
	metaKey := t.encodeListMetaKey(key)
	meta, err := t.loadListMeta(metaKey)
	if err != nil {
		return
	}

	for index := meta.LIndex; index < meta.RIndex; index++ {
		if err = t.txn.Delete(t.encodeListDataKey(key, index)); err != nil {
			return
		}
	}

	err = t.txn.Delete(metaKey)
	return
}

func (t *TxStructure) loadListMeta(metaKey []byte) (m listMeta, err error) {
	v, err := t.txn.Get(metaKey)
	if err == kv.ErrKeyNotFound {
		err = nil
		return
	}
	if err != nil {
		return
	}

	if len(v) != 16 {
		err = ErrInvalidListMetaData
		return
	}

	uLIndex, err := numeric.DecodeFromBinary(v[0:8])
	if err != nil {
		return
	}
	uRIndex, err := numeric.DecodeFromBinary(v[8:16])
	if err != nil {
		return
	}

	m.LIndex = int64(uLIndex)
	m.RIndex = int64(uRIndex)
	return
}

// adjustRange resolves negative indexes and clamps [start, stop] to a sequence of length n
func adjustRange(start, stop, n int64) (int64, int64, bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop, true
}
