package structure

import "github.com/zhiqiangxu/kvtable/kv"

// Set the string value of the key, whatever the key held before.
func (t *TxStructure) Set(key []byte, value []byte) (err error) {
	kind, err := t.Type(key)
	if err != nil {
		return
	}
	if kind != KindNone && kind != KindString {
		if _, err = t.del(key); err != nil {
			return
		}
	}

	if err = t.prepareWrite(key, KindString); err != nil {
		return
	}
	err = t.txn.Set(t.encodeStringDataKey(key), value)
	return
}

// Get the string value of a key, found is false when the key does not exist.
func (t *TxStructure) Get(key []byte) (value []byte, found bool, err error) {
	found, err = t.checkType(key, KindString)
	if err != nil || !found {
		return
	}

	value, err = t.txn.Get(t.encodeStringDataKey(key))
	if err == kv.ErrKeyNotFound {
		err = nil
	}
	return
}

// Inc increments the integer value of a key by step, returns
// the value after the increment.
func (t *TxStructure) Inc(key []byte, step int64) (n int64, err error) {
	if err = t.prepareWrite(key, KindString); err != nil {
		return
	}

	n, err = kv.IncInt64(t.txn, t.encodeStringDataKey(key), step)
	return
}
