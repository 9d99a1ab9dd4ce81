package structure

import "github.com/zhiqiangxu/kvtable/kv"

// SAdd adds members to a set, returns how many were not already members.
func (t *TxStructure) SAdd(key []byte, members ...[]byte) (added int64, err error) {
	if err = t.prepareWrite(key, KindSet); err != nil {
		return
	}

	for _, member := range members {
		dataKey := t.encodeSetDataKey(key, member)
		var exists bool
		exists, err = t.txn.Exists(dataKey)
		if err != nil {
			return
		}
		if exists {
			continue
		}
		if err = t.txn.Set(dataKey, nil); err != nil {
			return
		}
		added++
	}

	if added > 0 {
		err = t.incCount(t.encodeSetMetaKey(key), added)
	}
	return
}

// SIsMember reports whether member belongs to the set.
func (t *TxStructure) SIsMember(key []byte, member []byte) (ok bool, err error) {
	found, err := t.checkType(key, KindSet)
	if err != nil || !found {
		return
	}

	ok, err = t.txn.Exists(t.encodeSetDataKey(key, member))
	return
}

// SCard returns the number of members.
func (t *TxStructure) SCard(key []byte) (n int64, err error) {
	found, err := t.checkType(key, KindSet)
	if err != nil || !found {
		return
	}

	meta, err := t.loadCountMeta(t.encodeSetMetaKey(key))
	n = meta.Count
	return
}

// SMembers returns every member in ascending order.
func (t *TxStructure) SMembers(key []byte) (members [][]byte, err error) {
	found, err := t.checkType(key, KindSet)
	if err != nil || !found {
		return
	}

	err = t.iterateSet(key, func(member []byte) bool {
		members = append(members, member)
		return true
	})
	return
}

// SClear removes the set of the key.
func (t *TxStructure) SClear(key []byte) (err error) {
	var dataKeys []kv.Key
	err = t.iterateSet(key, func(member []byte) bool {
		dataKeys = append(dataKeys, t.encodeSetDataKey(key, member))
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

	err = t.txn.Delete(t.encodeSetMetaKey(key))
	return
}

func (t *TxStructure) iterateSet(key []byte, fn func(member []byte) bool) (err error) {
	dataPrefix := t.setDataKeyPrefix(key)

	scanErr := t.txn.Scan(dataPrefix, func(ek []byte, _ []byte) bool {
		var member []byte
		member, err = decodeBytesSuffix(ek, dataPrefix)
		if err != nil {
			return false
		}
		return fn(member)
	})
	if err == nil {
		err = scanErr
	}
	return
}
