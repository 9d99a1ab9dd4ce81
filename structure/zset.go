package structure

import (
	"github.com/zhiqiangxu/kvtable/kv"
	"github.com/zhiqiangxu/kvtable/kv/memcomparable"
)

// ZMember is a member of a sorted set with its score.
type ZMember struct {
	Member []byte
	Score  float64
}

// ZAdd adds members or updates their score, returns how many members are new.
func (t *TxStructure) ZAdd(key []byte, members ...ZMember) (added int64, err error) {
	if err = t.prepareWrite(key, KindZSet); err != nil {
		return
	}

	for _, m := range members {
		memberKey := t.encodeZSetMemberKey(key, m.Member)

		var (
			old   float64
			found bool
		)
		old, found, err = t.loadScore(memberKey)
		if err != nil {
			return
		}
		if found {
			if old == m.Score {
				continue
			}
			if err = t.txn.Delete(t.encodeZSetScoreKey(key, old, m.Member)); err != nil {
				return
			}
		} else {
			added++
		}

		if err = t.txn.Set(memberKey, memcomparable.EncodeFloat64(nil, m.Score)); err != nil {
			return
		}
		if err = t.txn.Set(t.encodeZSetScoreKey(key, m.Score, m.Member), nil); err != nil {
			return
		}
	}

	if added > 0 {
		err = t.incCount(t.encodeZSetMetaKey(key), added)
	}
	return
}

// ZScore returns the score of member.
func (t *TxStructure) ZScore(key []byte, member []byte) (score float64, found bool, err error) {
	found, err = t.checkType(key, KindZSet)
	if err != nil || !found {
		return
	}

	score, found, err = t.loadScore(t.encodeZSetMemberKey(key, member))
	return
}

// ZCard returns the number of members.
func (t *TxStructure) ZCard(key []byte) (n int64, err error) {
	found, err := t.checkType(key, KindZSet)
	if err != nil || !found {
		return
	}

	meta, err := t.loadCountMeta(t.encodeZSetMetaKey(key))
	n = meta.Count
	return
}

// ZRange returns the members between rank start and stop inclusive,
// ordered by score then member. Negative ranks count from the end.
func (t *TxStructure) ZRange(key []byte, start, stop int64) (members []ZMember, err error) {
	found, err := t.checkType(key, KindZSet)
	if err != nil || !found {
		return
	}

	meta, err := t.loadCountMeta(t.encodeZSetMetaKey(key))
	if err != nil {
		return
	}
	start, stop, ok := adjustRange(start, stop, meta.Count)
	if !ok {
		return
	}

	var rank int64
	err = t.iterateZSet(key, func(m ZMember) bool {
		if rank >= start {
			members = append(members, m)
		}
		rank++
		return rank <= stop
	})
	return
}

// ZClear removes the sorted set of the key.
func (t *TxStructure) ZClear(key []byte) (err error) {
	var dataKeys []kv.Key
	err = t.iterateZSet(key, func(m ZMember) bool {
		dataKeys = append(dataKeys, t.encodeZSetScoreKey(key, m.Score, m.Member), t.encodeZSetMemberKey(key, m.Member))
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

	err = t.txn.Delete(t.encodeZSetMetaKey(key))
	return
}

func (t *TxStructure) iterateZSet(key []byte, fn func(m ZMember) bool) (err error) {
	scorePrefix := t.zsetScoreKeyPrefix(key)

	scanErr := t.txn.Scan(scorePrefix, func(ek []byte, _ []byte) bool {
		var suffix []byte
		suffix, err = decodeDataKeySuffix(ek, scorePrefix)
		if err != nil {
			return false
		}

		var m ZMember
		suffix, m.Score, err = memcomparable.DecodeFloat64(suffix)
		if err != nil {
			return false
		}
		_, m.Member, err = memcomparable.DecodeBytes(suffix, nil)
		if err != nil {
			return false
		}
		return fn(m)
	})
	if err == nil {
		err = scanErr
	}
	return
}

func (t *TxStructure) loadScore(memberKey []byte) (score float64, found bool, err error) {
	v, err := t.txn.Get(memberKey)
	if err == kv.ErrKeyNotFound {
		err = nil
		return
	}
	if err != nil {
		return
	}

	_, score, err = memcomparable.DecodeFloat64(v)
	found = err == nil
	return
}
