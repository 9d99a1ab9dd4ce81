package structure

import (
	"github.com/zhiqiangxu/kvtable/kv"
	"github.com/zhiqiangxu/kvtable/kv/memcomparable"
)

// TypeFlag is for data structure meta/data flag.
type TypeFlag uint8

const (
	// TypeMeta is the flag for the type registry.
	TypeMeta TypeFlag = 'T'
	// DataSpace is the flag for data keys.
	DataSpace TypeFlag = 'D'

	// StringData is the flag for string data.
	StringData TypeFlag = 's'
	// HashMeta is the flag for hash meta.
	HashMeta TypeFlag = 'H'
	// HashData is the flag for hash data.
	HashData TypeFlag = 'h'
	// ListMeta is the flag for list meta.
	ListMeta TypeFlag = 'L'
	// ListData is the flag for list data.
	ListData TypeFlag = 'l'
	// SetMeta is the flag for set meta.
	SetMeta TypeFlag = 'E'
	// SetData is the flag for set members.
	SetData TypeFlag = 'e'
	// ZSetMeta is the flag for sorted set meta.
	ZSetMeta TypeFlag = 'Z'
	// ZSetScore is the flag for members ordered by score.
	ZSetScore TypeFlag = 'z'
	// ZSetMember is the flag for the score of a member.
	ZSetMember TypeFlag = 'm'
)

func (t *TxStructure) typeMetaPrefix() kv.Key {
	ek := make([]byte, 0, len(t.prefix)+1)
	ek = append(ek, t.prefix...)
	return memcomparable.EncodeUint8(ek, uint8(TypeMeta))
}

func (t *TxStructure) encodeTypeMetaKey(key []byte) kv.Key {
	ek := t.typeMetaPrefix()
	return memcomparable.EncodeBytes(ek, key)
}

func (t *TxStructure) decodeTypeMetaKey(ek kv.Key) (key []byte, err error) {
	prefix := t.typeMetaPrefix()
	if !ek.HasPrefix(prefix) {
		err = ErrKeyHasNoPrefix
		return
	}

	_, key, err = memcomparable.DecodeBytes(ek[len(prefix):], nil)
	return
}

// dataKey is the common part of every data key of key
func (t *TxStructure) dataKey(key []byte, flag TypeFlag, extra int) kv.Key {
	ek := make([]byte, 0, len(t.prefix)+1+memcomparable.EncodedBytesLength(len(key))+1+extra)
	ek = append(ek, t.prefix...)
	ek = memcomparable.EncodeUint8(ek, uint8(DataSpace))
	ek = memcomparable.EncodeBytes(ek, key)
	return memcomparable.EncodeUint8(ek, uint8(flag))
}

func (t *TxStructure) encodeStringDataKey(key []byte) kv.Key {
	return t.dataKey(key, StringData, 0)
}

func (t *TxStructure) encodeHashMetaKey(key []byte) kv.Key {
	return t.dataKey(key, HashMeta, 0)
}

func (t *TxStructure) hashDataKeyPrefix(key []byte) kv.Key {
	return t.dataKey(key, HashData, 0)
}

func (t *TxStructure) encodeHashDataKey(key []byte, field []byte) kv.Key {
	ek := t.dataKey(key, HashData, memcomparable.EncodedBytesLength(len(field)))
	return memcomparable.EncodeBytes(ek, field)
}

func (t *TxStructure) encodeListMetaKey(key []byte) kv.Key {
	return t.dataKey(key, ListMeta, 0)
}

func (t *TxStructure) encodeListDataKey(key []byte, index int64) kv.Key {
	ek := t.dataKey(key, ListData, 8)
	return memcomparable.EncodeInt64(ek, index)
}

func (t *TxStructure) encodeSetMetaKey(key []byte) kv.Key {
	return t.dataKey(key, SetMeta, 0)
}

func (t *TxStructure) setDataKeyPrefix(key []byte) kv.Key {
	return t.dataKey(key, SetData, 0)
}

func (t *TxStructure) encodeSetDataKey(key []byte, member []byte) kv.Key {
	ek := t.dataKey(key, SetData, memcomparable.EncodedBytesLength(len(member)))
	return memcomparable.EncodeBytes(ek, member)
}

func (t *TxStructure) encodeZSetMetaKey(key []byte) kv.Key {
	return t.dataKey(key, ZSetMeta, 0)
}

func (t *TxStructure) zsetScoreKeyPrefix(key []byte) kv.Key {
	return t.dataKey(key, ZSetScore, 0)
}

func (t *TxStructure) encodeZSetScoreKey(key []byte, score float64, member []byte) kv.Key {
	ek := t.dataKey(key, ZSetScore, 8+memcomparable.EncodedBytesLength(len(member)))
	ek = memcomparable.EncodeFloat64(ek, score)
	return memcomparable.EncodeBytes(ek, member)
}

func (t *TxStructure) encodeZSetMemberKey(key []byte, member []byte) kv.Key {
	ek := t.dataKey(key, ZSetMember, memcomparable.EncodedBytesLength(len(member)))
	return memcomparable.EncodeBytes(ek, member)
}

// decodeDataKeySuffix returns what follows prefix in a data key
func decodeDataKeySuffix(ek kv.Key, prefix kv.Key) (suffix []byte, err error) {
	if !ek.HasPrefix(prefix) {
		err = ErrKeyHasNoPrefix
		return
	}
	suffix = ek[len(prefix):]
	return
}

func decodeBytesSuffix(ek kv.Key, prefix kv.Key) (data []byte, err error) {
	suffix, err := decodeDataKeySuffix(ek, prefix)
	if err != nil {
		return
	}
	leftover, data, err := memcomparable.DecodeBytes(suffix, nil)
	if err == nil && len(leftover) != 0 {
		err = ErrInvalidDataKey
	}
	return
}
