package kv

import (
	"bytes"
	"testing"

	"github.com/zhiqiangxu/kvtable/kv/memcomparable"
	"gotest.tools/assert"
)

func TestPrefixNext(t *testing.T) {
	keyA := memcomparable.EncodeBytes(memcomparable.EncodeBytes(nil, []byte("abc")), []byte("def"))
	keyB := memcomparable.EncodeBytes(memcomparable.EncodeBytes(nil, []byte("abca")), []byte("def"))

	seekKey := memcomparable.EncodeBytes(nil, []byte("abc"))
	next := Key(seekKey).PrefixNext()
	assert.DeepEqual(t, []byte(next), []byte{'a', 'b', 'c', 0, 0, 0, 0, 0, 251})
	// skips every key under "abc" but not "abca"
	assert.Assert(t, bytes.Compare(next, keyA) > 0)
	assert.Assert(t, bytes.Compare(next, keyB) < 0)

	assert.DeepEqual(t, []byte(Key("abc").PrefixNext()), []byte("abd"))
	assert.DeepEqual(t, []byte(Key([]byte{1, 255}).PrefixNext()), []byte{2})
	assert.Assert(t, Key([]byte{255, 255}).PrefixNext() == nil)

	assert.Assert(t, Key(keyA).HasPrefix(seekKey))
	assert.Assert(t, !Key(keyB).HasPrefix(seekKey))
}
