package structure

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zhiqiangxu/kvtable/kv"
	"github.com/zhiqiangxu/kvtable/provider"
	"gotest.tools/assert"
)

func strs(bs [][]byte) (ss []string) {
	for _, b := range bs {
		ss = append(ss, string(b))
	}
	return
}

func withStructure(t *testing.T, fn func(t *testing.T, db kv.KVDB)) {
	for _, name := range []string{provider.NameBadger, provider.NameLevelDB} {
		dir := filepath.Join(os.TempDir(), "kvtable_structure_"+name)
		os.RemoveAll(dir)

		db, err := provider.New(name)
		assert.Assert(t, err == nil)
		assert.Assert(t, db.Open(kv.Option{Dir: dir}) == nil)

		fn(t, db)

		assert.Assert(t, db.Close() == nil)
		os.RemoveAll(dir)
	}
}

func update(t *testing.T, db kv.KVDB, f func(s *TxStructure) error) {
	err := kv.RunInNewUpdateTxn(db, func(txn kv.Txn) error {
		return f(New(txn, DBPrefix(0)))
	})
	assert.NilError(t, err)
}

func view(t *testing.T, db kv.KVDB, f func(s *TxStructure) error) {
	err := kv.RunInNewTxn(db, func(txn kv.Txn) error {
		return f(New(txn, DBPrefix(0)))
	})
	assert.NilError(t, err)
}

func TestString(t *testing.T) {
	withStructure(t, func(t *testing.T, db kv.KVDB) {
		update(t, db, func(s *TxStructure) (err error) {
			assert.NilError(t, s.Set([]byte("k1"), []byte("v1")))
			assert.NilError(t, s.Set([]byte("empty"), nil))

			n, err := s.Inc([]byte("counter"), 5)
			assert.Assert(t, err == nil && n == 5)
			n, err = s.Inc([]byte("counter"), -2)
			assert.Assert(t, err == nil && n == 3)
			_, err = s.Inc([]byte("k1"), 1)
			assert.Assert(t, err != nil)
			return nil
		})

		view(t, db, func(s *TxStructure) (err error) {
			v, found, err := s.Get([]byte("k1"))
			assert.Assert(t, err == nil && found && string(v) == "v1")
			v, found, err = s.Get([]byte("empty"))
			assert.Assert(t, err == nil && found && len(v) == 0)
			_, found, err = s.Get([]byte("missing"))
			assert.Assert(t, err == nil && !found)
			v, found, err = s.Get([]byte("counter"))
			assert.Assert(t, err == nil && found && string(v) == "3")
			return nil
		})
	})
}

func TestTypes(t *testing.T) {
	withStructure(t, func(t *testing.T, db kv.KVDB) {
		update(t, db, func(s *TxStructure) (err error) {
			assert.NilError(t, s.Set([]byte("s"), []byte("v")))
			isNew, err := s.HSet([]byte("h"), []byte("f"), []byte("v"))
			assert.Assert(t, err == nil && isNew)
			_, err = s.RPush([]byte("l"), []byte("x"))
			assert.NilError(t, err)
			_, err = s.SAdd([]byte("set"), []byte("m"))
			assert.NilError(t, err)
			_, err = s.ZAdd([]byte("z"), ZMember{Member: []byte("m"), Score: 1})
			assert.NilError(t, err)
			return nil
		})

		view(t, db, func(s *TxStructure) (err error) {
			for key, kind := range map[string]Kind{"s": KindString, "h": KindHash, "l": KindList, "set": KindSet, "z": KindZSet, "none": KindNone} {
				actual, err := s.Type([]byte(key))
				assert.Assert(t, err == nil && actual == kind, key)
			}

			_, _, err = s.Get([]byte("h"))
			assert.Equal(t, err, ErrWrongType)
			_, err = s.HGetAll([]byte("s"))
			assert.Equal(t, err, ErrWrongType)
			_, err = s.LRange([]byte("set"), 0, -1)
			assert.Equal(t, err, ErrWrongType)
			_, err = s.SMembers([]byte("z"))
			assert.Equal(t, err, ErrWrongType)
			_, err = s.ZRange([]byte("l"), 0, -1)
			assert.Equal(t, err, ErrWrongType)
			_, err = s.SIsMember([]byte("s"), []byte("m"))
			assert.Equal(t, err, ErrWrongType)
			return nil
		})

		update(t, db, func(s *TxStructure) (err error) {
			_, err = s.SAdd([]byte("h"), []byte("m"))
			assert.Equal(t, err, ErrWrongType)

			// SET replaces whatever the key held
			assert.NilError(t, s.Set([]byte("h"), []byte("now a string")))
			kind, err := s.Type([]byte("h"))
			assert.Assert(t, err == nil && kind == KindString)
			return nil
		})

		view(t, db, func(s *TxStructure) (err error) {
			v, found, err := s.Get([]byte("h"))
			assert.Assert(t, err == nil && found && string(v) == "now a string")
			_, found, err = s.HGet([]byte("h"), []byte("f"))
			assert.Equal(t, err, ErrWrongType)
			assert.Assert(t, !found)
			return nil
		})
	})
}

func TestHash(t *testing.T) {
	withStructure(t, func(t *testing.T, db kv.KVDB) {
		update(t, db, func(s *TxStructure) (err error) {
			h := []byte("h1")
			isNew, err := s.HSet(h, []byte("f2"), []byte("v2"))
			assert.Assert(t, err == nil && isNew)
			isNew, err = s.HSet(h, []byte("f1"), []byte("v1"))
			assert.Assert(t, err == nil && isNew)
			isNew, err = s.HSet(h, []byte("f1"), []byte("v1'"))
			assert.Assert(t, err == nil && !isNew)
			// a longer key sharing a prefix does not leak in
			_, err = s.HSet([]byte("h10"), []byte("other"), []byte("x"))
			return
		})

		view(t, db, func(s *TxStructure) (err error) {
			pairs, err := s.HGetAll([]byte("h1"))
			assert.NilError(t, err)
			assert.DeepEqual(t, pairs, []HashPair{
				{Field: []byte("f1"), Value: []byte("v1'")},
				{Field: []byte("f2"), Value: []byte("v2")},
			})

			l, err := s.HLen([]byte("h1"))
			assert.Assert(t, err == nil && l == 2)
			v, found, err := s.HGet([]byte("h1"), []byte("f2"))
			assert.Assert(t, err == nil && found && string(v) == "v2")
			_, found, err = s.HGet([]byte("h1"), []byte("f3"))
			assert.Assert(t, err == nil && !found)

			pairs, err = s.HGetAll([]byte("missing"))
			assert.Assert(t, err == nil && len(pairs) == 0)
			return nil
		})
	})
}

func TestList(t *testing.T) {
	withStructure(t, func(t *testing.T, db kv.KVDB) {
		update(t, db, func(s *TxStructure) (err error) {
			l, err := s.RPush([]byte("l"), []byte("c"), []byte("d"))
			assert.Assert(t, err == nil && l == 2)
			l, err = s.LPush([]byte("l"), []byte("b"), []byte("a"))
			assert.Assert(t, err == nil && l == 4)
			return nil
		})

		view(t, db, func(s *TxStructure) (err error) {
			cases := []struct {
				start, stop int64
				expect      []string
			}{
				{0, 2147483647, []string{"a", "b", "c", "d"}},
				{0, -1, []string{"a", "b", "c", "d"}},
				{1, 2, []string{"b", "c"}},
				{-2, -1, []string{"c", "d"}},
				{-100, 0, []string{"a"}},
				{3, 1, nil},
				{10, 20, nil},
			}
			for _, c := range cases {
				elements, err := s.LRange([]byte("l"), c.start, c.stop)
				assert.NilError(t, err)
				assert.DeepEqual(t, strs(elements), c.expect)
			}

			l, err := s.LLen([]byte("l"))
			assert.Assert(t, err == nil && l == 4)
			return nil
		})

		update(t, db, func(s *TxStructure) (err error) {
			key := []byte("l")
			meta, err := s.loadListMeta(s.encodeListMetaKey(key))
			assert.NilError(t, err)
			assert.NilError(t, s.txn.Delete(s.encodeListDataKey(key, meta.LIndex+1)))

			// a hole in the list is corruption, not an empty element
			elements, err := s.LRange(key, 0, -1)
			assert.Assert(t, errors.Is(err, ErrListDataMissing) && elements == nil)
			assert.ErrorContains(t, err, `"l" at index 1`)

			elements, err = s.LRange(key, 2, 3)
			assert.NilError(t, err)
			assert.DeepEqual(t, strs(elements), []string{"c", "d"})
			return nil
		})
	})
}

func TestSet(t *testing.T) {
	withStructure(t, func(t *testing.T, db kv.KVDB) {
		update(t, db, func(s *TxStructure) (err error) {
			added, err := s.SAdd([]byte("users"), []byte("u2"), []byte("u1"), []byte("u2"))
			assert.Assert(t, err == nil && added == 2)
			added, err = s.SAdd([]byte("users"), []byte("u1"), []byte("u3"))
			assert.Assert(t, err == nil && added == 1)
			return nil
		})

		view(t, db, func(s *TxStructure) (err error) {
			members, err := s.SMembers([]byte("users"))
			assert.NilError(t, err)
			assert.DeepEqual(t, strs(members), []string{"u1", "u2", "u3"})

			n, err := s.SCard([]byte("users"))
			assert.Assert(t, err == nil && n == 3)
			ok, err := s.SIsMember([]byte("users"), []byte("u2"))
			assert.Assert(t, err == nil && ok)
			ok, err = s.SIsMember([]byte("users"), []byte("u9"))
			assert.Assert(t, err == nil && !ok)
			ok, err = s.SIsMember([]byte("nobody"), []byte("u1"))
			assert.Assert(t, err == nil && !ok)
			n, err = s.SCard([]byte("nobody"))
			assert.Assert(t, err == nil && n == 0)
			return nil
		})
	})
}

func TestZSet(t *testing.T) {
	withStructure(t, func(t *testing.T, db kv.KVDB) {
		update(t, db, func(s *TxStructure) (err error) {
			added, err := s.ZAdd([]byte("z"),
				ZMember{Member: []byte("c"), Score: 3},
				ZMember{Member: []byte("a"), Score: -1.5},
				ZMember{Member: []byte("b"), Score: 3},
			)
			assert.Assert(t, err == nil && added == 3)

			// moving a member does not leave its old score behind
			added, err = s.ZAdd([]byte("z"), ZMember{Member: []byte("a"), Score: 10})
			assert.Assert(t, err == nil && added == 0)
			return nil
		})

		view(t, db, func(s *TxStructure) (err error) {
			members, err := s.ZRange([]byte("z"), 0, 2147483647)
			assert.NilError(t, err)
			assert.DeepEqual(t, members, []ZMember{
				{Member: []byte("b"), Score: 3},
				{Member: []byte("c"), Score: 3},
				{Member: []byte("a"), Score: 10},
			})

			members, err = s.ZRange([]byte("z"), 1, 1)
			assert.Assert(t, err == nil && len(members) == 1 && string(members[0].Member) == "c")
			members, err = s.ZRange([]byte("z"), -1, -1)
			assert.Assert(t, err == nil && len(members) == 1 && string(members[0].Member) == "a")

			n, err := s.ZCard([]byte("z"))
			assert.Assert(t, err == nil && n == 3)
			score, found, err := s.ZScore([]byte("z"), []byte("a"))
			assert.Assert(t, err == nil && found && score == 10)
			return nil
		})
	})
}

func TestKeyspace(t *testing.T) {
	withStructure(t, func(t *testing.T, db kv.KVDB) {
		update(t, db, func(s *TxStructure) (err error) {
			assert.NilError(t, s.Set([]byte("user:1"), []byte("a")))
			assert.NilError(t, s.Set([]byte("user:2"), []byte("b")))
			assert.NilError(t, s.Set([]byte("admin:1"), []byte("c")))
			_, err = s.HSet([]byte("user:3"), []byte("f"), []byte("v"))
			assert.NilError(t, err)
			_, err = s.ZAdd([]byte("zz"), ZMember{Member: []byte("m"), Score: 1})
			return
		})

		// other databases are separate namespaces
		err := kv.RunInNewUpdateTxn(db, func(txn kv.Txn) error {
			return New(txn, DBPrefix(1)).Set([]byte("user:9"), []byte("x"))
		})
		assert.NilError(t, err)

		view(t, db, func(s *TxStructure) (err error) {
			keys, err := s.Keys("*")
			assert.NilError(t, err)
			assert.DeepEqual(t, strs(keys), []string{"admin:1", "user:1", "user:2", "user:3", "zz"})

			keys, err = s.Keys("user:*")
			assert.NilError(t, err)
			assert.DeepEqual(t, strs(keys), []string{"user:1", "user:2", "user:3"})

			keys, err = s.Keys("*:1")
			assert.NilError(t, err)
			assert.DeepEqual(t, strs(keys), []string{"admin:1", "user:1"})

			n, err := s.DBSize()
			assert.Assert(t, err == nil && n == 5)
			n, err = s.Exists([]byte("user:1"), []byte("user:9"), []byte("user:1"))
			assert.Assert(t, err == nil && n == 2)
			return nil
		})

		update(t, db, func(s *TxStructure) (err error) {
			n, err := s.Del([]byte("user:3"), []byte("zz"), []byte("missing"))
			assert.Assert(t, err == nil && n == 2)
			return nil
		})

		view(t, db, func(s *TxStructure) (err error) {
			n, err := s.DBSize()
			assert.Assert(t, err == nil && n == 3)
			pairs, err := s.HGetAll([]byte("user:3"))
			assert.Assert(t, err == nil && len(pairs) == 0)
			return nil
		})

		// re-creating a deleted key starts empty
		update(t, db, func(s *TxStructure) (err error) {
			added, err := s.ZAdd([]byte("zz"), ZMember{Member: []byte("n"), Score: 2})
			assert.Assert(t, err == nil && added == 1)
			members, err := s.ZRange([]byte("zz"), 0, -1)
			assert.Assert(t, err == nil && len(members) == 1 && string(members[0].Member) == "n")
			return nil
		})

		err = kv.RunInNewTxn(db, func(txn kv.Txn) error {
			n, err := New(txn, DBPrefix(1)).DBSize()
			assert.Assert(t, err == nil && n == 1)
			return err
		})
		assert.NilError(t, err)
	})
}
