package provider

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/zhiqiangxu/kvtable/kv"
)

// LevelDB is kv.KVDB provider for LevelDB
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB is ctor for LevelDB provider
func NewLevelDB() kv.KVDB {
	return &LevelDB{}
}

// Open db
func (l *LevelDB) Open(option kv.Option) (err error) {
	db, err := leveldb.OpenFile(option.Dir, nil)
	if err != nil {
		return
	}

	l.db = db
	return
}

// Close db
func (l *LevelDB) Close() (err error) {
	if l.db == nil {
		return
	}
	err = l.db.Close()
	return
}

// NewTransaction creates a transaction object.
// Update transactions are exclusive, read-only ones read from a snapshot.
func (l *LevelDB) NewTransaction(update bool) kv.Txn {
	if update {
		tr, err := l.db.OpenTransaction()
		return &levelDBTxn{tr: tr, err: err}
	}
	snap, err := l.db.GetSnapshot()
	return &levelDBSnapshot{snap: snap, err: err}
}

// Set kv
func (l *LevelDB) Set(k, v []byte) error {
	return l.db.Put(k, v, nil)
}

// Exists checks whether k exists
func (l *LevelDB) Exists(k []byte) (bool, error) {
	return l.db.Has(k, nil)
}

// Get v by k
func (l *LevelDB) Get(k []byte) (v []byte, err error) {
	v, err = l.db.Get(k, nil)
	v, err = leveldbValue(v, err)
	return
}

// Delete k
func (l *LevelDB) Delete(k []byte) error {
	return l.db.Delete(k, nil)
}

// Scan over keys with prefix
func (l *LevelDB) Scan(prefix []byte, fn func(key, value []byte) bool) error {
	return leveldbScan(l.db.NewIterator(prefixRange(prefix), nil), fn)
}

type levelDBTxn struct {
	tr  *leveldb.Transaction
	err error
}

func (txn *levelDBTxn) Set(k, v []byte) error {
	if txn.err != nil {
		return txn.err
	}
	return txn.tr.Put(k, v, nil)
}

func (txn *levelDBTxn) Exists(k []byte) (bool, error) {
	if txn.err != nil {
		return false, txn.err
	}
	return txn.tr.Has(k, nil)
}

func (txn *levelDBTxn) Get(k []byte) (v []byte, err error) {
	if txn.err != nil {
		err = txn.err
		return
	}
	v, err = txn.tr.Get(k, nil)
	v, err = leveldbValue(v, err)
	return
}

func (txn *levelDBTxn) Delete(k []byte) error {
	if txn.err != nil {
		return txn.err
	}
	return txn.tr.Delete(k, nil)
}

func (txn *levelDBTxn) Scan(prefix []byte, fn func(key, value []byte) bool) error {
	if txn.err != nil {
		return txn.err
	}
	return leveldbScan(txn.tr.NewIterator(prefixRange(prefix), nil), fn)
}

func (txn *levelDBTxn) Commit() error {
	if txn.err != nil {
		return txn.err
	}
	return txn.tr.Commit()
}

func (txn *levelDBTxn) Discard() {
	if txn.err == nil {
		txn.tr.Discard()
	}
}

type levelDBSnapshot struct {
	snap *leveldb.Snapshot
	err  error
}

func (s *levelDBSnapshot) Set(k, v []byte) error {
	return kv.ErrReadOnlyTxn
}

func (s *levelDBSnapshot) Exists(k []byte) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.snap.Has(k, nil)
}

func (s *levelDBSnapshot) Get(k []byte) (v []byte, err error) {
	if s.err != nil {
		err = s.err
		return
	}
	v, err = s.snap.Get(k, nil)
	v, err = leveldbValue(v, err)
	return
}

func (s *levelDBSnapshot) Delete(k []byte) error {
	return kv.ErrReadOnlyTxn
}

func (s *levelDBSnapshot) Scan(prefix []byte, fn func(key, value []byte) bool) error {
	if s.err != nil {
		return s.err
	}
	return leveldbScan(s.snap.NewIterator(prefixRange(prefix), nil), fn)
}

func (s *levelDBSnapshot) Commit() error {
	return s.err
}

func (s *levelDBSnapshot) Discard() {
	if s.err == nil {
		s.snap.Release()
	}
}

func prefixRange(prefix []byte) *util.Range {
	if len(prefix) == 0 {
		return nil
	}
	return &util.Range{Start: prefix, Limit: kv.Key(prefix).PrefixNext()}
}

// leveldbValue keeps behaviour the same as badger
func leveldbValue(v []byte, err error) ([]byte, error) {
	if err == leveldb.ErrNotFound {
		return nil, kv.ErrKeyNotFound
	}
	if len(v) == 0 {
		v = nil
	}
	return v, err
}

func leveldbScan(iter iterator.Iterator, fn func(key, value []byte) bool) error {
	defer iter.Release()

	for iter.Next() {
		if !fn(iter.Key(), iter.Value()) {
			break
		}
	}
	return iter.Error()
}
