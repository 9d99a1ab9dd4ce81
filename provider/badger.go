package provider

import (
	"github.com/dgraph-io/badger"
	"github.com/zhiqiangxu/kvtable/kv"
)

// Badger is kv.KVDB provider for badger
type Badger struct {
	db *badger.DB
}

// NewBadger is ctor for Badger provider
func NewBadger() kv.KVDB {
	return &Badger{}
}

// Open db
func (b *Badger) Open(option kv.Option) (err error) {
	db, err := badger.Open(badger.DefaultOptions(option.Dir))
	if err != nil {
		return
	}

	b.db = db
	return
}

// Close db
func (b *Badger) Close() (err error) {
	if b.db == nil {
		return
	}
	err = b.db.Close()
	return
}

// NewTransaction creates a transaction object
func (b *Badger) NewTransaction(update bool) kv.Txn {
	return (*BadgerTxn)(b.db.NewTransaction(update))
}

// Set kv
func (b *Badger) Set(k, v []byte) error {
	return kv.RunInNewUpdateTxn(b, func(txn kv.Txn) error {
		return txn.Set(k, v)
	})
}

// Exists checks whether k exists
func (b *Badger) Exists(k []byte) (exists bool, err error) {
	txn := b.NewTransaction(false)
	defer txn.Discard()

	exists, err = txn.Exists(k)
	return
}

// Get v by k
func (b *Badger) Get(k []byte) (v []byte, err error) {
	txn := b.NewTransaction(false)
	defer txn.Discard()

	v, err = txn.Get(k)
	return
}

// Delete k
func (b *Badger) Delete(k []byte) error {
	return kv.RunInNewUpdateTxn(b, func(txn kv.Txn) error {
		return txn.Delete(k)
	})
}

// Scan over keys with prefix
func (b *Badger) Scan(prefix []byte, fn func(key, value []byte) bool) error {
	return kv.RunInNewTxn(b, func(txn kv.Txn) error {
		return txn.Scan(prefix, fn)
	})
}

// BadgerTxn is kv.Txn wrapper for badger.Txn
type BadgerTxn badger.Txn

// Set for implement kv.Txn
func (txn *BadgerTxn) Set(k, v []byte) (err error) {
	err = (*badger.Txn)(txn).Set(k, v)
	err = badgerErr(err)
	return
}

// Exists checks whether k exists
func (txn *BadgerTxn) Exists(k []byte) (exists bool, err error) {
	_, err = (*badger.Txn)(txn).Get(k)
	if err == badger.ErrKeyNotFound {
		err = nil
		return
	}
	if err != nil {
		return
	}

	exists = true
	return
}

// Get for implement kv.Txn
func (txn *BadgerTxn) Get(k []byte) (v []byte, err error) {
	item, err := (*badger.Txn)(txn).Get(k)
	if err != nil {
		err = badgerErr(err)
		return
	}

	v, err = item.ValueCopy(nil)
	return
}

// Delete for implement kv.Txn
func (txn *BadgerTxn) Delete(k []byte) (err error) {
	err = (*badger.Txn)(txn).Delete(k)
	err = badgerErr(err)
	return
}

// Commit for implement kv.Txn
func (txn *BadgerTxn) Commit() error {
	return badgerErr((*badger.Txn)(txn).Commit())
}

// Discard for implement kv.Txn
func (txn *BadgerTxn) Discard() {
	(*badger.Txn)(txn).Discard()
}

// Scan over keys with prefix
func (txn *BadgerTxn) Scan(prefix []byte, fn func(key, value []byte) bool) (err error) {
	iterOpts := badger.DefaultIteratorOptions
	iterOpts.Prefix = prefix

	iter := (*badger.Txn)(txn).NewIterator(iterOpts)
	defer iter.Close()

	goon := true
	for iter.Rewind(); goon && iter.Valid(); iter.Next() {
		item := iter.Item()
		err = item.Value(func(val []byte) error {
			goon = fn(item.Key(), val)
			return nil
		})
		if err != nil {
			return
		}
	}
	return
}

func badgerErr(err error) error {
	switch err {
	case badger.ErrKeyNotFound:
		return kv.ErrKeyNotFound
	case badger.ErrTxnTooBig:
		return kv.ErrTxnTooBig
	case badger.ErrReadOnlyTxn:
		return kv.ErrReadOnlyTxn
	}
	return err
}
