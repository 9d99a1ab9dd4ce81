package kv

import (
	"github.com/zhiqiangxu/kvtable/kv/numeric"
)

// IncInt64 increases the value for key k by step.
func IncInt64(op Operation, k Key, step int64) (n int64, err error) {
	v, err := op.Get(k)
	if err == ErrKeyNotFound {
		err = op.Set(k, numeric.Encode2Human(step))
		if err != nil {
			return
		}
		n = step
		return
	}
	if err != nil {
		return
	}

	n, err = numeric.DecodeFromHuman(v)
	if err != nil {
		return
	}

	n += step
	err = op.Set(k, numeric.Encode2Human(n))
	return
}

// RunInNewUpdateTxn for run f in a new update transaction
func RunInNewUpdateTxn(db KVDB, f func(Txn) error) (err error) {
	txn := db.NewTransaction(true)
	defer txn.Discard()

	err = f(txn)
	if err != nil {
		return
	}

	err = txn.Commit()
	return
}

// RunInNewTxn for run f in a new read-only transaction
func RunInNewTxn(db KVDB, f func(Txn) error) (err error) {
	txn := db.NewTransaction(false)
	defer txn.Discard()

	err = f(txn)
	return
}
