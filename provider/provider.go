// Package provider implements kv.KVDB over embedded databases.
package provider

import (
	"fmt"

	"github.com/zhiqiangxu/kvtable/kv"
)

const (
	// NameBadger for New
	NameBadger = "badger"
	// NameLevelDB for New
	NameLevelDB = "leveldb"
)

// New returns the provider registered as name
func New(name string) (db kv.KVDB, err error) {
	switch name {
	case NameBadger:
		db = NewBadger()
	case NameLevelDB:
		db = NewLevelDB()
	default:
		err = fmt.Errorf("unknown provider %q, must be %s or %s", name, NameBadger, NameLevelDB)
	}
	return
}
