// Package dummydb provides a core.Store whose operations can be made to fail, for tests.
package dummydb

import (
	"context"
	"sync"

	"github.com/chamadaweb/chamada/core"
)

// Operation names accepted by FailOn.
const (
	OpInsertOne      = "InsertOne"
	OpInsertMany     = "InsertMany"
	OpFindOne        = "FindOne"
	OpFind           = "Find"
	OpUpdateOne      = "UpdateOne"
	OpDeleteOne      = "DeleteOne"
	OpDeleteMany     = "DeleteMany"
	OpCountDocuments = "CountDocuments"
	OpPing           = "Ping"
)

// DB forwards every call to a wrapped core.Store, unless the operation was set to fail.
// It also counts calls per operation and collection.
type DB struct {
	core.Store

	mu    sync.Mutex
	fails map[string]error
	calls map[string]int
}

var _ core.Store = (*DB)(nil) // interface compliance check

func Open(store core.Store) *DB {
	return &DB{
		Store: store,
		fails: make(map[string]error),
		calls: make(map[string]int),
	}
}

// FailOn makes op on coll return err. An empty coll matches every collection.
func (db *DB) FailOn(op, coll string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fails[op+":"+coll] = err
}

// Heal clears every failure set with FailOn.
func (db *DB) Heal() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fails = make(map[string]error)
}

// Calls returns the number of calls of op on coll.
func (db *DB) Calls(op, coll string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.calls[op+":"+coll]
}

func (db *DB) check(op, coll string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.calls[op+":"+coll]++
	if err, ok := db.fails[op+":"+coll]; ok {
		return err
	}
	return db.fails[op+":"]
}

func (db *DB) InsertOne(ctx context.Context, coll string, doc interface{}) error {
	if err := db.check(OpInsertOne, coll); err != nil {
		return err
	}
	return db.Store.InsertOne(ctx, coll, doc)
}

func (db *DB) InsertMany(ctx context.Context, coll string, docs []interface{}) error {
	if err := db.check(OpInsertMany, coll); err != nil {
		return err
	}
	return db.Store.InsertMany(ctx, coll, docs)
}

func (db *DB) FindOne(ctx context.Context, coll string, filter core.Filter, out interface{}) error {
	if err := db.check(OpFindOne, coll); err != nil {
		return err
	}
	return db.Store.FindOne(ctx, coll, filter, out)
}

func (db *DB) Find(ctx context.Context, coll string, filter core.Filter, opts *core.FindOptions, out interface{}) error {
	if err := db.check(OpFind, coll); err != nil {
		return err
	}
	return db.Store.Find(ctx, coll, filter, opts, out)
}

func (db *DB) UpdateOne(ctx context.Context, coll string, filter core.Filter, changes core.Changes) (int64, error) {
	if err := db.check(OpUpdateOne, coll); err != nil {
		return 0, err
	}
	return db.Store.UpdateOne(ctx, coll, filter, changes)
}

func (db *DB) DeleteOne(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	if err := db.check(OpDeleteOne, coll); err != nil {
		return 0, err
	}
	return db.Store.DeleteOne(ctx, coll, filter)
}

func (db *DB) DeleteMany(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	if err := db.check(OpDeleteMany, coll); err != nil {
		return 0, err
	}
	return db.Store.DeleteMany(ctx, coll, filter)
}

func (db *DB) CountDocuments(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	if err := db.check(OpCountDocuments, coll); err != nil {
		return 0, err
	}
	return db.Store.CountDocuments(ctx, coll, filter)
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.check(OpPing, ""); err != nil {
		return err
	}
	return db.Store.Ping(ctx)
}
