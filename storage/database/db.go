package database

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core"
	inmemdb "github.com/chamadaweb/chamada/storage/database/inmem"
	"github.com/chamadaweb/chamada/storage/database/mongodb"
	"github.com/chamadaweb/chamada/storage/database/postgres"
)

// DB is a core.Store that connects to the configured backend on first use.
// Concurrent first callers share one connection; a failed connection is retried by the next call.
type DB struct {
	conf   *core.Config
	logger core.Logger

	mu    sync.Mutex
	store core.Store
}

var _ core.Store = (*DB)(nil) // interface compliance check

// Open returns a DB without connecting.
func Open(conf *core.Config, logger core.Logger) *DB {
	return &DB{conf: conf, logger: logger}
}

// OpenWith returns a DB already connected to store.
func OpenWith(conf *core.Config, logger core.Logger, store core.Store) *DB {
	return &DB{conf: conf, logger: logger, store: store}
}

func (db *DB) Driver() string {
	return db.conf.Database.Driver
}

func (db *DB) connect(ctx context.Context) (core.Store, error) {
	dbConf := db.conf.Database
	switch dbConf.Driver {
	case core.DriverMongo:
		return mongodb.Open(ctx, dbConf.URL, dbConf.Name, dbConf.ConnectTimeout)
	case core.DriverPostgres:
		return postgres.Open(ctx, dbConf.DSN, dbConf.ConnectTimeout)
	case core.DriverMemory:
		return inmemdb.New(), nil
	default:
		return nil, errors.Errorf("unknown database driver %q", dbConf.Driver)
	}
}

func (db *DB) get(ctx context.Context) (core.Store, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.store != nil {
		return db.store, nil
	}
	store, err := db.connect(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if db.logger != nil {
		db.logger.Info("connected to " + db.conf.Database.Driver + " database")
	}
	db.store = store
	return store, nil
}

func (db *DB) InsertOne(ctx context.Context, coll string, doc interface{}) error {
	store, err := db.get(ctx)
	if err != nil {
		return err
	}
	return store.InsertOne(ctx, coll, doc)
}

func (db *DB) InsertMany(ctx context.Context, coll string, docs []interface{}) error {
	store, err := db.get(ctx)
	if err != nil {
		return err
	}
	return store.InsertMany(ctx, coll, docs)
}

func (db *DB) FindOne(ctx context.Context, coll string, filter core.Filter, out interface{}) error {
	store, err := db.get(ctx)
	if err != nil {
		return err
	}
	return store.FindOne(ctx, coll, filter, out)
}

func (db *DB) Find(ctx context.Context, coll string, filter core.Filter, opts *core.FindOptions, out interface{}) error {
	store, err := db.get(ctx)
	if err != nil {
		return err
	}
	return store.Find(ctx, coll, filter, opts, out)
}

func (db *DB) UpdateOne(ctx context.Context, coll string, filter core.Filter, changes core.Changes) (int64, error) {
	store, err := db.get(ctx)
	if err != nil {
		return 0, err
	}
	return store.UpdateOne(ctx, coll, filter, changes)
}

func (db *DB) DeleteOne(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	store, err := db.get(ctx)
	if err != nil {
		return 0, err
	}
	return store.DeleteOne(ctx, coll, filter)
}

func (db *DB) DeleteMany(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	store, err := db.get(ctx)
	if err != nil {
		return 0, err
	}
	return store.DeleteMany(ctx, coll, filter)
}

func (db *DB) CountDocuments(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	store, err := db.get(ctx)
	if err != nil {
		return 0, err
	}
	return store.CountDocuments(ctx, coll, filter)
}

// Ping connects if needed and checks the backend is reachable.
func (db *DB) Ping(ctx context.Context) error {
	store, err := db.get(ctx)
	if err != nil {
		return err
	}
	return store.Ping(ctx)
}

// Close disposes of the connection, if any. The next call connects again.
func (db *DB) Close(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.store == nil {
		return nil
	}
	err := db.store.Close(ctx)
	db.store = nil
	return errors.Wrap(err, "closing database")
}
