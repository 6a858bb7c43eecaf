// Package postgres implements core.Store on PostgreSQL: every collection is a table of JSONB documents.
// Documents are stored as canonical extended JSON so that filters, which are encoded the same way,
// can be matched with JSONB containment.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/chamadaweb/chamada/core"
)

type Store struct {
	db *sqlx.DB

	mu     sync.Mutex
	tables map[string]bool
}

var _ core.Store = (*Store)(nil) // interface compliance check

// Open connects to the database at dsn and checks it is reachable within timeout.
func Open(ctx context.Context, dsn string, timeout time.Duration) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}
	return &Store{db: db, tables: make(map[string]bool)}, nil
}

// table returns the quoted name of the collection's table, creating the table on first use.
func (s *Store) table(ctx context.Context, coll string) (string, error) {
	name := pq.QuoteIdentifier(coll)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[coll] {
		return name, nil
	}
	q := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (pk BIGSERIAL PRIMARY KEY, doc JSONB NOT NULL)", name)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return "", errors.Wrapf(err, "creating table %s", coll)
	}
	s.tables[coll] = true
	return name, nil
}

func encode(doc interface{}) (string, error) {
	data, err := bson.MarshalExtJSON(doc, true, false)
	if err != nil {
		return "", errors.Wrap(err, "encoding document")
	}
	return string(data), nil
}

func encodeMap(m map[string]interface{}) (string, error) {
	if m == nil {
		m = map[string]interface{}{}
	}
	return encode(bson.M(m))
}

func orderBy(sort []core.Ordering) string {
	if len(sort) == 0 {
		return "ORDER BY pk"
	}
	exprs := make([]string, 0, 2*len(sort)+1)
	for _, ord := range sort {
		direction := "DESC"
		if ord.Ascending {
			direction = "ASC"
		}
		field := pq.QuoteLiteral(ord.Field)
		// dates sort on their epoch milliseconds, everything else on its text
		exprs = append(exprs,
			fmt.Sprintf("(doc->%s->'$date'->>'$numberLong')::numeric %s", field, direction),
			fmt.Sprintf("doc->>%s %s", field, direction),
		)
	}
	exprs = append(exprs, "pk")
	return "ORDER BY " + strings.Join(exprs, ", ")
}

func (s *Store) InsertOne(ctx context.Context, coll string, doc interface{}) error {
	return s.InsertMany(ctx, coll, []interface{}{doc})
}

// InsertMany inserts all documents in a single transaction.
func (s *Store) InsertMany(ctx context.Context, coll string, docs []interface{}) (err error) {
	if len(docs) == 0 {
		return nil
	}
	table, err := s.table(ctx, coll)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PreparexContext(ctx, fmt.Sprintf("INSERT INTO %s (doc) VALUES ($1)", table))
	if err != nil {
		return errors.Wrapf(err, "preparing insert into %s", coll)
	}
	defer func() { _ = stmt.Close() }()

	for _, doc := range docs {
		var data string
		if data, err = encode(doc); err != nil {
			return err
		}
		if _, err = stmt.ExecContext(ctx, data); err != nil {
			return errors.Wrapf(err, "inserting into %s", coll)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}

func (s *Store) FindOne(ctx context.Context, coll string, filter core.Filter, out interface{}) error {
	table, err := s.table(ctx, coll)
	if err != nil {
		return err
	}
	cond, err := encodeMap(filter)
	if err != nil {
		return err
	}

	var doc string
	q := fmt.Sprintf("SELECT doc FROM %s WHERE doc @> $1::jsonb ORDER BY pk LIMIT 1", table)
	if err = s.db.GetContext(ctx, &doc, q, cond); err != nil {
		if err == sql.ErrNoRows {
			return core.ErrNoDocuments
		}
		return errors.Wrapf(err, "finding in %s", coll)
	}
	return errors.Wrap(bson.UnmarshalExtJSON([]byte(doc), true, out), "decoding document")
}

func (s *Store) Find(ctx context.Context, coll string, filter core.Filter, opts *core.FindOptions, out interface{}) error {
	table, err := s.table(ctx, coll)
	if err != nil {
		return err
	}
	cond, err := encodeMap(filter)
	if err != nil {
		return err
	}
	if opts == nil {
		opts = &core.FindOptions{}
	}

	q := fmt.Sprintf("SELECT doc FROM %s WHERE doc @> $1::jsonb %s", table, orderBy(opts.Sort))
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	var docs []string
	if err = s.db.SelectContext(ctx, &docs, q, cond); err != nil {
		return errors.Wrapf(err, "finding in %s", coll)
	}
	return core.DecodeAll(out, len(docs), func(i int, elem interface{}) error {
		return errors.Wrap(bson.UnmarshalExtJSON([]byte(docs[i]), true, elem), "decoding document")
	})
}

func (s *Store) UpdateOne(ctx context.Context, coll string, filter core.Filter, changes core.Changes) (int64, error) {
	table, err := s.table(ctx, coll)
	if err != nil {
		return 0, err
	}
	cond, err := encodeMap(filter)
	if err != nil {
		return 0, err
	}
	set, err := encodeMap(changes)
	if err != nil {
		return 0, err
	}

	q := fmt.Sprintf(
		"UPDATE %[1]s SET doc = doc || $1::jsonb WHERE pk = (SELECT pk FROM %[1]s WHERE doc @> $2::jsonb ORDER BY pk LIMIT 1)",
		table,
	)
	res, err := s.db.ExecContext(ctx, q, set, cond)
	if err != nil {
		return 0, errors.Wrapf(err, "updating %s", coll)
	}
	return res.RowsAffected()
}

func (s *Store) DeleteOne(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	table, err := s.table(ctx, coll)
	if err != nil {
		return 0, err
	}
	cond, err := encodeMap(filter)
	if err != nil {
		return 0, err
	}

	q := fmt.Sprintf(
		"DELETE FROM %[1]s WHERE pk = (SELECT pk FROM %[1]s WHERE doc @> $1::jsonb ORDER BY pk LIMIT 1)",
		table,
	)
	res, err := s.db.ExecContext(ctx, q, cond)
	if err != nil {
		return 0, errors.Wrapf(err, "deleting from %s", coll)
	}
	return res.RowsAffected()
}

func (s *Store) DeleteMany(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	table, err := s.table(ctx, coll)
	if err != nil {
		return 0, err
	}
	cond, err := encodeMap(filter)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE doc @> $1::jsonb", table), cond)
	if err != nil {
		return 0, errors.Wrapf(err, "deleting from %s", coll)
	}
	return res.RowsAffected()
}

func (s *Store) CountDocuments(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	table, err := s.table(ctx, coll)
	if err != nil {
		return 0, err
	}
	cond, err := encodeMap(filter)
	if err != nil {
		return 0, err
	}

	var n int64
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE doc @> $1::jsonb", table)
	if err = s.db.GetContext(ctx, &n, q, cond); err != nil {
		return 0, errors.Wrapf(err, "counting %s", coll)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}
