// Package inmemdb implements core.Store in memory. Documents are kept bson-encoded, in insertion order.
package inmemdb

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/chamadaweb/chamada/core"
)

type Store struct {
	mutex sync.RWMutex
	colls map[string][]bson.Raw
}

var _ core.Store = (*Store)(nil) // interface compliance check

func New() *Store {
	return &Store{colls: make(map[string][]bson.Raw)}
}

// Reset drops every collection.
func (s *Store) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.colls = make(map[string][]bson.Raw)
}

func matches(doc bson.Raw, filter core.Filter) (bool, error) {
	for key, want := range filter {
		typ, data, err := bson.MarshalValue(want)
		if err != nil {
			return false, errors.Wrapf(err, "encoding filter on %q", key)
		}
		got, err := doc.LookupErr(key)
		if err != nil {
			return false, nil
		}
		if got.Type != typ || !bytes.Equal(got.Value, data) {
			return false, nil
		}
	}
	return true, nil
}

// indexes returns the positions of the documents matching filter.
func (s *Store) indexes(coll string, filter core.Filter) ([]int, error) {
	var idxs []int
	for i, doc := range s.colls[coll] {
		ok, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			idxs = append(idxs, i)
		}
	}
	return idxs, nil
}

func compare(a, b bson.RawValue) int {
	if a.Type == bsontype.DateTime && b.Type == bsontype.DateTime {
		at, bt := a.Time(), b.Time()
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		}
		return 0
	}
	as, _ := a.StringValueOK()
	bs, _ := b.StringValueOK()
	return strings.Compare(as, bs)
}

func sortDocs(docs []bson.Raw, orderings []core.Ordering) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, ord := range orderings {
			c := compare(docs[i].Lookup(ord.Field), docs[j].Lookup(ord.Field))
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func (s *Store) InsertOne(ctx context.Context, coll string, doc interface{}) error {
	return s.InsertMany(ctx, coll, []interface{}{doc})
}

func (s *Store) InsertMany(_ context.Context, coll string, docs []interface{}) error {
	raws := make([]bson.Raw, 0, len(docs))
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return errors.Wrap(err, "encoding document")
		}
		raws = append(raws, raw)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.colls[coll] = append(s.colls[coll], raws...)
	return nil
}

func (s *Store) FindOne(_ context.Context, coll string, filter core.Filter, out interface{}) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	idxs, err := s.indexes(coll, filter)
	if err != nil {
		return err
	}
	if len(idxs) == 0 {
		return core.ErrNoDocuments
	}
	return errors.Wrap(bson.Unmarshal(s.colls[coll][idxs[0]], out), "decoding document")
}

func (s *Store) Find(_ context.Context, coll string, filter core.Filter, opts *core.FindOptions, out interface{}) error {
	s.mutex.RLock()
	idxs, err := s.indexes(coll, filter)
	docs := make([]bson.Raw, 0, len(idxs))
	for _, i := range idxs {
		docs = append(docs, s.colls[coll][i])
	}
	s.mutex.RUnlock()
	if err != nil {
		return err
	}

	if opts != nil {
		if len(opts.Sort) > 0 {
			sortDocs(docs, opts.Sort)
		}
		if opts.Limit > 0 && int64(len(docs)) > opts.Limit {
			docs = docs[:opts.Limit]
		}
	}
	return core.DecodeAll(out, len(docs), func(i int, elem interface{}) error {
		return errors.Wrap(bson.Unmarshal(docs[i], elem), "decoding document")
	})
}

func (s *Store) UpdateOne(_ context.Context, coll string, filter core.Filter, changes core.Changes) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	idxs, err := s.indexes(coll, filter)
	if err != nil || len(idxs) == 0 {
		return 0, err
	}
	i := idxs[0]

	var doc bson.D
	if err = bson.Unmarshal(s.colls[coll][i], &doc); err != nil {
		return 0, errors.Wrap(err, "decoding document")
	}
	for key, val := range changes {
		set := false
		for j := range doc {
			if doc[j].Key == key {
				doc[j].Value = val
				set = true
				break
			}
		}
		if !set {
			doc = append(doc, bson.E{Key: key, Value: val})
		}
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return 0, errors.Wrap(err, "encoding document")
	}
	s.colls[coll][i] = raw
	return 1, nil
}

func (s *Store) delete(coll string, filter core.Filter, max int) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	idxs, err := s.indexes(coll, filter)
	if err != nil {
		return 0, err
	}
	if max > 0 && len(idxs) > max {
		idxs = idxs[:max]
	}
	if len(idxs) == 0 {
		return 0, nil
	}

	docs := s.colls[coll]
	kept := make([]bson.Raw, 0, len(docs)-len(idxs))
	next := 0
	for i, doc := range docs {
		if next < len(idxs) && idxs[next] == i {
			next++
			continue
		}
		kept = append(kept, doc)
	}
	s.colls[coll] = kept
	return int64(len(idxs)), nil
}

func (s *Store) DeleteOne(_ context.Context, coll string, filter core.Filter) (int64, error) {
	return s.delete(coll, filter, 1)
}

func (s *Store) DeleteMany(_ context.Context, coll string, filter core.Filter) (int64, error) {
	return s.delete(coll, filter, 0)
}

func (s *Store) CountDocuments(_ context.Context, coll string, filter core.Filter) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	idxs, err := s.indexes(coll, filter)
	return int64(len(idxs)), err
}

func (s *Store) Ping(context.Context) error { return nil }

// Close keeps the data, so a Store can be closed and used again.
func (s *Store) Close(context.Context) error { return nil }
