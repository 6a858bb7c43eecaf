// Package mongodb implements core.Store on MongoDB.
package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/chamadaweb/chamada/core"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ core.Store = (*Store)(nil) // interface compliance check

// Open connects to the server at uri and checks it is reachable within timeout.
func Open(ctx context.Context, uri, dbName string, timeout time.Duration) (*Store, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URL is not set")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging mongo")
	}
	return &Store{client: client, db: client.Database(dbName)}, nil
}

func toM(filter map[string]interface{}) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return bson.M(filter)
}

func (s *Store) InsertOne(ctx context.Context, coll string, doc interface{}) error {
	_, err := s.db.Collection(coll).InsertOne(ctx, doc)
	return errors.Wrapf(err, "inserting into %s", coll)
}

func (s *Store) InsertMany(ctx context.Context, coll string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := s.db.Collection(coll).InsertMany(ctx, docs)
	return errors.Wrapf(err, "inserting into %s", coll)
}

func (s *Store) FindOne(ctx context.Context, coll string, filter core.Filter, out interface{}) error {
	err := s.db.Collection(coll).FindOne(ctx, toM(filter)).Decode(out)
	if err == mongo.ErrNoDocuments {
		return core.ErrNoDocuments
	}
	return errors.Wrapf(err, "finding in %s", coll)
}

func (s *Store) Find(ctx context.Context, coll string, filter core.Filter, opts *core.FindOptions, out interface{}) error {
	findOpts := options.Find()
	if opts != nil {
		if len(opts.Sort) > 0 {
			sort := make(bson.D, 0, len(opts.Sort))
			for _, ord := range opts.Sort {
				direction := -1
				if ord.Ascending {
					direction = 1
				}
				sort = append(sort, bson.E{Key: ord.Field, Value: direction})
			}
			findOpts.SetSort(sort)
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
	}

	cur, err := s.db.Collection(coll).Find(ctx, toM(filter), findOpts)
	if err != nil {
		return errors.Wrapf(err, "finding in %s", coll)
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []bson.Raw
	for cur.Next(ctx) {
		docs = append(docs, append(bson.Raw(nil), cur.Current...))
	}
	if err = cur.Err(); err != nil {
		return errors.Wrapf(err, "iterating over %s", coll)
	}
	return core.DecodeAll(out, len(docs), func(i int, elem interface{}) error {
		return bson.Unmarshal(docs[i], elem)
	})
}

func (s *Store) UpdateOne(ctx context.Context, coll string, filter core.Filter, changes core.Changes) (int64, error) {
	res, err := s.db.Collection(coll).UpdateOne(ctx, toM(filter), bson.M{"$set": toM(changes)})
	if err != nil {
		return 0, errors.Wrapf(err, "updating %s", coll)
	}
	return res.MatchedCount, nil
}

func (s *Store) DeleteOne(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	res, err := s.db.Collection(coll).DeleteOne(ctx, toM(filter))
	if err != nil {
		return 0, errors.Wrapf(err, "deleting from %s", coll)
	}
	return res.DeletedCount, nil
}

func (s *Store) DeleteMany(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	res, err := s.db.Collection(coll).DeleteMany(ctx, toM(filter))
	if err != nil {
		return 0, errors.Wrapf(err, "deleting from %s", coll)
	}
	return res.DeletedCount, nil
}

func (s *Store) CountDocuments(ctx context.Context, coll string, filter core.Filter) (int64, error) {
	n, err := s.db.Collection(coll).CountDocuments(ctx, toM(filter))
	return n, errors.Wrapf(err, "counting %s", coll)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
