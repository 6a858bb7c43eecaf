package core

import (
	"context"
	"errors"
	"reflect"
)

// Collections
const (
	CollUsers      = "users"
	CollUnits      = "units"
	CollCourses    = "courses"
	CollClasses    = "classes"
	CollStudents   = "students"
	CollAttendance = "attendance"
	CollPresence   = "presence"
)

// ErrNoDocuments is returned by Store.FindOne when nothing matches the filter.
var ErrNoDocuments = errors.New("no documents in result")

type (
	// Filter matches documents whose top-level fields equal every given value.
	Filter map[string]interface{}

	// Changes holds the top-level fields to overwrite on a document.
	Changes map[string]interface{}

	FindOptions struct {
		Sort  []Ordering
		Limit int64
	}

	// Store is a document store: collections of bson-encoded documents addressed by name.
	Store interface {
		InsertOne(ctx context.Context, coll string, doc interface{}) error
		InsertMany(ctx context.Context, coll string, docs []interface{}) error
		// FindOne decodes the first matching document into out.
		FindOne(ctx context.Context, coll string, filter Filter, out interface{}) error
		// Find decodes all matching documents into out, which must be a pointer to a slice.
		Find(ctx context.Context, coll string, filter Filter, opts *FindOptions, out interface{}) error
		UpdateOne(ctx context.Context, coll string, filter Filter, changes Changes) (matched int64, err error)
		DeleteOne(ctx context.Context, coll string, filter Filter) (deleted int64, err error)
		DeleteMany(ctx context.Context, coll string, filter Filter) (deleted int64, err error)
		CountDocuments(ctx context.Context, coll string, filter Filter) (int64, error)
		Ping(ctx context.Context) error
		Close(ctx context.Context) error
	}
)

type Ordering struct {
	Field     string
	Ascending bool
}

func (ord Ordering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// DecodeAll replaces the content of the slice pointed to by out with n decoded documents.
// decode is called with the index of the document and a pointer to a new slice element.
// out is set to an empty, non-nil slice when n is 0.
func DecodeAll(out interface{}, n int, decode func(i int, elem interface{}) error) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.New("out must be a pointer to a slice")
	}
	slice := rv.Elem()
	result := reflect.MakeSlice(slice.Type(), 0, n)
	for i := 0; i < n; i++ {
		elem := reflect.New(slice.Type().Elem())
		if err := decode(i, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	slice.Set(result)
	return nil
}
