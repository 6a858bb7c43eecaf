// Package docrepos implements the domain repositories on top of a core.Store.
// Records are addressed by their "id" field, never by the store's own keys.
package docrepos

import (
	"context"

	"github.com/chamadaweb/chamada/core"
)

func byID(id string) core.Filter {
	return core.Filter{"id": id}
}

// getOne decodes the record matching filter into out, or returns notFound.
func getOne(ctx context.Context, store core.Store, coll string, filter core.Filter, out interface{}, notFound error) error {
	if len(filter) == 0 {
		return notFound
	}
	err := store.FindOne(ctx, coll, filter, out)
	if err == core.ErrNoDocuments {
		return notFound
	}
	return err
}

func updateByID(ctx context.Context, store core.Store, coll, id string, changes core.Changes, notFound error) error {
	matched, err := store.UpdateOne(ctx, coll, byID(id), changes)
	if err != nil {
		return err
	}
	if matched == 0 {
		return notFound
	}
	return nil
}

func deleteByID(ctx context.Context, store core.Store, coll, id string, notFound error) error {
	deleted, err := store.DeleteOne(ctx, coll, byID(id))
	if err != nil {
		return err
	}
	if deleted == 0 {
		return notFound
	}
	return nil
}
