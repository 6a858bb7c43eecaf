package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamadaweb/chamada/core"
)

type doc struct {
	ID        string    `bson:"id"`
	Group     string    `bson:"group"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
}

func seed(t *testing.T, s *Store) []doc {
	t.Helper()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	docs := []doc{
		{ID: "1", Group: "a", Name: "c", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "2", Group: "b", Name: "a", CreatedAt: base},
		{ID: "3", Group: "a", Name: "b", CreatedAt: base.Add(time.Hour)},
	}
	vals := make([]interface{}, len(docs))
	for i, d := range docs {
		vals[i] = d
	}
	require.NoError(t, s.InsertMany(context.Background(), "docs", vals))
	return docs
}

func TestStore_Find(t *testing.T) {
	s := New()
	docs := seed(t, s)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter core.Filter
		opts   *core.FindOptions
		want   []doc
	}{
		{name: "insertion order", filter: core.Filter{}, want: docs},
		{name: "filtered", filter: core.Filter{"group": "a"}, want: []doc{docs[0], docs[2]}},
		{name: "no match", filter: core.Filter{"group": "z"}, want: []doc{}},
		{name: "unknown field", filter: core.Filter{"nope": "a"}, want: []doc{}},
		{
			name: "newest first", filter: core.Filter{},
			opts: &core.FindOptions{Sort: []core.Ordering{{Field: "created_at"}}},
			want: []doc{docs[0], docs[2], docs[1]},
		},
		{
			name: "by name, limited", filter: core.Filter{},
			opts: &core.FindOptions{Sort: []core.Ordering{{Field: "name", Ascending: true}}, Limit: 2},
			want: []doc{docs[1], docs[2]},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []doc
			require.NoError(t, s.Find(ctx, "docs", tt.filter, tt.opts, &got))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("empty collection decodes to an empty slice", func(t *testing.T) {
		var got []doc
		require.NoError(t, s.Find(ctx, "other", core.Filter{}, nil, &got))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("out must be a slice pointer", func(t *testing.T) {
		var got doc
		assert.Error(t, s.Find(ctx, "docs", core.Filter{}, nil, &got))
	})
}

func TestStore_FindOne(t *testing.T) {
	s := New()
	docs := seed(t, s)
	ctx := context.Background()

	var got doc
	require.NoError(t, s.FindOne(ctx, "docs", core.Filter{"group": "a", "name": "b"}, &got))
	assert.Equal(t, docs[2], got)

	assert.Equal(t, core.ErrNoDocuments, s.FindOne(ctx, "docs", core.Filter{"id": "9"}, &got))
}

func TestStore_UpdateOne(t *testing.T) {
	s := New()
	docs := seed(t, s)
	ctx := context.Background()

	n, err := s.UpdateOne(ctx, "docs", core.Filter{"id": "2"}, core.Changes{"name": "z", "extra": true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var got doc
	require.NoError(t, s.FindOne(ctx, "docs", core.Filter{"id": "2"}, &got))
	want := docs[1]
	want.Name = "z"
	assert.Equal(t, want, got)

	count, err := s.CountDocuments(ctx, "docs", core.Filter{"extra": true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	n, err = s.UpdateOne(ctx, "docs", core.Filter{"id": "9"}, core.Changes{"name": "z"})
	require.NoError(t, err)
	assert.Zero(t, n)

	// position is kept
	var all []doc
	require.NoError(t, s.Find(ctx, "docs", core.Filter{}, nil, &all))
	assert.Equal(t, []string{"1", "2", "3"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestStore_Delete(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	n, err := s.DeleteOne(ctx, "docs", core.Filter{"group": "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var all []doc
	require.NoError(t, s.Find(ctx, "docs", core.Filter{}, nil, &all))
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].ID)
	assert.Equal(t, "3", all[1].ID)

	n, err = s.DeleteMany(ctx, "docs", core.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := s.CountDocuments(ctx, "docs", core.Filter{})
	require.NoError(t, err)
	assert.Zero(t, count)

	n, err = s.DeleteOne(ctx, "docs", core.Filter{"id": "1"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_Reset(t *testing.T) {
	s := New()
	seed(t, s)
	s.Reset()

	count, err := s.CountDocuments(context.Background(), "docs", core.Filter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}
