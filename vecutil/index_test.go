package vecutil

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/covertree/engine"
	"github.com/viant/covertree/vector"
)

// letterEmbed embeds text as counts of the letters a, b and c.
func letterEmbed(_ context.Context, text string) ([]float32, error) {
	return []float32{
		float32(strings.Count(text, "a")),
		float32(strings.Count(text, "b")),
		float32(strings.Count(text, "c")),
	}, nil
}

func TestIndex_TextFlow(t *testing.T) {
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)
	store, err := vector.NewSQLiteStore(db)
	require.NoError(t, err)
	ix, err := NewIndex(store, letterEmbed)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = ix.UpsertDocumentsText(ctx, []Document{
		{ID: "a", Content: "aaa"},
		{ID: "b", Content: "bbb"},
		{ID: "c", Content: "ccc", Meta: `{"k":1}`},
	})
	require.NoError(t, err)

	got, err := ix.QueryText(ctx, "aab", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)

	// Replacing "c" moves it next to the query.
	_, err = ix.UpsertDocumentsText(ctx, []Document{{ID: "c", Content: "aab"}})
	require.NoError(t, err)
	got, err = ix.QueryText(ctx, "aab", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, 0.0, got[0].Distance)

	within, err := ix.QueryTextWithin(ctx, "aab", 1.5)
	require.NoError(t, err)
	require.Len(t, within, 2)
	assert.Equal(t, "c", within[0].ID)
	assert.Equal(t, "a", within[1].ID)

	require.NoError(t, ix.DeleteDocuments(ctx, []string{"c"}))
	got, err = ix.QueryText(ctx, "aab", 1)
	require.NoError(t, err)
	assert.Equal(t, "a", got[0].ID)
}

func TestNewIndex_Validation(t *testing.T) {
	_, err := NewIndex(nil, letterEmbed)
	assert.Error(t, err)
}
