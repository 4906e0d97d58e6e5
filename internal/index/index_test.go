// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(types.IndexConfig{Path: filepath.Join(t.TempDir(), "index.db")})
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func sampleRecords() []types.PrePrint {
	v := 2
	return []types.PrePrint{
		{
			ID:        "2301.07041",
			Version:   &v,
			Authors:   []string{"Alice Smith", "Bob Jones"},
			Title:     "Attention Mechanisms in Transformers",
			Summary:   "A survey of attention in deep learning.",
			URL:       "http://arxiv.org/pdf/2301.07041v2",
			Published: time.Date(2023, 1, 17, 18, 58, 28, 0, time.UTC),
		},
		{
			ID:        "2201.00001",
			Authors:   []string{"Carol White"},
			Title:     "Graph Neural Networks for Chemistry",
			Summary:   "Molecular property prediction with GNNs.",
			URL:       "http://arxiv.org/pdf/2201.00001v1",
			Published: time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestReindexAndSearch(t *testing.T) {
	ix := openTestIndex(t)
	require.NoError(t, ix.Reindex(context.Background(), sampleRecords()))

	hits, err := ix.Search(context.Background(), "attention", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	h := hits[0]
	assert.Equal(t, "2301.07041", h.ID)
	require.NotNil(t, h.Version)
	assert.Equal(t, 2, *h.Version)
	assert.Equal(t, []string{"Alice Smith", "Bob Jones"}, h.Authors)
	assert.Equal(t, "Attention Mechanisms in Transformers", h.Title)
	assert.Equal(t, time.Date(2023, 1, 17, 18, 58, 28, 0, time.UTC), h.Published.UTC())
}

func TestSearchMatchesAuthors(t *testing.T) {
	ix := openTestIndex(t)
	require.NoError(t, ix.Reindex(context.Background(), sampleRecords()))

	hits, err := ix.Search(context.Background(), "white", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "2201.00001", hits[0].ID)
}

func TestReindexReplacesContents(t *testing.T) {
	ix := openTestIndex(t)
	require.NoError(t, ix.Reindex(context.Background(), sampleRecords()))

	// Reindex with only one record; the other must disappear.
	require.NoError(t, ix.Reindex(context.Background(), sampleRecords()[:1]))

	hits, err := ix.Search(context.Background(), "chemistry", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = ix.Search(context.Background(), "attention", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	ix := openTestIndex(t)
	_, err := ix.Search(context.Background(), "   ", 0)
	assert.Error(t, err)
}

func TestSearchLimitsResults(t *testing.T) {
	ix := openTestIndex(t)

	var records []types.PrePrint
	for i := 0; i < 5; i++ {
		records = append(records, types.PrePrint{
			ID:        "2301.0000" + string(rune('1'+i)),
			Title:     "Shared keyword paper",
			Summary:   "quantum",
			Published: time.Date(2023, 1, 1+i, 0, 0, 0, 0, time.UTC),
		})
	}
	require.NoError(t, ix.Reindex(context.Background(), records))

	hits, err := ix.Search(context.Background(), "quantum", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}
