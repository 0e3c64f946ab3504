// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sm2anki/internal/anki"
	"github.com/pdiddy/sm2anki/internal/supermemo"
	"github.com/pdiddy/sm2anki/pkg/types"
)

const mathMedia = "D:/SM/SYSTEMS/Math/elements/"

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.CatalogConfig{CatalogDir: filepath.Join(t.TempDir(), "catalog")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func mathCollection(t *testing.T) *types.Collection {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "math.txt"))
	require.NoError(t, err)
	records, err := supermemo.Parse(string(data))
	require.NoError(t, err)
	return records
}

func ingest(t *testing.T, s *Store, name string, records *types.Collection) IngestSummary {
	t.Helper()
	exp := anki.NewExporter(records, types.ExportConfig{MediaDir: mathMedia})
	var log bytes.Buffer
	summary, err := s.Ingest(context.Background(), name, records, exp, &log)
	require.NoError(t, err)
	return summary
}

func item(id, parent int, title string) *types.Record {
	return &types.Record{
		ID:         id,
		Properties: map[string]string{"Parent": strconv.Itoa(parent)},
		Info:       map[string]string{"Type": "Item", "Title": title},
		Components: []types.Component{
			{Type: types.ComponentText, DisplayAt: types.OnQuestion | types.OnAnswer, Text: title},
		},
	}
}

// --- tests ---

func TestIngest(t *testing.T) {
	s := testStore(t)
	summary := ingest(t, s, "math", mathCollection(t))

	assert.Equal(t, 8, summary.Records)
	assert.Equal(t, 2, summary.Cards)
	assert.False(t, summary.Updated)

	cards, err := s.Cards(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 11, cards[0].RecordID)
	assert.Equal(t,
		"2 * 3[sound:8.wma]\t6[sound:7.wma]\tMath Arithmetic Addition&Multiplication [1]Multiplication",
		cards[1].Line)
}

func TestIngest_ReplacesCollection(t *testing.T) {
	s := testStore(t)
	ingest(t, s, "math", mathCollection(t))

	smaller := types.NewCollection()
	smaller.Add(item(1, 0, "only card"))
	summary := ingest(t, s, "math", smaller)
	assert.True(t, summary.Updated)

	cards, err := s.Cards(context.Background(), QueryOptions{Collection: "math"})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "only card[sound:]\t[sound:]\t", cards[0].Line)
}

func TestIngest_ExportFailureWritesNothing(t *testing.T) {
	s := testStore(t)
	broken := types.NewCollection()
	broken.Add(item(1, 42, "dangling"))

	exp := anki.NewExporter(broken, types.ExportConfig{})
	_, err := s.Ingest(context.Background(), "broken", broken, exp, &bytes.Buffer{})
	require.Error(t, err)

	infos, err := s.Collections(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestCards_Filters(t *testing.T) {
	s := testStore(t)
	ingest(t, s, "math", mathCollection(t))

	other := types.NewCollection()
	other.Add(&types.Record{
		ID:         1,
		Properties: map[string]string{"Parent": "0"},
		Info:       map[string]string{"Type": "Topic", "Title": "Math"},
	})
	other.Add(item(2, 1, "pi"))
	ingest(t, s, "other", other)

	tests := []struct {
		name    string
		opts    QueryOptions
		wantIDs []int
	}{
		{name: "all", opts: QueryOptions{}, wantIDs: []int{11, 12, 2}},
		{name: "by collection", opts: QueryOptions{Collection: "other"}, wantIDs: []int{2}},
		{name: "by tag across collections", opts: QueryOptions{Tag: "Math"}, wantIDs: []int{11, 12, 2}},
		{name: "by leaf tag", opts: QueryOptions{Tag: "[1]Multiplication"}, wantIDs: []int{12}},
		{name: "tag must match whole word", opts: QueryOptions{Tag: "Multiplication"}, wantIDs: nil},
		{name: "tag is case sensitive", opts: QueryOptions{Tag: "math"}, wantIDs: nil},
		{name: "leaf tag is case sensitive", opts: QueryOptions{Tag: "[1]MULTIPLICATION"}, wantIDs: nil},
		{name: "tag with like wildcards", opts: QueryOptions{Tag: "M_th"}, wantIDs: nil},
		{name: "tag with percent", opts: QueryOptions{Tag: "%"}, wantIDs: nil},
		{name: "tag and collection", opts: QueryOptions{Collection: "math", Tag: "[2]Addition"}, wantIDs: []int{11}},
		{name: "limit", opts: QueryOptions{MaxResults: 1}, wantIDs: []int{11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := s.Cards(context.Background(), tt.opts)
			require.NoError(t, err)
			var ids []int
			for _, c := range cards {
				ids = append(ids, c.RecordID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCollections(t *testing.T) {
	s := testStore(t)
	ingest(t, s, "math", mathCollection(t))

	infos, err := s.Collections(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "math", infos[0].Name)
	assert.Equal(t, mathMedia, infos[0].MediaDir)
	assert.Equal(t, 8, infos[0].Records)
	assert.Equal(t, 2, infos[0].Cards)
	assert.NotEmpty(t, infos[0].IndexedAt)
}

func TestCollections_MediaDirFromExporter(t *testing.T) {
	s := testStore(t)
	records := mathCollection(t)
	exp := anki.NewExporter(records, types.ExportConfig{MediaDir: `E:\other\media\`})
	_, err := s.Ingest(context.Background(), "math", records, exp, &bytes.Buffer{})
	require.NoError(t, err)

	infos, err := s.Collections(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, `E:\other\media\`, infos[0].MediaDir)
}
