package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 26, 18, 4, 43, 0, time.UTC)
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Chamartin, Madrid", "chamartin_madrid"},
		{"El Born - Barcelona", "el_born_barcelona"},
		{"  Salamanca  ", "salamanca"},
		{"Lavapiés", "lavapiés"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeIdentifier(tc.in), "input %q", tc.in)
	}
}

func TestSave_FilenameAndContent(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(WithDir(dir), WithClock(fixedClock()))
	require.NoError(t, err)

	enrichment := &core.Enrichment{
		Neighborhood: "Chamartin, Madrid",
		Query:        "Is it safe?",
		Priority:     "crime_rate",
		Status:       "completed",
	}

	path, err := saver.Save(enrichment, enrichment.Neighborhood, "neighborhood_search")
	require.NoError(t, err)
	assert.Equal(t, "chamartin_madrid_neighborhood_search_20250626_180443.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded core.Enrichment
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, "Chamartin, Madrid", loaded.Neighborhood)
	assert.Equal(t, "crime_rate", loaded.Priority)
}

func TestSave_UnknownIdentifier(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(WithDir(dir), WithClock(fixedClock()))
	require.NoError(t, err)

	path, err := saver.Save(map[string]string{"query": "anything"}, "", "hybrid_search")
	require.NoError(t, err)
	assert.Equal(t, "unknown_location_hybrid_search_20250626_180443.json", filepath.Base(path))
}

func TestList_FiltersByIdentifier(t *testing.T) {
	dir := t.TempDir()

	ts := time.Date(2025, 6, 26, 18, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}

	saver, err := NewSaver(WithDir(dir), WithClock(clock))
	require.NoError(t, err)

	_, err = saver.Save(map[string]string{}, "Chamartin, Madrid", "neighborhood_search")
	require.NoError(t, err)
	_, err = saver.Save(map[string]string{}, "Salamanca, Madrid", "neighborhood_search")
	require.NoError(t, err)
	_, err = saver.Save(map[string]string{}, "Chamartin, Madrid", "full_enrichment")
	require.NoError(t, err)

	all, err := saver.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	chamartin, err := saver.List("Chamartin")
	require.NoError(t, err)
	assert.Len(t, chamartin, 2)
	for _, path := range chamartin {
		assert.Contains(t, filepath.Base(path), "chamartin")
	}
}

func TestNewSaver_EmptyDir(t *testing.T) {
	_, err := NewSaver(WithDir(""))
	assert.ErrorIs(t, err, ErrDirRequired)
}
