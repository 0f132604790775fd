package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/cinema-bot/internal/tmdb"
)

func testMovies() []tmdb.Movie {
	return []tmdb.Movie{
		{ID: 1, Title: "Clerks", Overview: "slackers behind a store counter", GenreIDs: []int64{35}, ReleaseDate: "1994-10-19", Runtime: 92},
		{ID: 2, Title: "Alien", Overview: "crew of a spaceship meets a monster", GenreIDs: []int64{27, 878}, ReleaseDate: "1979-05-25", Runtime: 117},
		{ID: 1, Title: "Clerks (dup)", Overview: "duplicate id must be dropped", GenreIDs: []int64{35}, ReleaseDate: "1994-10-19", Runtime: 92},
		{ID: 3, Title: "Untitled", Overview: "   "}, // без текста — в индекс не попадает
		{ID: 4, Title: "Mallrats", Overview: "slackers wander around a mall", GenreIDs: []int64{35}, ReleaseDate: "1995-10-20", Runtime: 94},
	}
}

func TestIndex_BuildDedupesAndSkipsEmpty(t *testing.T) {
	ix := NewIndex(TestEmbedder{})
	require.NoError(t, ix.Build(context.Background(), testMovies()))
	assert.Equal(t, 3, ix.Len())
}

func TestIndex_SearchOrdersByCosine(t *testing.T) {
	ix := NewIndex(TestEmbedder{})
	require.NoError(t, ix.Build(context.Background(), testMovies()))

	// запрос дословно совпадает с overview первого фильма
	ids, err := ix.Search(context.Background(), "slackers behind a store counter", 2, nil)
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	assert.Equal(t, int64(1), ids[0])
	assert.LessOrEqual(t, len(ids), 2)
}

func TestIndex_SearchAppliesWhereFilter(t *testing.T) {
	ix := NewIndex(TestEmbedder{})
	require.NoError(t, ix.Build(context.Background(), testMovies()))

	onlyHorror := func(m Meta) bool {
		for _, g := range m.GenreIDs {
			if g == 27 {
				return true
			}
		}
		return false
	}
	ids, err := ix.Search(context.Background(), "slackers", 5, onlyHorror)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids)
}

func TestIndex_SaveLoadRoundTrip(t *testing.T) {
	ix := NewIndex(TestEmbedder{})
	require.NoError(t, ix.Build(context.Background(), testMovies()))

	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, ix.Save(path))

	loaded := NewIndex(TestEmbedder{})
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, ix.Len(), loaded.Len())

	ids, err := loaded.Search(context.Background(), "crew of a spaceship meets a monster", 1, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids)
}

func TestTestEmbedderDeterministic(t *testing.T) {
	a, err := TestEmbedder{}.Embed(context.Background(), "same text")
	require.NoError(t, err)
	b, err := TestEmbedder{}.Embed(context.Background(), "same text")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}
