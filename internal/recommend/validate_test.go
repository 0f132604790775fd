package recommend

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/cinema-bot/internal/domain/prefs"
	"github.com/Spok95/cinema-bot/internal/tmdb"
)

var testGenres = []tmdb.Genre{
	{ID: 35, Name: "Comedy"},
	{ID: 18, Name: "Drama"},
	{ID: 28, Name: "Action"},
}

func newTestTranslator(store SimilaritySearcher, api MetadataAPI) *Translator {
	return NewTranslator(testGenres, store, api, slog.New(slog.DiscardHandler))
}

func TestValidate_Genre(t *testing.T) {
	tr := newTestTranslator(nil, nil)

	got, err := tr.Validate(prefs.KeyGenre, "  Comedy ")
	require.NoError(t, err)
	assert.Equal(t, "comedy", got)

	_, err = tr.Validate(prefs.KeyGenre, "sci-fi-ish")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Hint, "not a recognized genre")
}

func TestValidate_Decade(t *testing.T) {
	tr := newTestTranslator(nil, nil)

	tests := []struct {
		in   string
		want string
	}{
		{"90s", "1990s"},
		{"00s", "2000s"}, // по эвристике века: не "9" -> 20xx
		{"1990s", "1990s"},
		{"1980s", "1980s"},
		{"2010", "2010s"},
	}
	for _, tc := range tests {
		got, err := tr.Validate(prefs.KeyDecade, tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := tr.Validate(prefs.KeyDecade, "the nineties")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Hint, "decade")
}

func TestValidate_Runtime(t *testing.T) {
	tr := newTestTranslator(nil, nil)

	for _, ok := range []string{"<90", ">120", "90-120", "< 90 min"} {
		got, err := tr.Validate(prefs.KeyRuntime, ok)
		require.NoError(t, err, ok)
		assert.NotEmpty(t, got)
	}

	_, err := tr.Validate(prefs.KeyRuntime, "ninety minutes")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Hint, "'<90'")
}

func TestValidate_Region(t *testing.T) {
	tr := newTestTranslator(nil, nil)

	got, err := tr.Validate(prefs.KeyRegion, "us")
	require.NoError(t, err)
	assert.Equal(t, "US", got)

	for _, bad := range []string{"usa", "u", "u1"} {
		_, err := tr.Validate(prefs.KeyRegion, bad)
		assert.Error(t, err, bad)
	}
}

func TestValidate_FreeTextKeys(t *testing.T) {
	tr := newTestTranslator(nil, nil)

	got, err := tr.Validate(prefs.KeyMood, " Lighthearted ")
	require.NoError(t, err)
	assert.Equal(t, "lighthearted", got)

	got, err = tr.Validate(prefs.KeyPopularity, "Hidden Gems")
	require.NoError(t, err)
	assert.Equal(t, "hidden gems", got)
}
