package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

func artistWithGenres(genres ...string) domain.Artist {
	return domain.Artist{Name: "Unknown", Genres: genres}
}

func TestEstimateFromGenres(t *testing.T) {
	tests := []struct {
		name    string
		artists []domain.Artist
		want    domain.AudioFeatures
	}{
		{
			name:    "no artists returns the default estimate",
			artists: nil,
			want:    DefaultEstimate,
		},
		{
			name:    "unknown genres return the default estimate",
			artists: []domain.Artist{artistWithGenres("vaporwave", "zydeco"), artistWithGenres()},
			want:    DefaultEstimate,
		},
		{
			name:    "exact match uses the keyword signal",
			artists: []domain.Artist{artistWithGenres("jazz")},
			want:    domain.AudioFeatures{Instrumentalness: 0.5, Acousticness: 0.6, Energy: 0.4, Valence: 0.55},
		},
		{
			name:    "matching is case insensitive",
			artists: []domain.Artist{artistWithGenres("JAZZ")},
			want:    domain.AudioFeatures{Instrumentalness: 0.5, Acousticness: 0.6, Energy: 0.4, Valence: 0.55},
		},
		{
			name:    "partial match takes the first declared keyword only",
			artists: []domain.Artist{artistWithGenres("indie pop")},
			want:    domain.AudioFeatures{Valence: 0.65, Danceability: 0.7, Energy: 0.65},
		},
		{
			name: "averages over matched genres only",
			artists: []domain.Artist{
				artistWithGenres("metal", "vaporwave"),
				artistWithGenres("pop"),
			},
			want: domain.AudioFeatures{Danceability: 0.525, Energy: 0.8, Valence: 0.45, Instrumentalness: 0.15},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertFeatures(t, tc.want, EstimateFromGenres(tc.artists))
		})
	}
}

func TestSignalTable_FirstDeclaredKeywordWins(t *testing.T) {
	indie := GenreSignal{Keyword: "indie", Signal: domain.AudioFeatures{Valence: 0.2}}
	pop := GenreSignal{Keyword: "pop", Signal: domain.AudioFeatures{Valence: 0.8}}
	artists := []domain.Artist{artistWithGenres("indie pop")}

	indieFirst := SignalTable{indie, pop}.Estimate(artists)
	popFirst := SignalTable{pop, indie}.Estimate(artists)

	assert.InDelta(t, 0.2, indieFirst.Valence, 1e-9)
	assert.InDelta(t, 0.8, popFirst.Valence, 1e-9)
}

func TestSignalTable_ExactMatchBeatsEarlierPartial(t *testing.T) {
	table := SignalTable{
		{Keyword: "pop", Signal: domain.AudioFeatures{Energy: 0.9}},
		{Keyword: "indie pop", Signal: domain.AudioFeatures{Energy: 0.1}},
	}

	got := table.Estimate([]domain.Artist{artistWithGenres("Indie Pop")})

	// One match, no double counting: the exact signal is returned as-is.
	assert.InDelta(t, 0.1, got.Energy, 1e-9)
}

func TestDefaultSignals_KeywordsAreUniqueAndLowercase(t *testing.T) {
	seen := make(map[string]bool, len(DefaultSignals))
	for _, s := range DefaultSignals {
		require.False(t, seen[s.Keyword], "duplicate keyword %q", s.Keyword)
		seen[s.Keyword] = true
		assert.Equal(t, strings.ToLower(s.Keyword), s.Keyword)
	}
	assert.Len(t, DefaultSignals, 49)
}
