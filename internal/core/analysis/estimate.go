package analysis

import (
	"strings"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

// DefaultEstimate is returned when none of the artists' genres match a signal.
var DefaultEstimate = domain.AudioFeatures{
	Danceability:     0.5,
	Energy:           0.5,
	Valence:          0.5,
	Acousticness:     0.3,
	Instrumentalness: 0.2,
	Speechiness:      0.1,
}

// EstimateFromGenres estimates a feature vector from artist genres using DefaultSignals.
func EstimateFromGenres(artists []domain.Artist) domain.AudioFeatures {
	return DefaultSignals.Estimate(artists)
}

// Estimate averages the signal of every matched (artist, genre) pair.
// Each genre contributes at most one signal; unmatched genres are skipped.
func (t SignalTable) Estimate(artists []domain.Artist) domain.AudioFeatures {
	var sum domain.AudioFeatures
	matches := 0

	for _, artist := range artists {
		for _, genre := range artist.Genres {
			signal, ok := t.Lookup(strings.ToLower(genre))
			if !ok {
				continue
			}
			sum = sum.Add(signal)
			matches++
		}
	}

	if matches == 0 {
		return DefaultEstimate
	}

	return mean(sum, matches)
}
