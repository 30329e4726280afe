package analysis

import (
	"strings"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

// GenreSignal is a hand-authored feature estimate for a genre keyword.
// Fields left unset contribute 0.
type GenreSignal struct {
	Keyword string
	Signal  domain.AudioFeatures
}

// SignalTable is an ordered list of genre signals. Order decides which
// keyword wins when several are substrings of the same genre.
type SignalTable []GenreSignal

// DefaultSignals is the built-in genre table.
var DefaultSignals = SignalTable{
	// danceable
	{"dance", domain.AudioFeatures{Danceability: 0.9, Energy: 0.8, Valence: 0.7}},
	{"edm", domain.AudioFeatures{Danceability: 0.85, Energy: 0.9, Valence: 0.6}},
	{"house", domain.AudioFeatures{Danceability: 0.85, Energy: 0.8, Valence: 0.65}},
	{"techno", domain.AudioFeatures{Danceability: 0.8, Energy: 0.85, Instrumentalness: 0.6}},
	{"disco", domain.AudioFeatures{Danceability: 0.9, Energy: 0.75, Valence: 0.8}},
	{"funk", domain.AudioFeatures{Danceability: 0.85, Energy: 0.7, Valence: 0.75}},
	{"reggaeton", domain.AudioFeatures{Danceability: 0.9, Energy: 0.75, Valence: 0.7, Speechiness: 0.3}},
	{"latin pop", domain.AudioFeatures{Danceability: 0.8, Energy: 0.7, Valence: 0.75}},
	{"latin", domain.AudioFeatures{Danceability: 0.75, Energy: 0.7, Valence: 0.7}},
	{"afrobeat", domain.AudioFeatures{Danceability: 0.8, Energy: 0.7, Valence: 0.7}},

	// energetic
	{"rock", domain.AudioFeatures{Energy: 0.8, Danceability: 0.5, Valence: 0.5}},
	{"metal", domain.AudioFeatures{Energy: 0.95, Danceability: 0.35, Valence: 0.25, Instrumentalness: 0.3}},
	{"punk", domain.AudioFeatures{Energy: 0.9, Danceability: 0.45, Valence: 0.4, Speechiness: 0.2}},
	{"hardcore", domain.AudioFeatures{Energy: 0.95, Danceability: 0.4, Valence: 0.2}},
	{"grunge", domain.AudioFeatures{Energy: 0.8, Valence: 0.3, Acousticness: 0.2}},
	{"alt rock", domain.AudioFeatures{Energy: 0.7, Valence: 0.45, Danceability: 0.5}},
	{"alternative", domain.AudioFeatures{Energy: 0.65, Valence: 0.45, Danceability: 0.5}},
	{"indie rock", domain.AudioFeatures{Energy: 0.65, Valence: 0.5, Danceability: 0.5}},

	// acoustic
	{"acoustic", domain.AudioFeatures{Acousticness: 0.9, Energy: 0.3, Valence: 0.5}},
	{"folk", domain.AudioFeatures{Acousticness: 0.8, Energy: 0.35, Valence: 0.5}},
	{"singer-songwriter", domain.AudioFeatures{Acousticness: 0.75, Energy: 0.35, Valence: 0.45, Speechiness: 0.2}},
	{"country", domain.AudioFeatures{Acousticness: 0.6, Valence: 0.6, Energy: 0.5}},
	{"bluegrass", domain.AudioFeatures{Acousticness: 0.8, Energy: 0.5, Valence: 0.55}},
	{"classical", domain.AudioFeatures{Acousticness: 0.85, Instrumentalness: 0.9, Energy: 0.3}},

	// spoken
	{"hip hop", domain.AudioFeatures{Speechiness: 0.6, Danceability: 0.75, Energy: 0.7, Valence: 0.45}},
	{"rap", domain.AudioFeatures{Speechiness: 0.7, Danceability: 0.75, Energy: 0.7, Valence: 0.4}},
	{"trap", domain.AudioFeatures{Speechiness: 0.5, Danceability: 0.7, Energy: 0.65, Valence: 0.35}},
	{"spoken word", domain.AudioFeatures{Speechiness: 0.9, Instrumentalness: 0.05, Energy: 0.2}},
	{"podcast", domain.AudioFeatures{Speechiness: 0.95, Instrumentalness: 0.05, Energy: 0.15}},

	// instrumental
	{"ambient", domain.AudioFeatures{Instrumentalness: 0.85, Energy: 0.2, Acousticness: 0.5, Valence: 0.3}},
	{"post-rock", domain.AudioFeatures{Instrumentalness: 0.7, Energy: 0.6, Acousticness: 0.3}},
	{"jazz", domain.AudioFeatures{Instrumentalness: 0.5, Acousticness: 0.6, Energy: 0.4, Valence: 0.55}},
	{"lo-fi", domain.AudioFeatures{Instrumentalness: 0.6, Energy: 0.3, Valence: 0.4, Acousticness: 0.4}},
	{"electronic", domain.AudioFeatures{Instrumentalness: 0.5, Energy: 0.7, Danceability: 0.7}},

	// bright
	{"pop", domain.AudioFeatures{Valence: 0.65, Danceability: 0.7, Energy: 0.65}},
	{"k-pop", domain.AudioFeatures{Valence: 0.7, Danceability: 0.75, Energy: 0.75}},
	{"reggae", domain.AudioFeatures{Valence: 0.75, Danceability: 0.7, Energy: 0.5, Acousticness: 0.3}},
	{"soul", domain.AudioFeatures{Valence: 0.6, Energy: 0.5, Acousticness: 0.5, Speechiness: 0.2}},
	{"gospel", domain.AudioFeatures{Valence: 0.7, Energy: 0.6, Acousticness: 0.4}},

	// dark
	{"emo", domain.AudioFeatures{Valence: 0.25, Energy: 0.65, Acousticness: 0.3, Speechiness: 0.2}},
	{"goth", domain.AudioFeatures{Valence: 0.2, Energy: 0.5, Instrumentalness: 0.3}},
	{"doom", domain.AudioFeatures{Valence: 0.15, Energy: 0.7, Instrumentalness: 0.4}},

	// r&b and neighbours
	{"r&b", domain.AudioFeatures{Valence: 0.55, Danceability: 0.7, Energy: 0.5, Speechiness: 0.2}},
	{"neo soul", domain.AudioFeatures{Valence: 0.55, Acousticness: 0.5, Energy: 0.4}},
	{"blues", domain.AudioFeatures{Valence: 0.4, Acousticness: 0.6, Energy: 0.45}},

	// indie and art
	{"indie", domain.AudioFeatures{Valence: 0.5, Energy: 0.55, Danceability: 0.55, Acousticness: 0.35}},
	{"art pop", domain.AudioFeatures{Valence: 0.5, Energy: 0.6, Danceability: 0.6, Instrumentalness: 0.2}},
	{"dream pop", domain.AudioFeatures{Valence: 0.45, Energy: 0.4, Acousticness: 0.4, Instrumentalness: 0.3}},
	{"shoegaze", domain.AudioFeatures{Valence: 0.35, Energy: 0.6, Instrumentalness: 0.4}},
}

// Lookup resolves a lowercased genre to a signal: an exact keyword match
// first, then the first keyword in table order contained in the genre.
func (t SignalTable) Lookup(genre string) (domain.AudioFeatures, bool) {
	for _, s := range t {
		if s.Keyword == genre {
			return s.Signal, true
		}
	}
	for _, s := range t {
		if strings.Contains(genre, s.Keyword) {
			return s.Signal, true
		}
	}
	return domain.AudioFeatures{}, false
}
