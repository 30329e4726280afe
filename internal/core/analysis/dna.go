package analysis

import "github.com/ewilliams-labs/musicdna/internal/core/domain"

const (
	topArtistLimit = 10
	topTrackLimit  = 10
)

// Listening is everything fetched for one listener.
type Listening struct {
	Artists  []domain.Artist
	Tracks   []domain.Track
	Features []domain.FeatureSample
	// FeaturesErr is set when audio features could not be fetched.
	FeaturesErr error
}

// SelectFeatures picks the profile's feature vector. Measured features are
// used unless fetching them failed or they average to exactly zero, in which
// case the vector is estimated from genres. The two are never mixed.
func SelectFeatures(samples []domain.FeatureSample, fetchErr error, artists []domain.Artist) (domain.AudioFeatures, domain.FeatureSource) {
	if fetchErr != nil {
		return EstimateFromGenres(artists), domain.SourceEstimated
	}

	measured := AverageFeatures(samples)
	if measured.IsZero() {
		return EstimateFromGenres(artists), domain.SourceEstimated
	}
	return measured, domain.SourceMeasured
}

// BuildDNA assembles the full profile.
func BuildDNA(in Listening) (domain.MusicDNA, domain.FeatureSource) {
	features, source := SelectFeatures(in.Features, in.FeaturesErr, in.Artists)
	personality := Classify(features)

	return domain.MusicDNA{
		AudioFeatures:          features,
		TopGenres:              TopGenres(in.Artists),
		ObscureArtist:          MostObscureArtist(in.Artists),
		PersonalityLabel:       personality.Label,
		PersonalityDescription: personality.Description,
		TopArtists:             headArtists(in.Artists, topArtistLimit),
		TopTracks:              headTracks(in.Tracks, topTrackLimit),
	}, source
}

func headArtists(artists []domain.Artist, n int) []domain.Artist {
	if len(artists) > n {
		artists = artists[:n]
	}
	out := make([]domain.Artist, len(artists))
	copy(out, artists)
	return out
}

func headTracks(tracks []domain.Track, n int) []domain.Track {
	if len(tracks) > n {
		tracks = tracks[:n]
	}
	out := make([]domain.Track, len(tracks))
	copy(out, tracks)
	return out
}
