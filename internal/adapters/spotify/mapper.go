package spotify

import "github.com/ewilliams-labs/musicdna/internal/core/domain"

const unknownName = "Unknown"

// mapArtistToDomain converts a raw Spotify artist, defaulting anything the API omitted.
func mapArtistToDomain(sa spotifyArtist) domain.Artist {
	genres := sa.Genres
	if genres == nil {
		genres = []string{}
	}

	var imageURL *string
	if len(sa.Images) > 0 {
		u := sa.Images[0].URL
		imageURL = &u
	}

	popularity := 0
	if sa.Popularity != nil {
		popularity = *sa.Popularity
	}

	return domain.Artist{
		ID:         stringOr(sa.ID, ""),
		Name:       stringOr(sa.Name, unknownName),
		Genres:     genres,
		Popularity: popularity,
		ImageURL:   imageURL,
	}
}

// mapTrackToDomain converts a raw Spotify track; only the primary artist is kept.
func mapTrackToDomain(st spotifyTrack) domain.Track {
	artistName := unknownName
	if len(st.Artists) > 0 {
		artistName = stringOr(st.Artists[0].Name, unknownName)
	}

	return domain.Track{
		ID:         stringOr(st.ID, ""),
		Name:       stringOr(st.Name, unknownName),
		ArtistName: artistName,
	}
}

func mapFeaturesToDomain(sf spotifyAudioFeatures) domain.FeatureSample {
	return domain.FeatureSample{
		TrackID:          sf.ID,
		Danceability:     sf.Danceability,
		Energy:           sf.Energy,
		Valence:          sf.Valence,
		Acousticness:     sf.Acousticness,
		Instrumentalness: sf.Instrumentalness,
		Speechiness:      sf.Speechiness,
	}
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
