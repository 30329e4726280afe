package spotify

// spotifyImage is an image reference on an artist or album.
type spotifyImage struct {
	URL string `json:"url"`
}

// spotifyArtist represents a full artist object from the Spotify API.
// Pointer fields distinguish an omitted value from an empty one.
type spotifyArtist struct {
	ID         *string        `json:"id"`
	Name       *string        `json:"name"`
	Genres     []string       `json:"genres"`
	Popularity *int           `json:"popularity"`
	Images     []spotifyImage `json:"images"`
}

// spotifySimpleArtist is the artist stub embedded in track objects.
type spotifySimpleArtist struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// spotifyTrack represents a track object from the Spotify API.
type spotifyTrack struct {
	ID      *string               `json:"id"`
	Name    *string               `json:"name"`
	Artists []spotifySimpleArtist `json:"artists"`
}

// spotifyAudioFeatures is one entry of the audio-features response.
type spotifyAudioFeatures struct {
	ID               string   `json:"id"`
	Danceability     *float64 `json:"danceability"`
	Energy           *float64 `json:"energy"`
	Valence          *float64 `json:"valence"`
	Acousticness     *float64 `json:"acousticness"`
	Instrumentalness *float64 `json:"instrumentalness"`
	Speechiness      *float64 `json:"speechiness"`
}

type topArtistsPage struct {
	Items []spotifyArtist `json:"items"`
}

type topTracksPage struct {
	Items []spotifyTrack `json:"items"`
}

// audioFeaturesBody holds a batch response; entries are null for tracks without features.
type audioFeaturesBody struct {
	AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
}
