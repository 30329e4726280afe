package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("domain: not found")
	ErrNoCredentials    = errors.New("domain: no credentials")
	ErrNotAuthenticated = errors.New("domain: not authenticated")
)

// Personality is one labeled listener category.
type Personality struct {
	Label       string
	Description string
}

// MusicDNA is the view model returned to clients.
type MusicDNA struct {
	AudioFeatures          AudioFeatures `json:"audioFeatures" yaml:"audioFeatures"`
	TopGenres              []string      `json:"topGenres" yaml:"topGenres"`
	ObscureArtist          *Artist       `json:"obscureArtist" yaml:"obscureArtist"`
	PersonalityLabel       string        `json:"personalityLabel" yaml:"personalityLabel"`
	PersonalityDescription string        `json:"personalityDescription" yaml:"personalityDescription"`
	TopArtists             []Artist      `json:"topArtists" yaml:"topArtists"`
	TopTracks              []Track       `json:"topTracks" yaml:"topTracks"`
}

// Credentials are the Spotify application settings a user supplies.
type Credentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectUri"`
}

// Valid reports whether every field is present.
func (c Credentials) Valid() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURI != ""
}

// Snapshot is a persisted, computed profile.
type Snapshot struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Source    FeatureSource `json:"source"`
	DNA       MusicDNA      `json:"dna"`
}
