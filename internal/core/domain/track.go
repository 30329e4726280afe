package domain

// Track represents one of the user's top tracks in the domain layer.
// Tracks carry no features of their own; feature data is keyed by ID.
type Track struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	ArtistName string `json:"artistName" yaml:"artistName"` // primary artist only
}
