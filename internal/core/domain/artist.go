package domain

// Artist represents one of the user's top artists in the domain layer.
type Artist struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Genres     []string `json:"genres" yaml:"genres"`
	Popularity int      `json:"popularity" yaml:"popularity"` // 0-100
	ImageURL   *string  `json:"imageUrl" yaml:"imageUrl"`
}
