package analysis

import (
	"sort"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

// TopGenreLimit caps the number of genres returned by TopGenres.
const TopGenreLimit = 5

type genreCount struct {
	name  string
	count int
}

// TopGenres returns the most frequent genres across artists, most frequent
// first. Equal counts keep the order in which the genres were first seen.
func TopGenres(artists []domain.Artist) []string {
	index := make(map[string]int)
	var counts []genreCount

	for _, artist := range artists {
		for _, genre := range artist.Genres {
			if i, ok := index[genre]; ok {
				counts[i].count++
				continue
			}
			index[genre] = len(counts)
			counts = append(counts, genreCount{name: genre, count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	if len(counts) > TopGenreLimit {
		counts = counts[:TopGenreLimit]
	}

	top := make([]string, len(counts))
	for i, c := range counts {
		top[i] = c.name
	}
	return top
}

// MostObscureArtist returns the artist with the lowest popularity, or nil for
// no artists. The first of several equally obscure artists wins.
func MostObscureArtist(artists []domain.Artist) *domain.Artist {
	if len(artists) == 0 {
		return nil
	}

	most := artists[0]
	for _, a := range artists[1:] {
		if a.Popularity < most.Popularity {
			most = a
		}
	}
	return &most
}
