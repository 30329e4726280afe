package spotify

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

const (
	topItemsTimeRange = "medium_term"
	topItemsLimit     = 50
)

func topItemsQuery() url.Values {
	query := url.Values{}
	query.Set("time_range", topItemsTimeRange)
	query.Set("limit", strconv.Itoa(topItemsLimit))
	query.Set("offset", "0")
	return query
}

// TopArtists fetches the listener's top artists over the medium-term window.
func (c *Client) TopArtists(ctx context.Context, token string) ([]domain.Artist, error) {
	var page topArtistsPage
	if err := c.getJSON(ctx, token, "/me/top/artists", topItemsQuery(), &page); err != nil {
		return nil, err
	}

	artists := make([]domain.Artist, 0, len(page.Items))
	for _, sa := range page.Items {
		artists = append(artists, mapArtistToDomain(sa))
	}
	return artists, nil
}
