package spotify

import (
	"context"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

// TopTracks fetches the listener's top tracks over the medium-term window.
func (c *Client) TopTracks(ctx context.Context, token string) ([]domain.Track, error) {
	var page topTracksPage
	if err := c.getJSON(ctx, token, "/me/top/tracks", topItemsQuery(), &page); err != nil {
		return nil, err
	}

	tracks := make([]domain.Track, 0, len(page.Items))
	for _, st := range page.Items {
		tracks = append(tracks, mapTrackToDomain(st))
	}
	return tracks, nil
}
