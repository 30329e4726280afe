package spotify

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

// audioFeaturesBatchSize is the most ids the audio-features endpoint accepts per call.
const audioFeaturesBatchSize = 100

// AudioFeatures fetches features for trackIDs in sequential batches.
// Empty ids are not sent. Tracks Spotify has no features for are skipped.
func (c *Client) AudioFeatures(ctx context.Context, token string, trackIDs []string) ([]domain.FeatureSample, error) {
	ids := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}

	limiter := c.batchLimiter()
	samples := make([]domain.FeatureSample, 0, len(ids))
	for _, batch := range chunkIDs(ids, audioFeaturesBatchSize) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("spotify adapter: request canceled: %w", err)
		}

		query := url.Values{}
		query.Set("ids", strings.Join(batch, ","))

		var body audioFeaturesBody
		if err := c.getJSON(ctx, token, "/audio-features", query, &body); err != nil {
			return nil, err
		}

		for _, sf := range body.AudioFeatures {
			if sf == nil {
				continue
			}
			samples = append(samples, mapFeaturesToDomain(*sf))
		}
	}

	if skipped := len(ids) - len(samples); skipped > 0 {
		log.Printf("DEBUG spotify adapter: %d of %d tracks have no audio features", skipped, len(ids))
	}
	return samples, nil
}

func chunkIDs(ids []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}
