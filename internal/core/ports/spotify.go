package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

// ErrUpstreamStatus indicates the music provider answered with a non-success status.
var ErrUpstreamStatus = errors.New("upstream status")

// UpstreamStatusError provides context for a failed provider call.
type UpstreamStatusError struct {
	Endpoint   string
	StatusCode int
}

func (e UpstreamStatusError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("%s %d", ErrUpstreamStatus.Error(), e.StatusCode)
	}
	return fmt.Sprintf("%s: %s %d", e.Endpoint, ErrUpstreamStatus.Error(), e.StatusCode)
}

func (e UpstreamStatusError) Is(target error) bool {
	return target == ErrUpstreamStatus
}

// MusicProvider fetches a listener's data with their access token.
type MusicProvider interface {
	TopArtists(ctx context.Context, token string) ([]domain.Artist, error)
	TopTracks(ctx context.Context, token string) ([]domain.Track, error)
	AudioFeatures(ctx context.Context, token string, trackIDs []string) ([]domain.FeatureSample, error)
}

// Authenticator runs the authorization-code flow for user-supplied credentials.
type Authenticator interface {
	AuthCodeURL(creds domain.Credentials, state string) string
	Exchange(ctx context.Context, creds domain.Credentials, code string) (string, error)
}
