package ports

import (
	"context"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

// ProfileCache stores computed profiles per access token.
// Get returns (nil, nil) on a miss.
type ProfileCache interface {
	Get(ctx context.Context, token string) (*domain.MusicDNA, error)
	Set(ctx context.Context, token string, dna domain.MusicDNA) error
	Delete(ctx context.Context, token string) error
}
