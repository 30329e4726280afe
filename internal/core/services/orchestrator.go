package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/musicdna/internal/core/analysis"
	"github.com/ewilliams-labs/musicdna/internal/core/domain"
	"github.com/ewilliams-labs/musicdna/internal/core/ports"
)

const (
	// DefaultSnapshotLimit is used when a caller asks for no particular page size.
	DefaultSnapshotLimit = 20
	// MaxSnapshotLimit caps one page of snapshot history.
	MaxSnapshotLimit = 100
)

// Orchestrator coordinates the music provider, the analysis engine and snapshot storage.
type Orchestrator struct {
	music    ports.MusicProvider
	cache    ports.ProfileCache
	recorder ports.SnapshotRecorder
	repo     ports.SnapshotRepository

	now   func() time.Time
	newID func() string
}

// NewOrchestrator constructs an Orchestrator. cache and recorder may be nil.
func NewOrchestrator(music ports.MusicProvider, cache ports.ProfileCache, recorder ports.SnapshotRecorder, repo ports.SnapshotRepository) *Orchestrator {
	return &Orchestrator{
		music:    music,
		cache:    cache,
		recorder: recorder,
		repo:     repo,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// BuildMusicDNA computes the listener's profile for an access token.
func (o *Orchestrator) BuildMusicDNA(ctx context.Context, token string) (domain.MusicDNA, error) {
	if token == "" {
		return domain.MusicDNA{}, domain.ErrNotAuthenticated
	}

	if cached := o.cachedProfile(ctx, token); cached != nil {
		return *cached, nil
	}

	// 1. Fetch top artists and top tracks together
	var (
		artists []domain.Artist
		tracks  []domain.Track
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		artists, err = o.music.TopArtists(gctx, token)
		if err != nil {
			return fmt.Errorf("service: failed to fetch top artists: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tracks, err = o.music.TopTracks(gctx, token)
		if err != nil {
			return fmt.Errorf("service: failed to fetch top tracks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.MusicDNA{}, err
	}

	// 2. Audio features; a failure here falls back to genre estimation
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}
	samples, featuresErr := o.music.AudioFeatures(ctx, token, ids)
	if featuresErr != nil {
		log.Printf("WARN service: audio features unavailable, estimating from genres: %v", featuresErr)
	}

	// 3. Pure analysis
	dna, source := analysis.BuildDNA(analysis.Listening{
		Artists:     artists,
		Tracks:      tracks,
		Features:    samples,
		FeaturesErr: featuresErr,
	})
	log.Printf("INFO service: built profile %q from %d artists, %d tracks (%s features)",
		dna.PersonalityLabel, len(artists), len(tracks), source)

	// 4. Side effects never fail the request
	o.storeProfile(ctx, token, dna)
	if o.recorder != nil {
		o.recorder.Record(domain.Snapshot{
			ID:        o.newID(),
			CreatedAt: o.now().UTC(),
			Source:    source,
			DNA:       dna,
		})
	}

	return dna, nil
}

// ForgetProfile drops any cached profile for token.
func (o *Orchestrator) ForgetProfile(ctx context.Context, token string) {
	if o.cache == nil || token == "" {
		return
	}
	if err := o.cache.Delete(ctx, token); err != nil {
		log.Printf("WARN service: cache delete failed: %v", err)
	}
}

// ListSnapshots returns recent snapshots, newest first. limit is clamped to [1, MaxSnapshotLimit].
func (o *Orchestrator) ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}
	limit = min(limit, MaxSnapshotLimit)

	snapshots, err := o.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// GetSnapshot loads one snapshot; a missing id yields domain.ErrNotFound.
func (o *Orchestrator) GetSnapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	s, err := o.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("service: failed to load snapshot: %w", err)
	}
	return s, nil
}

func (o *Orchestrator) cachedProfile(ctx context.Context, token string) *domain.MusicDNA {
	if o.cache == nil {
		return nil
	}
	dna, err := o.cache.Get(ctx, token)
	if err != nil {
		log.Printf("WARN service: cache read failed: %v", err)
		return nil
	}
	if dna != nil {
		log.Printf("DEBUG service: serving cached profile")
	}
	return dna
}

func (o *Orchestrator) storeProfile(ctx context.Context, token string, dna domain.MusicDNA) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Set(ctx, token, dna); err != nil {
		log.Printf("WARN service: cache write failed: %v", err)
	}
}
