// Package worker provides background persistence of computed profiles.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/avast/retry-go"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
	"github.com/ewilliams-labs/musicdna/internal/core/ports"
)

const (
	saveAttempts = 4
	saveDelay    = 50 * time.Millisecond
	saveTimeout  = 10 * time.Second
)

// Pool manages background workers that write snapshots.
type Pool struct {
	repo    ports.SnapshotRepository
	retryIf func(error) bool
	jobs    chan domain.Snapshot
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var _ ports.SnapshotRecorder = (*Pool)(nil)

// NewPool creates a worker pool with the given queue size.
// retryIf picks which save errors are retried; nil retries none.
func NewPool(repo ports.SnapshotRepository, queueSize int, retryIf func(error) bool) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	if retryIf == nil {
		retryIf = func(error) bool { return false }
	}
	return &Pool{repo: repo, retryIf: retryIf, jobs: make(chan domain.Snapshot, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for s := range p.jobs {
				p.processJob(s)
			}
		}()
	}
}

// Stop closes the queue and waits for queued snapshots to be written.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}

// Record queues a snapshot without blocking.
func (p *Pool) Record(s domain.Snapshot) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		log.Printf("WARN worker: pool stopped, dropping snapshot %s", s.ID)
		return
	}
	select {
	case p.jobs <- s:
	default:
		log.Printf("WARN worker: queue full, dropping snapshot %s", s.ID)
	}
}

func (p *Pool) processJob(s domain.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	err := retry.Do(
		func() error {
			return p.repo.Save(ctx, s)
		},
		retry.Context(ctx),
		retry.Attempts(saveAttempts),
		retry.Delay(saveDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(p.retryIf),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("WARN worker: retrying snapshot %s (attempt %d): %v", s.ID, n+1, err)
		}),
	)
	if err != nil {
		log.Printf("WARN worker: failed to save snapshot %s: %v", s.ID, err)
		return
	}
	log.Printf("DEBUG worker: saved snapshot %s (%s)", s.ID, s.Source)
}
