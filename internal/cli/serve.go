package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/musicdna/internal/adapters/rediscache"
	"github.com/ewilliams-labs/musicdna/internal/adapters/rest"
	"github.com/ewilliams-labs/musicdna/internal/adapters/spotify"
	"github.com/ewilliams-labs/musicdna/internal/adapters/sqlite"
	"github.com/ewilliams-labs/musicdna/internal/config"
	"github.com/ewilliams-labs/musicdna/internal/core/ports"
	"github.com/ewilliams-labs/musicdna/internal/core/services"
	"github.com/ewilliams-labs/musicdna/internal/worker"
)

const (
	upstreamTimeout = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(v *viper.Viper, load func() (config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("addr", ":8080", "Address to listen on")
	cmd.Flags().String("redis-url", "", "Redis URL for the profile cache (disabled when empty)")
	cmd.Flags().Int("workers", 2, "Snapshot writer goroutines")
	bindFlags(v, cmd.Flags(), map[string]string{
		"addr":      config.KeyAddr,
		"redis-url": config.KeyRedisURL,
		"workers":   config.KeyWorkers,
	})

	return cmd
}

func serve(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg.EnsureSessionSecret()

	// 1. Driven adapters
	repo, err := sqlite.NewAdapter(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	var cache ports.ProfileCache
	if cfg.RedisURL != "" {
		dialCtx, cancel := context.WithTimeout(parent, 5*time.Second)
		c, err := rediscache.Dial(dialCtx, cfg.RedisURL, rediscache.DefaultTTL)
		cancel()
		if err != nil {
			log.Printf("WARN serve: profile cache disabled: %v", err)
		} else {
			defer c.Close()
			cache = c
		}
	}

	httpClient := &http.Client{Timeout: upstreamTimeout}
	music := spotify.NewClient(httpClient, cfg.SpotifyAPIURL)
	auth := spotify.NewAuthenticator(httpClient, oauth2.Endpoint{})

	// 2. Background snapshot writer
	pool := worker.NewPool(repo, cfg.QueueSize, sqlite.IsTransient)
	pool.Start(cfg.Workers)
	defer pool.Stop()

	// 3. Core service and driving adapter
	svc := services.NewOrchestrator(music, cache, pool, repo)
	handler := rest.NewHandler(svc, auth, rest.NewSessionStore(cfg.SessionSecret, cfg.SecureCookies))
	handler.AddReadyCheck("sqlite", repo.Ping)
	if c, ok := cache.(*rediscache.Cache); ok {
		handler.AddReadyCheck("redis", c.Ping)
	}

	log.Println("------------------------------------------------")
	log.Printf("🧬 Music DNA API is running on %s", cfg.Addr)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
	return nil
}
