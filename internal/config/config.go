// Package config loads runtime settings from flags, environment, .env and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. MUSICDNA_ADDR.
const EnvPrefix = "MUSICDNA"

// Keys shared by viper, flags and the config file.
const (
	KeyAddr          = "addr"
	KeyDatabase      = "database"
	KeyRedisURL      = "redis_url"
	KeySessionSecret = "session_secret"
	KeySecureCookies = "secure_cookies"
	KeySpotifyAPIURL = "spotify_api_url"
	KeyWorkers       = "workers"
	KeyQueueSize     = "queue_size"
)

// Config is the resolved application configuration.
type Config struct {
	Addr          string
	DatabasePath  string
	RedisURL      string
	SessionSecret string
	SecureCookies bool
	SpotifyAPIURL string
	Workers       int
	QueueSize     int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyDatabase, "musicdna.db")
	v.SetDefault(KeySecureCookies, false)
	v.SetDefault(KeyWorkers, 2)
	v.SetDefault(KeyQueueSize, 100)
}

// Load resolves configuration into a Config. cfgFile overrides the default
// $HOME/.musicdna.yaml; a missing default file is not an error.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", cfgFile, err)
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(".musicdna")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: failed to read config file: %w", err)
			}
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		log.Printf("INFO config: using config file %s", used)
	}

	cfg := Config{
		Addr:          v.GetString(KeyAddr),
		DatabasePath:  v.GetString(KeyDatabase),
		RedisURL:      v.GetString(KeyRedisURL),
		SessionSecret: v.GetString(KeySessionSecret),
		SecureCookies: v.GetBool(KeySecureCookies),
		SpotifyAPIURL: v.GetString(KeySpotifyAPIURL),
		Workers:       v.GetInt(KeyWorkers),
		QueueSize:     v.GetInt(KeyQueueSize),
	}

	if cfg.DatabasePath != "" && cfg.DatabasePath != ":memory:" {
		path, err := homedir.Expand(cfg.DatabasePath)
		if err != nil {
			return Config{}, fmt.Errorf("config: bad database path: %w", err)
		}
		cfg.DatabasePath = filepath.Clean(path)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EnsureSessionSecret fills an empty session secret with a random one.
// Sessions signed with it do not survive a restart.
func (c *Config) EnsureSessionSecret() {
	if c.SessionSecret != "" {
		return
	}
	log.Printf("WARN config: %s_%s not set, generating an ephemeral session secret", EnvPrefix, strings.ToUpper(KeySessionSecret))
	c.SessionSecret = uuid.NewString() + uuid.NewString()
}

func (c Config) validate() error {
	if c.Addr == "" {
		return errors.New("config: addr must not be empty")
	}
	if c.DatabasePath == "" {
		return errors.New("config: database must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("config: queue_size must be at least 1, got %d", c.QueueSize)
	}
	return nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: failed to load %s: %w", path, err)
	}
	return nil
}
