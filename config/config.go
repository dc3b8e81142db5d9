package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMongo    = "mongo"
	BackendEmbedded = "embedded"
)

// Config holds the settings read from qastore.yaml.
type Config struct {
	Store          StoreConfig `yaml:"store"`
	Files          FilesConfig `yaml:"files"`
	ContentLicense string      `yaml:"content_license"`
	LogFile        string      `yaml:"log_file"`
	PageSize       int         `yaml:"page_size"`
	API            APIConfig   `yaml:"api"`
}

type StoreConfig struct {
	Backend      string        `yaml:"backend"`
	Host         string        `yaml:"host"`
	Database     string        `yaml:"database"`
	EmbeddedPath string        `yaml:"embedded_path"`
	Timeout      time.Duration `yaml:"timeout"`
}

// FilesConfig names the JSON files read by the initial load.
type FilesConfig struct {
	Posts string `yaml:"posts"`
	Tags  string `yaml:"tags"`
	Votes string `yaml:"votes"`
}

type APIConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend:      BackendMongo,
			Host:         "localhost",
			Database:     "291db",
			EmbeddedPath: "data/badger",
			Timeout:      10 * time.Second,
		},
		Files: FilesConfig{
			Posts: "Posts.json",
			Tags:  "Tags.json",
			Votes: "Votes.json",
		},
		ContentLicense: "CC BY-SA 2.5",
		LogFile:        "qastore.log",
		PageSize:       5,
		API:            APIConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMongo, BackendEmbedded:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Database == "" {
		return errors.New("store.database must be set")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive, got %s", c.Store.Timeout)
	}
	return nil
}
