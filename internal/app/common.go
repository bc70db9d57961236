package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/retailmetrics/internal/config"
	"github.com/blackwell-systems/retailmetrics/internal/ingest"
	"github.com/blackwell-systems/retailmetrics/internal/logger"
	"github.com/blackwell-systems/retailmetrics/internal/store"
	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// session holds everything a command needs to reach the transaction feed.
type session struct {
	cfg     *config.Config
	aliases *config.Aliases
	ctx     context.Context
	source  ingest.Source
	loader  ingest.Loader
	cache   *ingest.CachedLoader // nil when caching is disabled
	store   *store.Store
}

// loadConfig reads the config file and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if sourceURI != "" {
		cfg.Source.URI = sourceURI
	}
	if dbPath != "" {
		cfg.Cache.DBPath = dbPath
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openSession wires config, logging, source and loader for cmd.
// Callers must Close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dir, err := configDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	aliases, err := config.LoadAliases(dir)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	ctx = logger.WithContext(ctx, log)
	log.Debug().Str("dir", dir).Int("aliases", aliases.Len()).Msg("loaded aliases")

	src, err := ingest.NewSource(cfg.Source.URI, ingest.SourceOptions{Timeout: cfg.Source.Timeout})
	if err != nil {
		return nil, transactions.NewFieldError(transactions.ErrInvalidArgument, "source", cfg.Source.URI, err)
	}

	s := &session{
		cfg:     cfg,
		aliases: aliases,
		ctx:     ctx,
		source:  src,
		loader:  &ingest.SourceLoader{Source: src, Layouts: cfg.Dataset.DateLayouts},
	}

	if !cfg.Cache.Enabled {
		return s, nil
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	s.store = st
	s.cache = ingest.NewCachedLoader(st, src, s.loader, cfg.Cache.MaxAge)
	s.loader = s.cache

	return s, nil
}

// configDir is the directory holding the config file and the aliases file.
func configDir() (string, error) {
	if cfgFile != "" {
		return filepath.Dir(cfgFile), nil
	}
	return config.Dir()
}

// openStore opens the snapshot cache and ensures its schema exists.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.New(cfg.Cache.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return st, nil
}

// Load returns the dataset, from the cache when possible.
func (s *session) Load() (*transactions.Dataset, error) {
	return s.loader.Load(s.ctx)
}

// Close releases the cache database, if one was opened.
func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
}

// loadDataset opens a session, loads the dataset and closes the session.
func loadDataset(cmd *cobra.Command) (*transactions.Dataset, error) {
	s, err := openSession(cmd)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return s.Load()
}
