// Package bootstrap wires the store, search index and catalog shared by every
// binary.
package bootstrap

import (
	"errors"

	"github.com/charmbracelet/log"

	"ideagraph/internal/adapters/filesystem"
	"ideagraph/internal/adapters/sqlite"
	"ideagraph/internal/application"
	"ideagraph/internal/application/commands"
	"ideagraph/internal/config"
	"ideagraph/internal/ports"
)

// Services holds the wired adapters
type Services struct {
	Config  config.Config
	Repo    *filesystem.Repository
	Index   ports.SnapshotIndex // nil when the index could not be opened
	Catalog *application.Catalog
}

// Open builds the services for cfg. A search index that fails to open is
// logged and disabled; the store works without it.
func Open(cfg config.Config, logger *log.Logger) (*Services, error) {
	repo := filesystem.NewRepository(cfg.DataDir, filesystem.WithLogger(logger))

	var index ports.SnapshotIndex
	idx := sqlite.NewIndex()
	if err := idx.Open(cfg.IndexPath()); err != nil {
		logger.Warn("search index disabled", "path", cfg.IndexPath(), "err", err)
	} else {
		index = idx
	}

	catalog := application.NewCatalog(repo, index, logger)
	if _, err := catalog.EnsureIndexed(); err != nil {
		logger.Warn("failed to build search index", "err", err)
	}

	return &Services{
		Config:  cfg,
		Repo:    repo,
		Index:   index,
		Catalog: catalog,
	}, nil
}

// Searcher returns the catalog when an index is available, else nil
func (s *Services) Searcher() commands.Searcher {
	if s.Index == nil {
		return nil
	}
	return s.Catalog
}

// Close releases the index
func (s *Services) Close() error {
	var errs []error
	if s.Index != nil {
		errs = append(errs, s.Index.Close())
	}
	return errors.Join(errs...)
}
