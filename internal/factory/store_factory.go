package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/job-mail-triage/internal/adapters/jobstore"
	"github.com/mikey/job-mail-triage/internal/config"
	"github.com/mikey/job-mail-triage/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates job repositories based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateJobRepository creates a job repository based on the configuration
func (f *StoreFactory) CreateJobRepository() (core.JobRepository, error) {
	storeCfg := f.cfg.GetStore()

	switch storeCfg.Type {
	case "memory":
		return jobstore.NewMemoryStore(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return jobstore.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
	case "mysql":
		return jobstore.NewMySQLStore(storeCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}
