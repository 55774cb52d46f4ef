package container

import (
	"context"
	"fmt"
	"os"

	"gokea/adapters/resource"
	"gokea/adapters/sqlite"
	"gokea/app"
	"gokea/internal"
	"gokea/internal/calibration"
	"gokea/internal/config"
	"gokea/internal/errors"
	"gokea/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Registry *resource.Registry
	Files    *resource.Repository
	SQLite   *sqlite.Store

	// Store is the repository the services read from, Files or SQLite
	// depending on Config.Data.Store
	Store ports.DatasetStore

	// Services
	Enrichment  *app.EnrichmentService
	Calibration *app.CalibrationService
}

// New creates a container for cfg and opens the configured store
func New(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.Discard
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initRepositories(ctx); err != nil {
		return nil, err
	}
	c.initServices()

	return c, nil
}

func (c *Container) initRepositories(ctx context.Context) error {
	switch c.Config.Data.Store {
	case config.StoreSQLite:
		if err := c.OpenSQLite(ctx); err != nil {
			return err
		}
		c.Store = c.SQLite
	default:
		if err := c.OpenFiles(); err != nil {
			return err
		}
		c.Store = c.Files
	}
	return nil
}

func (c *Container) initServices() {
	c.Enrichment = app.NewEnrichmentService(c.Store, c.Logger)
	c.Calibration = app.NewCalibrationService(c.Store, calibration.SeededRNG{}, c.Logger)
}

// OpenFiles initializes the file-backed repository over the data directory
func (c *Container) OpenFiles() error {
	if c.Files != nil {
		return nil
	}
	registry, err := resource.LoadRegistryFile(c.Config.Data.RegistryFile)
	if err != nil {
		return err
	}
	info, err := os.Stat(c.Config.Data.Dir)
	if err != nil || !info.IsDir() {
		return errors.ConfigInvalid(fmt.Sprintf("data directory %s does not exist", c.Config.Data.Dir))
	}
	c.Registry = registry
	c.Files = resource.NewRepository(os.DirFS(c.Config.Data.Dir), registry, c.Logger)
	return nil
}

// OpenSQLite opens the SQLite store at the configured path
func (c *Container) OpenSQLite(ctx context.Context) error {
	if c.SQLite != nil {
		return nil
	}
	store, err := sqlite.Open(ctx, c.Config.Data.SQLitePath, c.Logger)
	if err != nil {
		return err
	}
	c.SQLite = store
	return nil
}

// Shutdown releases the store
func (c *Container) Shutdown() error {
	if c.SQLite != nil {
		return c.SQLite.Close()
	}
	return nil
}
