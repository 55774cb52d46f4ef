package config

import (
	"os"
	"strconv"
	"strings"

	"gokea/domain/kinase"
	"gokea/internal/errors"

	"github.com/joho/godotenv"
)

// Store kinds
const (
	StoreFiles  = "files"
	StoreSQLite = "sqlite"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Analysis AnalysisConfig
	Report   ReportConfig
	LogLevel string
}

// DataConfig says where background and rank resources come from
type DataConfig struct {
	Dir          string
	RegistryFile string
	Store        string
	SQLitePath   string
}

// AnalysisConfig holds the default run options as raw option strings
type AnalysisConfig struct {
	Interactions string
	SortBy       string
	Resolution   string
}

// ReportConfig holds output defaults
type ReportConfig struct {
	Format string
	Top    int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:     *loadDataConfig(),
		Analysis: *loadAnalysisConfig(),
		Report:   *loadReportConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// LoadWithEnvFile loads envFile into the environment when it exists, then calls Load.
// Variables already set in the environment win over the file.
func LoadWithEnvFile(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, errors.ConfigInvalidf(err, "failed to load %s", envFile)
			}
		}
	}
	return Load()
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dir:          getEnvOrDefault("KEA_DATA_DIR", "res"),
		RegistryFile: getEnvOrDefault("KEA_REGISTRY_FILE", ""),
		Store:        strings.ToLower(getEnvOrDefault("KEA_STORE", StoreFiles)),
		SQLitePath:   getEnvOrDefault("KEA_SQLITE_PATH", "kea.db"),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Interactions: getEnvOrDefault("KEA_INTERACTIONS", string(kinase.SelectorBoth)),
		SortBy:       getEnvOrDefault("KEA_SORT_BY", string(kinase.SortByCombinedScore)),
		Resolution:   getEnvOrDefault("KEA_RESOLUTION", kinase.ResolutionKinase.String()),
	}
}

func loadReportConfig() *ReportConfig {
	return &ReportConfig{
		Format: strings.ToLower(getEnvOrDefault("KEA_REPORT_FORMAT", "csv")),
		Top:    getEnvIntOrDefault("KEA_REPORT_TOP", 0),
	}
}

func validateConfig(config *Config) error {
	switch config.Data.Store {
	case StoreFiles:
		if config.Data.Dir == "" {
			return errors.ConfigInvalid("KEA_DATA_DIR is required for the files store")
		}
	case StoreSQLite:
		if config.Data.SQLitePath == "" {
			return errors.ConfigInvalid("KEA_SQLITE_PATH is required for the sqlite store")
		}
	default:
		return errors.ConfigInvalid("KEA_STORE must be files or sqlite, got " + strconv.Quote(config.Data.Store))
	}
	if config.Report.Top < 0 {
		return errors.ConfigInvalid("KEA_REPORT_TOP cannot be negative")
	}
	if _, err := config.Options(); err != nil {
		return err
	}
	return nil
}

// Options resolves the analysis strings into engine options
func (c *Config) Options() (kinase.Options, error) {
	resolution, err := kinase.ParseResolution(c.Analysis.Resolution)
	if err != nil {
		return kinase.Options{}, errors.ConfigInvalidf(err, "invalid KEA_RESOLUTION")
	}
	sortBy, err := kinase.ParseSortKey(c.Analysis.SortBy)
	if err != nil {
		return kinase.Options{}, errors.ConfigInvalidf(err, "invalid KEA_SORT_BY")
	}
	return kinase.Options{Resolution: resolution, SortBy: sortBy}, nil
}

// Selector returns the configured interaction dataset selector
func (c *Config) Selector() kinase.Selector {
	return kinase.NormalizeSelector(c.Analysis.Interactions)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
