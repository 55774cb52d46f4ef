package ports

import (
	"context"

	"gokea/domain/kinase"
)

// BackgroundRepository resolves an interaction dataset into ordered raw
// "group,family,kinase,substrate,..." records
type BackgroundRepository interface {
	Background(ctx context.Context, selector kinase.Selector, level kinase.Resolution) ([]string, error)
}

// RankStatsRepository resolves an interaction dataset into "name mean stddev" records
type RankStatsRepository interface {
	RankStats(ctx context.Context, selector kinase.Selector) ([]string, error)
}

// DatasetInfo describes one selectable dataset
type DatasetInfo struct {
	Selector    kinase.Selector `json:"selector" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Sources     []string        `json:"sources" yaml:"background"`
	Ranks       string          `json:"ranks,omitempty" yaml:"ranks"`
}

// DatasetCatalog lists the datasets a repository can serve
type DatasetCatalog interface {
	Datasets(ctx context.Context) ([]DatasetInfo, error)
}

// DatasetStore is the full read side the enrichment service needs
type DatasetStore interface {
	BackgroundRepository
	RankStatsRepository
	DatasetCatalog
}
