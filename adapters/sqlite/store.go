// Package sqlite keeps interaction datasets in a local SQLite database and
// serves them through the same repository ports as the flat-file store.
package sqlite

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gokea/domain/core"
	"gokea/domain/kinase"
	"gokea/internal"
	"gokea/internal/errors"
	"gokea/internal/migration"
	"gokea/ports"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store is a SQLite-backed dataset repository
type Store struct {
	db     *sqlx.DB
	logger *internal.Logger
}

var _ ports.DatasetStore = (*Store)(nil)

type datasetRow struct {
	Name        string `db:"name"`
	Description string `db:"description"`
	Sources     string `db:"sources"`
	Ranks       string `db:"ranks"`
}

type interactionRow struct {
	Dataset   string `db:"dataset"`
	Seq       int    `db:"seq"`
	Group     string `db:"grp"`
	Family    string `db:"family"`
	Kinase    string `db:"kinase"`
	Substrate string `db:"substrate"`
}

type rankRow struct {
	Dataset string  `db:"dataset"`
	Name    string  `db:"name"`
	Mean    float64 `db:"mean"`
	StdDev  float64 `db:"std_dev"`
}

// Open opens (creating if needed) the database at path and migrates it
func Open(ctx context.Context, path string, logger *internal.Logger) (*Store, error) {
	if logger == nil {
		logger = internal.Discard
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !stderrors.Is(err, os.ErrExist) {
			return nil, errors.DatabaseError("failed to create database directory", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.DatabaseError("failed to open sqlite database", err)
	}
	// single writer, and keeps ":memory:" databases on one connection
	db.SetMaxOpenConns(1)

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.DatabaseError("failed to migrate sqlite database", err)
	}

	logger.Debug("sqlite: opened %s", path)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// ImportDataset replaces the dataset's rows with the given records in one
// transaction. Background records must have at least four comma-separated
// fields and rank records three whitespace-separated fields.
func (s *Store) ImportDataset(ctx context.Context, info ports.DatasetInfo, background, ranks []string) error {
	interactions, err := parseInteractions(string(info.Selector), background)
	if err != nil {
		return err
	}
	stats, err := parseRanks(string(info.Selector), ranks)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin import", err)
	}
	defer func() { _ = tx.Rollback() }()

	var position int
	if err := tx.GetContext(ctx, &position, `SELECT COALESCE(MAX(position), 0) + 1 FROM datasets`); err != nil {
		return errors.DatabaseError("failed to read dataset positions", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (name, description, sources, ranks, position) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET description = excluded.description,
			sources = excluded.sources, ranks = excluded.ranks`,
		string(info.Selector), info.Description, strings.Join(info.Sources, ","), info.Ranks, position)
	if err != nil {
		return errors.DatabaseError("failed to upsert dataset", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM interactions WHERE dataset = ?`, string(info.Selector)); err != nil {
		return errors.DatabaseError("failed to clear interactions", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rank_stats WHERE dataset = ?`, string(info.Selector)); err != nil {
		return errors.DatabaseError("failed to clear rank statistics", err)
	}

	insertInteraction, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO interactions (dataset, seq, grp, family, kinase, substrate)
		VALUES (:dataset, :seq, :grp, :family, :kinase, :substrate)`)
	if err != nil {
		return errors.DatabaseError("failed to prepare interaction insert", err)
	}
	defer insertInteraction.Close()
	for _, row := range interactions {
		if _, err := insertInteraction.ExecContext(ctx, row); err != nil {
			return errors.DatabaseError("failed to insert interaction", err)
		}
	}

	insertRank, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO rank_stats (dataset, name, mean, std_dev)
		VALUES (:dataset, :name, :mean, :std_dev)
		ON CONFLICT(dataset, name) DO UPDATE SET mean = excluded.mean, std_dev = excluded.std_dev`)
	if err != nil {
		return errors.DatabaseError("failed to prepare rank insert", err)
	}
	defer insertRank.Close()
	for _, row := range stats {
		if _, err := insertRank.ExecContext(ctx, row); err != nil {
			return errors.DatabaseError("failed to insert rank statistic", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit import", err)
	}
	s.logger.Info("sqlite: imported %s (%d interactions, %d rank statistics)", info.Selector, len(interactions), len(stats))
	return nil
}

// Background returns the dataset's records in import order, rebuilt as
// "group,family,kinase,substrate".
func (s *Store) Background(ctx context.Context, selector kinase.Selector, level kinase.Resolution) ([]string, error) {
	name, err := s.lookup(ctx, selector)
	if err != nil {
		return nil, err
	}

	var rows []interactionRow
	err = s.db.SelectContext(ctx, &rows, `
		SELECT dataset, seq, grp, family, kinase, substrate
		FROM interactions WHERE dataset = ? ORDER BY seq`, name)
	if err != nil {
		return nil, errors.DatabaseError("failed to load interactions", err)
	}
	if len(rows) == 0 {
		return nil, errors.ConfigInvalidf(core.ErrMissingResource, "dataset %s has no imported interactions", name)
	}

	records := make([]string, len(rows))
	for i, r := range rows {
		records[i] = strings.Join([]string{r.Group, r.Family, r.Kinase, r.Substrate}, ",")
	}
	s.logger.Debug("sqlite: %d background records for %s at %s level", len(records), name, level)
	return records, nil
}

// RankStats returns "name mean stddev" records ordered by name
func (s *Store) RankStats(ctx context.Context, selector kinase.Selector) ([]string, error) {
	name, err := s.lookup(ctx, selector)
	if err != nil {
		return nil, err
	}

	var rows []rankRow
	err = s.db.SelectContext(ctx, &rows, `
		SELECT dataset, name, mean, std_dev FROM rank_stats WHERE dataset = ? ORDER BY name`, name)
	if err != nil {
		return nil, errors.DatabaseError("failed to load rank statistics", err)
	}

	records := make([]string, len(rows))
	for i, r := range rows {
		records[i] = r.Name + " " + formatFloat(r.Mean) + " " + formatFloat(r.StdDev)
	}
	return records, nil
}

// Datasets lists imported datasets in import order
func (s *Store) Datasets(ctx context.Context) ([]ports.DatasetInfo, error) {
	var rows []datasetRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT name, description, sources, ranks FROM datasets ORDER BY position`)
	if err != nil {
		return nil, errors.DatabaseError("failed to list datasets", err)
	}

	out := make([]ports.DatasetInfo, len(rows))
	for i, r := range rows {
		var sources []string
		if r.Sources != "" {
			sources = strings.Split(r.Sources, ",")
		}
		out[i] = ports.DatasetInfo{
			Selector:    kinase.Selector(r.Name),
			Description: r.Description,
			Sources:     sources,
			Ranks:       r.Ranks,
		}
	}
	return out, nil
}

func (s *Store) lookup(ctx context.Context, selector kinase.Selector) (string, error) {
	name := string(kinase.NormalizeSelector(string(selector)))
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM datasets WHERE name = ?`, name); err != nil {
		return "", errors.DatabaseError("failed to look up dataset", err)
	}
	if count == 0 {
		return "", errors.ConfigInvalidf(core.ErrUnknownDataset, "no dataset imported as %q", selector)
	}
	return name, nil
}

func parseInteractions(dataset string, records []string) ([]interactionRow, error) {
	rows := make([]interactionRow, 0, len(records))
	for i, record := range records {
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.Split(record, ",")
		if len(fields) < 4 {
			return nil, errors.DataInvalid("failed to import "+dataset,
				core.NewMalformedRecordError("background", i+1, record))
		}
		rows = append(rows, interactionRow{
			Dataset:   dataset,
			Seq:       len(rows) + 1,
			Group:     strings.TrimSpace(fields[0]),
			Family:    strings.TrimSpace(fields[1]),
			Kinase:    strings.TrimSpace(fields[2]),
			Substrate: strings.TrimSpace(fields[3]),
		})
	}
	return rows, nil
}

func parseRanks(dataset string, records []string) ([]rankRow, error) {
	rows := make([]rankRow, 0, len(records))
	for i, record := range records {
		fields := strings.Fields(record)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) < 3 {
			return nil, errors.DataInvalid("failed to import ranks for "+dataset,
				core.NewMalformedRecordError("rank", i+1, record))
		}
		mean, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errors.DataInvalid("failed to import ranks for "+dataset,
				core.NewMalformedRecordError("rank", i+1, record))
		}
		stdDev, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.DataInvalid("failed to import ranks for "+dataset,
				core.NewMalformedRecordError("rank", i+1, record))
		}
		rows = append(rows, rankRow{Dataset: dataset, Name: fields[0], Mean: mean, StdDev: stdDev})
	}
	return rows, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Import copies every dataset src can serve into the store. Datasets whose
// resources are missing are skipped with a warning; the names imported are
// returned in catalog order.
func (s *Store) Import(ctx context.Context, src ports.DatasetStore) ([]kinase.Selector, error) {
	datasets, err := src.Datasets(ctx)
	if err != nil {
		return nil, err
	}

	var imported []kinase.Selector
	for _, info := range datasets {
		background, err := src.Background(ctx, info.Selector, kinase.ResolutionKinase)
		if stderrors.Is(err, core.ErrMissingResource) {
			s.logger.Warn("sqlite: skipping %s: %v", info.Selector, err)
			continue
		}
		if err != nil {
			return imported, err
		}
		ranks, err := src.RankStats(ctx, info.Selector)
		if err != nil && !stderrors.Is(err, core.ErrMissingResource) {
			return imported, err
		}
		if err := s.ImportDataset(ctx, info, background, ranks); err != nil {
			return imported, err
		}
		imported = append(imported, info.Selector)
	}
	return imported, nil
}
