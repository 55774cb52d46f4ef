package app

import (
	"context"
	"io"
	"time"

	"gokea/domain/core"
	"gokea/domain/kinase"
	"gokea/domain/run"
	"gokea/internal"
	"gokea/internal/enrichment"
	"gokea/internal/errors"
	"gokea/internal/genelist"
	"gokea/ports"
)

// EnrichmentService resolves a dataset, runs the enrichment engine over a
// validated gene list and stamps the result with a run manifest
type EnrichmentService struct {
	store  ports.DatasetStore
	logger *internal.Logger
}

// EnrichmentRequest defines the inputs of one enrichment run
type EnrichmentRequest struct {
	Selector kinase.Selector
	Options  kinase.Options
	Genes    []string
}

// NewEnrichmentService creates an enrichment service
func NewEnrichmentService(store ports.DatasetStore, logger *internal.Logger) *EnrichmentService {
	if logger == nil {
		logger = internal.Discard
	}
	return &EnrichmentService{
		store:  store,
		logger: logger,
	}
}

// LoadGeneList reads and validates a gene list from src
func (s *EnrichmentService) LoadGeneList(src ports.LineReader) ([]string, error) {
	lines, err := src.ReadLines()
	if err != nil {
		return nil, err
	}
	genes, err := genelist.Validate(lines)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("enrichment: loaded %d genes", len(genes))
	return genes, nil
}

// Run executes one enrichment run. Configuration problems (unknown dataset,
// missing resource, bad options) abort before any computation.
func (s *EnrichmentService) Run(ctx context.Context, req EnrichmentRequest) (*run.Report, error) {
	startTime := time.Now()

	selector := kinase.NormalizeSelector(string(req.Selector))
	if err := req.Options.Validate(); err != nil {
		return nil, errors.ConfigInvalidf(err, "invalid enrichment options")
	}
	if len(req.Genes) == 0 {
		return nil, errors.InvalidInput("invalid input", core.ErrEmptyInput)
	}

	background, err := s.store.Background(ctx, selector, req.Options.Resolution)
	if err != nil {
		return nil, err
	}
	ranks, err := s.store.RankStats(ctx, selector)
	if err != nil {
		return nil, err
	}

	engine := enrichment.NewEngine(s.logger)
	ranked, err := engine.Run(background, ranks, req.Genes, req.Options)
	if err != nil {
		return nil, err
	}

	summary := engine.Summary()
	manifest := run.NewManifest(selector, req.Options, background, ranks, req.Genes)
	manifest.InputSize = summary.InputSize
	manifest.RestrictedSize = summary.RestrictedSize
	manifest.BackgroundSize = summary.UniverseSize
	manifest.KinaseCount = summary.KinaseCount
	manifest.Survivors = summary.Survivors

	if summary.SkippedRecords > 0 {
		s.logger.Warn("enrichment: skipped %d background records with an empty name or substrate", summary.SkippedRecords)
	}
	if summary.RestrictedSize == 0 {
		s.logger.Warn("enrichment: none of the %d input genes occur in the %s background", summary.InputSize, selector)
	}
	s.logger.Info("enrichment: run %s ranked %d of %d kinases (%s, %s level, sorted by %s) in %s",
		manifest.RunID.String(), summary.Survivors, summary.KinaseCount, selector,
		req.Options.Resolution, req.Options.SortBy, time.Since(startTime).Round(time.Millisecond))

	return &run.Report{Manifest: manifest, Kinases: ranked}, nil
}

// Datasets lists the datasets the store can serve
func (s *EnrichmentService) Datasets(ctx context.Context) ([]ports.DatasetInfo, error) {
	return s.store.Datasets(ctx)
}

// WriteReport writes the first top kinases of report with writer; top <= 0
// writes all of them
func (s *EnrichmentService) WriteReport(w io.Writer, writer ports.ReportWriter, report *run.Report, top int) error {
	if err := writer.Write(w, report.Top(top)); err != nil {
		return errors.Wrapf(err, "failed to write %s report", writer.Format())
	}
	return nil
}
