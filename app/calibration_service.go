package app

import (
	"context"
	"io"

	"gokea/domain/kinase"
	"gokea/internal"
	"gokea/internal/calibration"
	"gokea/ports"
)

// CalibrationService produces rank statistics for a dataset's background
type CalibrationService struct {
	store      ports.BackgroundRepository
	calibrator *calibration.Calibrator
	logger     *internal.Logger
}

// NewCalibrationService creates a calibration service. A nil rng uses the
// seeded generator of the calibration package.
func NewCalibrationService(store ports.BackgroundRepository, rng ports.RNGPort, logger *internal.Logger) *CalibrationService {
	if logger == nil {
		logger = internal.Discard
	}
	return &CalibrationService{
		store:      store,
		calibrator: calibration.NewCalibrator(rng, logger),
		logger:     logger,
	}
}

// Calibrate samples random lists from the selected background
func (s *CalibrationService) Calibrate(ctx context.Context, selector kinase.Selector, settings calibration.Settings) ([]calibration.RankStat, error) {
	selector = kinase.NormalizeSelector(string(selector))
	background, err := s.store.Background(ctx, selector, settings.Resolution)
	if err != nil {
		return nil, err
	}
	s.logger.Info("calibration: %s at %s level, %d lists of %d genes, seed %d",
		selector, settings.Resolution, settings.Iterations, settings.ListSize, settings.Seed)
	return s.calibrator.Calibrate(ctx, background, settings)
}

// CalibrateTo calibrates and writes the rank resource to w
func (s *CalibrationService) CalibrateTo(ctx context.Context, w io.Writer, selector kinase.Selector, settings calibration.Settings) error {
	ranks, err := s.Calibrate(ctx, selector, settings)
	if err != nil {
		return err
	}
	return calibration.Write(w, ranks)
}
