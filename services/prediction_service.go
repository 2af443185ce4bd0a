package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vgsales-forecaster/models"
	"vgsales-forecaster/storage"
	"vgsales-forecaster/utils"
)

// PredictionService is what the presentation layer talks to. It stamps each
// result with an id and, when enabled, records it. Recording is best effort:
// a failed write is logged and the result is still returned.
type PredictionService struct {
	forecaster *Forecaster
	recorder   storage.PredictionRecorder
	saveData   bool
	horizon    int
	maxHorizon int
	logger     *utils.Logger
	now        func() time.Time
}

func NewPredictionService(
	forecaster *Forecaster,
	recorder storage.PredictionRecorder,
	saveData bool,
	defaultHorizon int,
	maxHorizon int,
	logger *utils.Logger,
) *PredictionService {
	return &PredictionService{
		forecaster: forecaster,
		recorder:   recorder,
		saveData:   saveData && recorder != nil,
		horizon:    defaultHorizon,
		maxHorizon: maxHorizon,
		logger:     logger,
		now:        time.Now,
	}
}

// DefaultHorizon is used when a forecast request does not name one.
func (s *PredictionService) DefaultHorizon() int { return s.horizon }

// Predict runs a single prediction.
func (s *PredictionService) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	value, err := s.forecaster.Predict(ctx, req)
	if err != nil {
		s.logger.Error("[predict] %s: %v", describe(req), err)
		return nil, err
	}

	result := &models.PredictionResult{
		ID:             uuid.NewString(),
		Request:        req,
		Value:          value,
		LogTransformed: s.forecaster.LogTransformed(),
		CreatedAt:      s.now().UTC(),
	}
	s.logger.Info("[predict] %s → %.2fM", describe(req), value)

	if s.saveData {
		if err := s.recorder.RecordPrediction(ctx, result); err != nil {
			s.logger.Warn("[predict] failed to record prediction %s: %v", result.ID, err)
		}
	}
	return result, nil
}

// Forecast runs a multi-year forecast. A horizon of 0 means the default;
// horizons above the configured maximum are rejected. A maximum of 0 means
// no limit.
func (s *PredictionService) Forecast(ctx context.Context, req models.PredictionRequest, horizon int) (*models.ForecastResult, error) {
	if horizon == 0 {
		horizon = s.horizon
	}
	if s.maxHorizon > 0 && horizon > s.maxHorizon {
		return nil, fmt.Errorf("forecast: horizon %d exceeds maximum %d: %w", horizon, s.maxHorizon, models.ErrInvalidHorizon)
	}

	series, err := s.forecaster.Forecast(ctx, req, horizon)
	if err != nil {
		s.logger.Error("[forecast] %s over %d years: %v", describe(req), horizon, err)
		return nil, err
	}

	result := &models.ForecastResult{
		ID:             uuid.NewString(),
		Request:        req,
		Horizon:        horizon,
		Series:         series,
		LogTransformed: s.forecaster.LogTransformed(),
		CreatedAt:      s.now().UTC(),
	}
	s.logger.Info("[forecast] %s → %d years", describe(req), len(series))

	if s.saveData {
		if err := s.recorder.RecordForecast(ctx, result); err != nil {
			s.logger.Warn("[forecast] failed to record forecast %s: %v", result.ID, err)
		}
	}
	return result, nil
}
