package storage

import (
	"context"

	"vgsales-forecaster/models"
)

// SalesWriter is the interface any storage backend for cleaned rows must satisfy.
type SalesWriter interface {
	Write(records []*models.SalesRecord) error
	Close() error
}

// SalesReader returns the stored dataset, used to feed insights.
type SalesReader interface {
	FetchAll() ([]*models.SalesRecord, error)
}

// PredictionRecorder keeps a log of served predictions and forecasts.
type PredictionRecorder interface {
	RecordPrediction(ctx context.Context, result *models.PredictionResult) error
	RecordForecast(ctx context.Context, result *models.ForecastResult) error
}

// ForecastWriter persists a forecast series for offline use.
type ForecastWriter interface {
	WriteForecast(result *models.ForecastResult) error
	Close() error
}
