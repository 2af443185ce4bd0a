package services

import (
	"context"
	"fmt"
	"math"

	"vgsales-forecaster/models"
	"vgsales-forecaster/utils"
)

// Regressor is a trained model. Its internals are opaque; it only has to map
// an aligned feature vector to a single number.
type Regressor interface {
	Predict(ctx context.Context, features models.FeatureVector) (float64, error)
}

// Forecaster aligns requests to a fixed schema and runs them through a model.
// The model and schema are loaded once at startup and never mutated, so a
// Forecaster can be shared freely.
type Forecaster struct {
	model          Regressor
	schema         models.ModelSchema
	logTransformed bool
	logger         *utils.Logger
}

// NewForecaster validates the schema up front so a broken artifact is
// reported at startup rather than on the first request.
func NewForecaster(model Regressor, schema models.ModelSchema, logTransformed bool, logger *utils.Logger) (*Forecaster, error) {
	if model == nil {
		return nil, fmt.Errorf("forecaster: model is required")
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("forecaster: %w", err)
	}
	cols := make(models.ModelSchema, len(schema))
	copy(cols, schema)
	return &Forecaster{
		model:          model,
		schema:         cols,
		logTransformed: logTransformed,
		logger:         logger,
	}, nil
}

// LogTransformed reports whether model outputs are mapped back with expm1.
func (f *Forecaster) LogTransformed() bool { return f.logTransformed }

// Schema returns a copy of the expected feature columns.
func (f *Forecaster) Schema() models.ModelSchema {
	cols := make(models.ModelSchema, len(f.schema))
	copy(cols, f.schema)
	return cols
}

// Predict returns the model's estimate of global sales for one request, in
// raw sales units.
func (f *Forecaster) Predict(ctx context.Context, req models.PredictionRequest) (float64, error) {
	vec, err := Align(req, f.schema)
	if err != nil {
		return 0, err
	}

	if unseen := UnseenColumns(req, f.schema); len(unseen) > 0 && f.logger != nil {
		f.logger.Warn("[forecaster] %s: %v not in model schema, encoded as zero", describe(req), unseen)
	}

	raw, err := f.model.Predict(ctx, vec)
	if err != nil {
		return 0, fmt.Errorf("forecaster: predict %s: %w", describe(req), err)
	}
	value := raw
	if f.logTransformed {
		value = math.Expm1(raw)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("forecaster: predict %s: raw output %v: %w", describe(req), raw, models.ErrNonFinitePrediction)
	}
	return value, nil
}

// Forecast predicts horizon consecutive years starting at req.Year with genre
// and platform held constant. The first failure aborts the whole forecast.
func (f *Forecaster) Forecast(ctx context.Context, req models.PredictionRequest, horizon int) (models.ForecastSeries, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("forecaster: horizon %d: %w", horizon, models.ErrInvalidHorizon)
	}

	if req.Year > math.MaxInt-(horizon-1) {
		return nil, fmt.Errorf("forecaster: year %d plus horizon %d: %w", req.Year, horizon, models.ErrInvalidRequest)
	}

	series := make(models.ForecastSeries, 0, horizon)
	for i := 0; i < horizon; i++ {
		year := req.Year + i
		value, err := f.Predict(ctx, req.WithYear(year))
		if err != nil {
			return nil, err
		}
		series = append(series, models.ForecastPoint{Year: year, Value: value})
	}
	return series, nil
}
