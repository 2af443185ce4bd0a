package inference

import (
	"context"

	"vgsales-forecaster/models"
)

// Model is any loaded regressor.
type Model interface {
	Name() string
	Predict(ctx context.Context, features models.FeatureVector) (float64, error)
}

// Load returns the remote model when an endpoint is configured and the
// linear artifact at modelPath otherwise.
func Load(modelPath, endpoint string) (Model, error) {
	if endpoint != "" {
		return NewRemoteModel(endpoint), nil
	}
	m, err := LoadLinearModel(modelPath)
	if err != nil {
		return nil, err
	}
	return m, nil
}
