package inference

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vgsales-forecaster/models"
)

// LinearModel is a regressor exported from the training pipeline as its
// intercept and per-column coefficients.
//
//	name: vgsales-linear-v1
//	intercept: 0.42
//	coefficients:
//	  Year: -0.003
//	  Genre_Action: 0.21
type LinearModel struct {
	ModelName    string             `yaml:"name"`
	Intercept    float64            `yaml:"intercept"`
	Coefficients map[string]float64 `yaml:"coefficients"`
}

// LoadLinearModel reads a linear model artifact from disk.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inference: read model %q: %w", path, err)
	}
	return ParseLinearModel(data)
}

// ParseLinearModel decodes a linear model artifact.
func ParseLinearModel(data []byte) (*LinearModel, error) {
	var m LinearModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("inference: decode model: %w", err)
	}
	if len(m.Coefficients) == 0 {
		return nil, fmt.Errorf("inference: model %q has no coefficients", m.ModelName)
	}
	if m.ModelName == "" {
		m.ModelName = "linear"
	}
	return &m, nil
}

func (m *LinearModel) Name() string { return m.ModelName }

// Predict sums coefficient*value in the vector's column order, so the result
// is bit-for-bit reproducible. Columns without a coefficient contribute 0.
func (m *LinearModel) Predict(_ context.Context, features models.FeatureVector) (float64, error) {
	if len(features.Columns) != len(features.Values) {
		return 0, fmt.Errorf("inference: %d columns but %d values", len(features.Columns), len(features.Values))
	}
	sum := m.Intercept
	for i, col := range features.Columns {
		sum += m.Coefficients[col] * features.Values[i]
	}
	return sum, nil
}
