package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vgsales-forecaster/models"
)

// RemoteModel delegates inference to a model server over HTTP.
type RemoteModel struct {
	endpoint string
	client   *http.Client
}

func NewRemoteModel(endpoint string) *RemoteModel {
	return &RemoteModel{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type remoteRequest struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

type remoteResponse struct {
	Prediction *float64 `json:"prediction"`
}

func (m *RemoteModel) Name() string { return "remote:" + m.endpoint }

func (m *RemoteModel) Predict(ctx context.Context, features models.FeatureVector) (float64, error) {
	body, err := json.Marshal(remoteRequest{Columns: features.Columns, Values: features.Values})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model service returned status: %d", resp.StatusCode)
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode model response: %w", err)
	}
	if out.Prediction == nil {
		return 0, fmt.Errorf("model response has no prediction")
	}
	return *out.Prediction, nil
}
