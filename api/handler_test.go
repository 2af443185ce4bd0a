package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vgsales-forecaster/models"
	"vgsales-forecaster/services"
	"vgsales-forecaster/utils"
)

var testSchema = models.ModelSchema{
	"Year",
	"Genre_Action", "Genre_Sports",
	"Platform_PS4", "Platform_Wii",
}

const testMaxHorizon = 10

// yearModel predicts (year - 2000) / 3, or fails with err when set.
type yearModel struct {
	err error
}

func (m yearModel) Predict(_ context.Context, v models.FeatureVector) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	year, _ := v.Get("Year")
	return (year - 2000) / 3, nil
}

// fixedModel always returns the same raw output.
type fixedModel float64

func (m fixedModel) Predict(context.Context, models.FeatureVector) (float64, error) {
	return float64(m), nil
}

func newTestServer(t *testing.T, model services.Regressor) http.Handler {
	return newServer(t, model, false)
}

func newServer(t *testing.T, model services.Regressor, logTransformed bool) http.Handler {
	t.Helper()
	logger := utils.NewLoggerWithWriters(utils.LevelError, io.Discard, io.Discard)
	forecaster, err := services.NewForecaster(model, testSchema, logTransformed, logger)
	if err != nil {
		t.Fatalf("NewForecaster: %v", err)
	}
	predictions := services.NewPredictionService(forecaster, nil, false, 3, testMaxHorizon, logger)
	vocab := models.Vocabulary{
		Years:     []int{2006, 2008},
		Platforms: []string{"PS4", "Wii"},
		Genres:    []string{"Action", "Sports"},
	}
	report := &models.InsightReport{TotalRecords: 2, TopGenre: "Sports"}
	return NewRouter(NewHandler(predictions, vocab, report, logger))
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestHealthz(t *testing.T) {
	rec, env := do(t, newTestServer(t, yearModel{}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("got %d %+v", rec.Code, env)
	}
	if rec.Header().Get("X-Request-Id") != "req-1" {
		t.Errorf("request id not echoed")
	}
}

func TestGetVocabularyAndInsights(t *testing.T) {
	srv := newTestServer(t, yearModel{})

	_, env := do(t, srv, http.MethodGet, "/api/v1/vocabulary", "")
	var vocab models.Vocabulary
	if err := json.Unmarshal(env.Data, &vocab); err != nil {
		t.Fatalf("decode vocabulary: %v", err)
	}
	if len(vocab.Genres) != 2 || vocab.Platforms[1] != "Wii" {
		t.Errorf("unexpected vocabulary %+v", vocab)
	}

	_, env = do(t, srv, http.MethodGet, "/api/v1/insights", "")
	var report models.InsightReport
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode insights: %v", err)
	}
	if report.TopGenre != "Sports" {
		t.Errorf("TopGenre: got %q", report.TopGenre)
	}
}

func TestCreatePrediction(t *testing.T) {
	rec, env := do(t, newTestServer(t, yearModel{}), http.MethodPost, "/api/v1/predictions",
		`{"year": 2010, "genre": " Action ", "platform": "Wii"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d body %s", rec.Code, rec.Body.String())
	}

	var result models.PredictionResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Value != 3.33 {
		t.Errorf("value: got %v, want 3.33", result.Value)
	}
	if result.Request.Genre != "Action" {
		t.Errorf("genre not trimmed: %q", result.Request.Genre)
	}
	if result.ID == "" {
		t.Error("missing prediction id")
	}
}

func TestCreateForecast(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantYears []int
	}{
		{"default horizon", `{"year": 2010, "genre": "Sports", "platform": "PS4"}`, []int{2010, 2011, 2012}},
		{"explicit horizon", `{"year": 2015, "genre": "Sports", "platform": "PS4", "horizon": 2}`, []int{2015, 2016}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, newTestServer(t, yearModel{}), http.MethodPost, "/api/v1/forecasts", tt.body)
			if rec.Code != http.StatusCreated {
				t.Fatalf("status: got %d body %s", rec.Code, rec.Body.String())
			}
			var result models.ForecastResult
			if err := json.Unmarshal(env.Data, &result); err != nil {
				t.Fatalf("decode: %v", err)
			}
			years := result.Series.Years()
			if len(years) != len(tt.wantYears) {
				t.Fatalf("years: got %v, want %v", years, tt.wantYears)
			}
			for i := range years {
				if years[i] != tt.wantYears[i] {
					t.Errorf("years: got %v, want %v", years, tt.wantYears)
				}
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	mismatch := &models.SchemaMismatchError{Reason: "model expects other columns"}

	tests := []struct {
		name     string
		model    services.Regressor
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"bad json", yearModel{}, "/api/v1/predictions", `{`, http.StatusBadRequest, "invalid_input"},
		{"missing genre", yearModel{}, "/api/v1/predictions", `{"year": 2010, "platform": "Wii"}`, http.StatusBadRequest, "invalid_input"},
		{"negative horizon", yearModel{}, "/api/v1/forecasts", `{"year": 2010, "genre": "Action", "platform": "Wii", "horizon": -1}`, http.StatusBadRequest, "invalid_input"},
		{"horizon above maximum", yearModel{}, "/api/v1/forecasts", `{"year": 2010, "genre": "Action", "platform": "Wii", "horizon": 5000000}`, http.StatusBadRequest, "invalid_input"},
		{"year overflows horizon", yearModel{}, "/api/v1/forecasts", `{"year": 9223372036854775805, "genre": "Action", "platform": "Wii", "horizon": 6}`, http.StatusBadRequest, "invalid_input"},
		{"non-finite model output", fixedModel(math.NaN()), "/api/v1/predictions", `{"year": 2010, "genre": "Action", "platform": "Wii"}`, http.StatusInternalServerError, "internal_error"},
		{"schema mismatch", yearModel{err: mismatch}, "/api/v1/predictions", `{"year": 2010, "genre": "Action", "platform": "Wii"}`, http.StatusServiceUnavailable, "prediction_unavailable"},
		{"model failure", yearModel{err: errors.New("boom")}, "/api/v1/forecasts", `{"year": 2010, "genre": "Action", "platform": "Wii"}`, http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, newTestServer(t, tt.model), http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			if env.Status != "error" || env.Error == nil {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
			if env.Error.Code != tt.wantErr {
				t.Errorf("code: got %q, want %q", env.Error.Code, tt.wantErr)
			}
			if env.Error.RequestID != "req-1" {
				t.Errorf("request_id: got %q", env.Error.RequestID)
			}
		})
	}
}

func TestForecastChart(t *testing.T) {
	srv := newTestServer(t, yearModel{})

	rec, _ := do(t, srv, http.MethodGet, "/api/v1/forecasts/chart.svg?year=2010&genre=Action&platform=Wii&horizon=4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type: got %q", ct)
	}
	if n := strings.Count(rec.Body.String(), "<circle"); n != 4 {
		t.Errorf("markers: got %d, want 4", n)
	}

	rec, env := do(t, srv, http.MethodGet, "/api/v1/forecasts/chart.svg?year=soon&genre=Action&platform=Wii", "")
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "invalid_input" {
		t.Errorf("bad year: got %d %s", rec.Code, rec.Body.String())
	}
}

func TestPredictionOverflowingExpm1IsAnError(t *testing.T) {
	srv := newServer(t, fixedModel(800), true)

	for _, path := range []string{"/api/v1/predictions", "/api/v1/forecasts"} {
		t.Run(path, func(t *testing.T) {
			rec, env := do(t, srv, http.MethodPost, path, `{"year": 2010, "genre": "Action", "platform": "Wii"}`)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status: got %d body %q", rec.Code, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != "internal_error" {
				t.Errorf("expected internal_error envelope, got %q", rec.Body.String())
			}
		})
	}
}

func TestForecastChartRejectsLargeHorizon(t *testing.T) {
	rec, env := do(t, newTestServer(t, yearModel{}), http.MethodGet,
		"/api/v1/forecasts/chart.svg?year=2010&genre=Action&platform=Wii&horizon=11", "")
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "invalid_input" {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestWriteJSONUnencodablePayload(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusCreated, "", map[string]float64{"value": math.Inf(1)})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("body is not json: %q", rec.Body.String())
	}
	if env.Error == nil || env.Error.Code != "internal_error" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}
