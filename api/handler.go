package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"vgsales-forecaster/chart"
	"vgsales-forecaster/models"
	"vgsales-forecaster/services"
	"vgsales-forecaster/utils"
)

type Handler struct {
	predictions *services.PredictionService
	vocabulary  models.Vocabulary
	insights    *models.InsightReport
	logger      *utils.Logger
}

func NewHandler(
	predictions *services.PredictionService,
	vocabulary models.Vocabulary,
	insights *models.InsightReport,
	logger *utils.Logger,
) *Handler {
	return &Handler{
		predictions: predictions,
		vocabulary:  vocabulary,
		insights:    insights,
		logger:      logger,
	}
}

type predictionBody struct {
	Year     int    `json:"year"`
	Genre    string `json:"genre"`
	Platform string `json:"platform"`
	Horizon  int    `json:"horizon,omitempty"`
}

func (b predictionBody) request() (models.PredictionRequest, error) {
	req := models.PredictionRequest{
		Year:     b.Year,
		Genre:    strings.TrimSpace(b.Genre),
		Platform: strings.TrimSpace(b.Platform),
	}
	if req.Genre == "" || req.Platform == "" {
		return req, fmt.Errorf("%w: genre and platform are required", models.ErrInvalidRequest)
	}
	return req, nil
}

func (h *Handler) getVocabulary(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", h.vocabulary)
}

func (h *Handler) getInsights(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", h.insights)
}

func (h *Handler) createPrediction(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFromContext(r.Context())

	var body predictionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body", reqID)
		return
	}
	req, err := body.request()
	if err != nil {
		h.fail(w, err, reqID)
		return
	}

	result, err := h.predictions.Predict(r.Context(), req)
	if err != nil {
		h.fail(w, err, reqID)
		return
	}
	out := *result
	out.Value = services.Round2(out.Value)
	writeSuccess(w, http.StatusCreated, "prediction created", out)
}

func (h *Handler) createForecast(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFromContext(r.Context())

	var body predictionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body", reqID)
		return
	}
	req, err := body.request()
	if err != nil {
		h.fail(w, err, reqID)
		return
	}

	result, err := h.predictions.Forecast(r.Context(), req, body.Horizon)
	if err != nil {
		h.fail(w, err, reqID)
		return
	}
	writeSuccess(w, http.StatusCreated, "forecast created", rounded(result))
}

func (h *Handler) forecastChart(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFromContext(r.Context())
	q := r.URL.Query()

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "year must be an integer", reqID)
		return
	}
	horizon := 0
	if raw := q.Get("horizon"); raw != "" {
		if horizon, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "horizon must be an integer", reqID)
			return
		}
	}
	req, err := predictionBody{Year: year, Genre: q.Get("genre"), Platform: q.Get("platform")}.request()
	if err != nil {
		h.fail(w, err, reqID)
		return
	}

	result, err := h.predictions.Forecast(r.Context(), req, horizon)
	if err != nil {
		h.fail(w, err, reqID)
		return
	}

	title := fmt.Sprintf("Predicted global sales: %s on %s", req.Genre, req.Platform)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(chart.LineChart(title, rounded(result).Series)))
}

func (h *Handler) fail(w http.ResponseWriter, err error, reqID string) {
	status, code, msg := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("[api] request %s failed: %v", reqID, err)
	}
	writeError(w, status, code, msg, reqID)
}

// rounded copies the result with values rounded to two decimals for display.
func rounded(result *models.ForecastResult) models.ForecastResult {
	out := *result
	out.Series = make(models.ForecastSeries, len(result.Series))
	for i, p := range result.Series {
		out.Series[i] = models.ForecastPoint{Year: p.Year, Value: services.Round2(p.Value)}
	}
	return out
}
