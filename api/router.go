package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(handler.logger))
	r.Use(loggingMiddleware(handler.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok", nil) })

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/vocabulary", handler.getVocabulary)
		r.Get("/insights", handler.getInsights)
		r.Post("/predictions", handler.createPrediction)
		r.Post("/forecasts", handler.createForecast)
		r.Get("/forecasts/chart.svg", handler.forecastChart)
	})
	return r
}
