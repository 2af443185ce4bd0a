package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"vgsales-forecaster/api"
	"vgsales-forecaster/chart"
	"vgsales-forecaster/config"
	"vgsales-forecaster/inference"
	"vgsales-forecaster/models"
	"vgsales-forecaster/services"
	"vgsales-forecaster/storage"
	"vgsales-forecaster/utils"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code; deferred closes run before main exits.
func run(args []string) int {
	flags := flag.NewFlagSet("vgsales-forecaster", flag.ContinueOnError)
	genre := flags.String("genre", "", "genre for a one-shot forecast")
	platform := flags.String("platform", "", "platform for a one-shot forecast")
	year := flags.Int("year", time.Now().Year(), "first forecast year")
	horizon := flags.Int("horizon", 0, "number of years to forecast (0 uses FORECAST_HORIZON)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	logger.Info("=== Video Game Sales Forecaster starting ===")
	logger.Info("Config: dataset %s | schema %s | horizon %d | log target %v",
		cfg.DatasetPath, cfg.SchemaPath, cfg.Horizon, cfg.LogTransformed)

	rawRecords, err := storage.ReadSalesCSV(cfg.DatasetPath)
	if err != nil {
		logger.Error("Failed to read dataset: %v", err)
		return 1
	}
	logger.Info("Read %d raw sales records", len(rawRecords))

	cleaner := services.NewCleaner(logger)
	records := cleaner.Clean(rawRecords)
	if len(records) == 0 {
		logger.Error("All records were dropped during cleaning. Exiting.")
		return 1
	}
	logger.Info("Cleaned dataset: %d records", len(records))

	var recorder storage.PredictionRecorder
	if cfg.PostgresEnabled {
		pgStore, err := storage.NewPostgresStore(cfg.DSN(), &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			return 1
		}
		defer pgStore.Close()

		if err := pgStore.Write(records); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Clean records stored in PostgreSQL (table: sales)")
		}

		if dbRecords, err := pgStore.FetchAll(); err != nil {
			logger.Error("Failed to fetch records from DB for insights: %v", err)
		} else if len(dbRecords) > 0 {
			records = dbRecords
		}
		recorder = pgStore
	}

	vocab := services.BuildVocabulary(records)
	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(records)
	insightSvc.Print(report)

	schema, err := inference.LoadSchema(cfg.SchemaPath)
	if err != nil {
		logger.Error("Failed to load model schema: %v", err)
		return 1
	}
	model, err := inference.Load(cfg.ModelPath, cfg.ModelEndpoint)
	if err != nil {
		logger.Error("Failed to load model: %v", err)
		return 1
	}
	logger.Info("Model %s loaded with %d feature columns", model.Name(), len(schema))

	forecaster, err := services.NewForecaster(model, schema, cfg.LogTransformed, logger)
	if err != nil {
		logger.Error("Failed to build forecaster: %v", err)
		return 1
	}
	predictions := services.NewPredictionService(forecaster, recorder, cfg.PersistPredictions, cfg.Horizon, cfg.MaxHorizon, logger)

	if *genre != "" || *platform != "" {
		req := models.PredictionRequest{
			Year:     *year,
			Genre:    strings.TrimSpace(*genre),
			Platform: strings.TrimSpace(*platform),
		}
		if err := runOnce(cfg, logger, predictions, report, req, *horizon); err != nil {
			logger.Error("Forecast failed: %v", err)
			return 1
		}
		return 0
	}

	if err := serve(cfg, logger, api.NewHandler(predictions, vocab, report, logger)); err != nil {
		logger.Error("HTTP server failed: %v", err)
		return 1
	}
	return 0
}

func runOnce(
	cfg *config.Config,
	logger *utils.Logger,
	predictions *services.PredictionService,
	report *models.InsightReport,
	req models.PredictionRequest,
	horizon int,
) error {
	if req.Genre == "" || req.Platform == "" {
		return fmt.Errorf("%w: -genre and -platform are both required", models.ErrInvalidRequest)
	}
	ctx := context.Background()

	single, err := predictions.Predict(ctx, req)
	if err != nil {
		return err
	}
	result, err := predictions.Forecast(ctx, req, horizon)
	if err != nil {
		return err
	}

	csvWriter, err := storage.NewCSVWriter(cfg.ForecastCSVPath)
	if err != nil {
		return err
	}
	defer csvWriter.Close()
	if err := csvWriter.WriteForecast(result); err != nil {
		return err
	}

	fmt.Printf("\n  Predicted global sales for %s on %s in %d: %.2fM\n",
		req.Genre, req.Platform, req.Year, services.Round2(single.Value))
	for _, p := range result.Series {
		fmt.Printf("    %d  %8.2fM\n", p.Year, services.Round2(p.Value))
	}

	if cfg.ChartOutputDir != "" {
		renderer := chart.New(cfg.ChromeBin, logger)
		charts := map[string]string{
			"forecast.png": chart.LineChart(
				fmt.Sprintf("Predicted global sales: %s on %s", req.Genre, req.Platform), result.Series),
			"sales_by_genre.png":    chart.BarChart("Global sales by genre", report.SalesByGenre),
			"sales_by_platform.png": chart.BarChart("Global sales by platform", report.SalesByPlatform),
		}
		for name, svg := range charts {
			if err := renderer.RenderPNG(ctx, svg, filepath.Join(cfg.ChartOutputDir, name)); err != nil {
				logger.Warn("Chart %s not rendered: %v", name, err)
			}
		}
	}

	fmt.Printf("\n  Done. Forecast CSV → %s\n\n", cfg.ForecastCSVPath)
	return nil
}

func serve(cfg *config.Config, logger *utils.Logger, handler *api.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving API on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
