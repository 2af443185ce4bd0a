package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"vgsales-forecaster/models"
	"vgsales-forecaster/utils"
)

const (
	kindSingle   = "single"
	kindForecast = "forecast"
)

var (
	_ SalesWriter        = (*PostgresStore)(nil)
	_ SalesReader        = (*PostgresStore)(nil)
	_ PredictionRecorder = (*PostgresStore)(nil)
)

// PostgresStore persists the cleaned dataset and a log of served predictions.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore opens a connection to PostgreSQL, waits for it to accept
// pings, runs schema migrations and returns a ready-to-use store.
func NewPostgresStore(dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return NewPostgresStoreFromDB(db)
}

// NewPostgresStoreFromDB wraps an existing connection and migrates it.
func NewPostgresStoreFromDB(db *sqlx.DB) (*PostgresStore, error) {
	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS sales (
			id           SERIAL PRIMARY KEY,
			rank         INTEGER          NOT NULL DEFAULT 0,
			name         TEXT             NOT NULL DEFAULT '',
			platform     VARCHAR(32)      NOT NULL,
			year         INTEGER          NOT NULL,
			genre        VARCHAR(64)      NOT NULL,
			publisher    TEXT             NOT NULL DEFAULT '',
			na_sales     DOUBLE PRECISION NOT NULL DEFAULT 0,
			eu_sales     DOUBLE PRECISION NOT NULL DEFAULT 0,
			jp_sales     DOUBLE PRECISION NOT NULL DEFAULT 0,
			other_sales  DOUBLE PRECISION NOT NULL DEFAULT 0,
			global_sales DOUBLE PRECISION NOT NULL,
			created_at   TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_sales_year     ON sales(year);
		CREATE INDEX IF NOT EXISTS idx_sales_platform ON sales(platform);
		CREATE INDEX IF NOT EXISTS idx_sales_genre    ON sales(genre);

		CREATE TABLE IF NOT EXISTS predictions (
			id              UUID PRIMARY KEY,
			kind            VARCHAR(16)      NOT NULL,
			forecast_id     UUID,
			year            INTEGER          NOT NULL,
			genre           TEXT             NOT NULL,
			platform        TEXT             NOT NULL,
			value           DOUBLE PRECISION NOT NULL,
			log_transformed BOOLEAN          NOT NULL DEFAULT FALSE,
			created_at      TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_predictions_forecast ON predictions(forecast_id);
	`)
	return err
}

// Clear deletes all stored sales rows.
func (ps *PostgresStore) Clear() error {
	if _, err := ps.db.Exec("DELETE FROM sales"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the stored dataset with the given records, in batches.
func (ps *PostgresStore) Write(records []*models.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := ps.Clear(); err != nil {
		return err
	}

	const batchSize = 500
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := ps.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PostgresStore) insertBatch(batch []*models.SalesRecord) error {
	_, err := ps.db.NamedExec(`
		INSERT INTO sales (rank, name, platform, year, genre, publisher,
			na_sales, eu_sales, jp_sales, other_sales, global_sales)
		VALUES (:rank, :name, :platform, :year, :genre, :publisher,
			:na_sales, :eu_sales, :jp_sales, :other_sales, :global_sales)
	`, batch)
	if err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// FetchAll retrieves all stored sales rows, used by the insight service.
func (ps *PostgresStore) FetchAll() ([]*models.SalesRecord, error) {
	var records []*models.SalesRecord
	err := ps.db.Select(&records, `
		SELECT id, rank, name, platform, year, genre, publisher,
			na_sales, eu_sales, jp_sales, other_sales, global_sales, created_at
		FROM sales
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	return records, nil
}

const insertPrediction = `
	INSERT INTO predictions (id, kind, forecast_id, year, genre, platform, value, log_transformed, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// RecordPrediction logs a single prediction.
func (ps *PostgresStore) RecordPrediction(ctx context.Context, result *models.PredictionResult) error {
	_, err := ps.db.ExecContext(ctx, insertPrediction,
		result.ID, kindSingle, nil,
		result.Request.Year, result.Request.Genre, result.Request.Platform,
		result.Value, result.LogTransformed, createdAt(result.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("postgres: record prediction: %w", err)
	}
	return nil
}

// RecordForecast logs every point of a forecast atomically.
func (ps *PostgresStore) RecordForecast(ctx context.Context, result *models.ForecastResult) error {
	tx, err := ps.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range result.Series {
		_, err := tx.ExecContext(ctx, insertPrediction,
			uuid.NewString(), kindForecast, result.ID,
			p.Year, result.Request.Genre, result.Request.Platform,
			p.Value, result.LogTransformed, createdAt(result.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("postgres: record forecast year %d: %w", p.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit forecast: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
