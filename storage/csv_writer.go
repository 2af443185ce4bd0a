package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"vgsales-forecaster/models"
)

var _ ForecastWriter = (*CSVWriter)(nil)

// CSVWriter appends forecast series to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"forecast_id", "year", "genre", "platform", "predicted_global_sales",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteForecast writes one row per forecast year. Values are in millions of
// units with two decimals.
func (c *CSVWriter) WriteForecast(result *models.ForecastResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range result.Series {
		row := []string{
			result.ID,
			strconv.Itoa(p.Year),
			result.Request.Genre,
			result.Request.Platform,
			strconv.FormatFloat(p.Value, 'f', 2, 64),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
