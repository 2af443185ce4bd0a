package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"vgsales-forecaster/models"
)

// requiredColumns must be present in the dataset header; every other column
// is optional and read as empty when absent.
var requiredColumns = []string{"Year", "Platform", "Genre", "Global_Sales"}

// ReadSalesCSV opens the dataset file and reads every row.
func ReadSalesCSV(path string) ([]*models.RawSalesRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()
	return ReadSales(f)
}

// ReadSales parses a sales dataset with a header row. Columns are matched by
// name, so their order in the file does not matter.
func ReadSales(r io.Reader) ([]*models.RawSalesRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: empty dataset")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("csv: missing required column %q", col)
		}
	}

	var records []*models.RawSalesRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		records = append(records, &models.RawSalesRecord{
			Rank:        field("Rank"),
			Name:        field("Name"),
			Platform:    field("Platform"),
			Year:        field("Year"),
			Genre:       field("Genre"),
			Publisher:   field("Publisher"),
			NASales:     field("NA_Sales"),
			EUSales:     field("EU_Sales"),
			JPSales:     field("JP_Sales"),
			OtherSales:  field("Other_Sales"),
			GlobalSales: field("Global_Sales"),
			Line:        line,
		})
	}
	return records, nil
}
