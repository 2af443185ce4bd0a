package services

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"vgsales-forecaster/models"
	"vgsales-forecaster/utils"
)

// Cleaner transforms RawSalesRecords into validated SalesRecords.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean drops every row that lacks a usable Year, Platform, Genre or
// Global_Sales value and parses the rest. Regional sales are optional and
// default to zero.
func (c *Cleaner) Clean(raw []*models.RawSalesRecord) []*models.SalesRecord {
	result := make([]*models.SalesRecord, 0, len(raw))
	now := time.Now()

	for _, r := range raw {
		year, ok := parseYear(r.Year)
		if !ok {
			c.logger.Debug("[cleaner] Line %d: dropping %q, missing year (%q)", r.Line, r.Name, r.Year)
			continue
		}
		// Categorical values are model feature names; only the ends are trimmed.
		platform := strings.TrimSpace(r.Platform)
		genre := strings.TrimSpace(r.Genre)
		if platform == "" || genre == "" {
			c.logger.Debug("[cleaner] Line %d: dropping %q, missing platform or genre", r.Line, r.Name)
			continue
		}
		global, ok := parseSales(r.GlobalSales)
		if !ok {
			c.logger.Debug("[cleaner] Line %d: dropping %q, missing global sales (%q)", r.Line, r.Name, r.GlobalSales)
			continue
		}

		rank, _ := strconv.Atoi(strings.TrimSpace(r.Rank))
		result = append(result, &models.SalesRecord{
			Rank:        rank,
			Name:        normaliseText(r.Name),
			Platform:    platform,
			Year:        year,
			Genre:       genre,
			Publisher:   normaliseText(r.Publisher),
			NASales:     optionalSales(r.NASales),
			EUSales:     optionalSales(r.EUSales),
			JPSales:     optionalSales(r.JPSales),
			OtherSales:  optionalSales(r.OtherSales),
			GlobalSales: global,
			CreatedAt:   now,
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d records (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parseYear accepts "2006" and the float form "2006.0" some exports use.
func parseYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if isMissing(raw) {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n > 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func parseSales(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if isMissing(raw) {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

func optionalSales(raw string) float64 {
	f, _ := parseSales(raw)
	return f
}

func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "n/a", "na", "nan", "null":
		return true
	}
	return false
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
