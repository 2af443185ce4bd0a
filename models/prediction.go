package models

import "time"

// PredictionRequest is one user query: a release year plus the categorical
// genre and platform values it should be encoded with.
type PredictionRequest struct {
	Year     int    `json:"year"`
	Genre    string `json:"genre"`
	Platform string `json:"platform"`
}

// WithYear returns a copy of the request for another year.
func (r PredictionRequest) WithYear(year int) PredictionRequest {
	r.Year = year
	return r
}

// ModelSchema is the ordered list of feature columns the model was trained on.
type ModelSchema []string

// Validate reports a SchemaMismatchError when the schema cannot describe a
// feature vector: no columns, a blank name, or the same name twice.
func (s ModelSchema) Validate() error {
	if len(s) == 0 {
		return &SchemaMismatchError{Reason: "schema has no columns"}
	}
	seen := make(map[string]struct{}, len(s))
	for i, col := range s {
		if col == "" {
			return &SchemaMismatchError{Reason: "blank column name", Column: col, Index: i}
		}
		if _, dup := seen[col]; dup {
			return &SchemaMismatchError{Reason: "duplicate column", Column: col, Index: i}
		}
		seen[col] = struct{}{}
	}
	return nil
}

// FeatureVector is a numeric row laid out exactly as a ModelSchema.
// Columns and Values are parallel slices.
type FeatureVector struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// Len returns the number of columns.
func (v FeatureVector) Len() int { return len(v.Columns) }

// Get returns the value of a column and whether it exists.
func (v FeatureVector) Get(column string) (float64, bool) {
	for i, c := range v.Columns {
		if c == column {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Map returns the vector as column -> value. Order is lost.
func (v FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Columns))
	for i, c := range v.Columns {
		m[c] = v.Values[i]
	}
	return m
}

// ForecastPoint is a single (year, prediction) pair.
type ForecastPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// ForecastSeries is ordered by strictly increasing, contiguous years.
type ForecastSeries []ForecastPoint

// Years returns the years of the series in order.
func (s ForecastSeries) Years() []int {
	years := make([]int, len(s))
	for i, p := range s {
		years[i] = p.Year
	}
	return years
}

// PredictionResult is what the service hands to the presentation layer for
// a single prediction.
type PredictionResult struct {
	ID             string            `json:"prediction_id"`
	Request        PredictionRequest `json:"request"`
	Value          float64           `json:"value"`
	LogTransformed bool              `json:"log_transformed"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ForecastResult is a multi-year forecast for one genre/platform pair.
type ForecastResult struct {
	ID             string            `json:"forecast_id"`
	Request        PredictionRequest `json:"request"`
	Horizon        int               `json:"horizon"`
	Series         ForecastSeries    `json:"series"`
	LogTransformed bool              `json:"log_transformed"`
	CreatedAt      time.Time         `json:"created_at"`
}
