package services

import (
	"strconv"

	"vgsales-forecaster/models"
)

// Column names follow the one-hot convention the model was trained with:
// the year stays numeric, categorical fields become "<Field>_<value>" = 1.
const (
	YearColumn     = "Year"
	genrePrefix    = "Genre_"
	platformPrefix = "Platform_"
)

// GenreColumn returns the indicator column name for a genre value.
func GenreColumn(genre string) string { return genrePrefix + genre }

// PlatformColumn returns the indicator column name for a platform value.
func PlatformColumn(platform string) string { return platformPrefix + platform }

// encode one-hot encodes a request before any schema is applied.
func encode(req models.PredictionRequest) map[string]float64 {
	return map[string]float64{
		YearColumn:                   float64(req.Year),
		GenreColumn(req.Genre):       1,
		PlatformColumn(req.Platform): 1,
	}
}

// Align turns a request into a vector with exactly the schema's columns in
// the schema's order. Schema columns the encoding did not produce are 0 and
// encoded columns the schema does not know are dropped, so a genre or
// platform outside the training vocabulary yields all-zero indicators for
// that field instead of an error.
func Align(req models.PredictionRequest, schema models.ModelSchema) (models.FeatureVector, error) {
	if err := schema.Validate(); err != nil {
		return models.FeatureVector{}, err
	}

	encoded := encode(req)
	vec := models.FeatureVector{
		Columns: make([]string, len(schema)),
		Values:  make([]float64, len(schema)),
	}
	for i, col := range schema {
		vec.Columns[i] = col
		vec.Values[i] = encoded[col]
	}
	return vec, nil
}

// UnseenColumns lists the request's indicator columns that the schema does
// not contain. Those fields carry no signal in the aligned vector.
func UnseenColumns(req models.PredictionRequest, schema models.ModelSchema) []string {
	known := make(map[string]struct{}, len(schema))
	for _, col := range schema {
		known[col] = struct{}{}
	}

	var unseen []string
	for _, col := range []string{GenreColumn(req.Genre), PlatformColumn(req.Platform)} {
		if _, ok := known[col]; !ok {
			unseen = append(unseen, col)
		}
	}
	return unseen
}

// describe renders a request for log lines.
func describe(req models.PredictionRequest) string {
	return strconv.Itoa(req.Year) + "/" + req.Genre + "/" + req.Platform
}
