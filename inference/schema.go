package inference

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vgsales-forecaster/models"
)

// LoadSchema reads the training-time feature columns. The file holds a plain
// YAML (or JSON) list of column names such as Year, Genre_Action and
// Platform_Wii, in training order.
func LoadSchema(path string) (models.ModelSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inference: read schema %q: %w", path, err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes and validates a column list.
func ParseSchema(data []byte) (models.ModelSchema, error) {
	var cols []string
	if err := yaml.Unmarshal(data, &cols); err != nil {
		return nil, &models.SchemaMismatchError{Reason: "not a list of column names: " + err.Error()}
	}
	schema := models.ModelSchema(cols)
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}
