package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed event.json
var eventSchema json.RawMessage
var eventSchemaLoader = gojsonschema.NewBytesLoader(eventSchema)

// Schema validates raw invocation events.
type Schema struct {
	schema *gojsonschema.Schema
}

// NewEventSchema compiles the embedded invocation event schema.
func NewEventSchema() (*Schema, error) {
	schema, err := gojsonschema.NewSchema(eventSchemaLoader)
	if err != nil {
		return nil, err
	}

	return &Schema{schema: schema}, nil
}

// Validate validates the raw JSON document against the schema.
// A document that is not valid JSON yields an error, a document
// that does not satisfy the schema yields a *ValidationError.
func (s *Schema) Validate(data []byte) error {
	res, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	if res.Valid() {
		return nil
	}

	return &ValidationError{Result: res}
}

// ValidationError is returned if a document does not satisfy the schema.
type ValidationError struct {
	Result *gojsonschema.Result
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Result.Errors()))
	for _, desc := range e.Result.Errors() {
		msgs = append(msgs, desc.String())
	}

	return "invalid event: " + strings.Join(msgs, "; ")
}
