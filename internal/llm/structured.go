package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaError indicates the model's reply did not conform to the target
// schema. Callers treat it as a signal to fall back to lenient parsing.
type SchemaError struct {
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model output failed schema validation: %s", strings.Join(e.Errors, "; "))
}

// Structured issues a completion and decodes the reply into out after
// validating it against schemaJSON. The reply may wrap the JSON in prose or
// code fences; extraction runs before validation.
func Structured(ctx context.Context, c Client, req Request, schemaJSON string, out any) error {
	text, err := c.Complete(ctx, req)
	if err != nil {
		return err
	}
	return DecodeValidated(text, schemaJSON, out)
}

// DecodeValidated extracts JSON from text, validates it against schemaJSON
// and unmarshals it into out.
func DecodeValidated(text, schemaJSON string, out any) error {
	raw := ExtractJSON(text)

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, verr := range result.Errors() {
			msgs = append(msgs, verr.String())
		}
		return &SchemaError{Errors: msgs}
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decoding validated output: %w", err)
	}
	return nil
}

// DecodeLenient extracts JSON from text and unmarshals it into out without
// schema validation. Second tier of the structured-output fallback chain.
func DecodeLenient(text string, out any) error {
	raw := ExtractJSON(text)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("lenient decode failed: %w", err)
	}
	return nil
}
