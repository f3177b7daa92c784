package settings

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrBlobInvalid indicates a settings blob that does not match the record schema.
var ErrBlobInvalid = errors.New("settings: blob does not match schema")

const recordsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "value"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "value": {"type": "string"},
      "lang": {"type": "string"}
    }
  }
}`

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// BlobError lists the schema violations of a settings blob.
type BlobError struct {
	Issues []Issue
	Cause  error
}

func (e *BlobError) Error() string {
	if len(e.Issues) == 0 {
		return ErrBlobInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return ErrBlobInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *BlobError) Unwrap() error {
	return ErrBlobInvalid
}

var compiledRecordsSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("settings.json", strings.NewReader(recordsSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("settings.json")
})

// validateRecords checks a decoded JSON document against the record schema.
func validateRecords(doc any) error {
	schema, err := compiledRecordsSchema()
	if err != nil {
		return fmt.Errorf("settings: compile schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &BlobError{Issues: collectIssues(validationErr), Cause: err}
		}
		return &BlobError{Cause: err}
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
