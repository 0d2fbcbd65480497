package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Resource names with a draft schema.
const (
	ResourceService  = "service"
	ResourceCategory = "category"
	ResourceProfile  = "profile"
)

// FieldError is one validation failure, addressed to a field so a form can
// surface it next to the offending input.
type FieldError struct {
	// Field is the dotted path of the failing field, empty for whole-payload
	// errors.
	Field string `json:"field,omitempty"`
	// Message describes the failure.
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Result is the outcome of validating one draft payload.
type Result struct {
	Valid  bool          `json:"valid"`
	Errors []*FieldError `json:"errors,omitempty"`
}

// Err returns an error summarizing the failures, or nil when valid.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("invalid payload: %s", strings.Join(msgs, "; "))
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

// compileSchemas compiles the embedded draft schemas once.
func compileSchemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = map[string]*jsonschema.Schema{}
		for _, resource := range []string{ResourceService, ResourceCategory, ResourceProfile} {
			data, err := schemaFS.ReadFile("schemas/" + resource + ".json")
			if err != nil {
				compileErr = fmt.Errorf("read %s schema: %w", resource, err)
				return
			}
			compiler := jsonschema.NewCompiler()
			compiler.Draft = jsonschema.Draft2020
			name := resource + ".json"
			if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
				compileErr = fmt.Errorf("add %s schema: %w", resource, err)
				return
			}
			schema, err := compiler.Compile(name)
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", resource, err)
				return
			}
			compiled[resource] = schema
		}
	})
	return compiled, compileErr
}

// ValidatePayload checks a draft payload against the schema for a resource.
// payload may be a draft struct or a map; it is round-tripped through JSON
// before validation so both see the wire shape.
func ValidatePayload(resource string, payload any) (*Result, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	schema, ok := schemas[resource]
	if !ok {
		return nil, fmt.Errorf("no schema for resource %q", resource)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	result := &Result{Valid: true}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			collectErrors(ve, result)
		} else {
			result.Valid = false
			result.Errors = append(result.Errors, &FieldError{Message: err.Error()})
		}
	}
	return result, nil
}

// collectErrors flattens a jsonschema error tree into field errors.
func collectErrors(err *jsonschema.ValidationError, result *Result) {
	if len(err.Causes) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, &FieldError{
			Field:   fieldFromPointer(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectErrors(cause, result)
	}
}

// fieldFromPointer converts a JSON Pointer into dot notation.
func fieldFromPointer(ptr string) string {
	if ptr == "" || ptr == "/" {
		return ""
	}
	return strings.ReplaceAll(strings.TrimPrefix(ptr, "/"), "/", ".")
}
