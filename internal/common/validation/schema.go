package validation

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for request payload schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string              `json:"type,omitempty"`
	Description string              `json:"description,omitempty"`
	Format      string              `json:"format,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Compiled is a schema parsed once and reused across validations.
type Compiled struct {
	schema *gojsonschema.Schema
}

// Compile parses schema into a reusable validator.
func Compile(schema JSONSchema) (*Compiled, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Compiled{schema: s}, nil
}

// MustCompile is Compile for package-level schema tables.
func MustCompile(schema JSONSchema) *Compiled {
	c, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks input, which may be a map or a struct with json tags.
func (c *Compiled) Validate(input interface{}) (*ValidationResult, error) {
	result, err := c.schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return convert(result), nil
}

// ValidateInput compiles schema and validates input in one step.
func ValidateInput(input interface{}, schema JSONSchema) (*ValidationResult, error) {
	c, err := Compile(schema)
	if err != nil {
		return nil, err
	}
	return c.Validate(input)
}

func convert(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		field := desc.Field()
		// required errors are reported against the parent object
		if prop, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			field = prop
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out
}

// FieldErrors groups messages by field, the shape servers use for "errors".
func (r *ValidationResult) FieldErrors() map[string][]string {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Errors))
	for _, e := range r.Errors {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// Add records a check the schema language cannot express.
func (r *ValidationResult) Add(field, code, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message, Code: code})
}

// Summary renders the failing fields in a stable order.
func (r *ValidationResult) Summary() string {
	fields := r.FieldErrors()
	if len(fields) == 0 {
		return ""
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %v", names)
}

// Helper functions for building schemas
func IntPtr(i int) *int             { return &i }
func Float64Ptr(f float64) *float64 { return &f }
func StringPtr(s string) *string    { return &s }
