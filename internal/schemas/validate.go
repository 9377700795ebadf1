// Package schemas validates resume API payloads against the embedded JSON
// Schema documents. Requests and responses use separate rule sets: the write
// path rejects incomplete nested entries, the read path only type-checks them.
package schemas

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-editor/internal/apierror"
	schemadocs "github.com/jonathan/resume-editor/schemas"
)

// Shape names a response schema.
type Shape string

// Response shapes understood by ValidateResponse.
const (
	ShapeResume       Shape = "resume"
	ShapeResumeArray  Shape = "resumeArray"
	ShapeCreateResume Shape = "createResume"
	ShapeCopyResume   Shape = "copyResume"
	ShapeTemplates    Shape = "templates"
)

// Shapes lists every response shape.
var Shapes = []Shape{ShapeResume, ShapeResumeArray, ShapeCreateResume, ShapeCopyResume, ShapeTemplates}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Subject string
	Errors  []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return fmt.Sprintf("invalid %s: %s", ve.Subject, strings.Join(parts, "; "))
}

// Fields returns the violated field paths in report order.
func (ve *ValidationError) Fields() []string {
	fields := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		fields = append(fields, err.Field)
	}
	return fields
}

var (
	compileOnce    sync.Once
	requestSchema  *gojsonschema.Schema
	responseSchema map[Shape]*gojsonschema.Schema
	compileErr     error
)

func compile() {
	requestDoc, err := schemadocs.Files.ReadFile(schemadocs.ResumeRequest)
	if err != nil {
		compileErr = &SchemaLoadError{Path: schemadocs.ResumeRequest, Message: "failed to read embedded schema", Cause: err}
		return
	}
	requestSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(requestDoc))
	if err != nil {
		compileErr = &SchemaLoadError{Path: schemadocs.ResumeRequest, Message: "invalid schema", Cause: err}
		return
	}

	responseDoc, err := schemadocs.Files.ReadFile(schemadocs.Responses)
	if err != nil {
		compileErr = &SchemaLoadError{Path: schemadocs.Responses, Message: "failed to read embedded schema", Cause: err}
		return
	}
	var doc map[string]any
	if err := json.Unmarshal(responseDoc, &doc); err != nil {
		compileErr = &SchemaLoadError{Path: schemadocs.Responses, Message: "invalid JSON", Cause: err}
		return
	}

	responseSchema = make(map[Shape]*gojsonschema.Schema, len(Shapes))
	for _, shape := range Shapes {
		root := map[string]any{
			"$schema":     doc["$schema"],
			"$ref":        "#/definitions/" + string(shape),
			"definitions": doc["definitions"],
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(root))
		if err != nil {
			compileErr = &SchemaLoadError{Path: schemadocs.Responses + "#" + string(shape), Message: "invalid schema", Cause: err}
			return
		}
		responseSchema[shape] = schema
	}
}

// ValidateRequest checks an outgoing resume payload before it is sent.
// payload may be raw JSON bytes or any value that marshals to JSON.
func ValidateRequest(payload any) error {
	compileOnce.Do(compile)
	if compileErr != nil {
		return apierror.New(apierror.KindUnknown, compileErr.Error(), compileErr)
	}
	return validate(requestSchema, "resume payload", payload)
}

// ValidateResponse checks an incoming payload against the named response shape.
func ValidateResponse(shape Shape, payload any) error {
	compileOnce.Do(compile)
	if compileErr != nil {
		return apierror.New(apierror.KindUnknown, compileErr.Error(), compileErr)
	}
	schema, ok := responseSchema[shape]
	if !ok {
		return apierror.New(apierror.KindUnknown, fmt.Sprintf("unknown response shape %q", shape), nil)
	}
	return validate(schema, string(shape)+" response", payload)
}

func validate(schema *gojsonschema.Schema, subject string, payload any) error {
	doc, err := toJSON(payload)
	if err != nil {
		return apierror.Validation(fmt.Sprintf("invalid %s: not valid JSON", subject), err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return apierror.Validation(fmt.Sprintf("invalid %s: not valid JSON", subject), err)
	}
	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Subject: subject,
		Errors:  make([]FieldError, 0, len(result.Errors())),
	}
	seen := make(map[FieldError]bool)
	for _, desc := range result.Errors() {
		fe := FieldError{Field: fieldPath(desc), Message: describe(desc)}
		if seen[fe] {
			continue
		}
		seen[fe] = true
		validationErr.Errors = append(validationErr.Errors, fe)
	}

	return apierror.Validation(validationErr.Error(), validationErr)
}

func toJSON(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case json.RawMessage:
		return p, nil
	case []byte:
		return p, nil
	}
	return json.Marshal(payload)
}

// fieldPath renders a result location in dot/bracket notation, e.g.
// "experiences[0].projects[1].title". Missing required properties are
// reported at the property itself rather than at their parent.
func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field == gojsonschema.STRING_CONTEXT_ROOT {
		field = ""
	}

	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == "" {
				field = prop
			} else {
				field += "." + prop
			}
		}
	}

	if field == "" {
		return gojsonschema.STRING_CONTEXT_ROOT
	}

	var sb strings.Builder
	for i, seg := range strings.Split(field, ".") {
		if _, err := strconv.Atoi(seg); err == nil {
			sb.WriteString("[" + seg + "]")
			continue
		}
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(seg)
	}
	return sb.String()
}

func describe(desc gojsonschema.ResultError) string {
	details := desc.Details()
	switch desc.Type() {
	case "required":
		return "is required"
	case "pattern", "does_not_match_pattern":
		return "must not be empty"
	case "invalid_type":
		if expected, ok := details["expected"].(string); ok {
			return "must be " + strings.ToLower(expected)
		}
	case "number_any_of":
		return "must have an _id or id"
	}
	return desc.Description()
}
