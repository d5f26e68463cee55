package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed gateway.yaml
var gatewayDocument []byte

// Issue is one schema violation found in an outbound payload.
type Issue struct {
	Field   string
	Message string
}

// Error collects the issues of a rejected payload.
type Error struct {
	Operation string
	Issues    []Issue
}

func (e *Error) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "contract: payload rejected"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("contract: %s payload rejected: %s", e.Operation, strings.Join(parts, "; "))
}

// Validator checks request bodies against the backend OpenAPI document
// before they leave the process.
type Validator struct {
	doc *openapi3.T
}

// Load parses and validates an OpenAPI document.
func Load(ctx context.Context, data []byte) (*Validator, error) {
	if len(data) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}
	return &Validator{doc: doc}, nil
}

// Default loads the embedded backend document.
func Default(ctx context.Context) (*Validator, error) {
	return Load(ctx, gatewayDocument)
}

// ValidateBody checks body against the JSON request schema declared for
// method on the templated path (for example
// "/application-forms/{appId}/sections/{sectionId}/questions").
func (v *Validator) ValidateBody(method, pathTemplate string, body any) error {
	if v == nil || v.doc == nil {
		return errors.New("contract: validator is not initialised")
	}

	item := v.doc.Paths.Value(pathTemplate)
	if item == nil {
		return fmt.Errorf("contract: unknown path %q", pathTemplate)
	}
	op := item.GetOperation(strings.ToUpper(method))
	if op == nil {
		return fmt.Errorf("contract: no %s operation on %q", method, pathTemplate)
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}

	value, err := toJSONValue(body)
	if err != nil {
		return fmt.Errorf("contract: encode body: %w", err)
	}

	if err := media.Schema.Value.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return &Error{Operation: op.OperationID, Issues: collectIssues(err)}
	}
	return nil
}

func collectIssues(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []Issue
		for _, item := range multi {
			out = append(out, collectIssues(item)...)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		if schemaErr.Origin != nil {
			return collectIssues(schemaErr.Origin)
		}
		return []Issue{{
			Field:   strings.Join(schemaErr.JSONPointer(), "."),
			Message: schemaErr.Reason,
		}}
	}
	return []Issue{{Message: err.Error()}}
}

func toJSONValue(body any) (any, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
