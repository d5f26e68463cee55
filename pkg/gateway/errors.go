package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrVersionConflict marks a write rejected because the stored version no
// longer matches the expected one. It is always wrapped in a TransportError.
var ErrVersionConflict = errors.New("gateway: version conflict")

// FieldError is one structured validation message from the backend.
type FieldError struct {
	FieldName    string `json:"fieldName"`
	ErrorMessage string `json:"errorMessage"`
}

// ValidationError is returned when the backend rejects a write with a
// structured field-error list. Callers recover by re-rendering the step.
type ValidationError struct {
	Op     string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		names = append(names, fe.FieldName)
	}
	return fmt.Sprintf("gateway: %s rejected fields [%s]", e.Op, strings.Join(names, ", "))
}

// TransportError covers every failure without a field-error list: network
// errors, unexpected statuses, malformed bodies and version conflicts.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status > 0 && e.Err != nil:
		return fmt.Sprintf("gateway: %s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status > 0:
		return fmt.Sprintf("gateway: %s: status %d %s", e.Op, e.Status, http.StatusText(e.Status))
	case e.Err != nil:
		return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("gateway: %s failed", e.Op)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError is returned when the referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("gateway: %s %q not found", e.Resource, e.ID)
}

// IsValidation reports whether err carries a field-error list.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
