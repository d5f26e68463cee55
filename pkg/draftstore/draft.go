package draftstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSessionRequired is returned when a call carries no session id.
	ErrSessionRequired = errors.New("draftstore: session id is required")
	// ErrUnknownNamespace is returned for namespaces other than the two
	// wizard workflows.
	ErrUnknownNamespace = errors.New("draftstore: unknown namespace")
)

// Namespace separates the draft of a question being created from the draft of
// a question being edited within one session.
type Namespace string

const (
	NamespaceNew     Namespace = "newQuestion"
	NamespaceUpdated Namespace = "updatedQuestion"
)

// Valid reports whether ns is one of the wizard namespaces.
func (ns Namespace) Valid() bool {
	return ns == NamespaceNew || ns == NamespaceUpdated
}

// Draft field names, shared with the step forms.
const (
	FieldTitle          = "fieldTitle"
	FieldHintText       = "hintText"
	FieldDisplayText    = "displayText"
	FieldQuestionSuffix = "questionSuffix"
	FieldResponseType   = "responseType"
	FieldOptional       = "optional"
	FieldMaxWords       = "maxWords"
	FieldOptions        = "options"
)

// Fields is a partial draft. Values are strings, except options which is a
// string list.
type Fields map[string]any

// String returns a scalar field.
func (f Fields) String(name string) (string, bool) {
	raw, ok := f[name]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	default:
		return fmt.Sprint(v), true
	}
}

// Strings returns a list field. JSON decoded lists ([]any) are converted.
func (f Fields) Strings(name string) ([]string, bool) {
	raw, ok := f[name]
	if !ok || raw == nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				out = append(out, "")
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out, true
	case string:
		return []string{v}, true
	default:
		return nil, false
	}
}

// Clone returns a shallow copy with list values copied.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		out[k] = v
	}
	return out
}

// Overlay returns a copy of f with every field of top written over it.
func (f Fields) Overlay(top Fields) Fields {
	out := f.Clone()
	for k, v := range top.Clone() {
		out[k] = v
	}
	return out
}

// Names returns the field names in sorted order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// QuestionDraft is the typed view of an accumulated draft.
type QuestionDraft struct {
	FieldTitle     string
	HintText       string
	DisplayText    string
	QuestionSuffix string
	ResponseType   string
	Optional       string
	MaxWords       string
	Options        []string
}

// Decode builds the typed view of f.
func Decode(f Fields) QuestionDraft {
	var d QuestionDraft
	d.FieldTitle, _ = f.String(FieldTitle)
	d.HintText, _ = f.String(FieldHintText)
	d.DisplayText, _ = f.String(FieldDisplayText)
	d.QuestionSuffix, _ = f.String(FieldQuestionSuffix)
	d.ResponseType, _ = f.String(FieldResponseType)
	d.Optional, _ = f.String(FieldOptional)
	d.MaxWords, _ = f.String(FieldMaxWords)
	d.Options, _ = f.Strings(FieldOptions)
	return d
}

// Store is the draft persistence contract.
type Store interface {
	// Get returns the accumulated draft, or an empty draft if none exists.
	Get(ctx context.Context, sessionID string, ns Namespace) (Fields, error)
	// Field returns a single field of the draft.
	Field(ctx context.Context, sessionID string, ns Namespace, name string) (any, bool, error)
	// Merge writes each given field over the stored draft.
	Merge(ctx context.Context, sessionID string, ns Namespace, fields Fields) error
}

// Discarder is implemented by stores that can drop a draft explicitly.
type Discarder interface {
	Discard(ctx context.Context, sessionID string, ns Namespace) error
}

// CheckKey validates the session id and namespace of a store call.
func CheckKey(sessionID string, ns Namespace) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrSessionRequired
	}
	if !ns.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}
	return nil
}
