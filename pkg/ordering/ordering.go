// Package ordering moves questions within a section and sections within a
// form. Every move carries the form version the operator last saw; the
// backend rejects stale versions and the rejection is surfaced unchanged.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

var (
	ErrInvalidDirection = errors.New("ordering: invalid direction")
	ErrInvalidPosition  = errors.New("ordering: position out of range")
)

// Direction is the increment applied to an element's position.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return strconv.Itoa(int(d))
	}
}

// ParseDirection accepts "up", "down", "-1" and "1".
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up", "-1":
		return Up, nil
	case "down", "1", "+1":
		return Down, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
}

// Scope names the collection being reordered.
type Scope string

const (
	ScopeQuestion Scope = "question"
	ScopeSection  Scope = "section"
)

// Operation is one version-stamped move. EntityID is the question id for
// question moves and the section id for section moves.
type Operation struct {
	Scope           Scope
	AppID           string
	SectionID       string
	EntityID        string
	Increment       Direction
	ExpectedVersion int
}

// MoveQuestion builds a question move.
func MoveQuestion(appID, sectionID, questionID string, d Direction, version int) Operation {
	return Operation{
		Scope:           ScopeQuestion,
		AppID:           appID,
		SectionID:       sectionID,
		EntityID:        questionID,
		Increment:       d,
		ExpectedVersion: version,
	}
}

// MoveSection builds a section move.
func MoveSection(appID, sectionID string, d Direction, version int) Operation {
	return Operation{
		Scope:           ScopeSection,
		AppID:           appID,
		SectionID:       sectionID,
		EntityID:        sectionID,
		Increment:       d,
		ExpectedVersion: version,
	}
}

// Backend is the slice of the gateway that applies moves.
type Backend interface {
	ReorderQuestion(ctx context.Context, appID, sectionID, questionID string, increment, version int) error
	ReorderSection(ctx context.Context, appID, sectionID string, increment, version int) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for submitted moves.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller applies moves against the backend.
type Controller struct {
	backend Backend
	logger  *slog.Logger
}

// New returns a Controller for backend.
func New(backend Backend, options ...Option) *Controller {
	c := &Controller{
		backend: backend,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Move submits op for the element at position in a list of count elements.
// Moving the first element up or the last element down is a no-op: nothing
// is sent and submitted is false. Backend errors, including version
// conflicts, are returned as is.
func (c *Controller) Move(ctx context.Context, op Operation, position, count int) (submitted bool, err error) {
	if op.Increment != Up && op.Increment != Down {
		return false, fmt.Errorf("%w: %d", ErrInvalidDirection, op.Increment)
	}
	if position < 0 || position >= count {
		return false, fmt.Errorf("%w: %d of %d", ErrInvalidPosition, position, count)
	}
	if !Allowed(position, count, op.Increment) {
		return false, nil
	}
	if c == nil || c.backend == nil {
		return false, errors.New("ordering: controller has no backend")
	}

	switch op.Scope {
	case ScopeQuestion:
		err = c.backend.ReorderQuestion(ctx, op.AppID, op.SectionID, op.EntityID, int(op.Increment), op.ExpectedVersion)
	case ScopeSection:
		err = c.backend.ReorderSection(ctx, op.AppID, op.SectionID, int(op.Increment), op.ExpectedVersion)
	default:
		return false, fmt.Errorf("ordering: unknown scope %q", op.Scope)
	}
	if err != nil {
		return true, err
	}
	c.logger.Info("element moved",
		"scope", string(op.Scope),
		"app_id", op.AppID,
		"entity_id", op.EntityID,
		"direction", op.Increment.String(),
		"version", op.ExpectedVersion,
	)
	return true, nil
}

// Allowed reports whether the element at position can move in direction d.
func Allowed(position, count int, d Direction) bool {
	if position < 0 || position >= count {
		return false
	}
	switch d {
	case Up:
		return position > 0
	case Down:
		return position < count-1
	default:
		return false
	}
}

// Control is the enabled state of one element's move controls.
type Control struct {
	Up   bool
	Down bool
}

// Controls returns the move controls for a list of count elements.
func Controls(count int) []Control {
	if count <= 0 {
		return nil
	}
	out := make([]Control, count)
	for i := range out {
		out[i] = Control{Up: Allowed(i, count, Up), Down: Allowed(i, count, Down)}
	}
	return out
}
