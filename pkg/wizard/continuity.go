package wizard

import (
	"net/url"
	"strings"
)

// Continuity query parameters.
const (
	ParamBackTo     = "backTo"
	ParamFrom       = "from"
	ParamQuestionID = "questionId"

	BackToDashboard  = "dashboard"
	FromQuestionType = "question-type"
)

// Continuity is threaded through every link and redirect of a wizard run so
// the operator can return to where they started. It is derived from the
// request query and never stored.
type Continuity struct {
	BackTo     string
	From       string
	QuestionID string
}

// ParseContinuity reads the continuity parameters from a query. Unknown
// values for backTo and from are dropped.
func ParseContinuity(query url.Values) Continuity {
	var c Continuity
	if strings.TrimSpace(query.Get(ParamBackTo)) == BackToDashboard {
		c.BackTo = BackToDashboard
	}
	if strings.TrimSpace(query.Get(ParamFrom)) == FromQuestionType {
		c.From = FromQuestionType
	}
	c.QuestionID = strings.TrimSpace(query.Get(ParamQuestionID))
	return c
}

// Query encodes the non-empty parameters.
func (c Continuity) Query() url.Values {
	q := url.Values{}
	if c.BackTo != "" {
		q.Set(ParamBackTo, c.BackTo)
	}
	if c.From != "" {
		q.Set(ParamFrom, c.From)
	}
	if c.QuestionID != "" {
		q.Set(ParamQuestionID, c.QuestionID)
	}
	return q
}

// Link appends the encoded parameters to path.
func (c Continuity) Link(path string) string {
	q := c.Query()
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// FromTypeStep returns a copy marked as arriving from the type step.
func (c Continuity) FromTypeStep() Continuity {
	c.From = FromQuestionType
	return c
}

// WithoutFrom returns a copy with the from marker cleared.
func (c Continuity) WithoutFrom() Continuity {
	c.From = ""
	return c
}

// ToDashboard reports whether the run started on the dashboard.
func (c Continuity) ToDashboard() bool {
	return c.BackTo == BackToDashboard
}
