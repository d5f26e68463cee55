package wizard

import "github.com/goliatone/go-formwizard/pkg/render"

// Outcome is the result of handling one request: a Redirect or a Page.
type Outcome interface {
	isOutcome()
}

// Redirect sends the browser to Location.
type Redirect struct {
	Location string
}

// Page renders a view.
type Page struct {
	View render.Page
}

func (Redirect) isOutcome() {}
func (Page) isOutcome()     {}
