// Package responsetypes serves the response-type catalog as JSON options for
// the type step and other form builders.
//
// The handler responds to GET and HEAD requests. The q parameter filters by
// tag or label, limit caps the result size and next filters by the step that
// follows the type step ("question-options", "add-word-count" or "none").
package responsetypes
