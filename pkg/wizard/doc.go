// Package wizard is the question wizard state machine.
//
// A question is created or edited across several independent requests:
//
//	question-content -> question-type -> (question-options | add-word-count) -> commit
//
// The branch after the type step comes from the response-type catalog.
// Between steps the partial question lives in a draft store under the
// workflow's namespace; nothing is held in memory. Each call to Engine.Load
// or Engine.Submit returns an Outcome that is either a Redirect or a Page,
// never both.
package wizard
