// Package draftstore persists the partial state of a question wizard between
// steps. Drafts are keyed by session identifier and namespace; every Merge is
// a per-field last-write-wins update with no locking, so two tabs writing the
// same namespace may interleave field by field.
//
// Adapters live in sub-packages: httpstore talks to the external session
// service and redisstore keeps drafts in Redis hashes. MemoryStore serves
// tests and single-process runs.
package draftstore
