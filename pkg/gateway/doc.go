// Package gateway is the client side of the backend question and section
// service. Failures are classified into ValidationError (field errors the
// wizard can show in place), NotFoundError and TransportError; reorder writes
// carry the expected form version and a stale version is a TransportError
// wrapping ErrVersionConflict.
package gateway
