// Package contract holds the OpenAPI description of the backend question and
// section service and checks outbound request bodies against it.
package contract
