// Package bootstrap assembles the wizard from configuration: backend gateway,
// draft store, engine, renderer, theme and HTTP runtime.
package bootstrap
