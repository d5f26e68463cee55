// Package server exposes the question wizard over HTTP. It maps the
// /build-application routes onto wizard.Engine, renders pages through a
// render.Renderer and issues the session cookie the draft store is keyed by.
package server
