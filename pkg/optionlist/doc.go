// Package optionlist holds the options sub-step of the question wizard: it
// decodes a submitted options form into exactly one Action and applies the
// add/delete edits in memory. Nothing here talks to the backend.
package optionlist
