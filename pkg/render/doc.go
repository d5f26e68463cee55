// Package render holds the page view models shared by renderers, the
// renderer registry, theme resolution and the helpers that prepare operator
// input and backend errors for display.
//
// TranslateErrors turns backend validation errors into field-addressable
// errors: a bare array field name expands to one error per element and
// "group.index.rest" paths collapse to "group[index]".
package render
