// Package responsetype classifies question response types. The classification
// tells the wizard whether a type needs an options step, a word-limit step, or
// neither, and computes the path visited after the question-type step.
//
// The catalog is embedded as YAML and parsed once; unknown tags fail with
// ErrUnclassifiableType.
package responsetype
