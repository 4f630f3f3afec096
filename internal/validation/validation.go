// Package validation rejects malformed input before anything is persisted.
package validation

// Error marks a failure as bad input rather than a downstream fault, so
// transport layers can map it to a client error.
type Error string

func (e Error) Error() string { return string(e) }
