// Package models defines the result values produced by a breach lookup.
package models

import "encoding/json"

// Record is a single breach entry. Records from the private API are passed
// through as returned; public API records are built by the service.
type Record map[string]any

// ErrorResult is the error-shaped lookup outcome.
type ErrorResult struct {
	// Error describes what went wrong.
	Error string `json:"error"`
	// TryPublic marks a failure the public API can stand in for.
	TryPublic bool `json:"try_public,omitempty"`
}

// Result is either a list of records or an error value, never both.
// An empty, non-error Result means no breach was found.
type Result struct {
	Records []Record
	Err     *ErrorResult
}

// Success wraps records into a Result.
func Success(records []Record) Result {
	if records == nil {
		records = []Record{}
	}
	return Result{Records: records}
}

// Failure builds an error-shaped Result.
func Failure(msg string) Result {
	return Result{Err: &ErrorResult{Error: msg}}
}

// IsError reports whether r serializes to an object with an "error" key.
func (r Result) IsError() bool {
	return r.Err != nil
}

// MarshalJSON encodes the error object or the record list.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(r.Err)
	}
	if r.Records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Records)
}

// Info is the informational line printed ahead of a fallback result.
type Info struct {
	Info string `json:"info"`
}
