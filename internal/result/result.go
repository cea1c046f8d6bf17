// Package result defines the canonical outcome record returned by
// every executable unit in the runtime.
package result

import "github.com/sexpruntime/core/internal/errtax"

// Status is the outcome of an executable unit.
type Status string

const (
	StatusComplete     Status = "COMPLETE"
	StatusFailed       Status = "FAILED"
	StatusContinuation Status = "CONTINUATION"
	StatusPartial      Status = "PARTIAL"
)

// Result is the canonical record: status, content, structured notes,
// and — only when Status != COMPLETE — a populated Error.
type Result struct {
	Status  Status
	Content any
	Notes   map[string]any
	Error   *errtax.Error
}

// Complete builds a COMPLETE Result.
func Complete(content any) Result {
	return Result{Status: StatusComplete, Content: content}
}

// Failed builds a FAILED Result from a taxonomy error. Panics if err
// is nil, since FAILED must always carry a populated error.
func Failed(err *errtax.Error) Result {
	if err == nil {
		panic("result: Failed called with nil error")
	}
	return Result{Status: StatusFailed, Error: err}
}

// Continuation builds a CONTINUATION Result, used by loop phases that
// signal more work remains without yet producing a final value.
func Continuation(content any) Result {
	return Result{Status: StatusContinuation, Content: content}
}

// Partial builds a PARTIAL Result.
func Partial(content any) Result {
	return Result{Status: StatusPartial, Content: content}
}

// WithNote returns a copy of r with note key set to value. Notes from
// caller context should be applied after Dispatcher-generated notes so
// that on key collision the caller wins.
func (r Result) WithNote(key string, value any) Result {
	notes := make(map[string]any, len(r.Notes)+1)
	for k, v := range r.Notes {
		notes[k] = v
	}
	notes[key] = value
	r.Notes = notes
	return r
}

// MergeNotes layers extra over r.Notes, with extra winning on key
// collision. Used by the Dispatcher to apply caller-supplied notes on
// top of its own.
func (r Result) MergeNotes(extra map[string]any) Result {
	if len(extra) == 0 {
		return r
	}
	notes := make(map[string]any, len(r.Notes)+len(extra))
	for k, v := range r.Notes {
		notes[k] = v
	}
	for k, v := range extra {
		notes[k] = v
	}
	r.Notes = notes
	return r
}

// IsOK reports whether r represents a usable (non-failed) outcome.
func (r Result) IsOK() bool { return r.Status != StatusFailed }
