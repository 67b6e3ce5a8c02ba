// Package report carries non-fatal failures (schema fetch errors, fields
// skipped at render time) from library code to whatever the host uses for
// diagnostics. Library packages never log directly.
package report

import (
	"context"
	"sync"
)

// Reporter receives failures that must not interrupt the caller.
type Reporter interface {
	Report(ctx context.Context, event string, err error)
}

// Func adapts a function to the Reporter interface.
type Func func(ctx context.Context, event string, err error)

// Report calls f.
func (f Func) Report(ctx context.Context, event string, err error) {
	if f != nil {
		f(ctx, event, err)
	}
}

type nop struct{}

func (nop) Report(context.Context, string, error) {}

// Nop returns a Reporter that discards everything.
func Nop() Reporter {
	return nop{}
}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return nop{}
	}
	return r
}

// Entry is one recorded report.
type Entry struct {
	Event string
	Err   error
}

// Recorder keeps every report in memory. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Report appends the entry.
func (r *Recorder) Report(_ context.Context, event string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Event: event, Err: err})
}

// Entries returns a snapshot of the recorded reports.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Events names used by the packages in this module.
const (
	EventSchemaLoad     = "schema.load"
	EventDashboardLoad  = "dashboard.load"
	EventFieldSkipped   = "render.field_skipped"
	EventSubmissionFail = "submission.handler"
)
