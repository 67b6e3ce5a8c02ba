package render

import (
	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/report"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the loaded schema.
type RenderOptions struct {
	// Action is the form submission target. Empty keeps the current URL.
	Action string
	// Method defaults to POST.
	Method string
	// Values pre-populates controls, typically with the last submission.
	Values formschema.FormValues
	// Errors carries one message per failing field; renderers place each
	// message next to its field.
	Errors map[string]string
	// HiddenFields are emitted as hidden inputs (CSRF tokens etc.). See
	// MergeHiddenFields.
	HiddenFields map[string]string
	// Reporter receives fields skipped at render time. Nil discards.
	Reporter report.Reporter
}

// MethodOrDefault returns the configured method or POST.
func (o RenderOptions) MethodOrDefault() string {
	if o.Method == "" {
		return "POST"
	}
	return o.Method
}
