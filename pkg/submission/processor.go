package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/rules"
)

// Handler receives values that passed every rule set.
type Handler interface {
	Handle(ctx context.Context, schema formschema.FormSchema, values formschema.FormValues) (Acknowledgment, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, schema formschema.FormSchema, values formschema.FormValues) (Acknowledgment, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, schema formschema.FormSchema, values formschema.FormValues) (Acknowledgment, error) {
	return f(ctx, schema, values)
}

// Result is the outcome of one submission attempt. Exactly one of Errors and
// Acknowledgment is meaningful: Accepted tells which.
type Result struct {
	Accepted       bool
	Values         formschema.FormValues
	Errors         rules.FieldErrors
	Acknowledgment Acknowledgment
}

// Processor validates submissions for one schema.
type Processor struct {
	schema  formschema.FormSchema
	rules   rules.Compiled
	handler Handler
}

// NewProcessor builds a Processor. A nil handler defaults to an Acknowledger
// with no hooks.
func NewProcessor(schema formschema.FormSchema, compiled rules.Compiled, handler Handler) *Processor {
	if handler == nil {
		handler = NewAcknowledger()
	}
	return &Processor{schema: schema, rules: compiled, handler: handler}
}

// Submit validates values. On any failing rule the handler is not called and
// the result carries the per-field messages; the returned error is reserved
// for handler failures.
func (p *Processor) Submit(ctx context.Context, values formschema.FormValues) (Result, error) {
	if p == nil {
		return Result{}, errors.New("submission: processor is nil")
	}
	result := Result{Values: values}
	if fieldErrors := p.rules.Validate(values); len(fieldErrors) > 0 {
		result.Errors = fieldErrors
		return result, nil
	}

	ack, err := p.handler.Handle(ctx, p.schema, values)
	if err != nil {
		return result, fmt.Errorf("submission: handler: %w", err)
	}
	result.Accepted = true
	result.Acknowledgment = ack
	return result, nil
}
