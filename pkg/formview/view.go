// Package formview ties a schema source to rendering and submission: it
// loads the schema once, gates rendering on that load, and validates
// submissions against the compiled rules.
package formview

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-jsonform/internal/loadonce"
	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/report"
	"github.com/goliatone/go-jsonform/pkg/rules"
	"github.com/goliatone/go-jsonform/pkg/submission"
)

// ErrNotLoaded is returned by operations that need a schema before one is
// available.
var ErrNotLoaded = errors.New("formview: schema not loaded")

// Reporter receives load failures and render-time skips.
type Reporter = report.Reporter

type loaded struct {
	schema    formschema.FormSchema
	compiled  rules.Compiled
	processor *submission.Processor
}

// View owns the state of one form: the schema source, the single load, and
// the processor built from the loaded schema.
type View struct {
	loader   formschema.Loader
	source   formschema.Source
	reporter Reporter
	handler  submission.Handler
	hooks    []LoadHook

	state loadonce.Cell[loaded]
}

// LoadHook observes the outcome of the single load. err is nil on success.
type LoadHook func(ctx context.Context, err error)

// Option configures a View.
type Option func(*View)

// WithReporter injects the failure reporter. Defaults to a no-op.
func WithReporter(reporter Reporter) Option {
	return func(v *View) {
		v.reporter = report.OrNop(reporter)
	}
}

// WithHandler sets the handler called for accepted submissions. Defaults to
// submission.NewAcknowledger().
func WithHandler(handler submission.Handler) Option {
	return func(v *View) {
		if handler != nil {
			v.handler = handler
		}
	}
}

// WithLoadHook registers a callback run after the load settles, e.g. for
// metrics.
func WithLoadHook(hook LoadHook) Option {
	return func(v *View) {
		if hook != nil {
			v.hooks = append(v.hooks, hook)
		}
	}
}

// New builds a View for src. Nothing is fetched until Load or LoadAsync.
func New(loader formschema.Loader, src formschema.Source, options ...Option) *View {
	v := &View{
		loader:   loader,
		source:   src,
		reporter: report.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// Load fetches, decodes and compiles the schema. Only the first call does any
// work; later calls return the first outcome. Failures are handed to the
// reporter and leave the view not loaded.
func (v *View) Load(ctx context.Context) error {
	return v.state.Do(ctx, v.fetch, v.settled)
}

// LoadAsync starts Load on its own goroutine. Use Done to wait for it.
func (v *View) LoadAsync(ctx context.Context) {
	go func() {
		_ = v.Load(ctx)
	}()
}

// settled runs for a load outcome the view kept; a load discarded by Close
// is neither reported nor hooked.
func (v *View) settled(ctx context.Context, err error) {
	if err != nil {
		v.reporter.Report(ctx, report.EventSchemaLoad, err)
	}
	for _, hook := range v.hooks {
		hook(ctx, err)
	}
}

func (v *View) fetch(ctx context.Context) (loaded, error) {
	schema, err := formschema.Fetch(ctx, v.loader, v.source)
	if err != nil {
		return loaded{}, fmt.Errorf("formview: load %q: %w", location(v.source), err)
	}
	compiled, err := rules.Compile(schema)
	if err != nil {
		return loaded{}, fmt.Errorf("formview: load %q: %w", location(v.source), err)
	}
	return loaded{
		schema:    schema,
		compiled:  compiled,
		processor: submission.NewProcessor(schema, compiled, v.handler),
	}, nil
}

// Done is closed once the load has settled.
func (v *View) Done() <-chan struct{} {
	return v.state.Done()
}

// Ready reports whether a schema is present.
func (v *View) Ready() bool {
	return v.state.Ready()
}

// Err returns the load error, if the load failed.
func (v *View) Err() error {
	return v.state.Err()
}

// Schema returns a copy of the loaded schema.
func (v *View) Schema() (formschema.FormSchema, bool) {
	state, ok := v.state.Get()
	if !ok {
		return formschema.FormSchema{}, false
	}
	return state.schema.Clone(), true
}

// Rules returns the compiled rules of the loaded schema.
func (v *View) Rules() (rules.Compiled, bool) {
	state, ok := v.state.Get()
	return state.compiled, ok
}

// Render draws the form with renderer. Until the schema is loaded the output
// is only the loading placeholder: the renderer's own when it implements
// render.PlaceholderRenderer, the bare text otherwise.
func (v *View) Render(ctx context.Context, renderer render.Renderer, options render.RenderOptions) ([]byte, error) {
	if renderer == nil {
		return nil, errors.New("formview: renderer is nil")
	}
	if options.Reporter == nil {
		options.Reporter = v.reporter
	}
	state, ok := v.state.Get()
	if !ok {
		if placeholder, ok := renderer.(render.PlaceholderRenderer); ok {
			return placeholder.RenderPlaceholder(ctx, options)
		}
		return []byte(render.LoadingPlaceholder), nil
	}
	return renderer.Render(ctx, state.schema, options)
}

// Submit validates values against the loaded rules and, when they pass,
// hands them to the handler.
func (v *View) Submit(ctx context.Context, values formschema.FormValues) (submission.Result, error) {
	state, ok := v.state.Get()
	if !ok {
		return submission.Result{}, ErrNotLoaded
	}
	result, err := state.processor.Submit(ctx, values)
	if err != nil {
		v.reporter.Report(ctx, report.EventSubmissionFail, err)
	}
	return result, err
}

// Close discards the result of a load still in flight.
func (v *View) Close() {
	v.state.Close()
}

func location(src formschema.Source) string {
	if src == nil {
		return ""
	}
	return src.Location()
}
