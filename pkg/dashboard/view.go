package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-jsonform/internal/loadonce"
	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/report"
)

// Reporter receives load failures.
type Reporter = report.Reporter

// View owns one dashboard: a source, a single load, and the loaded data.
type View struct {
	loader   formschema.Loader
	source   formschema.Source
	reporter Reporter
	hooks    []func(context.Context, error)

	state loadonce.Cell[Data]
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithReporter injects the failure reporter.
func WithReporter(reporter Reporter) ViewOption {
	return func(v *View) {
		v.reporter = report.OrNop(reporter)
	}
}

// WithLoadHook registers a callback run after the load settles.
func WithLoadHook(hook func(ctx context.Context, err error)) ViewOption {
	return func(v *View) {
		if hook != nil {
			v.hooks = append(v.hooks, hook)
		}
	}
}

// NewView builds a dashboard View. Nothing is fetched until Load.
func NewView(loader formschema.Loader, src formschema.Source, options ...ViewOption) *View {
	v := &View{loader: loader, source: src, reporter: report.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Load fetches the payload once. Failures go to the reporter and leave the
// view loading.
func (v *View) Load(ctx context.Context) error {
	return v.state.Do(ctx, v.fetch, v.settled)
}

// LoadAsync runs Load on its own goroutine.
func (v *View) LoadAsync(ctx context.Context) {
	go func() {
		_ = v.Load(ctx)
	}()
}

func (v *View) settled(ctx context.Context, err error) {
	if err != nil {
		v.reporter.Report(ctx, report.EventDashboardLoad, err)
	}
	for _, hook := range v.hooks {
		hook(ctx, err)
	}
}

func (v *View) fetch(ctx context.Context) (Data, error) {
	if v.loader == nil {
		return Data{}, errors.New("dashboard: loader is nil")
	}
	doc, err := v.loader.Load(ctx, v.source)
	if err != nil {
		return Data{}, fmt.Errorf("dashboard: load: %w", err)
	}
	return Decode(doc)
}

// Done is closed once the load has settled.
func (v *View) Done() <-chan struct{} {
	return v.state.Done()
}

// Ready reports whether data is present.
func (v *View) Ready() bool {
	return v.state.Ready()
}

// Data returns the loaded payload.
func (v *View) Data() (Data, bool) {
	return v.state.Get()
}

// Render draws the dashboard, or only the placeholder while loading.
func (v *View) Render(renderer *Renderer) ([]byte, error) {
	if renderer == nil {
		return nil, errors.New("dashboard: renderer is nil")
	}
	data, ok := v.state.Get()
	if !ok {
		return renderer.RenderPlaceholder()
	}
	return renderer.Render(data)
}

// Close discards a load still in flight.
func (v *View) Close() {
	v.state.Close()
}
