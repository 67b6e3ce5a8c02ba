// Package jsonform renders HTML forms from a JSON (or YAML) form schema:
// a title plus an ordered list of field descriptors. The root package offers
// one-call helpers; the building blocks live under pkg/.
//
//	html, err := jsonform.GenerateHTML(ctx, formschema.SourceFromFile("contact.json"))
//
// Long-lived hosts should hold a formview.View instead, which loads the
// schema once, shows a placeholder until it is ready and validates
// submissions.
package jsonform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/renderers/tui"
	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla"
)

// RenderOptions aliases render.RenderOptions for callers that only import the
// root package.
type RenderOptions = render.RenderOptions

// FormSchema aliases formschema.FormSchema.
type FormSchema = formschema.FormSchema

// Option configures GenerateHTML and GenerateHTMLFromDocument.
type Option func(*generateConfig)

type generateConfig struct {
	loader   []formschema.LoaderOption
	renderer render.Renderer
	options  render.RenderOptions
}

// WithLoaderOptions forwards options to the loader built by GenerateHTML.
func WithLoaderOptions(options ...formschema.LoaderOption) Option {
	return func(cfg *generateConfig) {
		cfg.loader = append(cfg.loader, options...)
	}
}

// WithRenderer replaces the default vanilla renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(cfg *generateConfig) {
		cfg.renderer = renderer
	}
}

// WithRenderOptions sets the per-request render options (action, values,
// errors, hidden fields).
func WithRenderOptions(options render.RenderOptions) Option {
	return func(cfg *generateConfig) {
		cfg.options = options
	}
}

func newGenerateConfig(options []Option) generateConfig {
	var cfg generateConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// GenerateHTML loads the schema at src, decodes it and renders it with the
// configured renderer (vanilla by default).
func GenerateHTML(ctx context.Context, src formschema.Source, options ...Option) ([]byte, error) {
	cfg := newGenerateConfig(options)
	doc, err := NewLoader(cfg.loader...).Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("jsonform: load schema: %w", err)
	}
	return generate(ctx, doc, cfg)
}

// GenerateHTMLFromDocument renders a document that is already in memory.
func GenerateHTMLFromDocument(ctx context.Context, doc formschema.Document, options ...Option) ([]byte, error) {
	return generate(ctx, doc, newGenerateConfig(options))
}

func generate(ctx context.Context, doc formschema.Document, cfg generateConfig) ([]byte, error) {
	schema, err := formschema.Decode(doc)
	if err != nil {
		return nil, err
	}
	renderer := cfg.renderer
	if renderer == nil {
		renderer, err = vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("jsonform: vanilla renderer: %w", err)
		}
	}
	return renderer.Render(ctx, schema, cfg.options)
}

// DefaultRegistry returns a registry holding the vanilla and tui renderers.
func DefaultRegistry() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("jsonform: vanilla renderer: %w", err)
	}
	return render.NewRegistry(html, tui.New()), nil
}
