// Package vanilla renders forms as plain HTML using pongo2 templates and a
// component registry keyed by field type.
package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/render"
	rendertemplate "github.com/goliatone/go-jsonform/pkg/render/template"
	"github.com/goliatone/go-jsonform/pkg/render/template/pongo"
	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-jsonform/pkg/report"
	"github.com/goliatone/go-jsonform/pkg/submission"
)

type Option func(*config)

type config struct {
	overlays         []fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	selector         theme.ThemeSelector
	themeName        string
	themeVariant     string
	themeConfig      *theme.RendererConfig
	document         bool
	stylesheets      []string
	inlineCSS        bool
}

// WithTemplatesFS layers an fs.FS over the embedded templates. Files present
// in the layer replace the built-in ones; everything else falls through.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.overlays = append(cfg.overlays, files)
		}
	}
}

// WithTemplatesDir layers a directory on disk over the embedded templates.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.overlays = append(cfg.overlays, os.DirFS(path))
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithThemeSelector resolves name/variant through selector when the renderer
// is built. Theme templates replace component partials and theme tokens
// become CSS custom properties on the form container.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// WithThemeConfig supplies an already resolved theme configuration.
func WithThemeConfig(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.themeConfig = themeCfg
	}
}

// WithDocument wraps every output in a complete HTML page. Stylesheet hrefs
// are linked in order; with none given the embedded stylesheet is inlined.
func WithDocument(stylesheets ...string) Option {
	return func(cfg *config) {
		cfg.document = true
		cfg.stylesheets = append(cfg.stylesheets, stylesheets...)
		cfg.inlineCSS = len(cfg.stylesheets) == 0
	}
}

// Renderer renders forms, the loading placeholder and acknowledgments.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
	theme     *theme.RendererConfig

	document    bool
	stylesheets []string
	inlineCSS   bool
}

var (
	_ render.Renderer            = (*Renderer)(nil)
	_ render.PlaceholderRenderer = (*Renderer)(nil)
)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engineOptions := []pongo.Option{pongo.WithName("vanilla"), pongo.WithExtension(".tmpl")}
		for _, layer := range cfg.overlays {
			engineOptions = append(engineOptions, pongo.WithFS(layer))
		}
		engineOptions = append(engineOptions, pongo.WithFS(TemplatesFS()))

		engine, err := pongo.New(engineOptions...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	themeCfg := cfg.themeConfig
	if themeCfg == nil && cfg.selector != nil {
		selection, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: select theme: %w", err)
		}
		themeCfg = ThemeConfig(selection)
	}

	registry := cfg.registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	return &Renderer{
		templates:   templates,
		registry:    registry,
		theme:       themeCfg,
		document:    cfg.document,
		stylesheets: cfg.stylesheets,
		inlineCSS:   cfg.inlineCSS,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws every field in declaration order. Fields skipped for missing
// options are reported through options.Reporter; any other field error
// aborts the render.
func (r *Renderer) Render(ctx context.Context, schema formschema.FormSchema, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	reporter := report.OrNop(options.Reporter)

	var partials map[string]string
	if r.theme != nil {
		partials = r.theme.Partials
	}
	fields := newComponentRenderer(r.templates, r.registry, partials)

	markup := make([]string, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		out, err := fields.render(field, options)
		if err != nil {
			var skipped *render.SkippedFieldError
			if errors.As(err, &skipped) {
				reporter.Report(ctx, report.EventFieldSkipped, skipped)
				continue
			}
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		markup = append(markup, out)
	}

	content, err := r.templates.Render("templates/form", map[string]any{
		"form": map[string]any{
			"title":  schema.Title,
			"action": options.Action,
			"method": options.MethodOrDefault(),
			"hidden": render.SortedHiddenFields(options.HiddenFields),
			"fields": markup,
		},
		"theme": r.themeContext(),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return r.page(schema.Title, content, fields.stylesheets())
}

// RenderPlaceholder draws the loading state. No field widget is produced.
func (r *Renderer) RenderPlaceholder(_ context.Context, _ render.RenderOptions) ([]byte, error) {
	return r.renderMessage("templates/loading", render.LoadingPlaceholder, "")
}

// RenderMessage draws a single status line using the loading template, e.g.
// the dashboard placeholder.
func (r *Renderer) RenderMessage(message, title string) ([]byte, error) {
	return r.renderMessage("templates/loading", message, title)
}

// RenderAcknowledgment draws the confirmation for an accepted submission,
// listing the values in schema field order.
func (r *Renderer) RenderAcknowledgment(_ context.Context, schema formschema.FormSchema, ack submission.Acknowledgment) ([]byte, error) {
	rows := make([]map[string]string, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		value, ok := ack.Values[field.Name]
		if !ok || value.Empty() {
			continue
		}
		rows = append(rows, map[string]string{"label": field.Label, "value": value.String()})
	}

	content, err := r.templates.Render("templates/acknowledgment", map[string]any{
		"ack": map[string]any{
			"id":      ack.ID,
			"title":   ack.Title,
			"message": ack.Message,
		},
		"rows": rows,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render acknowledgment: %w", err)
	}
	return r.page(schema.Title, content, nil)
}

func (r *Renderer) renderMessage(name, message, title string) ([]byte, error) {
	content, err := r.templates.Render(name, map[string]any{"message": message})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render %s: %w", name, err)
	}
	if title == "" {
		title = message
	}
	return r.page(title, content, nil)
}

// Page wraps arbitrary HTML content in the document layout when the renderer
// was built WithDocument; otherwise content is returned as is.
func (r *Renderer) Page(title, content string) ([]byte, error) {
	return r.page(title, content, nil)
}

func (r *Renderer) page(title, content string, componentStyles []string) ([]byte, error) {
	if !r.document {
		return []byte(content), nil
	}

	stylesheets := append([]string(nil), r.stylesheets...)
	stylesheets = append(stylesheets, componentStyles...)
	if r.theme != nil && r.theme.AssetURL != nil {
		if href := r.theme.AssetURL("forms.stylesheet"); href != "" {
			stylesheets = append(stylesheets, href)
		}
	}

	inline := ""
	if r.inlineCSS {
		inline = defaultStylesheet()
	}
	out, err := r.templates.Render("templates/page", map[string]any{
		"title":       title,
		"stylesheets": stylesheets,
		"inline_css":  inline,
		"content":     content,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) themeContext() map[string]string {
	if r.theme == nil {
		return map[string]string{}
	}
	return map[string]string{
		"name":    r.theme.Theme,
		"variant": r.theme.Variant,
		"cssVars": cssVarsStyle(r.theme.CSSVars),
	}
}
