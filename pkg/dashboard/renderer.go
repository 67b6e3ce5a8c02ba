package dashboard

import (
	"embed"
	"fmt"
	"io/fs"

	rendertemplate "github.com/goliatone/go-jsonform/pkg/render/template"
	"github.com/goliatone/go-jsonform/pkg/render/template/pongo"
)

// LoadingPlaceholder is shown until the dashboard payload arrives.
const LoadingPlaceholder = "Loading dashboard..."

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded dashboard templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// Renderer draws dashboards as HTML fragments.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

// RendererOption configures a Renderer.
type RendererOption func(*rendererConfig)

type rendererConfig struct {
	overlays  []fs.FS
	templates rendertemplate.TemplateRenderer
}

// WithTemplatesFS layers files over the embedded templates. Names are
// "templates/dashboard.tmpl" and "templates/loading.tmpl".
func WithTemplatesFS(files fs.FS) RendererOption {
	return func(cfg *rendererConfig) {
		if files != nil {
			cfg.overlays = append(cfg.overlays, files)
		}
	}
}

// WithTemplateRenderer replaces the template engine entirely.
func WithTemplateRenderer(templates rendertemplate.TemplateRenderer) RendererOption {
	return func(cfg *rendererConfig) {
		cfg.templates = templates
	}
}

// NewRenderer builds a dashboard renderer backed by pongo2.
func NewRenderer(options ...RendererOption) (*Renderer, error) {
	cfg := rendererConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templates != nil {
		return &Renderer{templates: cfg.templates}, nil
	}

	engineOptions := []pongo.Option{pongo.WithName("dashboard")}
	for _, layer := range cfg.overlays {
		engineOptions = append(engineOptions, pongo.WithFS(layer))
	}
	engineOptions = append(engineOptions, pongo.WithFS(TemplatesFS()))
	engine, err := pongo.New(engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("dashboard: configure template renderer: %w", err)
	}
	return &Renderer{templates: engine}, nil
}

// Render draws data.
func (r *Renderer) Render(data Data) ([]byte, error) {
	out, err := r.templates.Render("templates/dashboard", Project(data))
	if err != nil {
		return nil, fmt.Errorf("dashboard: render: %w", err)
	}
	return []byte(out), nil
}

// RenderPlaceholder draws the loading state.
func (r *Renderer) RenderPlaceholder() ([]byte, error) {
	out, err := r.templates.Render("templates/loading", map[string]any{"message": LoadingPlaceholder})
	if err != nil {
		return nil, fmt.Errorf("dashboard: render placeholder: %w", err)
	}
	return []byte(out), nil
}
