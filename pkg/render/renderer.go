package render

import (
	"context"

	"github.com/goliatone/go-jsonform/pkg/formschema"
)

// Renderer converts a loaded FormSchema into a byte representation (HTML,
// terminal transcript, JSON, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, schema formschema.FormSchema, options RenderOptions) ([]byte, error)
}

// PlaceholderRenderer is implemented by renderers that can draw the loading
// state shown before a schema is available.
type PlaceholderRenderer interface {
	RenderPlaceholder(ctx context.Context, options RenderOptions) ([]byte, error)
}

// LoadingPlaceholder is the text shown while the schema fetch is pending.
const LoadingPlaceholder = "Loading form..."
