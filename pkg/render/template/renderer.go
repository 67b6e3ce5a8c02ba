package template

import (
	"io"
)

// TemplateRenderer is the engine contract the vanilla and dashboard renderers
// rely on. Render resolves a named template from the configured sources;
// RenderString parses inline template content.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
