package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/render/template"
	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla/components"
)

// DefaultAutocompletePlaceholder is used when an autocomplete field declares
// no placeholder.
const DefaultAutocompletePlaceholder = "Type to search..."

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		partials:       partials,
		usedComponents: make(map[string]struct{}),
	}
}

// componentFor maps every field type onto its component. The switch covers
// the closed FieldType set; anything else is an error.
func componentFor(t formschema.FieldType) (string, error) {
	switch t {
	case formschema.FieldTypeText, formschema.FieldTypeEmail:
		return components.NameInput, nil
	case formschema.FieldTypeTextarea:
		return components.NameTextarea, nil
	case formschema.FieldTypeSelect:
		return components.NameSelect, nil
	case formschema.FieldTypeRadio:
		return components.NameRadio, nil
	case formschema.FieldTypeCheckbox:
		return components.NameCheckbox, nil
	case formschema.FieldTypeAutocomplete:
		return components.NameAutocomplete, nil
	default:
		return "", fmt.Errorf("%w %q", render.ErrUnsupportedType, t)
	}
}

// render returns the full markup (label, control, error) for one field. A
// choice field without options yields a *render.SkippedFieldError.
func (r *componentRenderer) render(field formschema.FieldSpec, opts render.RenderOptions) (string, error) {
	componentName, err := componentFor(field.Type)
	if err != nil {
		return "", fmt.Errorf("field %q: %w", field.Name, err)
	}
	if field.Type.RequiresOptions() && !field.HasOptions() {
		return "", &render.SkippedFieldError{Field: field.Name, Type: string(field.Type), Err: render.ErrMissingOptions}
	}

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Name)
	}

	view := fieldView(field, opts.Values.Get(field.Name), opts.Errors[field.Name])
	data := components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, view, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Name, err)
	}
	r.usedComponents[componentName] = struct{}{}

	return buildFieldMarkup(view, componentName, control.String()), nil
}

func (r *componentRenderer) stylesheets() []string {
	if len(r.usedComponents) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Stylesheets(names)
}

func fieldView(field formschema.FieldSpec, value formschema.Value, message string) components.Field {
	view := components.Field{
		Name:        field.Name,
		Label:       field.Label,
		Type:        string(field.Type),
		Placeholder: field.Placeholder,
		ControlID:   componentControlID(field.Name),
		LabelID:     componentLabelID(field.Name),
		ErrorID:     componentErrorID(field.Name),
		Required:    field.Required(),
		Error:       message,
	}

	switch field.Type {
	case formschema.FieldTypeText, formschema.FieldTypeEmail:
		view.InputType = string(field.Type)
	case formschema.FieldTypeAutocomplete:
		view.InputType = "text"
		view.ListID = datalistID(field.Name)
		if strings.TrimSpace(view.Placeholder) == "" {
			view.Placeholder = DefaultAutocompletePlaceholder
		}
	}

	if !value.IsSet() {
		view.Value = value.Text
	}
	for idx, option := range field.Options {
		view.Options = append(view.Options, components.Option{
			Value:    option,
			ID:       optionID(field.Name, idx),
			Selected: value.Contains(option),
		})
	}
	return view
}

func buildFieldMarkup(field components.Field, componentName, control string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="fg-field" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-field="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString(`"`)
	if field.Error != "" {
		builder.WriteString(` data-invalid="true"`)
	}
	builder.WriteString(">\n")

	if labelSupportsFor(componentName) {
		builder.WriteString(`<label class="fg-label block mb-1 font-medium" id="`)
		builder.WriteString(html.EscapeString(field.LabelID))
		builder.WriteString(`" for="`)
		builder.WriteString(html.EscapeString(field.ControlID))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(field.Label))
		builder.WriteString("</label>\n")
	} else {
		builder.WriteString(`<span class="fg-label block mb-1 font-medium" id="`)
		builder.WriteString(html.EscapeString(field.LabelID))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(field.Label))
		builder.WriteString("</span>\n")
	}

	builder.WriteString(strings.TrimRight(control, "\n"))
	builder.WriteByte('\n')

	if field.Error != "" {
		builder.WriteString(`<p class="fg-error text-red-500 text-sm" id="`)
		builder.WriteString(html.EscapeString(field.ErrorID))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(field.Error))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>")
	return builder.String()
}
