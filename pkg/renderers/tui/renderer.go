package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/report"
	"github.com/goliatone/go-jsonform/pkg/rules"
)

// DefaultAutocompleteHelp mirrors the placeholder the HTML renderer shows on
// autocomplete inputs without one.
const DefaultAutocompleteHelp = "Type to search..."

// noSelection is the leading entry offered by optional single-choice prompts.
const noSelection = "(no selection)"

// Renderer implements render.Renderer for terminal-driven sessions. Each
// field is prompted in declaration order and re-prompted until its rules
// pass.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	pageSize     int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field and serializes the collected values using
// the configured output format.
func (r *Renderer) Render(ctx context.Context, schema formschema.FormSchema, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, schema, opts)
	if err != nil {
		return nil, err
	}
	return r.Serialize(schema, values)
}

// Collect prompts for every field and returns the accepted values. Values
// already present in opts.Values become prompt defaults; opts.Errors are
// shown before the matching prompt.
func (r *Renderer) Collect(ctx context.Context, schema formschema.FormSchema, opts render.RenderOptions) (formschema.FormValues, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	reporter := report.OrNop(opts.Reporter)

	values := make(formschema.FormValues, len(schema.Fields))
	for _, field := range schema.Fields {
		if field.Type.RequiresOptions() && !field.HasOptions() {
			skipped := &render.SkippedFieldError{
				Field: field.Name,
				Type:  string(field.Type),
				Err:   render.ErrMissingOptions,
			}
			reporter.Report(ctx, report.EventFieldSkipped, skipped)
			if err := r.info(ctx, r.theme.SkipPrefix, fmt.Sprintf("Skipping %s: no options", displayLabel(field))); err != nil {
				return nil, err
			}
			continue
		}

		set, err := rules.Derive(field)
		if err != nil {
			return nil, err
		}
		if msg := opts.Errors[field.Name]; msg != "" {
			if err := r.info(ctx, r.theme.ErrorPrefix, msg); err != nil {
				return nil, err
			}
		}

		value, err := r.promptField(ctx, field, set, opts.Values.Get(field.Name))
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field formschema.FieldSpec, set rules.ValidationRuleSet, current formschema.Value) (formschema.Value, error) {
	switch field.Type {
	case formschema.FieldTypeText, formschema.FieldTypeEmail:
		return r.promptText(ctx, field, set, current, false)
	case formschema.FieldTypeTextarea:
		return r.promptText(ctx, field, set, current, true)
	case formschema.FieldTypeAutocomplete:
		return r.promptAutocomplete(ctx, field, set, current)
	case formschema.FieldTypeSelect:
		return r.promptChoice(ctx, field, set, current, "Select "+displayLabel(field))
	case formschema.FieldTypeRadio:
		placeholder := ""
		if !field.Required() {
			placeholder = noSelection
		}
		return r.promptChoice(ctx, field, set, current, placeholder)
	case formschema.FieldTypeCheckbox:
		return r.promptCheckbox(ctx, field, current)
	default:
		return formschema.Value{}, fmt.Errorf("%w: %q (field %q)", render.ErrUnsupportedType, field.Type, field.Name)
	}
}

func (r *Renderer) promptText(ctx context.Context, field formschema.FieldSpec, set rules.ValidationRuleSet, current formschema.Value, multiline bool) (formschema.Value, error) {
	label := displayLabel(field)
	defaultVal := current.Text

	for {
		var response string
		var err error
		if multiline {
			response, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message: label,
				Default: defaultVal,
				Help:    field.Placeholder,
			})
		} else {
			response, err = r.driver.Input(ctx, InputConfig{
				Message: label,
				Default: defaultVal,
				Help:    field.Placeholder,
			})
		}
		if err != nil {
			return formschema.Value{}, err
		}

		value := formschema.TextValue(response)
		if msg, ok := set.Check(value); !ok {
			if err := r.info(ctx, r.theme.ErrorPrefix, msg); err != nil {
				return formschema.Value{}, err
			}
			defaultVal = response
			continue
		}
		return value, nil
	}
}

func (r *Renderer) promptAutocomplete(ctx context.Context, field formschema.FieldSpec, set rules.ValidationRuleSet, current formschema.Value) (formschema.Value, error) {
	label := displayLabel(field)
	help := field.Placeholder
	if help == "" {
		help = DefaultAutocompleteHelp
	}
	defaultVal := current.Text

	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message:     label,
			Default:     defaultVal,
			Help:        help,
			Suggestions: field.Options,
		})
		if err != nil {
			return formschema.Value{}, err
		}
		// Free text is accepted, like a datalist-backed input.
		value := formschema.TextValue(response)
		if msg, ok := set.Check(value); !ok {
			if err := r.info(ctx, r.theme.ErrorPrefix, msg); err != nil {
				return formschema.Value{}, err
			}
			defaultVal = response
			continue
		}
		return value, nil
	}
}

// promptChoice offers the declared options, optionally preceded by a
// placeholder entry that maps to the empty value.
func (r *Renderer) promptChoice(ctx context.Context, field formschema.FieldSpec, set rules.ValidationRuleSet, current formschema.Value, placeholder string) (formschema.Value, error) {
	options := field.Options
	offset := 0
	if placeholder != "" {
		options = append([]string{placeholder}, field.Options...)
		offset = 1
	}

	defaultIdx := -1
	if current.Text != "" {
		if idx := indexOf(field.Options, current.Text); idx >= 0 {
			defaultIdx = idx + offset
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      options,
			DefaultIndex: defaultIdx,
			PageSize:     r.pageSize,
		})
		if err != nil {
			return formschema.Value{}, err
		}
		if idx < 0 || idx >= len(options) {
			if err := r.info(ctx, r.theme.ErrorPrefix, "Invalid "+displayLabel(field)); err != nil {
				return formschema.Value{}, err
			}
			continue
		}

		selected := ""
		if idx >= offset {
			selected = options[idx]
		}
		value := formschema.TextValue(selected)
		if msg, ok := set.Check(value); !ok {
			if err := r.info(ctx, r.theme.ErrorPrefix, msg); err != nil {
				return formschema.Value{}, err
			}
			defaultIdx = idx
			continue
		}
		return value, nil
	}
}

// promptCheckbox never re-prompts: checkbox groups carry no rules.
func (r *Renderer) promptCheckbox(ctx context.Context, field formschema.FieldSpec, current formschema.Value) (formschema.Value, error) {
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  displayLabel(field),
		Options:  field.Options,
		Defaults: indicesOf(field.Options, current.Set),
		PageSize: r.pageSize,
	})
	if err != nil {
		return formschema.Value{}, err
	}
	return formschema.SetValue(defaultsFromIndices(field.Options, indices)...), nil
}

func (r *Renderer) info(ctx context.Context, prefix, msg string) error {
	return r.driver.Info(ctx, prefix+msg)
}

// Serialize encodes values in the configured output format. Field order
// follows the schema for the pretty format.
func (r *Renderer) Serialize(schema formschema.FormSchema, values formschema.FormValues) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(schema, values)), nil
	default:
		return jsonBytes(values)
	}
}

func displayLabel(field formschema.FieldSpec) string {
	if strings.TrimSpace(field.Label) != "" {
		return field.Label
	}
	return field.Name
}

// flattenForm encodes checkbox sets as repeated keys, which is what
// submission.Decode reads back.
func flattenForm(values formschema.FormValues) string {
	flattened := url.Values{}
	for name, value := range values {
		if value.IsSet() {
			for _, item := range value.Set {
				flattened.Add(name, item)
			}
			continue
		}
		flattened.Set(name, value.Text)
	}
	return flattened.Encode()
}

func prettyPrint(schema formschema.FormSchema, values formschema.FormValues) string {
	var b strings.Builder
	for _, field := range schema.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", displayLabel(field), value.String())
	}
	return b.String()
}

func jsonBytes(values formschema.FormValues) ([]byte, error) {
	if values == nil {
		values = formschema.FormValues{}
	}
	return json.Marshal(values)
}
