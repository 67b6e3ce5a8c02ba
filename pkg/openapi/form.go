package openapi

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-jsonform/pkg/formschema"
)

const (
	orderExtension   = "x-formgen-order"
	widgetExtension  = "x-formgen-widget"
	optionsExtension = "x-formgen-options"
)

// FormFromOperation parses raw and builds the form for operationID.
func FormFromOperation(ctx context.Context, raw []byte, operationID string, options ...ParserOption) (formschema.FormSchema, error) {
	operations, err := NewParser(options...).Operations(ctx, raw)
	if err != nil {
		return formschema.FormSchema{}, err
	}
	op, ok := operations[operationID]
	if !ok {
		return formschema.FormSchema{}, fmt.Errorf("openapi: operation %q not found (available: %s)", operationID, strings.Join(OperationIDs(operations), ", "))
	}
	return BuildForm(op)
}

// BuildForm converts the request body of op into a FormSchema. Properties
// listed in x-formgen-order come first, the rest follow by name. Nested
// objects and arrays of non-enum items are skipped.
func BuildForm(op Operation) (formschema.FormSchema, error) {
	body := op.RequestBody
	if body.Type != "" && body.Type != "object" {
		return formschema.FormSchema{}, fmt.Errorf("openapi: operation %q request body is %q, want object", op.ID, body.Type)
	}
	if len(body.Properties) == 0 {
		return formschema.FormSchema{}, fmt.Errorf("openapi: operation %q has no request body properties", op.ID)
	}

	title := op.Summary
	if title == "" {
		title = DefaultLabel(op.ID)
	}
	form := formschema.FormSchema{Title: title}
	for _, name := range propertyOrder(body) {
		field, ok := fieldFromProperty(name, body.Properties[name], body.IsRequired(name))
		if !ok {
			continue
		}
		form.Fields = append(form.Fields, field)
	}
	if len(form.Fields) == 0 {
		return formschema.FormSchema{}, fmt.Errorf("openapi: operation %q has no form-compatible properties", op.ID)
	}
	return form, nil
}

func propertyOrder(body Schema) []string {
	seen := make(map[string]struct{}, len(body.Properties))
	var order []string
	for _, name := range stringList(body.Extensions[orderExtension]) {
		if _, ok := body.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	for _, name := range body.PropertyNames() {
		if _, ok := seen[name]; ok {
			continue
		}
		order = append(order, name)
	}
	return order
}

func fieldFromProperty(name string, prop Schema, required bool) (formschema.FieldSpec, bool) {
	label := prop.Title
	if label == "" {
		label = DefaultLabel(name)
	}
	field := formschema.FieldSpec{
		Name:        name,
		Label:       label,
		Placeholder: prop.Description,
	}

	widget, _ := prop.Extensions[widgetExtension].(string)
	options := stringList(prop.Extensions[optionsExtension])

	switch prop.Type {
	case "array":
		if prop.Items == nil {
			return formschema.FieldSpec{}, false
		}
		if len(options) == 0 {
			options = stringList(prop.Items.Enum)
		}
		if len(options) == 0 {
			return formschema.FieldSpec{}, false
		}
		field.Type = formschema.FieldTypeCheckbox
	case "string", "":
		if len(options) == 0 {
			options = stringList(prop.Enum)
		}
		field.Type = stringFieldType(prop, widget, len(options) > 0)
	default:
		return formschema.FieldSpec{}, false
	}
	if field.Type.RequiresOptions() {
		field.Options = options
	}

	if field.Type != formschema.FieldTypeCheckbox {
		field.Validation = validationFor(prop, required)
	}
	return field, true
}

func stringFieldType(prop Schema, widget string, hasOptions bool) formschema.FieldType {
	if candidate := formschema.FieldType(strings.ToLower(strings.TrimSpace(widget))); candidate.Valid() {
		return candidate
	}
	switch {
	case hasOptions:
		return formschema.FieldTypeSelect
	case prop.Format == "email":
		return formschema.FieldTypeEmail
	default:
		return formschema.FieldTypeText
	}
}

func validationFor(prop Schema, required bool) *formschema.Validation {
	v := formschema.Validation{}
	empty := true
	if required {
		flag := true
		v.Required = &flag
		empty = false
	}
	if prop.MinLength != nil && *prop.MinLength > 0 {
		minLength := *prop.MinLength
		v.MinLength = &minLength
		empty = false
	}
	if prop.Pattern != "" {
		pattern := prop.Pattern
		v.Pattern = &pattern
		empty = false
	}
	if empty {
		return nil
	}
	return &v
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabel converts a property name into a label, splitting on
// underscores, dashes and camelCase boundaries.
func DefaultLabel(name string) string {
	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		for _, part := range strings.Fields(splitCamel(word)) {
			segments = append(segments, titleCase(part))
		}
	}
	return strings.Join(segments, " ")
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
