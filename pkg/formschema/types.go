package formschema

import "strings"

// FieldType enumerates the widget kinds a FieldSpec can request. The set is
// closed: renderers switch over every value and treat anything else as an
// error.
type FieldType string

const (
	FieldTypeText         FieldType = "text"
	FieldTypeEmail        FieldType = "email"
	FieldTypeTextarea     FieldType = "textarea"
	FieldTypeSelect       FieldType = "select"
	FieldTypeRadio        FieldType = "radio"
	FieldTypeCheckbox     FieldType = "checkbox"
	FieldTypeAutocomplete FieldType = "autocomplete"
)

// AllFieldTypes returns the supported field types in declaration order.
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeEmail,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeRadio,
		FieldTypeCheckbox,
		FieldTypeAutocomplete,
	}
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTextarea,
		FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox, FieldTypeAutocomplete:
		return true
	default:
		return false
	}
}

// RequiresOptions reports whether the widget for t is built from Options.
func (t FieldType) RequiresOptions() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox, FieldTypeAutocomplete:
		return true
	default:
		return false
	}
}

// ClosedChoice reports whether a single value for t must be one of the
// declared Options. Autocomplete suggests options but accepts free text.
func (t FieldType) ClosedChoice() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio
}

// MultiValued reports whether submissions for t collect a set of values.
func (t FieldType) MultiValued() bool {
	return t == FieldTypeCheckbox
}

// Validation is the declarative rule object attached to a field. Pointer
// slots distinguish an absent rule from its zero value.
type Validation struct {
	Required  *bool   `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength *int    `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	Pattern   *string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// IsRequired reports whether the required slot is present and truthy.
func (v *Validation) IsRequired() bool {
	return v != nil && v.Required != nil && *v.Required
}

// FieldSpec describes one form input.
type FieldSpec struct {
	Name        string      `json:"name" yaml:"name"`
	Label       string      `json:"label" yaml:"label"`
	Type        FieldType   `json:"type" yaml:"type"`
	Placeholder string      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// Required reports whether the field declares a truthy required rule.
// Checkbox fields never do, whatever their validation object says.
func (f FieldSpec) Required() bool {
	if f.Type == FieldTypeCheckbox {
		return false
	}
	return f.Validation.IsRequired()
}

// HasOptions reports whether the field carries at least one option.
func (f FieldSpec) HasOptions() bool {
	return len(f.Options) > 0
}

// FormSchema is the loaded form definition: a title plus ordered fields.
type FormSchema struct {
	Title  string      `json:"title" yaml:"title"`
	Fields []FieldSpec `json:"fields" yaml:"fields"`
}

// Field looks up a field by name.
func (s FormSchema) Field(name string) (FieldSpec, bool) {
	name = strings.TrimSpace(name)
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// Names returns the field names in declaration order.
func (s FormSchema) Names() []string {
	if len(s.Fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing option slices or validation pointers.
func (s FormSchema) Clone() FormSchema {
	out := FormSchema{Title: s.Title}
	if len(s.Fields) == 0 {
		return out
	}
	out.Fields = make([]FieldSpec, len(s.Fields))
	for i, field := range s.Fields {
		out.Fields[i] = field.clone()
	}
	return out
}

func (f FieldSpec) clone() FieldSpec {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	if f.Validation != nil {
		v := Validation{}
		if f.Validation.Required != nil {
			required := *f.Validation.Required
			v.Required = &required
		}
		if f.Validation.MinLength != nil {
			minLength := *f.Validation.MinLength
			v.MinLength = &minLength
		}
		if f.Validation.Pattern != nil {
			pattern := *f.Validation.Pattern
			v.Pattern = &pattern
		}
		out.Validation = &v
	}
	return out
}
