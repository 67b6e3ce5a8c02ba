package render

import (
	"errors"
	"fmt"
)

// ErrMissingOptions marks a choice field (select, radio, checkbox,
// autocomplete) declared without options. Renderers skip such fields and
// report them instead of failing the whole form.
var ErrMissingOptions = errors.New("render: choice field has no options")

// ErrUnsupportedType is returned for a field type outside the closed set.
var ErrUnsupportedType = errors.New("render: unsupported field type")

// SkippedFieldError identifies the field a renderer left out.
type SkippedFieldError struct {
	Field string
	Type  string
	Err   error
}

func (e *SkippedFieldError) Error() string {
	return fmt.Sprintf("render: skipped %s field %q: %v", e.Type, e.Field, e.Err)
}

func (e *SkippedFieldError) Unwrap() error {
	return e.Err
}
