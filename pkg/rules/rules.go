// Package rules derives the per-field validation rule sets from a FieldSpec
// and evaluates submitted values against them.
package rules

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/goliatone/go-jsonform/pkg/formschema"
)

// Kind names a rule. Values mirror the keys of the validation object.
type Kind string

const (
	KindRequired  Kind = "required"
	KindMinLength Kind = "minLength"
	KindPattern   Kind = "pattern"
)

// MatchTimeout bounds a single pattern evaluation. Backtracking patterns are
// author controlled, the values they run against are not.
var MatchTimeout = 250 * time.Millisecond

// RequiredRule fails on an empty value.
type RequiredRule struct {
	Message string
}

// MinLengthRule fails when the value holds fewer than Min characters.
type MinLengthRule struct {
	Min     int
	Message string
}

// PatternRule fails when the value does not contain a match for the
// expression. Matching follows ECMAScript RegExp.test semantics: unanchored.
type PatternRule struct {
	Source  string
	Message string
	re      *regexp2.Regexp
}

// Matches reports whether value contains a match. A match that exceeds
// MatchTimeout counts as a mismatch.
func (r *PatternRule) Matches(value string) bool {
	if r == nil || r.re == nil {
		return true
	}
	ok, err := r.re.MatchString(value)
	if err != nil {
		return false
	}
	return ok
}

// ValidationRuleSet holds the rules derived for one field. Nil slots mean the
// rule is absent.
type ValidationRuleSet struct {
	Field     string
	Required  *RequiredRule
	MinLength *MinLengthRule
	Pattern   *PatternRule
}

// Empty reports whether the set carries no rule at all.
func (s ValidationRuleSet) Empty() bool {
	return s.Required == nil && s.MinLength == nil && s.Pattern == nil
}

// Kinds lists the present rules in evaluation order.
func (s ValidationRuleSet) Kinds() []Kind {
	var kinds []Kind
	if s.Required != nil {
		kinds = append(kinds, KindRequired)
	}
	if s.MinLength != nil {
		kinds = append(kinds, KindMinLength)
	}
	if s.Pattern != nil {
		kinds = append(kinds, KindPattern)
	}
	return kinds
}

// Check evaluates the rules in order (required, minLength, pattern) and
// returns the first failing message. minLength and pattern only apply to a
// non-empty value.
func (s ValidationRuleSet) Check(value formschema.Value) (string, bool) {
	if value.Empty() {
		if s.Required != nil {
			return s.Required.Message, false
		}
		return "", true
	}

	text := value.String()
	if s.MinLength != nil && utf8.RuneCountInString(text) < s.MinLength.Min {
		return s.MinLength.Message, false
	}
	if s.Pattern != nil && !s.Pattern.Matches(text) {
		return s.Pattern.Message, false
	}
	return "", true
}

// CheckText is Check for a plain string value.
func (s ValidationRuleSet) CheckText(text string) (string, bool) {
	return s.Check(formschema.TextValue(text))
}

// Derive builds the rule set for a field. Checkbox fields and fields without
// a validation object yield an empty set. A zero minLength or an empty
// pattern counts as absent. An uncompilable pattern is an error.
func Derive(field formschema.FieldSpec) (ValidationRuleSet, error) {
	set := ValidationRuleSet{Field: field.Name}
	v := field.Validation
	if v == nil || field.Type == formschema.FieldTypeCheckbox {
		return set, nil
	}

	if v.IsRequired() {
		set.Required = &RequiredRule{Message: fmt.Sprintf("%s is required", field.Label)}
	}
	if v.MinLength != nil && *v.MinLength > 0 {
		set.MinLength = &MinLengthRule{
			Min:     *v.MinLength,
			Message: fmt.Sprintf("%s must be at least %d characters", field.Label, *v.MinLength),
		}
	}
	if v.Pattern != nil && *v.Pattern != "" {
		re, err := regexp2.Compile(*v.Pattern, regexp2.ECMAScript)
		if err != nil {
			return ValidationRuleSet{}, &PatternError{Field: field.Name, Pattern: *v.Pattern, Err: err}
		}
		re.MatchTimeout = MatchTimeout
		set.Pattern = &PatternRule{
			Source:  *v.Pattern,
			Message: fmt.Sprintf("Invalid %s", field.Label),
			re:      re,
		}
	}
	return set, nil
}

// PatternError reports a validation pattern that does not compile.
type PatternError struct {
	Field   string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("rules: field %q: invalid pattern %q: %v", e.Field, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
