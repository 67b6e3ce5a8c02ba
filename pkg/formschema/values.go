package formschema

import (
	"encoding/json"
	"errors"
	"strings"
)

// Value holds one submitted field value: a single string for text-like and
// single-choice fields, or a set of strings for checkbox groups.
type Value struct {
	Text  string
	Set   []string
	multi bool
}

// TextValue wraps a single string value.
func TextValue(text string) Value {
	return Value{Text: text}
}

// SetValue wraps a set of selected options. Duplicates are dropped while
// preserving first-seen order.
func SetValue(items ...string) Value {
	seen := make(map[string]struct{}, len(items))
	set := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		set = append(set, item)
	}
	return Value{Set: set, multi: true}
}

// IsSet reports whether the value is a multi-valued set.
func (v Value) IsSet() bool {
	return v.multi
}

// Empty reports whether the value counts as "no input" for required checks.
func (v Value) Empty() bool {
	if v.multi {
		return len(v.Set) == 0
	}
	return v.Text == ""
}

// Contains reports whether the set holds item, or the text equals item.
func (v Value) Contains(item string) bool {
	if !v.multi {
		return v.Text == item
	}
	for _, candidate := range v.Set {
		if candidate == item {
			return true
		}
	}
	return false
}

// String renders the value for display; sets are comma separated.
func (v Value) String() string {
	if v.multi {
		return strings.Join(v.Set, ", ")
	}
	return v.Text
}

// MarshalJSON encodes text values as strings and sets as arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.multi {
		set := v.Set
		if set == nil {
			set = []string{}
		}
		return json.Marshal(set)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts a string, an array of strings, or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*v = Value{}
		return nil
	case strings.HasPrefix(trimmed, "["):
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = SetValue(items...)
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*v = TextValue(text)
		return nil
	default:
		return errors.New("formschema: value must be a string or an array of strings")
	}
}

// FormValues maps field names to submitted values.
type FormValues map[string]Value

// Get returns the value for name, or the zero Value when absent.
func (fv FormValues) Get(name string) Value {
	if fv == nil {
		return Value{}
	}
	return fv[name]
}

// Strings flattens the values into plain Go values (string or []string),
// which is what templates and JSON encoders downstream consume.
func (fv FormValues) Strings() map[string]any {
	if len(fv) == 0 {
		return nil
	}
	out := make(map[string]any, len(fv))
	for name, value := range fv {
		if value.multi {
			out[name] = append([]string{}, value.Set...)
			continue
		}
		out[name] = value.Text
	}
	return out
}
