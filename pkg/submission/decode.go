// Package submission turns posted form data into FormValues, validates them
// against the derived rule sets, and hands accepted values to a Handler.
package submission

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/goliatone/go-jsonform/pkg/formschema"
)

// Decode maps posted form data onto the schema fields. Single-valued fields
// take the first posted value, or "" when absent; select and radio values
// that are not declared options decode to "" as well. Checkbox fields accumulate
// every checked option into a set ordered by the declared options; values
// that are not declared options are dropped. Keys that match no field are
// ignored.
func Decode(schema formschema.FormSchema, posted url.Values) formschema.FormValues {
	values := make(formschema.FormValues, len(schema.Fields))
	for _, field := range schema.Fields {
		raw := posted[field.Name]
		if field.Type.MultiValued() {
			values[field.Name] = optionSet(field, raw)
			continue
		}
		text := ""
		if len(raw) > 0 {
			text = raw[0]
		}
		if field.Type.ClosedChoice() && !declared(field, text) {
			text = ""
		}
		values[field.Name] = formschema.TextValue(text)
	}
	return values
}

// DecodeJSON reads a JSON object of field values ({"email": "a@b.com",
// "interests": ["Events"]}) and normalises it the same way Decode does.
func DecodeJSON(schema formschema.FormSchema, r io.Reader) (formschema.FormValues, error) {
	var payload formschema.FormValues
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("submission: decode json: %w", err)
	}

	posted := make(url.Values, len(payload))
	for name, value := range payload {
		if value.IsSet() {
			posted[name] = value.Set
			continue
		}
		posted[name] = []string{value.Text}
	}
	return Decode(schema, posted), nil
}

func optionSet(field formschema.FieldSpec, raw []string) formschema.Value {
	if len(raw) == 0 {
		return formschema.SetValue()
	}
	checked := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		checked[item] = struct{}{}
	}
	picked := make([]string, 0, len(raw))
	for _, option := range field.Options {
		if _, ok := checked[option]; ok {
			picked = append(picked, option)
		}
	}
	return formschema.SetValue(picked...)
}

func declared(field formschema.FieldSpec, value string) bool {
	for _, option := range field.Options {
		if option == value {
			return true
		}
	}
	return false
}
