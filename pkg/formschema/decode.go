package formschema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var metaSchemaJSON []byte

var (
	metaSchemaOnce sync.Once
	metaSchema     *gojsonschema.Schema
	metaSchemaErr  error
)

// MetaSchema returns the embedded JSON Schema (draft-07) describing the form
// document shape.
func MetaSchema() []byte {
	return append([]byte(nil), metaSchemaJSON...)
}

// Decode parses a JSON or YAML document into a FormSchema. The document is
// checked against the embedded meta-schema first; structural problems and
// duplicate field names are returned as a *MalformedError.
func Decode(doc Document) (FormSchema, error) {
	generic, err := decodeGeneric(doc)
	if err != nil {
		return FormSchema{}, err
	}

	issues, err := checkStructure(generic)
	if err != nil {
		return FormSchema{}, err
	}
	if len(issues) > 0 {
		return FormSchema{}, &MalformedError{Location: doc.Location(), Issues: issues}
	}

	payload, err := json.Marshal(generic)
	if err != nil {
		return FormSchema{}, fmt.Errorf("formschema: re-encode %q: %w", doc.Location(), err)
	}
	var schema FormSchema
	if err := json.Unmarshal(payload, &schema); err != nil {
		return FormSchema{}, fmt.Errorf("formschema: decode %q: %w", doc.Location(), err)
	}

	if issues := duplicateNames(schema); len(issues) > 0 {
		return FormSchema{}, &MalformedError{Location: doc.Location(), Issues: issues}
	}
	return schema, nil
}

// DecodeBytes is a convenience wrapper for in-memory JSON or YAML payloads.
func DecodeBytes(location string, raw []byte) (FormSchema, error) {
	doc, err := NewDocument(SourceFromFS(location), raw)
	if err != nil {
		return FormSchema{}, err
	}
	return Decode(doc)
}

// Check runs the structural validation without building a FormSchema and
// also returns advisory issues (see Advisories). An empty slice means the
// document is usable as-is.
func Check(doc Document) ([]Issue, error) {
	generic, err := decodeGeneric(doc)
	if err != nil {
		return nil, err
	}
	issues, err := checkStructure(generic)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return issues, nil
	}
	schema, err := Decode(doc)
	if err != nil {
		var malformed *MalformedError
		if errors.As(err, &malformed) {
			return malformed.Issues, nil
		}
		return nil, err
	}
	return Advisories(schema), nil
}

// Advisories lists problems that do not prevent loading but cause a field
// to be skipped at render time: choice fields without options.
func Advisories(schema FormSchema) []Issue {
	var issues []Issue
	for idx, field := range schema.Fields {
		if field.Type.RequiresOptions() && !field.HasOptions() {
			issues = append(issues, Issue{
				Field:   fmt.Sprintf("fields.%d.options", idx),
				Message: fmt.Sprintf("%s field %q has no options", field.Type, field.Name),
			})
		}
	}
	return issues
}

func decodeGeneric(doc Document) (any, error) {
	raw := doc.Raw()
	var generic any
	switch doc.Format() {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return nil, &MalformedError{
				Location: doc.Location(),
				Issues:   []Issue{{Message: "invalid YAML: " + err.Error()}},
			}
		}
		generic = normalizeYAML(generic)
	default:
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, &MalformedError{
				Location: doc.Location(),
				Issues:   []Issue{{Message: "invalid JSON: " + err.Error()}},
			}
		}
	}
	return generic, nil
}

func checkStructure(generic any) ([]Issue, error) {
	schema, err := compiledMetaSchema()
	if err != nil {
		return nil, err
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(generic))
	if err != nil {
		return nil, fmt.Errorf("formschema: validate document: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	issues := make([]Issue, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		field := resultErr.Field()
		if field == "(root)" {
			field = ""
		}
		issues = append(issues, Issue{
			Field:   field,
			Message: resultErr.Description(),
		})
	}
	return issues, nil
}

func compiledMetaSchema() (*gojsonschema.Schema, error) {
	metaSchemaOnce.Do(func() {
		metaSchema, metaSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(metaSchemaJSON))
		if metaSchemaErr != nil {
			metaSchemaErr = fmt.Errorf("formschema: compile meta-schema: %w", metaSchemaErr)
		}
	})
	return metaSchema, metaSchemaErr
}

func duplicateNames(schema FormSchema) []Issue {
	seen := make(map[string]int, len(schema.Fields))
	var issues []Issue
	for idx, field := range schema.Fields {
		name := strings.TrimSpace(field.Name)
		if first, ok := seen[name]; ok {
			issues = append(issues, Issue{
				Field:   fmt.Sprintf("fields.%d.name", idx),
				Message: fmt.Sprintf("duplicate field name %q (first declared at fields.%d)", name, first),
			})
			continue
		}
		seen[name] = idx
	}
	return issues
}

// normalizeYAML converts map[any]any nodes into map[string]any so the tree can
// be handed to encoding/json and gojsonschema.
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeYAML(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = normalizeYAML(item)
		}
		return v
	default:
		return v
	}
}
