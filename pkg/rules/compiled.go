package rules

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-jsonform/pkg/formschema"
)

// FieldErrors maps a field name to its single current message.
type FieldErrors map[string]string

// Names returns the failing field names sorted.
func (e FieldErrors) Names() []string {
	if len(e) == 0 {
		return nil
	}
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compiled holds the rule sets for every field of a schema, in field order.
type Compiled struct {
	sets []ValidationRuleSet
}

// Compile derives the rule set of every field. Pattern failures are joined
// and wrapped with formschema.ErrMalformed so loaders can fail closed.
func Compile(schema formschema.FormSchema) (Compiled, error) {
	sets := make([]ValidationRuleSet, 0, len(schema.Fields))
	var errs []error
	for _, field := range schema.Fields {
		set, err := Derive(field)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sets = append(sets, set)
	}
	if len(errs) > 0 {
		return Compiled{}, fmt.Errorf("%w: %w", formschema.ErrMalformed, errors.Join(errs...))
	}
	return Compiled{sets: sets}, nil
}

// MustCompile panics when Compile fails. Useful for tests.
func MustCompile(schema formschema.FormSchema) Compiled {
	compiled, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return compiled
}

// RuleSet returns the rule set for a field.
func (c Compiled) RuleSet(name string) (ValidationRuleSet, bool) {
	for _, set := range c.sets {
		if set.Field == name {
			return set, true
		}
	}
	return ValidationRuleSet{}, false
}

// Validate runs every rule set against values. A field absent from values is
// checked as empty. The result is nil when everything passes.
func (c Compiled) Validate(values formschema.FormValues) FieldErrors {
	var out FieldErrors
	for _, set := range c.sets {
		msg, ok := set.Check(values.Get(set.Field))
		if ok {
			continue
		}
		if out == nil {
			out = make(FieldErrors)
		}
		out[set.Field] = msg
	}
	return out
}
