package formschema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is matched (errors.Is) by every MalformedError.
var ErrMalformed = errors.New("formschema: malformed schema")

// Issue is a single structural problem found in a schema document. Field is a
// dotted path into the document ("fields.2.type"); empty means the root.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// MalformedError reports a document that decoded but does not describe a
// usable form.
type MalformedError struct {
	Location string
	Issues   []Issue
}

func (e *MalformedError) Error() string {
	var b strings.Builder
	b.WriteString("formschema: malformed schema")
	if e.Location != "" {
		fmt.Fprintf(&b, " %q", e.Location)
	}
	if len(e.Issues) > 0 {
		parts := make([]string, 0, len(e.Issues))
		for _, issue := range e.Issues {
			parts = append(parts, issue.String())
		}
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, "; "))
	}
	return b.String()
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}
