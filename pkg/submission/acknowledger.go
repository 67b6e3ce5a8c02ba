package submission

import (
	"context"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-jsonform/pkg/formschema"
)

// DefaultMessage is the acknowledgment shown for an accepted submission.
const DefaultMessage = "Thank you! Your response has been submitted."

// Acknowledgment is what the user sees after a valid submission.
type Acknowledgment struct {
	ID         string                `json:"id"`
	Title      string                `json:"title,omitempty"`
	Message    string                `json:"message"`
	Values     formschema.FormValues `json:"values"`
	ReceivedAt time.Time             `json:"receivedAt"`
}

// AcknowledgerOption configures an Acknowledger.
type AcknowledgerOption func(*Acknowledger)

// WithOnAccepted registers a hook called with every acknowledgment, e.g. to
// log the submitted values.
func WithOnAccepted(fn func(ctx context.Context, ack Acknowledgment)) AcknowledgerOption {
	return func(a *Acknowledger) {
		if fn != nil {
			a.hooks = append(a.hooks, fn)
		}
	}
}

// WithMessage overrides DefaultMessage.
func WithMessage(message string) AcknowledgerOption {
	return func(a *Acknowledger) {
		if trimmed := strings.TrimSpace(message); trimmed != "" {
			a.message = trimmed
		}
	}
}

// WithIDGenerator replaces the uuid generator. Useful for tests.
func WithIDGenerator(fn func() string) AcknowledgerOption {
	return func(a *Acknowledger) {
		if fn != nil {
			a.newID = fn
		}
	}
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) AcknowledgerOption {
	return func(a *Acknowledger) {
		if fn != nil {
			a.now = fn
		}
	}
}

// Acknowledger is the default Handler: it surfaces the full value map back to
// the user and performs no network call.
type Acknowledger struct {
	message string
	hooks   []func(ctx context.Context, ack Acknowledgment)
	newID   func() string
	now     func() time.Time
}

var _ Handler = (*Acknowledger)(nil)

// NewAcknowledger constructs an Acknowledger.
func NewAcknowledger(options ...AcknowledgerOption) *Acknowledger {
	a := &Acknowledger{
		message: DefaultMessage,
		newID:   func() string { return uuid.New().String() },
		now:     time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Handle builds the acknowledgment. Echoed values are reduced to plain text.
func (a *Acknowledger) Handle(ctx context.Context, schema formschema.FormSchema, values formschema.FormValues) (Acknowledgment, error) {
	ack := Acknowledgment{
		ID:         a.newID(),
		Title:      schema.Title,
		Message:    a.message,
		Values:     SanitizeValues(values),
		ReceivedAt: a.now().UTC(),
	}
	for _, hook := range a.hooks {
		hook(ctx, ack)
	}
	return ack, nil
}

var (
	policyOnce  sync.Once
	valuePolicy *bluemonday.Policy
)

// SanitizeValues strips markup from every value. The result is plain text
// meant to be escaped again by whatever displays it.
func SanitizeValues(values formschema.FormValues) formschema.FormValues {
	if values == nil {
		return nil
	}
	policyOnce.Do(func() {
		valuePolicy = bluemonday.StrictPolicy()
	})

	out := make(formschema.FormValues, len(values))
	for name, value := range values {
		if value.IsSet() {
			items := make([]string, 0, len(value.Set))
			for _, item := range value.Set {
				items = append(items, plainText(item))
			}
			out[name] = formschema.SetValue(items...)
			continue
		}
		out[name] = formschema.TextValue(plainText(value.Text))
	}
	return out
}

func plainText(raw string) string {
	if raw == "" {
		return ""
	}
	return html.UnescapeString(valuePolicy.Sanitize(raw))
}
