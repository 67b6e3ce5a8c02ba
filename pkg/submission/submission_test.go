package submission_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/rules"
	"github.com/goliatone/go-jsonform/pkg/submission"
)

func ptr[T any](v T) *T { return &v }

func contactSchema() formschema.FormSchema {
	return formschema.FormSchema{
		Title: "Contact",
		Fields: []formschema.FieldSpec{{
			Name:  "email",
			Label: "Email",
			Type:  formschema.FieldTypeEmail,
			Validation: &formschema.Validation{
				Required: ptr(true),
				Pattern:  ptr(`^.+@.+\..+$`),
			},
		}},
	}
}

func fixedAcknowledger(opts ...submission.AcknowledgerOption) *submission.Acknowledger {
	base := []submission.AcknowledgerOption{
		submission.WithIDGenerator(func() string { return "ack-1" }),
		submission.WithClock(func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }),
	}
	return submission.NewAcknowledger(append(base, opts...)...)
}

func TestProcessor_ContactScenario(t *testing.T) {
	schema := contactSchema()
	var accepted []submission.Acknowledgment
	ack := fixedAcknowledger(submission.WithOnAccepted(func(_ context.Context, a submission.Acknowledgment) {
		accepted = append(accepted, a)
	}))
	processor := submission.NewProcessor(schema, rules.MustCompile(schema), ack)

	cases := []struct {
		email string
		want  rules.FieldErrors
	}{
		{email: "", want: rules.FieldErrors{"email": "Email is required"}},
		{email: "bad", want: rules.FieldErrors{"email": "Invalid Email"}},
	}
	for _, tc := range cases {
		values := submission.Decode(schema, url.Values{"email": {tc.email}})
		result, err := processor.Submit(context.Background(), values)
		if err != nil {
			t.Fatalf("submit %q: %v", tc.email, err)
		}
		if result.Accepted {
			t.Fatalf("submit %q: expected rejection", tc.email)
		}
		if diff := cmp.Diff(tc.want, result.Errors); diff != "" {
			t.Fatalf("submit %q: errors mismatch (-want +got):\n%s", tc.email, diff)
		}
	}
	if len(accepted) != 0 {
		t.Fatalf("handler must not run for invalid submissions")
	}

	result, err := processor.Submit(context.Background(), submission.Decode(schema, url.Values{"email": {"a@b.com"}}))
	if err != nil {
		t.Fatalf("submit valid: %v", err)
	}
	if !result.Accepted || len(result.Errors) != 0 {
		t.Fatalf("expected acceptance, got %+v", result)
	}
	want := submission.Acknowledgment{
		ID:         "ack-1",
		Title:      "Contact",
		Message:    "Thank you! Your response has been submitted.",
		Values:     formschema.FormValues{"email": formschema.TextValue("a@b.com")},
		ReceivedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, result.Acknowledgment, cmp.AllowUnexported(formschema.Value{})); diff != "" {
		t.Fatalf("acknowledgment mismatch (-want +got):\n%s", diff)
	}
	if len(accepted) != 1 {
		t.Fatalf("expected one hook call, got %d", len(accepted))
	}
}

func TestDecode_CheckboxAccumulatesInDeclaredOrder(t *testing.T) {
	schema := formschema.FormSchema{Fields: []formschema.FieldSpec{{
		Name: "interests", Label: "Interests", Type: formschema.FieldTypeCheckbox,
		Options: []string{"Product updates", "Events", "Newsletter"},
	}}}

	values := submission.Decode(schema, url.Values{
		"interests": {"Newsletter", "Events", "Newsletter", "Injected"},
	})
	got := values.Get("interests")
	if !got.IsSet() {
		t.Fatalf("checkbox value must be a set")
	}
	if diff := cmp.Diff([]string{"Events", "Newsletter"}, got.Set); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}

	empty := submission.Decode(schema, nil).Get("interests")
	if !empty.IsSet() || !empty.Empty() {
		t.Fatalf("unchecked group must decode to an empty set, got %+v", empty)
	}
}

func TestDecode_SingleValuedFields(t *testing.T) {
	schema := formschema.FormSchema{Fields: []formschema.FieldSpec{
		{Name: "name", Label: "Name", Type: formschema.FieldTypeText},
		{Name: "topic", Label: "Topic", Type: formschema.FieldTypeSelect, Options: []string{"Sales"}},
	}}

	values := submission.Decode(schema, url.Values{
		"name":    {"Ada", "ignored"},
		"unknown": {"dropped"},
	})
	if got := values.Get("name").Text; got != "Ada" {
		t.Fatalf("name = %q", got)
	}
	if got := values.Get("topic"); got.IsSet() || got.Text != "" {
		t.Fatalf("absent select must decode to empty text, got %+v", got)
	}
	if _, ok := values["unknown"]; ok {
		t.Fatalf("unknown keys must be dropped")
	}
}

func TestDecode_ChoiceFieldsKeepOnlyDeclaredOptions(t *testing.T) {
	required := &formschema.Validation{Required: ptr(true)}
	schema := formschema.FormSchema{Fields: []formschema.FieldSpec{
		{Name: "country", Label: "Country", Type: formschema.FieldTypeSelect, Options: []string{"Canada", "Japan"}, Validation: required},
		{Name: "size", Label: "Size", Type: formschema.FieldTypeRadio, Options: []string{"S", "M"}, Validation: required},
		{Name: "city", Label: "City", Type: formschema.FieldTypeAutocomplete, Options: []string{"Osaka"}},
	}}

	values := submission.Decode(schema, url.Values{
		"country": {"Select Country"},
		"size":    {"XXL"},
		"city":    {"Kyoto"},
	})
	if got := values.Get("country").Text; got != "" {
		t.Fatalf("undeclared select value must decode to empty, got %q", got)
	}
	if got := values.Get("size").Text; got != "" {
		t.Fatalf("undeclared radio value must decode to empty, got %q", got)
	}
	if got := values.Get("city").Text; got != "Kyoto" {
		t.Fatalf("autocomplete keeps free text, got %q", got)
	}

	processor := submission.NewProcessor(schema, rules.MustCompile(schema), fixedAcknowledger())
	result, err := processor.Submit(context.Background(), values)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := rules.FieldErrors{"country": "Country is required", "size": "Size is required"}
	if result.Accepted {
		t.Fatalf("expected rejection")
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	kept := submission.Decode(schema, url.Values{"country": {"Japan"}, "size": {"M"}})
	if kept.Get("country").Text != "Japan" || kept.Get("size").Text != "M" {
		t.Fatalf("declared options must be kept, got %+v", kept)
	}
}

func TestDecodeJSON(t *testing.T) {
	schema := formschema.FormSchema{Fields: []formschema.FieldSpec{
		{Name: "email", Label: "Email", Type: formschema.FieldTypeEmail},
		{Name: "interests", Label: "Interests", Type: formschema.FieldTypeCheckbox, Options: []string{"A", "B"}},
	}}

	values, err := submission.DecodeJSON(schema, strings.NewReader(`{"email":"a@b.com","interests":["B","A","Z"]}`))
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if values.Get("email").Text != "a@b.com" {
		t.Fatalf("unexpected email %+v", values.Get("email"))
	}
	if diff := cmp.Diff([]string{"A", "B"}, values.Get("interests").Set); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}

	if _, err := submission.DecodeJSON(schema, strings.NewReader(`{"email": 4}`)); err == nil {
		t.Fatalf("expected error for non-string value")
	}
}

func TestProcessor_HandlerError(t *testing.T) {
	schema := contactSchema()
	boom := errors.New("boom")
	processor := submission.NewProcessor(schema, rules.MustCompile(schema), submission.HandlerFunc(
		func(context.Context, formschema.FormSchema, formschema.FormValues) (submission.Acknowledgment, error) {
			return submission.Acknowledgment{}, boom
		},
	))

	result, err := processor.Submit(context.Background(), formschema.FormValues{"email": formschema.TextValue("a@b.com")})
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if result.Accepted {
		t.Fatalf("failed handler must not accept")
	}
}

func TestSanitizeValues(t *testing.T) {
	got := submission.SanitizeValues(formschema.FormValues{
		"message": formschema.TextValue(`Hi <script>alert(1)</script><b>there</b> & bye`),
		"tags":    formschema.SetValue("<i>a</i>", "b"),
	})
	if text := got.Get("message").Text; text != "Hi there & bye" {
		t.Fatalf("message = %q", text)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got.Get("tags").Set); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}
