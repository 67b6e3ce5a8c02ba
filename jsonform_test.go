package jsonform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla"
	"github.com/goliatone/go-jsonform/pkg/testsupport"
)

func TestGenerateHTML_FromFile(t *testing.T) {
	html, err := GenerateHTML(context.Background(), formschema.SourceFromFile(testsupport.Path("contact_form.json")))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	out := string(html)
	for _, fragment := range []string{"<form", `name="email"`, `name="interests"`} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, out)
		}
	}
}

func TestGenerateHTMLFromDocument_RenderOptions(t *testing.T) {
	doc := testsupport.LoadDocument(t, "contact_form.json")
	html, err := GenerateHTMLFromDocument(context.Background(), doc, WithRenderOptions(RenderOptions{
		Action:       "/contact",
		HiddenFields: map[string]string{render.CSRFFieldName: "token-1"},
	}))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	testsupport.AssertContainsInOrder(t, string(html), `action="/contact"`, `name="_csrf" value="token-1"`)
}

func TestGenerateHTML_MalformedDocument(t *testing.T) {
	_, err := GenerateHTML(context.Background(), formschema.SourceFromFile(testsupport.Path("malformed_form.json")))
	if err == nil {
		t.Fatal("expected malformed schema error")
	}
}

func TestGenerateHTML_MissingFile(t *testing.T) {
	_, err := GenerateHTML(context.Background(), formschema.SourceFromFile(testsupport.Path("missing.json")))
	if err == nil || !strings.HasPrefix(err.Error(), "jsonform: load schema") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	registry, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedFilesystems(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("form template: %v", err)
	}
	if _, err := fs.Stat(DashboardTemplates(), "templates/dashboard.tmpl"); err != nil {
		t.Fatalf("dashboard template: %v", err)
	}
	if _, err := fs.Stat(AssetsFS(), vanilla.StylesheetName); err != nil {
		t.Fatalf("stylesheet: %v", err)
	}
}
