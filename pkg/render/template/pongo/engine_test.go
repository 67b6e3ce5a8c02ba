package pongo

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"
)

func TestEngine_RenderNamedTemplate(t *testing.T) {
	files := fstest.MapFS{
		"greeting.tmpl": &fstest.MapFile{Data: []byte(`Hello {{ name|trim }} from {{ site }}`)},
	}
	engine, err := New(WithFS(files), WithGlobalData(map[string]any{"site": "jsonform"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var buf bytes.Buffer
	got, err := engine.Render("greeting", map[string]any{"name": "  Ada "}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ada from jsonform" {
		t.Fatalf("unexpected output %q", got)
	}
	if buf.String() != got {
		t.Fatalf("writer output mismatch: %q", buf.String())
	}
}

func TestEngine_LayersPreferFirst(t *testing.T) {
	override := fstest.MapFS{"field.tmpl": &fstest.MapFile{Data: []byte("override")}}
	base := fstest.MapFS{
		"field.tmpl": &fstest.MapFile{Data: []byte("base")},
		"other.tmpl": &fstest.MapFile{Data: []byte("other")},
	}
	engine, err := New(WithFS(override), WithFS(base))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if got, _ := engine.Render("field.tmpl", nil); got != "override" {
		t.Fatalf("expected override layer, got %q", got)
	}
	if got, _ := engine.Render("other", nil); got != "other" {
		t.Fatalf("expected fallback layer, got %q", got)
	}
}

func TestEngine_Autoescapes(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderString(`<p>{{ value }}</p>`, map[string]any{"value": "<script>x</script>"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("value was not escaped: %q", got)
	}
}

func TestEngine_StructDataUsesJSONNames(t *testing.T) {
	type row struct {
		Label string `json:"label"`
	}
	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderString(`{% for r in rows %}[{{ r.label }}]{% endfor %}`, struct {
		Rows []row `json:"rows"`
	}{Rows: []row{{Label: "a"}, {Label: "b"}}})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "[a][b]" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_ContainsFilter(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderString(`{% if picked|contains:"b" %}yes{% else %}no{% endif %}`, map[string]any{"picked": []any{"a", "b"}})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "yes" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without template sources")
	}
}
