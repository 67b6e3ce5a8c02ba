package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-jsonform/internal/config"
	"github.com/goliatone/go-jsonform/internal/server"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/renderers/tui"
	"github.com/goliatone/go-jsonform/pkg/submission"
	"github.com/goliatone/go-jsonform/pkg/testsupport"
)

func run(t *testing.T, options []Option, args ...string) (string, string, error) {
	t.Helper()
	root := NewRoot(append(options, WithLogger(zap.NewNop()))...)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeSchema(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return path
}

func TestRenderCmd(t *testing.T) {
	out, _, err := run(t, nil, "render", testsupport.Path("contact_form.json"), "--action", "/contact")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `action="/contact"`) || !strings.Contains(out, `name="fullName"`) {
		t.Fatalf("unexpected render output:\n%s", out)
	}
}

func TestRenderCmd_OutputFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "form.html")
	_, stderr, err := run(t, nil, "render", testsupport.Path("contact_form.json"), "-o", target)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<form") {
		t.Fatalf("expected form markup in %s", target)
	}
	if !strings.Contains(stderr, "written to") {
		t.Fatalf("expected confirmation on stderr, got %q", stderr)
	}
}

func TestCheckCmd(t *testing.T) {
	noOptions := writeSchema(t, "advisory.json", `{"title":"T","fields":[{"name":"topic","label":"Topic","type":"select"}]}`)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{name: "valid", args: []string{testsupport.Path("contact_form.json")}, want: "contact_form.json: ok"},
		{name: "yaml", args: []string{testsupport.Path("contact_form.yaml")}, want: "contact_form.yaml: ok"},
		{name: "malformed", args: []string{testsupport.Path("malformed_form.json")}, wantErr: true, want: ": error: "},
		{name: "advisory", args: []string{noOptions}, want: ": warning: fields.0.options"},
		{name: "strict", args: []string{"--strict", noOptions}, wantErr: true, want: ": error: fields.0.options"},
		{name: "missing", args: []string{filepath.Join(t.TempDir(), "missing.json")}, wantErr: true, want: "missing.json: "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := run(t, nil, append([]string{"check"}, tc.args...)...)
			if tc.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr && !errors.Is(err, errCheckFailed) {
				t.Fatalf("expected errCheckFailed, got %v", err)
			}
			if !strings.Contains(out, tc.want) {
				t.Fatalf("expected %q in output:\n%s", tc.want, out)
			}
		})
	}
}

type scriptedDriver struct {
	inputs []string
	infos  []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", tui.ErrAborted
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return 1, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return []int{0}, nil
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

const signupSchema = `{"title":"Signup","fields":[
  {"name":"name","label":"Name","type":"text","validation":{"required":true}},
  {"name":"plan","label":"Plan","type":"radio","options":["Free","Pro"],"validation":{"required":true}},
  {"name":"extras","label":"Extras","type":"checkbox","options":["Newsletter","Events"]}
]}`

func TestFillCmd(t *testing.T) {
	path := writeSchema(t, "signup.json", signupSchema)
	driver := &scriptedDriver{inputs: []string{"", "Jo"}}

	out, stderr, err := run(t, []Option{WithPromptDriver(driver)}, "fill", path)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if got["name"] != "Jo" || got["plan"] != "Pro" {
		t.Fatalf("unexpected values: %v", got)
	}
	if extras, ok := got["extras"].([]any); !ok || len(extras) != 1 || extras[0] != "Newsletter" {
		t.Fatalf("unexpected extras: %v", got["extras"])
	}
	if len(driver.infos) != 1 || driver.infos[0] != "error: Name is required" {
		t.Fatalf("unexpected info messages: %v", driver.infos)
	}
	if !strings.Contains(stderr, submission.DefaultMessage) {
		t.Fatalf("expected acknowledgment on stderr, got %q", stderr)
	}
}

func TestFillCmd_Pretty(t *testing.T) {
	path := writeSchema(t, "signup.json", signupSchema)
	driver := &scriptedDriver{inputs: []string{"Jo"}}

	out, _, err := run(t, []Option{WithPromptDriver(driver)}, "fill", path, "--format", "pretty")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	testsupport.AssertContainsInOrder(t, out, "Name: Jo", "Plan: Pro", "Extras: Newsletter")
}

func TestFillCmd_Errors(t *testing.T) {
	path := writeSchema(t, "signup.json", signupSchema)

	if _, _, err := run(t, nil, "fill", path, "--format", "xml"); err == nil {
		t.Fatal("expected unknown format error")
	}

	_, _, err := run(t, []Option{WithPromptDriver(&scriptedDriver{})}, "fill", path)
	if !errors.Is(err, tui.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestDashboardCmd(t *testing.T) {
	out, _, err := run(t, nil, "dashboard", testsupport.Path("dashboard.json"), "--fragment")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !strings.Contains(out, "$12,345.00") {
		t.Fatalf("expected formatted card value:\n%s", out)
	}
	if strings.Contains(out, "<html") {
		t.Fatalf("fragment should not include the page shell")
	}

	page, _, err := run(t, nil, "dashboard", testsupport.Path("dashboard.json"))
	if err != nil {
		t.Fatalf("dashboard page: %v", err)
	}
	if !strings.Contains(page, "<title>Dashboard</title>") {
		t.Fatalf("expected page shell:\n%s", page)
	}
}

func TestOpenAPICmd(t *testing.T) {
	doc := testsupport.Path("contact_openapi.yaml")

	out, _, err := run(t, nil, "openapi", doc, "--list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out) != "submitContact" {
		t.Fatalf("unexpected operation list %q", out)
	}

	out, _, err = run(t, nil, "openapi", doc, "--operation", "submitContact")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	var form struct {
		Title  string `json:"title"`
		Fields []struct {
			Name string `json:"name"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(out), &form); err != nil {
		t.Fatalf("decode form: %v", err)
	}
	if form.Title != "Contact Us" || len(form.Fields) == 0 || form.Fields[0].Name != "full_name" {
		t.Fatalf("unexpected form: %+v", form)
	}

	out, _, err = run(t, nil, "openapi", doc, "--operation", "submitContact", "--html")
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(out, `name="full_name"`) {
		t.Fatalf("expected rendered field:\n%s", out)
	}

	if _, _, err := run(t, nil, "openapi", doc); err == nil {
		t.Fatal("expected missing operation error")
	}
}

func TestServeCmd_RequiresSchema(t *testing.T) {
	t.Setenv("JSONFORM_SCHEMA", "")
	_, _, err := run(t, nil, "serve")
	if err == nil || !strings.Contains(err.Error(), "schema source is required") {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestBuildServer_ServesFullPages(t *testing.T) {
	srv, err := buildServer(config.Config{
		Schema:    testsupport.Path("contact_form.json"),
		Dashboard: testsupport.Path("dashboard.json"),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.Start(ctx)
	handler := srv.Handler()

	get := func(path string) string {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Body.String()
	}

	deadline := time.Now().Add(2 * time.Second)
	body := get("/form")
	for strings.Contains(body, render.LoadingPlaceholder) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
		body = get("/form")
	}
	if strings.Contains(body, render.LoadingPlaceholder) {
		t.Fatalf("form did not load in time")
	}

	link := `<link rel="stylesheet" href="` + server.StylesheetPath + `">`
	for path, page := range map[string]string{"/form": body, "/dashboard": get("/dashboard")} {
		if !strings.Contains(page, "<html") {
			t.Fatalf("%s: expected a full page, got:\n%s", path, page)
		}
		if !strings.Contains(page, link) {
			t.Fatalf("%s: expected stylesheet link %s", path, link)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, server.StylesheetPath, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stylesheet status = %d", rec.Code)
	}
}
