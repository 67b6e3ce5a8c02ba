package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonform/pkg/formschema"
)

// DataDir returns the absolute path of the shared testdata directory so
// fixtures resolve no matter which package the test runs from.
func DataDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "testdata"
	}
	return filepath.Join(filepath.Dir(file), "testdata")
}

// Path joins name onto DataDir.
func Path(name string) string {
	return filepath.Join(DataDir(), name)
}

// LoadDocument reads a fixture into a formschema.Document using a file
// source. Testing helpers fail the test on error to keep callers concise.
func LoadDocument(t *testing.T, name string) formschema.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(Path(name))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (formschema.Document, error) {
	if path == "" {
		return formschema.Document{}, errors.New("testsupport: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return formschema.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := formschema.NewDocument(formschema.SourceFromFile(path), data)
	if err != nil {
		return formschema.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustLoadSchema decodes a fixture into a FormSchema.
func MustLoadSchema(t *testing.T, name string) formschema.FormSchema {
	t.Helper()

	schema, err := formschema.Decode(LoadDocument(t, name))
	if err != nil {
		t.Fatalf("decode schema %s: %v", name, err)
	}
	return schema
}

// MustReadFixture returns the raw bytes of a fixture.
func MustReadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(Path(name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

// AssertContainsInOrder fails unless every fragment appears in output, each
// after the previous one.
func AssertContainsInOrder(t *testing.T, output string, fragments ...string) {
	t.Helper()
	offset := 0
	for _, fragment := range fragments {
		idx := strings.Index(output[offset:], fragment)
		if idx < 0 {
			t.Fatalf("fragment %q not found after offset %d in:\n%s", fragment, offset, output)
		}
		offset += idx + len(fragment)
	}
}
