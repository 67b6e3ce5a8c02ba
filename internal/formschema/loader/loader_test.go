package loader

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-jsonform/pkg/formschema"
)

const contactJSON = `{"title":"Contact","fields":[{"name":"email","label":"Email","type":"email"}]}`

func TestLoader_File(t *testing.T) {
	l := New(formschema.NewLoaderOptions())
	path := filepath.Join("..", "..", "..", "pkg", "testsupport", "testdata", "contact_form.json")

	doc, err := l.Load(context.Background(), formschema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(string(doc.Raw()), `"Contact Us"`) {
		t.Fatalf("unexpected payload: %s", doc.Raw())
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{
		"data/contactForm.json": &fstest.MapFile{Data: []byte(contactJSON)},
	}
	l := New(formschema.NewLoaderOptions(formschema.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), formschema.SourceFromFS("/data/contactForm.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Format() != formschema.FormatJSON {
		t.Fatalf("expected json format, got %s", doc.Format())
	}
}

func TestLoader_FSRequiresFileSystem(t *testing.T) {
	l := New(formschema.NewLoaderOptions())
	if _, err := l.Load(context.Background(), formschema.SourceFromFS("contactForm.json")); err == nil {
		t.Fatalf("expected error without fs")
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	l := New(formschema.NewLoaderOptions())
	_, err := l.Load(context.Background(), formschema.SourceFromURL("https://example.com/data/contactForm.json"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected http disabled error, got %v", err)
	}
}

func TestLoader_HTTP(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(contactJSON))
	}))
	defer srv.Close()

	l := New(formschema.NewLoaderOptions(formschema.WithHTTPFallback(time.Second)))
	doc, err := l.Load(context.Background(), formschema.SourceFromURL(srv.URL+"/data/contactForm.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != contactJSON {
		t.Fatalf("unexpected payload %s", doc.Raw())
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected one request, got %d", got)
	}
}

func TestLoader_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	l := New(formschema.NewLoaderOptions(formschema.WithHTTPClient(srv.Client())))
	_, err := l.Load(context.Background(), formschema.SourceFromURL(srv.URL+"/nope.json"))
	if err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoader_HTTPRejectsOversizedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte(" "), maxDocumentBytes+1))
	}))
	defer srv.Close()

	l := New(formschema.NewLoaderOptions(formschema.WithHTTPClient(srv.Client())))
	_, err := l.Load(context.Background(), formschema.SourceFromURL(srv.URL+"/big.json"))
	if !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("expected ErrDocumentTooLarge, got %v", err)
	}
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(formschema.NewLoaderOptions())
	if _, err := l.Load(ctx, formschema.SourceFromFile("contact.json")); err == nil {
		t.Fatalf("expected context error")
	}
}
