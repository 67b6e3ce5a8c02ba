package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/goliatone/go-jsonform/internal/formschema/loader"
	"github.com/goliatone/go-jsonform/internal/metrics"
	"github.com/goliatone/go-jsonform/pkg/dashboard"
	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/formview"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla"
	"github.com/goliatone/go-jsonform/pkg/submission"
	"github.com/goliatone/go-jsonform/pkg/testsupport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const contactJSON = `{"title":"Contact","fields":[
  {"name":"email","label":"Email","type":"email","validation":{"required":true,"pattern":"^.+@.+\\..+$"}},
  {"name":"country","label":"Country","type":"autocomplete","options":["Canada","Germany","Japan"]}
]}`

func testLoader(t *testing.T) formschema.Loader {
	t.Helper()
	files := fstest.MapFS{
		"contact.json":   {Data: []byte(contactJSON)},
		"dashboard.json": {Data: testsupport.MustReadFixture(t, "dashboard.json")},
	}
	return loader.New(formschema.LoaderOptions{FileSystem: files})
}

type fixture struct {
	server  *Server
	handler http.Handler
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, load bool) fixture {
	t.Helper()
	l := testLoader(t)
	ack := submission.NewAcknowledger(submission.WithIDGenerator(func() string { return "ack-1" }))
	form := formview.New(l, formschema.SourceFromFS("contact.json"), formview.WithHandler(ack))
	dash := dashboard.NewView(l, formschema.SourceFromFS("dashboard.json"))
	if load {
		require.NoError(t, form.Load(context.Background()))
		require.NoError(t, dash.Load(context.Background()))
	}

	renderer, err := vanilla.New()
	require.NoError(t, err)
	m := metrics.New()
	srv, err := New(form, renderer, WithDashboard(dash, nil), WithMetrics(m))
	require.NoError(t, err)
	return fixture{server: srv, handler: srv.Handler(), metrics: m}
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// csrfCookie fetches the form once and returns the issued cookie.
func (f fixture) csrfCookie(t *testing.T) *http.Cookie {
	t.Helper()
	rec := f.do(httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == csrfCookieName {
			return cookie
		}
	}
	t.Fatalf("no csrf cookie issued")
	return nil
}

func (f fixture) post(t *testing.T, cookie *http.Cookie, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return f.do(req)
}

func TestGetForm_RendersFieldsAndCSRFToken(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/form", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `type="email"`)
	assert.Contains(t, body, `name="_csrf"`)
	assert.Contains(t, body, `action="/form"`)
	assert.NotContains(t, body, render.LoadingPlaceholder)
}

func TestGetForm_PlaceholderBeforeLoad(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), render.LoadingPlaceholder)
	assert.NotContains(t, rec.Body.String(), "<input")

	rec = f.post(t, nil, url.Values{"email": {"a@b.com"}})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/form.json", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPostForm_RejectsMissingCSRF(t *testing.T) {
	f := newFixture(t, true)
	rec := f.post(t, nil, url.Values{"email": {"a@b.com"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPostForm_ContactScenario(t *testing.T) {
	f := newFixture(t, true)
	cookie := f.csrfCookie(t)

	rec := f.post(t, cookie, url.Values{"email": {""}, render.CSRFFieldName: {cookie.Value}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email is required")

	rec = f.post(t, cookie, url.Values{"email": {"bad"}, render.CSRFFieldName: {cookie.Value}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Email")
	assert.Contains(t, rec.Body.String(), `value="bad"`)

	rec = f.post(t, cookie, url.Values{"email": {"a@b.com"}, render.CSRFFieldName: {cookie.Value}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), submission.DefaultMessage)
	assert.Contains(t, rec.Body.String(), "a@b.com")

	metricsRec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), `jsonform_submissions_total{result="rejected"} 2`)
	assert.Contains(t, metricsRec.Body.String(), `jsonform_submissions_total{result="accepted"} 1`)
	assert.Contains(t, metricsRec.Body.String(), `jsonform_validation_errors_total{field="email"} 2`)
}

func TestPostForm_JSON(t *testing.T) {
	f := newFixture(t, true)

	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(`{"email":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var rejected submitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rejected))
	assert.False(t, rejected.Accepted)
	assert.Equal(t, "Invalid Email", rejected.Errors["email"])

	req = httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(`{"email":"a@b.com"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var accepted struct {
		Accepted       bool `json:"accepted"`
		Acknowledgment struct {
			ID     string         `json:"id"`
			Values map[string]any `json:"values"`
		} `json:"acknowledgment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.True(t, accepted.Accepted)
	assert.Equal(t, "ack-1", accepted.Acknowledgment.ID)
	assert.Equal(t, "a@b.com", accepted.Acknowledgment.Values["email"])
}

func TestGetSchemaJSON(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/form.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var schema formschema.FormSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.Equal(t, "Contact", schema.Title)
	assert.Equal(t, []string{"email", "country"}, schema.Names())
}

func TestFieldOptions(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/form/options/country?q=an", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[{"value":"Canada","label":"Canada"},{"value":"Germany","label":"Germany"},{"value":"Japan","label":"Japan"}]}`, rec.Body.String())

	rec = f.do(httptest.NewRequest(http.MethodGet, "/form/options/email", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	unloaded := newFixture(t, false)
	rec = unloaded.do(httptest.NewRequest(http.MethodGet, "/form/options/country", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetDashboard(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "$12,345.00")
	assert.Contains(t, rec.Body.String(), "INV-002")

	unloaded := newFixture(t, false)
	rec = unloaded.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), dashboard.LoadingPlaceholder)
}

func TestHealthAndAssets(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"form":true,"dashboard":true}`, rec.Body.String())

	rec = f.do(httptest.NewRequest(http.MethodGet, "/assets/"+vanilla.StylesheetName, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/form", rec.Header().Get("Location"))
}

func TestServe_LoadsAndShutsDown(t *testing.T) {
	f := newFixture(t, false)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- f.server.Serve(ctx, ln)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var status map[string]bool
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return false
		}
		return status["form"] && status["dashboard"]
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	http.DefaultClient.CloseIdleConnections()
}

func TestNew_Validation(t *testing.T) {
	renderer, err := vanilla.New()
	require.NoError(t, err)
	_, err = New(nil, renderer)
	assert.Error(t, err)

	form := formview.New(testLoader(t), formschema.SourceFromFS("contact.json"))
	_, err = New(form, nil)
	assert.Error(t, err)
}
