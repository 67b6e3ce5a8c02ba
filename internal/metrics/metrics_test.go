package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-jsonform/pkg/rules"
)

func TestObserveSubmission(t *testing.T) {
	m := New()
	m.ObserveSubmission(ResultRejected, rules.FieldErrors{"email": "Invalid Email", "topic": "Topic is required"})
	m.ObserveSubmission(ResultAccepted, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues(ResultRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues(ResultAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationErrors.WithLabelValues("email")))
}

func TestLoadHook(t *testing.T) {
	m := New()
	m.LoadHook("form")(context.Background(), nil)
	m.LoadHook("dashboard")(context.Background(), errors.New("offline"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("form", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("dashboard", ResultFailure)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSubmission(ResultAccepted, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `jsonform_submissions_total{result="accepted"} 1`))
}
