package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-jsonform/internal/metrics"
	"github.com/goliatone/go-jsonform/pkg/formschema"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/rules"
	"github.com/goliatone/go-jsonform/pkg/submission"
	"github.com/goliatone/go-jsonform/pkg/suggest"
)

// maxFormBytes caps posted bodies.
const maxFormBytes = 1 << 20

func (s *Server) formOptions(token string) render.RenderOptions {
	return render.RenderOptions{
		Action:       "/form",
		Method:       http.MethodPost,
		HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken(render.CSRFFieldName, token)),
	}
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	token := s.csrf.token(w, r)
	out, err := s.form.Render(r.Context(), s.renderer, s.formOptions(token))
	if err != nil {
		s.fail(w, "render form", err)
		return
	}
	s.writeHTML(w, http.StatusOK, out)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.form.Schema()
	if !ok {
		s.writePlaceholder(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if isJSON(r) {
		s.handleJSONSubmit(w, r, schema)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	if !s.csrf.verify(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	values := submission.Decode(schema, r.PostForm)
	result, err := s.form.Submit(r.Context(), values)
	if err != nil {
		s.observe(metrics.ResultError, nil)
		s.fail(w, "submit form", err)
		return
	}

	if !result.Accepted {
		s.observe(metrics.ResultRejected, result.Errors)
		options := s.formOptions(r.PostForm.Get(render.CSRFFieldName))
		options.Values = values
		options.Errors = result.Errors
		out, err := s.form.Render(r.Context(), s.renderer, options)
		if err != nil {
			s.fail(w, "render form", err)
			return
		}
		s.writeHTML(w, http.StatusUnprocessableEntity, out)
		return
	}

	s.observe(metrics.ResultAccepted, nil)
	out, err := s.renderer.RenderAcknowledgment(r.Context(), schema, result.Acknowledgment)
	if err != nil {
		s.fail(w, "render acknowledgment", err)
		return
	}
	s.writeHTML(w, http.StatusOK, out)
}

type submitResponse struct {
	Accepted       bool                       `json:"accepted"`
	Errors         rules.FieldErrors          `json:"errors,omitempty"`
	Acknowledgment *submission.Acknowledgment `json:"acknowledgment,omitempty"`
}

// handleJSONSubmit serves API clients. Cross-site pages cannot send
// application/json without a preflight, so no CSRF token is required.
func (s *Server) handleJSONSubmit(w http.ResponseWriter, r *http.Request, schema formschema.FormSchema) {
	values, err := submission.DecodeJSON(schema, r.Body)
	if err != nil {
		http.Error(w, "invalid json payload", http.StatusBadRequest)
		return
	}
	result, err := s.form.Submit(r.Context(), values)
	if err != nil {
		s.observe(metrics.ResultError, nil)
		s.fail(w, "submit form", err)
		return
	}
	if !result.Accepted {
		s.observe(metrics.ResultRejected, result.Errors)
		s.writeJSON(w, http.StatusUnprocessableEntity, submitResponse{Errors: result.Errors})
		return
	}
	s.observe(metrics.ResultAccepted, nil)
	ack := result.Acknowledgment
	s.writeJSON(w, http.StatusOK, submitResponse{Accepted: true, Acknowledgment: &ack})
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	schema, ok := s.form.Schema()
	if !ok {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": render.LoadingPlaceholder})
		return
	}
	s.writeJSON(w, http.StatusOK, schema)
}

// fieldOptions feeds the suggestion endpoint with the options of the field
// named in the path.
func (s *Server) fieldOptions(r *http.Request) ([]string, error) {
	schema, ok := s.form.Schema()
	if !ok {
		return nil, suggest.StatusError{Code: http.StatusServiceUnavailable}
	}
	field, ok := schema.Field(r.PathValue("field"))
	if !ok || !field.HasOptions() {
		return nil, suggest.StatusError{Code: http.StatusNotFound}
	}
	return field.Options, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	content, err := s.dashboard.Render(s.dashRenderer)
	if err != nil {
		s.fail(w, "render dashboard", err)
		return
	}
	out, err := s.renderer.Page("Dashboard", string(content))
	if err != nil {
		s.fail(w, "render dashboard page", err)
		return
	}
	s.writeHTML(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]bool{"form": s.form.Ready()}
	if s.dashboard != nil {
		status["dashboard"] = s.dashboard.Ready()
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) writePlaceholder(w http.ResponseWriter, r *http.Request) {
	out, err := s.renderer.RenderPlaceholder(r.Context(), render.RenderOptions{})
	if err != nil {
		s.fail(w, "render placeholder", err)
		return
	}
	s.writeHTML(w, http.StatusServiceUnavailable, out)
}

func (s *Server) observe(result string, fieldErrors rules.FieldErrors) {
	if s.metrics != nil {
		s.metrics.ObserveSubmission(result, fieldErrors)
	}
}

func (s *Server) fail(w http.ResponseWriter, action string, err error) {
	s.logger.Error(action, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("write response", zap.Error(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Debug("write json response", zap.Error(err))
	}
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, "application/json")
}
