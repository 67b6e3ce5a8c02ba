package suggest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

// StatusError lets a Source pick the response status.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

// StatusCode defaults to 500.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Source resolves the options a request searches, e.g. the options of the
// field named in the path.
type Source func(r *http.Request) ([]string, error)

type response struct {
	Data []Suggestion `json:"data"`
}

// NewHandler serves GET and HEAD requests with {"data":[...]}.
func NewHandler(source Source, fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		options, err := source(r)
		if err != nil {
			writeError(w, err)
			return
		}

		query := r.URL.Query().Get(opts.QueryParam)
		limit := parseInt(r.URL.Query().Get(opts.LimitParam))
		results := Suggestions(options, query, limit, opts)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(response{Data: results})
	})
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var status StatusError
	if errors.As(err, &status) {
		code = status.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
