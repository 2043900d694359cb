package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/service"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

const msgInternal = "Internal server error"

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// unmatchedJSON lets the mux answer requests no pattern matches (404, or 405
// with Allow) and rewrites its plain-text body into the JSON envelope.
func unmatchedJSON(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern == "" {
			w = &envelopeWriter{ResponseWriter: w}
		}
		mux.ServeHTTP(w, r)
	})
}

type envelopeWriter struct {
	http.ResponseWriter
	wrote bool
}

func (e *envelopeWriter) WriteHeader(code int) {
	if e.wrote {
		return
	}
	e.wrote = true
	e.Header().Del("Content-Length")
	msg := http.StatusText(code)
	switch code {
	case http.StatusNotFound:
		msg = "Not found"
	case http.StatusMethodNotAllowed:
		msg = "Method not allowed"
	}
	writeMessage(e.ResponseWriter, code, msg)
}

// Write drops the mux's plain-text body.
func (e *envelopeWriter) Write(b []byte) (int, error) {
	if !e.wrote {
		e.WriteHeader(http.StatusOK)
	}
	return len(b), nil
}

// statusOf maps a service error onto an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// writeError answers with the error's user-facing reason. Errors without one
// are logged and reported as a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)

	var ra *service.RetryAfterError
	if errors.As(err, &ra) {
		w.Header().Set("Retry-After", strconv.Itoa(int(ra.After.Seconds())+1))
		writeMessage(w, code, ra.Error())
		return
	}
	if reason, ok := errs.Reason(err); ok && code != http.StatusInternalServerError {
		writeMessage(w, code, reason)
		return
	}
	if code == http.StatusInternalServerError {
		s.logFor(r).Error("request failed", zap.Error(err))
		writeMessage(w, code, msgInternal)
		return
	}
	writeMessage(w, code, http.StatusText(code))
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Invalid("Malformed JSON request.")
	}
	return nil
}

// pathID parses a positive int64 path value.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Invalid(fmt.Sprintf("Invalid %s.", name))
	}
	return id, nil
}
