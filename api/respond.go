package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "internal server error"

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes data with a 200 status
func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.writeJSON(w, http.StatusOK, data)
}

func (r Responder) writeJSON(w http.ResponseWriter, status int, data any) {
	// Marshal first so a failure can still produce a clean 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"` + internalErrorMessage + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteNoContent answers with 204 and an empty body
func (r Responder) WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteHTML writes an already sanitized HTML document
func (r Responder) WriteHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError maps err onto a status code and a {"message": ...} body.
// Server side failures are logged with their full cause and answered generically.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	status := errs.StatusCode(err)

	if !errs.IsInternal(err) {
		// driver detail stays out of the body
		if errs.IsUniqueConstraintViolationError(err) || errs.IsForeignKeyConstraintError(err) {
			r.logger.Debug().Int("status", status).Str("error", fullError(err)).Msg("constraint violation")
		}
		r.writeJSON(w, status, ErrorResponse{Message: err.Error()})
		return
	}

	r.logger.Error().
		Int("status", status).
		Str("error", fullError(err)).
		Msg("request failed")

	message := internalErrorMessage
	if status == http.StatusServiceUnavailable {
		message = err.Error()
	}
	r.writeJSON(w, status, ErrorResponse{Message: message})
}

func fullError(err error) string {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.GetFullError()
	}
	return err.Error()
}

// decodeJSON reads a single JSON document of at most maxBytes into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return errs.NewMalformedPayloadError("JSON", errors.New("content type must be application/json"))
	}

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return errs.NewMaxBodySizeExceededError(maxBytesErr.Limit)
		case errors.Is(err, io.EOF):
			return errs.NewBadRequestError("request body is empty")
		default:
			return errs.NewInvalidJSONError(err)
		}
	}

	// anything but whitespace after the first document is rejected
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.NewInvalidJSONError(errors.New("body must contain a single JSON object"))
	}
	return nil
}
