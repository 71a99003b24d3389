package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"viralhub-backend-go/internal/services"
	"viralhub-backend-go/internal/validation"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields"`
}

type GenerationErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Message: message})
}

// writeClientError answers validation and service errors and reports whether err
// was one of them.
func writeClientError(w http.ResponseWriter, err error) bool {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		WriteJSON(w, http.StatusBadRequest, ValidationErrorResponse{Message: verr.Error(), Fields: verr.Fields})
		return true
	}
	var serr services.ServiceError
	if errors.As(err, &serr) {
		WriteError(w, serr.Status, serr.Message)
		return true
	}
	return false
}

// writeServiceError maps a failure to its response. Anything that is not a
// client error is logged and answered with a 500 carrying fallback.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if writeClientError(w, err) {
		return
	}
	s.requestLogger(r).Error(fallback, zap.Error(err))
	WriteError(w, http.StatusInternalServerError, fallback)
}

// decodeObject reads a JSON object body. An empty body decodes to an empty object.
func decodeObject(r *http.Request) (map[string]any, error) {
	payload := map[string]any{}
	if r.Body == nil {
		return payload, nil
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}
