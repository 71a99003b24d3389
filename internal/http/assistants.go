package httpapi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"viralhub-backend-go/internal/services"

	"go.uber.org/zap"
)

const (
	msgListAssistantsFailed  = "Error al obtener asistentes"
	msgCreateAssistantFailed = "Error creando asistente"
	msgRunAssistantFailed    = "Error ejecutando asistente"
	msgRunArgumentsRequired  = "assistantId e input son obligatorios"
)

func (s *Server) ListAssistants(w http.ResponseWriter, r *http.Request) {
	items, err := s.Store.GetUserAssistants(r.Context(), CurrentUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err, msgListAssistantsFailed)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateAssistant(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeObject(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	input, err := s.Validator.Assistant(CurrentUserID(r), payload)
	if err != nil {
		s.writeServiceError(w, r, err, msgCreateAssistantFailed)
		return
	}
	assistant, err := s.Store.CreateAssistant(r.Context(), input)
	if err != nil {
		s.writeServiceError(w, r, err, msgCreateAssistantFailed)
		return
	}
	WriteJSON(w, http.StatusOK, assistant)
}

func (s *Server) RunAssistant(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeObject(r)
	if err != nil {
		s.Metrics.ObserveRun(runOutcomeInvalid)
		s.writeRunError(w, r, services.ErrBadRequest(msgRunArgumentsRequired))
		return
	}
	assistantID, okID := parseAssistantID(payload["assistantId"])
	input, okInput := payload["input"].(string)
	if !okID || !okInput || input == "" {
		s.Metrics.ObserveRun(runOutcomeInvalid)
		s.writeRunError(w, r, services.ErrBadRequest(msgRunArgumentsRequired))
		return
	}

	result, err := s.Assistants.Run(r.Context(), assistantID, input)
	if err != nil {
		if services.IsNotFound(err) {
			s.Metrics.ObserveRun(runOutcomeNotFound)
		} else {
			s.Metrics.ObserveRun(runOutcomeError)
		}
		s.writeRunError(w, r, err)
		return
	}
	if result.Mock {
		s.Metrics.ObserveRun(runOutcomeMock)
	} else {
		s.Metrics.ObserveRun(runOutcomeOK)
	}
	s.requestLogger(r).Debug("assistant run", zap.Int64("assistant_id", result.AssistantID), zap.Bool("mock", result.Mock))
	WriteJSON(w, http.StatusOK, result)
}

// writeRunError answers a failed run. Failures other than bad arguments or an
// unknown assistant carry the underlying error text.
func (s *Server) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	if writeClientError(w, err) {
		return
	}
	s.requestLogger(r).Error(msgRunAssistantFailed, zap.Error(err))
	detail := err.Error()
	var gerr *services.GenerationError
	if errors.As(err, &gerr) {
		detail = gerr.Err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, GenerationErrorResponse{Message: msgRunAssistantFailed, Error: detail})
}

// parseAssistantID accepts a JSON integer or a decimal string. Zero counts as missing.
func parseAssistantID(raw any) (int64, bool) {
	var id int64
	switch value := raw.(type) {
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			f, ferr := value.Float64()
			if ferr != nil || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
				return 0, false
			}
			parsed = int64(f)
		}
		id = parsed
	case float64:
		if value != math.Trunc(value) || math.Abs(value) >= math.MaxInt64 {
			return 0, false
		}
		id = int64(value)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, false
		}
		id = parsed
	default:
		return 0, false
	}
	return id, id != 0
}
