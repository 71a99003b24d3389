package httpapi

import (
	"net/http"

	"viralhub-backend-go/internal/services"

	"go.uber.org/zap"
)

const msgSeedFailed = "Error en seed"

func (s *Server) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := services.SeedDemoAssistants(r.Context(), s.Store)
	if err != nil {
		s.writeServiceError(w, r, err, msgSeedFailed)
		return
	}
	s.requestLogger(r).Info("seed", zap.Bool("created", result.Created), zap.Int("count", result.Count))
	WriteJSON(w, http.StatusOK, result)
}
