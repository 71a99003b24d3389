package httpapi

import (
	"context"
	"net/http"
	"time"

	"viralhub-backend-go/internal/services"
)

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	report := services.CheckHealth(ctx, s.Store, s.Assistants.MockMode())
	status := http.StatusOK
	if report.Database != "up" {
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, report)
}
