package httpapi

import "net/http"

const msgCreateContentFailed = "Error creando contenido"

func (s *Server) CreateContent(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeObject(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	input, err := s.Validator.Content(CurrentUserID(r), payload)
	if err != nil {
		s.writeServiceError(w, r, err, msgCreateContentFailed)
		return
	}
	content, err := s.Store.CreateContent(r.Context(), input)
	if err != nil {
		s.writeServiceError(w, r, err, msgCreateContentFailed)
		return
	}
	WriteJSON(w, http.StatusOK, content)
}
