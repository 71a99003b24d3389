package httpapi

import "net/http"

const (
	msgGetUserFailed    = "Error al obtener usuario"
	msgUpdateUserFailed = "Error actualizando usuario"
	msgUserNotFound     = "Usuario no encontrado"
)

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	user, ok, err := s.Store.GetUser(r.Context(), CurrentUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err, msgGetUserFailed)
		return
	}
	if !ok {
		WriteError(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// UpdateMe upserts the acting user's profile. The id always comes from the
// resolved identity, never from the body.
func (s *Server) UpdateMe(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeObject(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	profile, err := s.Validator.UserProfile(CurrentUserID(r), payload)
	if err != nil {
		s.writeServiceError(w, r, err, msgUpdateUserFailed)
		return
	}
	user, err := s.Store.UpsertUser(r.Context(), profile)
	if err != nil {
		s.writeServiceError(w, r, err, msgUpdateUserFailed)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}
