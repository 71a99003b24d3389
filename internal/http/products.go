package httpapi

import (
	"net/http"
	"strconv"

	"viralhub-backend-go/internal/storage"

	"github.com/go-chi/chi/v5"
)

const maxListLimit = 100

const (
	msgListProductsFailed  = "Error al obtener productos"
	msgGetProductFailed    = "Error al obtener producto"
	msgCreateProductFailed = "Error creando producto"
	msgProductNotFound     = "Producto no encontrado"
)

func (s *Server) RecentProducts(w http.ResponseWriter, r *http.Request) {
	items, err := s.Store.GetRecentProducts(r.Context(), listLimit(r))
	if err != nil {
		s.writeServiceError(w, r, err, msgListProductsFailed)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) MyProducts(w http.ResponseWriter, r *http.Request) {
	items, err := s.Store.GetUserProducts(r.Context(), CurrentUserID(r), listLimit(r))
	if err != nil {
		s.writeServiceError(w, r, err, msgListProductsFailed)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	product, ok, err := s.Store.GetProduct(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, msgGetProductFailed)
		return
	}
	if !ok {
		WriteError(w, http.StatusNotFound, msgProductNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, product)
}

func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeObject(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	input, err := s.Validator.Product(CurrentUserID(r), payload)
	if err != nil {
		s.writeServiceError(w, r, err, msgCreateProductFailed)
		return
	}
	product, err := s.Store.CreateProduct(r.Context(), input)
	if err != nil {
		s.writeServiceError(w, r, err, msgCreateProductFailed)
		return
	}
	WriteJSON(w, http.StatusOK, product)
}

// listLimit reads ?limit=, falling back to the store default on garbage.
func listLimit(r *http.Request) int {
	limit := parseInt(r.URL.Query().Get("limit"), storage.DefaultListLimit)
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value < 1 {
		return fallback
	}
	return value
}
