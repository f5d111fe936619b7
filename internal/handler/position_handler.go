package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tradevault/internal/service"
)

type PositionHandler struct {
	positionService *service.PositionService
}

func NewPositionHandler(positionService *service.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

func (h *PositionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var input service.OpenPositionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pos, err := h.positionService.Open(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, pos)
}

func (h *PositionHandler) Amend(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "id")

	var input service.AmendPositionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	surrogateID, err := h.positionService.Amend(r.Context(), businessID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"business_id":  businessID,
		"surrogate_id": surrogateID,
	})
}

func (h *PositionHandler) Close(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "id")

	var input service.ClosePositionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	surrogateID, err := h.positionService.Close(r.Context(), businessID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"business_id":  businessID,
		"surrogate_id": surrogateID,
	})
}

func (h *PositionHandler) Current(w http.ResponseWriter, r *http.Request) {
	pos, err := h.positionService.Current(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pos)
}

func (h *PositionHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.positionService.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *PositionHandler) At(w http.ResponseWriter, r *http.Request) {
	t, err := parseAt(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pos, err := h.positionService.At(r.Context(), chi.URLParam(r, "id"), t)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pos)
}
