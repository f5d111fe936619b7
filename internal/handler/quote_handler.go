package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tradevault/internal/service"
)

type QuoteHandler struct {
	quoteService *service.QuoteService
}

func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

func (h *QuoteHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var input service.PublishQuoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	quote, err := h.quoteService.Publish(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, quote)
}

func (h *QuoteHandler) Revise(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "id")

	var input service.ReviseQuoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	surrogateID, err := h.quoteService.Revise(r.Context(), businessID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"business_id":  businessID,
		"surrogate_id": surrogateID,
	})
}

func (h *QuoteHandler) Current(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quoteService.Current(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

func (h *QuoteHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.quoteService.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *QuoteHandler) At(w http.ResponseWriter, r *http.Request) {
	t, err := parseAt(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quote, err := h.quoteService.At(r.Context(), chi.URLParam(r, "id"), t)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}
