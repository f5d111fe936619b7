package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tradevault/internal/service"
)

type TradeHandler struct {
	tradeService *service.TradeService
}

func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

func (h *TradeHandler) Record(w http.ResponseWriter, r *http.Request) {
	var input service.RecordTradeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.tradeService.Record(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, trade)
}

func (h *TradeHandler) Fill(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "id")

	surrogateID, err := h.tradeService.Fill(r.Context(), businessID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"business_id":  businessID,
		"surrogate_id": surrogateID,
	})
}

func (h *TradeHandler) Settle(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "id")

	var input service.SettleTradeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	surrogateID, err := h.tradeService.Settle(r.Context(), businessID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"business_id":  businessID,
		"surrogate_id": surrogateID,
	})
}

func (h *TradeHandler) Current(w http.ResponseWriter, r *http.Request) {
	trade, err := h.tradeService.Current(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trade)
}

func (h *TradeHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.tradeService.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *TradeHandler) At(w http.ResponseWriter, r *http.Request) {
	t, err := parseAt(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	trade, err := h.tradeService.At(r.Context(), chi.URLParam(r, "id"), t)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trade)
}
