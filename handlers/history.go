package handlers

import (
	"net/http"

	"github.com/ray-remotestate/comandas/metrics"
	"github.com/ray-remotestate/comandas/utils"
	"github.com/ray-remotestate/comandas/views"
	"github.com/sirupsen/logrus"
)

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, data, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	orders, err := h.ledger.ReadVisible(r.Context())
	if err != nil {
		logrus.WithError(err).Error("failed to read order history")
		http.Error(w, "failed to read order history", http.StatusInternalServerError)
		return
	}

	flashes := data.PopFlashes()
	if len(flashes) > 0 && !h.saveSession(w, r, id, data) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.History(w, views.HistoryPage{Flashes: flashes, Orders: orders}); err != nil {
		h.renderError(w, err)
	}
}

// ClearHistory hides every order recorded so far from the history view. The
// ledger itself is left untouched.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	id, data, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if err := h.ledger.SetCutoff(r.Context(), h.now()); err != nil {
		logrus.WithError(err).Error("failed to clear order history")
		http.Error(w, "failed to clear order history", http.StatusInternalServerError)
		return
	}
	metrics.HistoryClears.Inc()

	h.redirectWithFlash(w, r, id, data, "Historial de pedidos vaciado en la aplicación (el registro completo se conserva).", "/orders/history")
}

func (h *Handler) HistoryJSON(w http.ResponseWriter, r *http.Request) {
	orders, err := h.ledger.ReadVisible(r.Context())
	if err != nil {
		logrus.WithError(err).Error("failed to read order history")
		utils.JSONError(w, http.StatusInternalServerError, "failed to read order history")
		return
	}
	utils.EncodeJSON(w, http.StatusOK, orders)
}

func (h *Handler) MenuJSON(w http.ResponseWriter, r *http.Request) {
	utils.EncodeJSON(w, http.StatusOK, h.catalog.Categories())
}
