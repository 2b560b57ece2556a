package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ray-remotestate/comandas/cart"
	"github.com/ray-remotestate/comandas/ledger"
	"github.com/ray-remotestate/comandas/metrics"
	"github.com/ray-remotestate/comandas/utils"
	"github.com/ray-remotestate/comandas/views"
	"github.com/sirupsen/logrus"
)

const maxSyncBody = 1 << 20

// ConfirmOrder writes the session cart to the ledger and shows the receipt.
// A cart with nothing that prices (empty, or only unknown items) is not written.
func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	table := strings.TrimSpace(r.PostForm.Get("table_label"))

	id, data, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if data.Cart.IsEmpty() {
		h.redirectWithFlash(w, r, id, data, "No hay productos en el pedido.", "/")
		return
	}
	lines, total := cart.Price(h.catalog, data.Cart)
	if len(lines) == 0 {
		h.redirectWithFlash(w, r, id, data, "No hay productos en el pedido.", "/")
		return
	}

	timestamp := h.ledger.Timestamp(h.now())
	if err := h.ledger.Append(r.Context(), timestamp, table, cart.OrderItems(lines), total); err != nil {
		logrus.WithError(err).WithField("table", table).Error("failed to save order")
		http.Error(w, "failed to save order", http.StatusInternalServerError)
		return
	}
	metrics.OrdersConfirmed.Inc()
	logrus.WithFields(logrus.Fields{
		"table": table,
		"total": total.StringFixed(2),
		"lines": len(lines),
	}).Info("order confirmed")

	// the order is stored; a failed save only leaves a stale cart behind
	data.Cart.Clear()
	if err := h.sessions.Save(r.Context(), id, data); err != nil {
		logrus.WithError(err).Error("failed to clear cart after confirming order")
	}

	page := views.ReceiptPage{
		Timestamp: timestamp,
		Table:     table,
		Lines:     lines,
		Total:     total,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Receipt(w, page); err != nil {
		h.renderError(w, err)
	}
}

type syncRequest struct {
	Orders json.RawMessage `json:"orders"`
}

type syncResponse struct {
	Status string `json:"status"`
	ledger.SyncResult
}

// SyncOffline appends orders a client buffered while disconnected. An absent
// orders field is an empty batch; anything other than a list is rejected.
func (h *Handler) SyncOffline(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSyncBody)).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var orders []json.RawMessage
	if len(req.Orders) > 0 {
		if err := json.Unmarshal(req.Orders, &orders); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "orders must be a list")
			return
		}
	}

	res, err := h.ledger.SyncOffline(r.Context(), orders, h.now())
	metrics.OfflineOrders.WithLabelValues("appended").Add(float64(res.Appended))
	metrics.OfflineOrders.WithLabelValues("skipped").Add(float64(res.Skipped))
	if err != nil {
		logrus.WithError(err).WithField("appended", res.Appended).Error("offline sync failed")
		utils.JSONError(w, http.StatusInternalServerError, "failed to save orders")
		return
	}

	logrus.WithFields(logrus.Fields{
		"synced":   res.Synced,
		"appended": res.Appended,
		"skipped":  res.Skipped,
	}).Info("offline orders synced")
	utils.EncodeJSON(w, http.StatusOK, syncResponse{Status: "ok", SyncResult: res})
}
