package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/comandas/cart"
	"github.com/ray-remotestate/comandas/views"
)

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	id, data, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	flashes := data.PopFlashes()
	if len(flashes) > 0 && !h.saveSession(w, r, id, data) {
		return
	}

	lines, total := cart.Price(h.catalog, data.Cart)
	page := views.IndexPage{
		Flashes:    flashes,
		Categories: h.catalog.Categories(),
		Lines:      lines,
		Total:      total,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Index(w, page); err != nil {
		h.renderError(w, err)
	}
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	itemID, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("item_id")))
	if err != nil {
		http.Error(w, "invalid item_id", http.StatusBadRequest)
		return
	}
	quantity := 1
	if raw := strings.TrimSpace(r.PostForm.Get("quantity")); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil || quantity > cart.MaxQuantity {
			http.Error(w, "invalid quantity", http.StatusBadRequest)
			return
		}
	}

	id, data, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	data.Cart.Add(itemID, quantity)
	h.redirectWithFlash(w, r, id, data, "Producto agregado al pedido.", "/")
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	id, data, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	data.Cart.Clear()
	h.redirectWithFlash(w, r, id, data, "Carrito vaciado.", "/")
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(mux.Vars(r)["item_id"])
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	id, data, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	data.Cart.Remove(itemID)
	h.redirectWithFlash(w, r, id, data, "Producto eliminado del pedido.", "/")
}
