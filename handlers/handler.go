package handlers

import (
	"net/http"
	"time"

	"github.com/ray-remotestate/comandas/ledger"
	"github.com/ray-remotestate/comandas/menu"
	"github.com/ray-remotestate/comandas/middlewares"
	"github.com/ray-remotestate/comandas/session"
	"github.com/ray-remotestate/comandas/views"
	"github.com/sirupsen/logrus"
)

// Handler serves the order-taking pages and the offline sync API.
type Handler struct {
	catalog  *menu.Catalog
	ledger   *ledger.Ledger
	sessions session.Store
	views    *views.Renderer
	now      func() time.Time
}

func New(catalog *menu.Catalog, l *ledger.Ledger, sessions session.Store, renderer *views.Renderer) *Handler {
	return &Handler{
		catalog:  catalog,
		ledger:   l,
		sessions: sessions,
		views:    renderer,
		now:      time.Now,
	}
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (string, session.Data, bool) {
	id := middlewares.GetSessionID(r)
	data, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("failed to load session")
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return "", session.Data{}, false
	}
	return id, data, true
}

func (h *Handler) saveSession(w http.ResponseWriter, r *http.Request, id string, data session.Data) bool {
	if err := h.sessions.Save(r.Context(), id, data); err != nil {
		logrus.WithError(err).Error("failed to save session")
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return false
	}
	return true
}

// redirectWithFlash stores msg for the next page and redirects there.
func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, id string, data session.Data, msg, target string) {
	data.AddFlash(msg)
	if !h.saveSession(w, r, id, data) {
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, err error) {
	logrus.WithError(err).Error("failed to render page")
	http.Error(w, "failed to render page", http.StatusInternalServerError)
}
