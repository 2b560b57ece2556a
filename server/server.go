package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/comandas/handlers"
	"github.com/ray-remotestate/comandas/metrics"
	"github.com/ray-remotestate/comandas/middlewares"
	"github.com/ray-remotestate/comandas/views"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes(h *handlers.Handler) *Server {
	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	router.HandleFunc("/static/offline.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		http.ServeFileFS(w, r, views.Static(), "offline.js")
	}).Methods("GET")
	router.HandleFunc("/sw.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		http.ServeFileFS(w, r, views.Static(), "sw.js")
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/menu", h.MenuJSON).Methods("GET")
	api.HandleFunc("/orders/history", h.HistoryJSON).Methods("GET")
	api.HandleFunc("/orders/sync-offline", h.SyncOffline).Methods("POST")

	// pages that read or write the session cart
	pages := router.NewRoute().Subrouter()
	pages.Use(middlewares.SessionMiddleware)

	pages.HandleFunc("/", h.Index).Methods("GET")
	pages.HandleFunc("/", h.AddItem).Methods("POST")
	pages.HandleFunc("/cart/clear", h.ClearCart).Methods("GET")
	pages.HandleFunc("/cart/remove/{item_id:[0-9]+}", h.RemoveItem).Methods("GET")
	pages.HandleFunc("/orders/confirm", h.ConfirmOrder).Methods("POST")
	pages.HandleFunc("/orders/history", h.History).Methods("GET")
	pages.HandleFunc("/orders/history/clear", h.ClearHistory).Methods("GET")

	return &Server{
		Router: router,
	}
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	if svr.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
