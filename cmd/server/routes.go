package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/auth"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/diagram"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/export"
	mw "github.com/erdcanvas/erdcanvas/backend-go/internal/middleware"
)

type routerDeps struct {
	origins  []string
	webDir   string
	auth     *auth.Service
	diagrams *diagram.Service
	exporter *export.Handler
}

// newRouter wires every route. CORS wraps the router so preflight requests
// are answered before route matching.
func newRouter(d routerDeps) http.Handler {
	authHandler := auth.NewHandler(d.auth)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	// Export of an unsaved diagram (public, used by the playground)
	r.HandleFunc("/export/png", d.exporter.ExportPosted).Methods(http.MethodPost)

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(d.auth.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)
	diagram.NewHandler(d.diagrams).Routes(api)
	api.HandleFunc("/diagrams/{diagramId}/export.png", d.exporter.ExportStored).Methods(http.MethodGet)

	// The wasm bundle and its page
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(d.webDir))).Methods(http.MethodGet, http.MethodHead)

	return mw.CORS(d.origins)(r)
}
