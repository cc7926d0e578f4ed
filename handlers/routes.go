package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"sameshi/catalog"
	"sameshi/places"
	"sameshi/selection"
	"sameshi/session"
)

// NewMux registers every API route. finder and redis may be nil.
func NewMux(store *catalog.Store, sessions *session.Store, finder *places.Finder, policy selection.Policy, redis Pinger, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", HealthHandler(store, redis))

	mux.HandleFunc("GET /api/facilities", FacilitiesHandler(store))
	mux.HandleFunc("GET /api/facilities/{id}/menu", MenuHandler(store))
	mux.HandleFunc("POST /api/facilities/{id}/draw", DrawHandler(store, sessions, policy, logger))
	mux.HandleFunc("GET /api/facilities/{id}/nearby", NearbyHandler(store, finder))
	mux.HandleFunc("GET /api/facilities/{id}/map", MapHandler(store, finder))
	mux.HandleFunc("GET /api/menu-items/{id}/tags", MenuItemTagsHandler(store))

	mux.HandleFunc("GET /api/sessions/{id}", SessionHandler(store, sessions, logger))
	mux.HandleFunc("DELETE /api/sessions/{id}", ResetHandler(sessions, logger))

	return mux
}
