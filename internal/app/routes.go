package app

import (
	"github.com/gorilla/mux"

	"wiz-graphql-proxy/internal/handlers"
	"wiz-graphql-proxy/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the proxy
func SetupRoutes(router *mux.Router, h *handlers.Handlers) {
	// Add logging middleware to all routes
	router.Use(middleware.LoggingMiddleware)

	// GraphQL forwarding, with CORS preflight answered locally
	router.HandleFunc("/graphql", h.HandleGraphQL).Methods("POST")
	router.HandleFunc("/graphql", h.HandleGraphQLPreflight).Methods("OPTIONS")

	// Introspection alias for clients that keep schema discovery separate
	router.HandleFunc("/introspection", h.HandleGraphQL).Methods("POST")
	router.HandleFunc("/introspection", h.HandleGraphQLPreflight).Methods("OPTIONS")

	// Liveness check, never touches the upstream
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
