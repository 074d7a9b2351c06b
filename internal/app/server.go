package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"wiz-graphql-proxy/internal/handlers"
	"wiz-graphql-proxy/internal/server"
)

// RunServer builds the router and wraps it in an HTTP server
func (app *App) RunServer() (*server.Server, http.Handler) {
	h := handlers.New(app.Config, app.Tokens, app.Upstream)

	router := mux.NewRouter()
	SetupRoutes(router, h)

	srv := server.New(router, app.Config.Port)

	return srv, router
}
