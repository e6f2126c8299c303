package server

import (
	"fmt"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"github.com/getprecis/precis/pkg/auth"
	"github.com/getprecis/precis/pkg/models"
)

const ReadHeaderTimeout = 5 * time.Second

// Create creates a new HTTP server with the given app state
func Create(appState *models.AppState) *http.Server {
	host := appState.Config.Server.Host
	port := appState.Config.Server.Port
	router := setupRouter(appState)
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

func setupRouter(appState *models.AppState) *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(SendVersion)
	router.Use(middleware.Heartbeat("/healthz"))

	if appState.Config.Auth.Required {
		log.Info("JWT authentication required")
		router.Use(auth.JWTVerifier(appState.Config))
		router.Use(jwtauth.Authenticator)
	}

	router.Get("/", IndexHandler(appState))

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/summarize", PostSummarizeHandler(appState))
		r.Post("/documents", PostDocumentHandler(appState))
		r.Route("/history", func(r chi.Router) {
			r.Get("/", GetHistoryHandler(appState))
			r.Delete("/", DeleteHistoryHandler(appState))
			r.Get("/{entryUUID}", GetHistoryEntryHandler(appState))
		})
		r.Post("/reports", PostReportHandler(appState))
	})

	return router
}
