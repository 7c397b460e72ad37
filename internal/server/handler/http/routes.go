package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sessionworks/authgate/internal/middleware"
)

// NewRouter constructs and returns the HTTP handler serving the
// authentication API.
//
// Routes:
//
//	POST /register         → authHandler.Register
//	POST /login            → authHandler.Login
//	any  /logout           → authHandler.Logout
//	any  /load-user        → authHandler.LoadUser
//	POST /forgot-password  → authHandler.ForgotPassword
//	GET  /health           → liveness probe
//
// Unmatched paths return a JSON 404. The CORS middleware owns every
// OPTIONS request and stamps the cross-origin headers on every other
// response, 404s included; the logging middleware records each request
// under a generated id.
func NewRouter(authHandler *AuthHandler, logger *zap.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.CORS(allowedOrigins))

	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/forgot-password", authHandler.ForgotPassword)

	// Logout and load-user authenticate by cookie alone, so any verb works.
	r.HandleFunc("/logout", authHandler.Logout)
	r.HandleFunc("/load-user", authHandler.LoadUser)

	r.Get("/health", handleHealth)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
