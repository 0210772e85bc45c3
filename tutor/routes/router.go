package routes

import (
	"net/http"
	"time"

	"historytutor/tutor/controllers"
	"historytutor/tutor/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Controllers struct {
	Auth        *controllers.AuthController
	Chat        *controllers.ChatController
	Suggestions *controllers.SuggestionsController
	Preferences *controllers.PreferencesController
	Locales     *controllers.LocalesController
	Health      *controllers.HealthController
}

// NewRouter mounts every endpoint. Streaming routes sit outside the request
// timeout.
func NewRouter(c Controllers, secureCookies bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Mount("/api/chat", ChatRoutes(c.Chat))

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(60 * time.Second))
		gr.Mount("/api/suggestions", SuggestionRoutes(c.Suggestions))
		gr.Mount("/api/echo", EchoRoutes(c.Auth))
		gr.Mount("/api/preferences", PreferenceRoutes(c.Preferences, secureCookies))
		gr.Mount("/api/locales", LocaleRoutes(c.Locales))
		gr.Mount("/health", HealthRoutes(c.Health))
		gr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte("History Tutor is running. You can return to your terminal.\n"))
		})
	})
	return r
}
