package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Raymond9734/support-protocol-desk/internal/service"
)

// RouterConfig holds everything the HTTP routes depend on
type RouterConfig struct {
	Health         *HealthHandler
	Sessions       *SessionHandler
	Protocols      *ProtocolHandler
	QuickMessages  *QuickMessageHandler
	Settings       *SettingsHandler
	Notes          *NoteHandler
	Handoffs       *HandoffHandler
	SessionService service.SessionService
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter wires the API routes
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/health", cfg.Health.Health)
	r.Post("/sessions", cfg.Sessions.Login)
	r.Delete("/sessions", cfg.Sessions.Logout)
	r.Post("/users", cfg.Sessions.Register)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(cfg.SessionService, cfg.Logger))

		r.Route("/protocols", func(r chi.Router) {
			r.Post("/", cfg.Protocols.Submit)
			r.Post("/draft", cfg.Protocols.Draft)
			r.Post("/export", cfg.Protocols.Export)
		})

		r.Route("/quick-messages", func(r chi.Router) {
			r.Get("/templates", cfg.QuickMessages.Templates)
			r.Post("/", cfg.QuickMessages.Send)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/phone", cfg.Settings.GetPhone)
			r.Put("/phone", cfg.Settings.SetPhone)
			r.Get("/models", cfg.Settings.ListModels)
			r.Post("/models", cfg.Settings.AddModel)
			r.Put("/models/{index}", cfg.Settings.RenameModel)
			r.Delete("/models/{index}", cfg.Settings.DeleteModel)
			r.Get("/display-mode", cfg.Settings.GetDisplayMode)
			r.Put("/display-mode", cfg.Settings.SetDisplayMode)
			r.Get("/notice", cfg.Settings.GetNotice)
			r.Put("/notice", cfg.Settings.SetNotice)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", cfg.Notes.List)
			r.Post("/", cfg.Notes.Save)
			r.Put("/{id}", cfg.Notes.Update)
			r.Delete("/{id}", cfg.Notes.Delete)
		})

		r.Route("/handoffs", func(r chi.Router) {
			r.Get("/", cfg.Handoffs.List)
			r.Get("/{id}", cfg.Handoffs.Get)
		})
	})

	return r
}
