package handler

import (
	"log/slog"
	"net/http"

	"github.com/Raymond9734/support-protocol-desk/internal/service"
)

// SessionHandler handles login, logout and account registration
type SessionHandler struct {
	sessionService service.SessionService
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// Login handles POST /sessions
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.sessionService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, result)
}

// Logout handles DELETE /sessions
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.Logout(r.Context(), r.Header.Get(SessionHeader)); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondNoContent(w)
}

// Register handles POST /users. Registration is open until the first account
// exists; after that the caller needs an active session.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.sessionService.HasUsers(r.Context()) {
		if _, err := h.sessionService.Authenticate(r.Context(), r.Header.Get(SessionHeader)); err != nil {
			handleError(w, err, h.logger)
			return
		}
	}

	var req service.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.sessionService.Register(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, user)
}
