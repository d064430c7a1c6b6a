package handler

import (
	"log/slog"
	"net/http"

	"github.com/Raymond9734/support-protocol-desk/internal/service"
)

// QuickMessageHandler handles canned and free-text quick messages
type QuickMessageHandler struct {
	quickService service.QuickMessageService
	logger       *slog.Logger
}

// NewQuickMessageHandler creates a new quick message handler
func NewQuickMessageHandler(quickService service.QuickMessageService, logger *slog.Logger) *QuickMessageHandler {
	return &QuickMessageHandler{
		quickService: quickService,
		logger:       logger,
	}
}

// Templates handles GET /quick-messages/templates
func (h *QuickMessageHandler) Templates(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]interface{}{
		"templates": h.quickService.Templates(),
	})
}

// Send handles POST /quick-messages
func (h *QuickMessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req service.QuickMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.SubmittedBy = usernameFromContext(r.Context())

	result, err := h.quickService.Send(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, result)
}
