package handler

import (
	"log/slog"
	"net/http"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/service"
)

// ProtocolHandler handles protocol generation, drafts and intake exports
type ProtocolHandler struct {
	protocolService service.ProtocolService
	exportService   service.ExportService
	logger          *slog.Logger
}

// NewProtocolHandler creates a new protocol handler
func NewProtocolHandler(
	protocolService service.ProtocolService,
	exportService service.ExportService,
	logger *slog.Logger,
) *ProtocolHandler {
	return &ProtocolHandler{
		protocolService: protocolService,
		exportService:   exportService,
		logger:          logger,
	}
}

// Submit handles POST /protocols
func (h *ProtocolHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitProtocolRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.SubmittedBy = usernameFromContext(r.Context())

	result, err := h.protocolService.Submit(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, result)
}

// Draft handles POST /protocols/draft
func (h *ProtocolHandler) Draft(w http.ResponseWriter, r *http.Request) {
	var record models.IntakeRecord
	if !decodeJSON(w, r, &record) {
		return
	}

	respondSuccess(w, h.protocolService.Draft(r.Context(), record))
}

// Export handles POST /protocols/export?format=csv|xlsx
func (h *ProtocolHandler) Export(w http.ResponseWriter, r *http.Request) {
	var record models.IntakeRecord
	if !decodeJSON(w, r, &record) {
		return
	}

	file, err := h.exportService.Export(record, r.URL.Query().Get("format"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondFile(w, file.Filename, file.ContentType, file.Data)
}
