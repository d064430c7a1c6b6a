package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/service"
)

// HandoffHandler exposes the handoff log
type HandoffHandler struct {
	handoffService service.HandoffService
	logger         *slog.Logger
}

// NewHandoffHandler creates a new handoff handler
func NewHandoffHandler(handoffService service.HandoffService, logger *slog.Logger) *HandoffHandler {
	return &HandoffHandler{
		handoffService: handoffService,
		logger:         logger,
	}
}

// List handles GET /handoffs
func (h *HandoffHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	filter := models.HandoffFilter{
		Flow:       query.Get("flow"),
		ProtocolID: query.Get("protocol_id"),
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.handoffService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// Get handles GET /handoffs/{id}
func (h *HandoffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid handoff ID")
		return
	}

	handoff, err := h.handoffService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, handoff)
}
