package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Raymond9734/support-protocol-desk/internal/phone"
	"github.com/Raymond9734/support-protocol-desk/internal/service"
)

// SettingsHandler handles the desk settings
type SettingsHandler struct {
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService service.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// PhoneResponse is the default support number in stored and display form
type PhoneResponse struct {
	Phone   string `json:"phone"`
	Display string `json:"display"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type modelRequest struct {
	Name string `json:"name"`
}

type modelsResponse struct {
	Models []string `json:"models"`
}

type displayModeRequest struct {
	Mode string `json:"mode"`
}

type noticeRequest struct {
	Notice string `json:"notice"`
}

func phoneResponse(raw string) PhoneResponse {
	return PhoneResponse{Phone: raw, Display: phone.International(raw, phone.DefaultRegion)}
}

// GetPhone handles GET /settings/phone
func (h *SettingsHandler) GetPhone(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, phoneResponse(h.settingsService.DefaultPhone()))
}

// SetPhone handles PUT /settings/phone
func (h *SettingsHandler) SetPhone(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	saved, err := h.settingsService.SetDefaultPhone(r.Context(), req.Phone)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, phoneResponse(saved))
}

// ListModels handles GET /settings/models
func (h *SettingsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, modelsResponse{Models: h.settingsService.Models()})
}

// AddModel handles POST /settings/models
func (h *SettingsHandler) AddModel(w http.ResponseWriter, r *http.Request) {
	var req modelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	list, err := h.settingsService.AddModel(r.Context(), req.Name)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, modelsResponse{Models: list})
}

// RenameModel handles PUT /settings/models/{index}
func (h *SettingsHandler) RenameModel(w http.ResponseWriter, r *http.Request) {
	index, ok := modelIndex(w, r)
	if !ok {
		return
	}

	var req modelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	list, err := h.settingsService.RenameModel(r.Context(), index, req.Name)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, modelsResponse{Models: list})
}

// DeleteModel handles DELETE /settings/models/{index}
func (h *SettingsHandler) DeleteModel(w http.ResponseWriter, r *http.Request) {
	index, ok := modelIndex(w, r)
	if !ok {
		return
	}

	list, err := h.settingsService.DeleteModel(r.Context(), index)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, modelsResponse{Models: list})
}

func modelIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid model index")
		return 0, false
	}
	return index, true
}

// GetDisplayMode handles GET /settings/display-mode
func (h *SettingsHandler) GetDisplayMode(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, displayModeRequest{Mode: h.settingsService.DisplayMode()})
}

// SetDisplayMode handles PUT /settings/display-mode
func (h *SettingsHandler) SetDisplayMode(w http.ResponseWriter, r *http.Request) {
	var req displayModeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.settingsService.SetDisplayMode(r.Context(), req.Mode); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, displayModeRequest{Mode: h.settingsService.DisplayMode()})
}

// GetNotice handles GET /settings/notice
func (h *SettingsHandler) GetNotice(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, noticeRequest{Notice: h.settingsService.Notice()})
}

// SetNotice handles PUT /settings/notice
func (h *SettingsHandler) SetNotice(w http.ResponseWriter, r *http.Request) {
	var req noticeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.settingsService.SetNotice(r.Context(), req.Notice); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, req)
}
