package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Raymond9734/support-protocol-desk/internal/service"
)

// NoteHandler handles the scratchpad
type NoteHandler struct {
	noteService service.NoteService
	logger      *slog.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// List handles GET /notes. Empty slots are null.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]interface{}{
		"slots": h.noteService.List(r.Context()),
	})
}

// Save handles POST /notes
func (h *NoteHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req service.SaveNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.noteService.Save(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, note)
}

// Update handles PUT /notes/{id}
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.noteService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, note)
}

// Delete handles DELETE /notes/{id}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.noteService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondNoContent(w)
}
