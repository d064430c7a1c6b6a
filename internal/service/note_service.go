package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Raymond9734/support-protocol-desk/internal/clock"
	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/store"
)

// KeyNotes holds the scratchpad slots as a JSON array of three entries
const KeyNotes = "savedNotes"

// NoteService manages the agent's three-slot scratchpad
type NoteService interface {
	List(ctx context.Context) models.Scratchpad
	Save(ctx context.Context, req *SaveNoteRequest) (*models.Note, error)
	Update(ctx context.Context, id string, req *UpdateNoteRequest) (*models.Note, error)
	Delete(ctx context.Context, id string) error
}

type noteService struct {
	mu     sync.Mutex
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger
}

// NewNoteService creates a new note service
func NewNoteService(kv store.Store, c clock.Clock, logger *slog.Logger) NoteService {
	return &noteService{
		store:  kv,
		clock:  c,
		logger: logger,
	}
}

// load reads the scratchpad. Absent, unreadable or malformed values give
// three empty slots.
func (s *noteService) load(ctx context.Context) models.Scratchpad {
	var stored []*models.Note
	if err := store.GetJSON(ctx, s.store, KeyNotes, &stored); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to read notes, starting empty",
				slog.String("error", err.Error()),
			)
		}
		return models.Scratchpad{}
	}

	var pad models.Scratchpad
	for i := 0; i < len(stored) && i < models.NoteSlots; i++ {
		n := stored[i]
		if n == nil || strings.TrimSpace(n.Text) == "" {
			continue
		}
		if !models.IsValidNotePriority(n.Priority) {
			n.Priority = models.NotePriorityLow
		}
		pad[i] = n
	}
	return pad
}

func (s *noteService) save(ctx context.Context, pad models.Scratchpad) {
	if err := store.SetJSON(ctx, s.store, KeyNotes, pad, 0); err != nil {
		s.logger.Error("failed to persist notes",
			slog.String("error", models.ErrStorageWithMsg("write failed", err).Error()),
		)
	}
}

// List returns the current slots
func (s *noteService) List(ctx context.Context) models.Scratchpad {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save puts a new note into the first empty slot
func (s *noteService) Save(ctx context.Context, req *SaveNoteRequest) (*models.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pad := s.load(ctx)
	slot := pad.FirstEmpty()
	if slot < 0 {
		return nil, models.ErrConflictWithMsg(fmt.Sprintf("note limit of %d reached, delete a note first", models.NoteSlots))
	}

	note := &models.Note{
		ID:        uuid.NewString(),
		Text:      req.Text,
		Priority:  req.Priority,
		CreatedAt: s.clock.Now(),
	}
	pad[slot] = note
	s.save(ctx, pad)

	s.logger.Info("note saved",
		slog.String("note_id", note.ID),
		slog.Int("slot", slot),
		slog.String("priority", note.Priority),
	)

	return note, nil
}

// Update replaces the text, and optionally the priority, of an existing note
func (s *noteService) Update(ctx context.Context, id string, req *UpdateNoteRequest) (*models.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pad := s.load(ctx)
	slot := pad.IndexOf(id)
	if slot < 0 {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("note %s not found", id))
	}

	note := pad[slot]
	note.Text = req.Text
	if req.Priority != "" {
		note.Priority = req.Priority
	}
	s.save(ctx, pad)

	return note, nil
}

// Delete clears the slot holding the note
func (s *noteService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pad := s.load(ctx)
	slot := pad.IndexOf(id)
	if slot < 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("note %s not found", id))
	}

	pad[slot] = nil
	s.save(ctx, pad)

	s.logger.Info("note deleted", slog.String("note_id", id), slog.Int("slot", slot))
	return nil
}
