package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Scratchpad limits
const (
	NoteSlots       = 3
	NoteMaxRunes    = 135
	NotePriorityLow = "low"
	NotePriorityMid = "medium"
	NotePriorityHi  = "high"
)

// Note is one internal memo in the agent's scratchpad
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// IsValidNotePriority checks if the priority is one of low, medium, high
func IsValidNotePriority(priority string) bool {
	switch priority {
	case NotePriorityLow, NotePriorityMid, NotePriorityHi:
		return true
	default:
		return false
	}
}

// ValidateNoteText enforces the non-empty and length rules shared by save and update
func ValidateNoteText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrInvalidInput("note text cannot be empty")
	}
	if n := utf8.RuneCountInString(text); n > NoteMaxRunes {
		return ErrInvalidInput(fmt.Sprintf("note text is %d characters, limit is %d", n, NoteMaxRunes))
	}
	return nil
}

// Scratchpad is the fixed set of note slots; a nil entry is an empty slot
type Scratchpad [NoteSlots]*Note

// FirstEmpty returns the index of the first empty slot or -1 when full
func (s *Scratchpad) FirstEmpty() int {
	for i, n := range s {
		if n == nil {
			return i
		}
	}
	return -1
}

// IndexOf returns the slot holding the note with id, or -1
func (s *Scratchpad) IndexOf(id string) int {
	for i, n := range s {
		if n != nil && n.ID == id {
			return i
		}
	}
	return -1
}

// Full reports whether every slot is taken
func (s *Scratchpad) Full() bool {
	return s.FirstEmpty() == -1
}
