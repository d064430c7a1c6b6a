package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/phone"
	"github.com/Raymond9734/support-protocol-desk/internal/store"
)

// Settings keys in the key-value store
const (
	KeyDefaultPhone   = "defaultSacPhone"
	KeyConsoleModels  = "consoleModels"
	KeyDisplayMode    = "displayMode"
	KeyPriorityNotice = "priorityNotice"
)

// Display modes
const (
	DisplayModeLight = "light"
	DisplayModeDark  = "dark"
)

// SettingsDefaults are used whenever the store has no value or an unreadable one
type SettingsDefaults struct {
	DefaultPhone string
	Models       []string
}

// SettingsSnapshot is a consistent copy of the values a submission depends on
type SettingsSnapshot struct {
	DefaultPhone string   `json:"default_phone"`
	Models       []string `json:"models"`
}

// SettingsService manages the process-wide configuration values
type SettingsService interface {
	Load(ctx context.Context)
	Snapshot() SettingsSnapshot

	DefaultPhone() string
	SetDefaultPhone(ctx context.Context, raw string) (string, error)

	Models() []string
	AddModel(ctx context.Context, name string) ([]string, error)
	RenameModel(ctx context.Context, index int, name string) ([]string, error)
	DeleteModel(ctx context.Context, index int) ([]string, error)

	DisplayMode() string
	SetDisplayMode(ctx context.Context, mode string) error

	Notice() string
	SetNotice(ctx context.Context, text string) error
}

type settingsService struct {
	// writeMu serializes each mutation together with its store write so the
	// persisted order matches the in-memory order. mu guards the fields.
	writeMu  sync.Mutex
	mu       sync.RWMutex
	store    store.Store
	defaults SettingsDefaults
	logger   *slog.Logger

	defaultPhone string
	models       []string
	displayMode  string
	notice       string
}

// NewSettingsService creates a settings service seeded with defaults. Call
// Load once at startup to pick up persisted values.
func NewSettingsService(kv store.Store, defaults SettingsDefaults, logger *slog.Logger) SettingsService {
	return &settingsService{
		store:        kv,
		defaults:     defaults,
		logger:       logger,
		defaultPhone: defaults.DefaultPhone,
		models:       slices.Clone(defaults.Models),
		displayMode:  DisplayModeLight,
	}
}

// Load reads every setting from the store. Missing or malformed values keep
// their defaults; read failures are logged and never returned.
func (s *settingsService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.readString(ctx, KeyDefaultPhone); ok && strings.TrimSpace(v) != "" {
		s.defaultPhone = v
	}

	models, err := store.GetList(ctx, s.store, KeyConsoleModels)
	switch {
	case err == nil:
		s.models = models
	case !errors.Is(err, store.ErrNotFound):
		s.logger.Warn("failed to read console models, using defaults",
			slog.String("error", err.Error()),
		)
	}

	if v, ok := s.readString(ctx, KeyDisplayMode); ok && isValidDisplayMode(v) {
		s.displayMode = v
	}

	if v, ok := s.readString(ctx, KeyPriorityNotice); ok {
		s.notice = v
	}

	s.logger.Info("settings loaded",
		slog.Int("models", len(s.models)),
		slog.String("display_mode", s.displayMode),
	)
}

func (s *settingsService) readString(ctx context.Context, key string) (string, bool) {
	v, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to read setting",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return "", false
	}
	return v, true
}

// persist writes a value through to the store. In-memory state is already
// updated, so a failure is only logged.
func (s *settingsService) persist(ctx context.Context, key string, write func() error) {
	if err := write(); err != nil {
		s.logger.Error("failed to persist setting",
			slog.String("key", key),
			slog.String("error", models.ErrStorageWithMsg("write failed", err).Error()),
		)
	}
}

// Snapshot returns the default phone and a copy of the model list
func (s *settingsService) Snapshot() SettingsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SettingsSnapshot{
		DefaultPhone: s.defaultPhone,
		Models:       slices.Clone(s.models),
	}
}

func (s *settingsService) DefaultPhone() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultPhone
}

// SetDefaultPhone stores the support number. Numbers the phone library
// recognizes are saved in E.164 form; others are kept as typed.
func (s *settingsService) SetDefaultPhone(ctx context.Context, raw string) (string, error) {
	if len(phone.Digits(raw)) < phone.MinDigits {
		return "", models.ErrInvalidInput(
			fmt.Sprintf("phone must contain at least %d digits", phone.MinDigits),
		)
	}
	normalized := phone.NormalizeE164(raw, phone.DefaultRegion)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.defaultPhone = normalized
	s.mu.Unlock()

	s.persist(ctx, KeyDefaultPhone, func() error {
		return s.store.Set(ctx, KeyDefaultPhone, normalized, 0)
	})

	s.logger.Info("default phone updated", slog.String("phone", normalized))
	return normalized, nil
}

func (s *settingsService) Models() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.models)
}

// AddModel appends a trimmed, non-empty, not yet listed model name
func (s *settingsService) AddModel(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidInput("model name cannot be empty")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if slices.Contains(s.models, name) {
		s.mu.Unlock()
		return nil, models.ErrConflictWithMsg(fmt.Sprintf("model %q already exists", name))
	}
	s.models = append(s.models, name)
	updated := slices.Clone(s.models)
	s.mu.Unlock()

	s.saveModels(ctx, updated)
	return updated, nil
}

// RenameModel replaces the name at index
func (s *settingsService) RenameModel(ctx context.Context, index int, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidInput("model name cannot be empty")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if index < 0 || index >= len(s.models) {
		s.mu.Unlock()
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("model at index %d not found", index))
	}
	s.models[index] = name
	updated := slices.Clone(s.models)
	s.mu.Unlock()

	s.saveModels(ctx, updated)
	return updated, nil
}

// DeleteModel removes the model at index
func (s *settingsService) DeleteModel(ctx context.Context, index int) ([]string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if index < 0 || index >= len(s.models) {
		s.mu.Unlock()
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("model at index %d not found", index))
	}
	s.models = slices.Delete(s.models, index, index+1)
	updated := slices.Clone(s.models)
	s.mu.Unlock()

	s.saveModels(ctx, updated)
	return updated, nil
}

func (s *settingsService) saveModels(ctx context.Context, list []string) {
	s.persist(ctx, KeyConsoleModels, func() error {
		return store.SetList(ctx, s.store, KeyConsoleModels, list)
	})
	s.logger.Info("console models updated", slog.Int("count", len(list)))
}

func (s *settingsService) DisplayMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayMode
}

// SetDisplayMode accepts "light" or "dark"
func (s *settingsService) SetDisplayMode(ctx context.Context, mode string) error {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if !isValidDisplayMode(mode) {
		return models.ErrInvalidInput(fmt.Sprintf("invalid display mode: %s (must be 'light' or 'dark')", mode))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.displayMode = mode
	s.mu.Unlock()

	s.persist(ctx, KeyDisplayMode, func() error {
		return s.store.Set(ctx, KeyDisplayMode, mode, 0)
	})
	return nil
}

func (s *settingsService) Notice() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notice
}

// SetNotice replaces the free-text priority notice; empty clears it
func (s *settingsService) SetNotice(ctx context.Context, text string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.notice = text
	s.mu.Unlock()

	s.persist(ctx, KeyPriorityNotice, func() error {
		if text == "" {
			return s.store.Delete(ctx, KeyPriorityNotice)
		}
		return s.store.Set(ctx, KeyPriorityNotice, text, 0)
	})
	return nil
}

func isValidDisplayMode(mode string) bool {
	return mode == DisplayModeLight || mode == DisplayModeDark
}
