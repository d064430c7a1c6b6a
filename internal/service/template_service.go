package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

// TemplateService renders {placeholder} templates for protocol and canned messages
type TemplateService interface {
	Render(template string, fields map[string]string) (string, error)
	ValidateTemplate(template string, allowed []string) error
	ExtractPlaceholders(template string) []string
}

type templateService struct {
	placeholderPattern *regexp.Regexp
}

// NewTemplateService creates a new template service
func NewTemplateService() TemplateService {
	return &templateService{
		placeholderPattern: regexp.MustCompile(`\{([a-z_]+)\}`),
	}
}

// Render replaces placeholders in template with field values. Unknown
// placeholders become empty strings. Substituted values are not scanned
// again, so braces typed by a customer survive untouched.
func (s *templateService) Render(template string, fields map[string]string) (string, error) {
	if fields == nil {
		return "", models.ErrInvalidInput("template fields cannot be nil")
	}

	result := s.placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		return fields[strings.Trim(match, "{}")]
	})

	return result, nil
}

// ValidateTemplate checks that template is non-empty and only uses allowed placeholders
func (s *templateService) ValidateTemplate(template string, allowed []string) error {
	if strings.TrimSpace(template) == "" {
		return models.ErrInvalidInput("template cannot be empty")
	}

	valid := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		valid[name] = true
	}

	var invalid []string
	for _, placeholder := range s.ExtractPlaceholders(template) {
		if !valid[placeholder] {
			invalid = append(invalid, placeholder)
		}
	}

	if len(invalid) > 0 {
		return models.ErrInvalidInput(
			fmt.Sprintf("invalid placeholders: %s. Valid placeholders are: %s",
				strings.Join(invalid, ", "), strings.Join(allowed, ", ")),
		)
	}

	return nil
}

// ExtractPlaceholders returns all placeholders found in template
func (s *templateService) ExtractPlaceholders(template string) []string {
	matches := s.placeholderPattern.FindAllStringSubmatch(template, -1)
	placeholders := make([]string, 0, len(matches))

	for _, match := range matches {
		if len(match) > 1 {
			placeholders = append(placeholders, match[1])
		}
	}

	return placeholders
}
