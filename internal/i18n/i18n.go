// Package i18n provides internationalization support for user-facing messages
package i18n

import (
	"fmt"
	"strings"
)

const (
	// DefaultLanguage is the fallback language when no translation is available
	DefaultLanguage = "en"
	// BerneseGermanMessages is a Swiss Dialect spoken in the Canton of Bern
	BerneseGermanMessages = "ch_be"
)

// Localizer provides translation functionality
type Localizer struct {
	language string
	messages map[string]string
}

// NewLocalizer creates a new localizer for the specified language
func NewLocalizer(language string) *Localizer {
	return &Localizer{
		language: language,
		messages: getMessages(language),
	}
}

// T translates a message key, with optional parameters for formatting
func (l *Localizer) T(key string, args ...interface{}) string {
	message, exists := l.messages[key]
	if !exists && l.language != DefaultLanguage {
		message, exists = getMessages(DefaultLanguage)[key]
	}
	if !exists {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(message, args...)
	}
	return message
}

// Platform returns the display name of a platform id such as "youtube-music".
func (l *Localizer) Platform(platform string) string {
	if platform == "" {
		return ""
	}
	return l.T("platform." + platform)
}

// Error returns the message for an error kind. Kinds tied to a provider name it.
func (l *Localizer) Error(kind, platform string) string {
	key := "error." + kind
	message, ok := l.messages[key]
	if !ok {
		message, ok = getMessages(DefaultLanguage)[key]
	}
	if !ok {
		return l.T("error.generic")
	}
	if strings.Contains(message, "%s") {
		name := l.Platform(platform)
		if name == "" {
			name = l.T("platform.unknown")
		}
		return fmt.Sprintf(message, name)
	}
	return message
}

// GetSupportedLanguages returns list of supported language codes
func GetSupportedLanguages() []string {
	return []string{DefaultLanguage, BerneseGermanMessages}
}

// IsSupported reports whether language has its own message set.
func IsSupported(language string) bool {
	for _, lang := range GetSupportedLanguages() {
		if lang == language {
			return true
		}
	}
	return false
}

// getMessages returns the message map for a given language
func getMessages(language string) map[string]string {
	switch language {
	case DefaultLanguage:
		return englishMessages
	case BerneseGermanMessages:
		return berneseGermanMessages
	default:
		return englishMessages // Default to English
	}
}
