package settings

import (
	"errors"
	"fmt"
)

// ErrInvalid marks a settings document that fails validation; handlers
// switch on it with errors.Is.
var ErrInvalid = errors.New("invalid settings")

type FontSizeKey string

const (
	FontSmall  FontSizeKey = "small"
	FontMedium FontSizeKey = "medium"
	FontLarge  FontSizeKey = "large"
	FontXLarge FontSizeKey = "xlarge"
)

// Settings is the user's display and accessibility configuration.
type Settings struct {
	Name                 string      `json:"name"`
	Provider             string      `json:"provider"`
	NotificationsEnabled bool        `json:"notifications_enabled"` // appointment reminders
	RemindersEnabled     bool        `json:"reminders_enabled"`     // medication reminders
	DarkMode             bool        `json:"dark_mode"`
	FontSizeKey          FontSizeKey `json:"font_size_key"`
	Language             string      `json:"language"` // en, he
	BoldText             bool        `json:"bold_text"`
	HighContrast         bool        `json:"high_contrast"`
}

func Defaults() Settings {
	return Settings{
		NotificationsEnabled: true,
		FontSizeKey:          FontMedium,
		Language:             "en",
	}
}

func (s Settings) Validate() error {
	switch s.FontSizeKey {
	case FontSmall, FontMedium, FontLarge, FontXLarge:
	default:
		return fmt.Errorf("%w: unknown font size key %q", ErrInvalid, s.FontSizeKey)
	}

	switch s.Language {
	case "en", "he":
	default:
		return fmt.Errorf("%w: unsupported language %q", ErrInvalid, s.Language)
	}

	return nil
}
