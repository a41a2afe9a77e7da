// Package settings persists small display preferences through the
// storage port, mirroring the original application's local-store keys.
package settings

import (
	"encoding/json"
	"fmt"

	"quizdrill/internal/storage"
)

// FontSettingsKey is the KV key font preferences persist under.
const FontSettingsKey = "ccde_font_settings"

const (
	MinFontSize     = 12
	MaxFontSize     = 32
	DefaultFontSize = 20
)

// Font holds the persisted display preferences.
type Font struct {
	FontSize int `json:"font_size"`
}

// Clamp forces the size into the supported range.
func (f Font) Clamp() Font {
	if f.FontSize < MinFontSize {
		f.FontSize = MinFontSize
	}
	if f.FontSize > MaxFontSize {
		f.FontSize = MaxFontSize
	}
	return f
}

// Load reads font settings, falling back to the default on a missing key
// or unreadable stored value.
func Load(kv storage.KV) (Font, error) {
	fallback := Font{FontSize: DefaultFontSize}

	data, ok, err := kv.Get(FontSettingsKey)
	if err != nil {
		return fallback, fmt.Errorf("load font settings: %w", err)
	}
	if !ok {
		return fallback, nil
	}

	var font Font
	if err := json.Unmarshal(data, &font); err != nil {
		return fallback, nil
	}
	return font.Clamp(), nil
}

// Save clamps and writes font settings.
func Save(kv storage.KV, font Font) error {
	data, err := json.Marshal(font.Clamp())
	if err != nil {
		return fmt.Errorf("encode font settings: %w", err)
	}
	if err := kv.Set(FontSettingsKey, data); err != nil {
		return fmt.Errorf("persist font settings: %w", err)
	}
	return nil
}
