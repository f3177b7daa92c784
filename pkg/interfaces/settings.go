package interfaces

import "context"

// Setting is a single persisted console setting scoped to a language.
type Setting struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Lang  string `json:"lang"`
}

// SettingsProvider resolves per-language settings for filters and form dialogs.
// Implementations never fail; a miss is reported through the boolean.
type SettingsProvider interface {
	GetSetting(ctx context.Context, name, lang string) (string, bool)
}
