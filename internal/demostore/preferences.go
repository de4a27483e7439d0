package demostore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Supported languages and themes
var (
	Languages = []string{"ru", "kk", "en"}
	Themes    = []string{"dark", "light"}
)

// Preferences are the user's display settings
type Preferences struct {
	Lang  string `json:"lang"`
	Theme string `json:"theme"`
}

// DefaultPreferences returns ru / dark
func DefaultPreferences() Preferences {
	return Preferences{Lang: "ru", Theme: "dark"}
}

// Validate checks both fields against the supported values
func (p Preferences) Validate() error {
	if !contains(Languages, p.Lang) {
		return fmt.Errorf("unsupported language %q", p.Lang)
	}
	if !contains(Themes, p.Theme) {
		return fmt.Errorf("unsupported theme %q", p.Theme)
	}
	return nil
}

// LoadPreferences returns stored preferences; missing or invalid fields take defaults
func (s *Store) LoadPreferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := DefaultPreferences()
	data, err := os.ReadFile(filepath.Join(s.dir, PreferencesFile))
	if err != nil {
		return p
	}

	var stored Preferences
	if json.Unmarshal(data, &stored) != nil {
		return p
	}
	if contains(Languages, stored.Lang) {
		p.Lang = stored.Lang
	}
	if contains(Themes, stored.Theme) {
		p.Theme = stored.Theme
	}
	return p
}

// SavePreferences validates and persists p
func (s *Store) SavePreferences(p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, PreferencesFile), data)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
