package store

import (
	"encoding/json"

	"github.com/snapplate/snapplate/internal/models"
)

const settingsKey = "snapplate_ai_settings"

// SettingsStore persists the AI provider settings blob. Reads merge the
// stored document over the defaults, so partial or corrupt blobs degrade to
// sane settings instead of failing.
type SettingsStore struct {
	backend Backend
}

func NewSettingsStore(backend Backend) *SettingsStore {
	return &SettingsStore{backend: backend}
}

func (s *SettingsStore) Get() (models.AISettings, error) {
	settings := models.DefaultAISettings()
	raw, ok, err := s.backend.Read(settingsKey)
	if err != nil {
		return settings, err
	}
	if !ok {
		return settings, nil
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return models.DefaultAISettings(), nil
	}
	return settings, nil
}

func (s *SettingsStore) Save(settings models.AISettings) error {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.backend.Write(settingsKey, encoded)
}
