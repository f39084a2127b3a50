package store

import (
	"encoding/json"

	"github.com/snapplate/snapplate/internal/models"
)

const profileKey = "snapplate_profile"

// ProfileStore persists the single user profile blob.
type ProfileStore struct {
	backend Backend
}

func NewProfileStore(backend Backend) *ProfileStore {
	return &ProfileStore{backend: backend}
}

// Get returns the stored profile. The second result is false when no
// profile has been saved yet or the blob is unreadable.
func (s *ProfileStore) Get() (models.UserProfile, bool, error) {
	raw, ok, err := s.backend.Read(profileKey)
	if err != nil {
		return models.UserProfile{}, false, err
	}
	if !ok {
		return models.UserProfile{}, false, nil
	}
	profile := models.UserProfile{}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return models.UserProfile{}, false, nil
	}
	return profile, true, nil
}

func (s *ProfileStore) Save(profile models.UserProfile) error {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.backend.Write(profileKey, encoded)
}
