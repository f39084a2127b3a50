package api

import (
	"github.com/snapplate/snapplate/internal/ai"
	"github.com/snapplate/snapplate/internal/config"
	"github.com/snapplate/snapplate/internal/services"
	"github.com/snapplate/snapplate/internal/store"
)

// Handler carries the wired dependencies behind the JSON API. The storage
// backend and AI client are injected so tests can substitute an in-memory
// backend and a fake upstream.
type Handler struct {
	server   ai.ServerConfig
	client   *ai.Client
	meals    *services.MealService
	profiles *store.ProfileStore
	settings *store.SettingsStore
}

func NewHandler(cfg config.Config, backend store.Backend, client *ai.Client) *Handler {
	logStore := store.NewLogStore(backend, store.LogStoreConfig{
		QuotaBytes:    cfg.QuotaBytes,
		SafetyBytes:   cfg.SafetyBytes,
		KeepDays:      cfg.KeepDays,
		EmergencyDays: cfg.EmergencyDays,
	})

	return &Handler{
		server: ai.ServerConfig{
			APIKey:    cfg.ServerAPIKey,
			Provider:  cfg.ServerProvider,
			Model:     cfg.ServerModel,
			CustomURL: cfg.ServerCustomURL,
		},
		client:   client,
		meals:    services.NewMealService(logStore),
		profiles: store.NewProfileStore(backend),
		settings: store.NewSettingsStore(backend),
	}
}
