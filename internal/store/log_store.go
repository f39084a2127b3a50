package store

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/apex/log"

	"github.com/snapplate/snapplate/internal/models"
)

const logsKey = "snapplate_logs"

const (
	defaultQuotaBytes    = 5 * 1024 * 1024
	defaultSafetyBytes   = 4 * 1024 * 1024
	defaultKeepDays      = 30
	defaultEmergencyDays = 7
)

const (
	truncatedImagePrefixLen = 100
	truncatedImageMarker    = "...truncated..."
)

// LogStoreConfig tunes the byte budget. Zero values fall back to
// conservative defaults sized for browser-storage-scale quotas.
type LogStoreConfig struct {
	QuotaBytes    int64
	SafetyBytes   int64
	KeepDays      int
	EmergencyDays int
}

// Usage is the advisory storage snapshot shown to the user. QuotaBytes is
// a fixed assumption, not a measured limit.
type Usage struct {
	UsedBytes  int64 `json:"usedBytes"`
	QuotaBytes int64 `json:"quotaBytes"`
}

// LogStore keeps the date-partitioned meal log as one JSON document in the
// backend, re-serialized wholesale on every mutation. It assumes a single
// logical writer; concurrent mutations may lose the race.
type LogStore struct {
	backend       Backend
	logger        log.Interface
	quotaBytes    int64
	safetyBytes   int64
	keepDays      int
	emergencyDays int
}

func NewLogStore(backend Backend, cfg LogStoreConfig) *LogStore {
	store := &LogStore{
		backend:       backend,
		logger:        log.Log,
		quotaBytes:    cfg.QuotaBytes,
		safetyBytes:   cfg.SafetyBytes,
		keepDays:      cfg.KeepDays,
		emergencyDays: cfg.EmergencyDays,
	}
	if store.quotaBytes <= 0 {
		store.quotaBytes = defaultQuotaBytes
	}
	if store.safetyBytes <= 0 {
		store.safetyBytes = defaultSafetyBytes
	}
	if store.keepDays <= 0 {
		store.keepDays = defaultKeepDays
	}
	if store.emergencyDays <= 0 {
		store.emergencyDays = defaultEmergencyDays
	}
	return store
}

// Append adds an entry to the given day's log, creating the day lazily.
func (s *LogStore) Append(entry models.MealEntry, dateKey string) error {
	logs, err := s.readAll()
	if err != nil {
		return err
	}

	day, ok := logs[dateKey]
	if !ok {
		day = models.DailyLog{Date: dateKey, Meals: []models.MealEntry{}}
	}
	day.Meals = append(day.Meals, entry)
	logs[dateKey] = day
	return s.saveAll(logs)
}

// Remove deletes one entry by id from the given day's log. Unknown days and
// ids are a no-op.
func (s *LogStore) Remove(entryID string, dateKey string) error {
	logs, err := s.readAll()
	if err != nil {
		return err
	}

	day, ok := logs[dateKey]
	if !ok {
		return nil
	}
	kept := make([]models.MealEntry, 0, len(day.Meals))
	for _, meal := range day.Meals {
		if meal.ID != entryID {
			kept = append(kept, meal)
		}
	}
	day.Meals = kept
	logs[dateKey] = day
	return s.saveAll(logs)
}

// Get returns the daily log for a date key, or an empty log for days with
// no entries yet.
func (s *LogStore) Get(dateKey string) (models.DailyLog, error) {
	logs, err := s.readAll()
	if err != nil {
		return models.DailyLog{}, err
	}
	day, ok := logs[dateKey]
	if !ok {
		return models.DailyLog{Date: dateKey, Meals: []models.MealEntry{}}, nil
	}
	return day, nil
}

// ListDates returns every recorded date key, newest first.
func (s *LogStore) ListDates() ([]string, error) {
	logs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(logs))
	for date := range logs {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

func (s *LogStore) Usage() (Usage, error) {
	used, err := s.backend.UsedBytes()
	if err != nil {
		return Usage{}, err
	}
	return Usage{UsedBytes: used, QuotaBytes: s.quotaBytes}, nil
}

// Prune drops everything older than the most recent daysToKeep days. It is
// the user-invoked trim: unconditional, and it never touches images.
func (s *LogStore) Prune(daysToKeep int) error {
	if daysToKeep <= 0 {
		daysToKeep = s.keepDays
	}
	logs, err := s.readAll()
	if err != nil {
		return err
	}
	trimmed := keepNewestDays(logs, daysToKeep)
	encoded, err := json.Marshal(trimmed)
	if err != nil {
		return err
	}
	if err := s.backend.Write(logsKey, encoded); err != nil {
		return err
	}
	s.logger.WithField("days", len(trimmed)).Info("pruned meal log")
	return nil
}

func (s *LogStore) readAll() (map[string]models.DailyLog, error) {
	raw, ok, err := s.backend.Read(logsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]models.DailyLog{}, nil
	}
	logs := map[string]models.DailyLog{}
	if err := json.Unmarshal(raw, &logs); err != nil {
		s.logger.WithError(err).Warn("meal log blob is corrupt, starting over")
		return map[string]models.DailyLog{}, nil
	}
	return logs, nil
}

// saveAll commits the full mapping, escalating through the cleanup stages
// when the serialized size crosses the safety threshold or the backend
// reports a full quota. Data loss under storage pressure is accepted and
// ordered oldest/heaviest-first; the caller's mutation never fails for it.
func (s *LogStore) saveAll(logs map[string]models.DailyLog) error {
	encoded, err := json.Marshal(logs)
	if err != nil {
		return err
	}
	if int64(len(encoded)) > s.safetyBytes {
		s.logger.WithField("bytes", len(encoded)).Info("meal log over safety threshold, cleaning up old days")
		return s.cleanup(logs)
	}
	if err := s.backend.Write(logsKey, encoded); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			s.logger.Info("storage quota exceeded, cleaning up old days")
			return s.cleanup(logs)
		}
		return err
	}
	return nil
}

type cleanupStage struct {
	name  string
	apply func(logs map[string]models.DailyLog) map[string]models.DailyLog
}

// cleanupStages is the explicit degradation order: recency wins over
// completeness, nutrition data wins over images.
func (s *LogStore) cleanupStages() []cleanupStage {
	return []cleanupStage{
		{
			name: "trim old days",
			apply: func(logs map[string]models.DailyLog) map[string]models.DailyLog {
				return keepNewestDays(logs, s.keepDays)
			},
		},
		{
			name: "trim old days and truncate images",
			apply: func(logs map[string]models.DailyLog) map[string]models.DailyLog {
				return truncateImages(keepNewestDays(logs, s.keepDays))
			},
		},
		{
			name: "emergency trim, drop images",
			apply: func(logs map[string]models.DailyLog) map[string]models.DailyLog {
				return dropImages(keepNewestDays(logs, s.emergencyDays))
			},
		},
	}
}

func (s *LogStore) cleanup(logs map[string]models.DailyLog) error {
	for _, stage := range s.cleanupStages() {
		candidate := stage.apply(logs)
		encoded, err := json.Marshal(candidate)
		if err != nil {
			return err
		}
		if int64(len(encoded)) > s.safetyBytes {
			continue
		}
		if err := s.backend.Write(logsKey, encoded); err != nil {
			if errors.Is(err, ErrQuotaExceeded) {
				continue
			}
			return err
		}
		s.logger.WithField("stage", stage.name).WithField("days", len(candidate)).Info("meal log cleanup succeeded")
		return nil
	}

	// Last resort: give up on history entirely.
	s.logger.Warn("meal log cleanup exhausted, clearing store")
	return s.backend.Delete(logsKey)
}

// keepNewestDays keeps the n most recent date keys: sorted ascending,
// everything at or after index len-n survives.
func keepNewestDays(logs map[string]models.DailyLog, n int) map[string]models.DailyLog {
	if len(logs) <= n {
		return cloneLogs(logs)
	}

	dates := make([]string, 0, len(logs))
	for date := range logs {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	cutoff := dates[len(dates)-n]

	kept := map[string]models.DailyLog{}
	for date, day := range logs {
		if date >= cutoff {
			kept[date] = day
		}
	}
	return kept
}

// truncateImages keeps a short recognizable prefix of every image so the
// log still shows that a photo existed.
func truncateImages(logs map[string]models.DailyLog) map[string]models.DailyLog {
	return mapImages(logs, func(image string) string {
		if len(image) > truncatedImagePrefixLen {
			image = image[:truncatedImagePrefixLen]
		}
		return image + truncatedImageMarker
	})
}

func dropImages(logs map[string]models.DailyLog) map[string]models.DailyLog {
	return mapImages(logs, func(string) string { return "" })
}

func mapImages(logs map[string]models.DailyLog, transform func(string) string) map[string]models.DailyLog {
	result := map[string]models.DailyLog{}
	for date, day := range logs {
		meals := make([]models.MealEntry, len(day.Meals))
		copy(meals, day.Meals)
		for i := range meals {
			if meals[i].ImageDataURL != "" {
				meals[i].ImageDataURL = transform(meals[i].ImageDataURL)
			}
		}
		day.Meals = meals
		result[date] = day
	}
	return result
}

func cloneLogs(logs map[string]models.DailyLog) map[string]models.DailyLog {
	cloned := make(map[string]models.DailyLog, len(logs))
	for date, day := range logs {
		cloned[date] = day
	}
	return cloned
}
