package store

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/snapplate/snapplate/internal/models"
)

func testEntry(id string, calories float64) models.MealEntry {
	return models.MealEntry{
		ID:            id,
		Timestamp:     time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		Foods:         []models.FoodItem{{Name: "Apple", Calories: calories, Amount: "1 medium"}},
		TotalCalories: calories,
	}
}

func dateKeyForDay(day int) string {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day).Format(models.DateKeyFormat)
}

// seedDays fills the backend through a store with a huge safety threshold,
// so seeding never triggers the cleanup ladder on its own.
func seedDays(t *testing.T, backend Backend, days int, image string) {
	t.Helper()
	seeder := NewLogStore(backend, LogStoreConfig{SafetyBytes: 1 << 30})
	for day := 0; day < days; day++ {
		entry := testEntry(fmt.Sprintf("entry-%02d", day), 100)
		entry.ImageDataURL = image
		if err := seeder.Append(entry, dateKeyForDay(day)); err != nil {
			t.Fatalf("seed day %d: %v", day, err)
		}
	}
}

func TestLogStoreAppendAndGetPreserveOrder(t *testing.T) {
	t.Parallel()

	logStore := NewLogStore(NewMemoryBackend(0), LogStoreConfig{})

	if err := logStore.Append(testEntry("a", 100), "2026-08-29"); err != nil {
		t.Fatalf("append a: %v", err)
	}
	if err := logStore.Append(testEntry("b", 200), "2026-08-29"); err != nil {
		t.Fatalf("append b: %v", err)
	}

	day, err := logStore.Get("2026-08-29")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(day.Meals) != 2 || day.Meals[0].ID != "a" || day.Meals[1].ID != "b" {
		t.Fatalf("meals = %+v", day.Meals)
	}

	if err := logStore.Remove("a", "2026-08-29"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	day, err = logStore.Get("2026-08-29")
	if err != nil {
		t.Fatalf("get after remove: %v", err)
	}
	if len(day.Meals) != 1 || day.Meals[0].ID != "b" {
		t.Fatalf("meals after remove = %+v", day.Meals)
	}
}

func TestLogStoreGetUnknownDayIsEmpty(t *testing.T) {
	t.Parallel()

	logStore := NewLogStore(NewMemoryBackend(0), LogStoreConfig{})
	day, err := logStore.Get("2026-01-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if day.Date != "2026-01-01" || len(day.Meals) != 0 {
		t.Fatalf("day = %+v", day)
	}
}

func TestLogStoreRemoveUnknownIsNoop(t *testing.T) {
	t.Parallel()

	logStore := NewLogStore(NewMemoryBackend(0), LogStoreConfig{})
	if err := logStore.Remove("ghost", "2026-01-01"); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestLogStoreListDatesDescending(t *testing.T) {
	t.Parallel()

	logStore := NewLogStore(NewMemoryBackend(0), LogStoreConfig{})
	for _, date := range []string{"2026-08-27", "2026-08-29", "2026-08-28"} {
		if err := logStore.Append(testEntry("e-"+date, 100), date); err != nil {
			t.Fatalf("append %s: %v", date, err)
		}
	}

	dates, err := logStore.ListDates()
	if err != nil {
		t.Fatalf("list dates: %v", err)
	}
	want := []string{"2026-08-29", "2026-08-28", "2026-08-27"}
	if len(dates) != len(want) {
		t.Fatalf("dates = %v", dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("dates = %v, want %v", dates, want)
		}
	}
}

func TestLogStoreEvictsOldestDaysOverThreshold(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend(0)
	seedDays(t, backend, 10, strings.Repeat("A", 600))

	logStore := NewLogStore(backend, LogStoreConfig{
		SafetyBytes: 8192,
		KeepDays:    5,
	})
	// Eleven padded days serialize well past 8 KiB; the mutation must land
	// the persisted mapping back under it with only the newest days left.
	entry := testEntry("entry-10", 100)
	entry.ImageDataURL = strings.Repeat("A", 600)
	if err := logStore.Append(entry, dateKeyForDay(10)); err != nil {
		t.Fatalf("append day 10: %v", err)
	}

	dates, err := logStore.ListDates()
	if err != nil {
		t.Fatalf("list dates: %v", err)
	}
	if len(dates) != 5 {
		t.Fatalf("expected 5 retained days, got %v", dates)
	}
	if dates[0] != dateKeyForDay(10) || dates[len(dates)-1] != dateKeyForDay(6) {
		t.Fatalf("expected the most recent days retained, got %v", dates)
	}

	used, err := backend.UsedBytes()
	if err != nil {
		t.Fatalf("used bytes: %v", err)
	}
	if used > 8192 {
		t.Fatalf("persisted size %d still over threshold", used)
	}
}

func TestLogStoreTruncatesImagesWhenTrimIsNotEnough(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend(0)
	seedDays(t, backend, 3, "data:image/jpeg;base64,"+strings.Repeat("B", 1500))

	logStore := NewLogStore(backend, LogStoreConfig{
		SafetyBytes: 4096,
		KeepDays:    5,
	})
	// All four days fit inside KeepDays, so trimming alone cannot shrink
	// anything; the ladder must fall through to image truncation.
	entry := testEntry("entry-03", 100)
	entry.ImageDataURL = "data:image/jpeg;base64,SMALL"
	if err := logStore.Append(entry, dateKeyForDay(3)); err != nil {
		t.Fatalf("append day 3: %v", err)
	}

	dates, err := logStore.ListDates()
	if err != nil {
		t.Fatalf("list dates: %v", err)
	}
	if len(dates) != 4 {
		t.Fatalf("expected all 4 days retained, got %v", dates)
	}
	for _, date := range dates {
		day, err := logStore.Get(date)
		if err != nil {
			t.Fatalf("get %s: %v", date, err)
		}
		for _, meal := range day.Meals {
			if !strings.HasSuffix(meal.ImageDataURL, "...truncated...") {
				t.Fatalf("image for %s not truncated: %q", date, meal.ImageDataURL)
			}
			if len(meal.ImageDataURL) > 120 {
				t.Fatalf("truncated image still %d bytes", len(meal.ImageDataURL))
			}
			if meal.Foods[0].Calories != 100 {
				t.Fatalf("nutrition data lost during truncation: %+v", meal)
			}
		}
	}
}

func TestLogStoreEmergencyStageDropsImages(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend(0)
	seedDays(t, backend, 5, "data:image/jpeg;base64,"+strings.Repeat("C", 2000))

	logStore := NewLogStore(backend, LogStoreConfig{
		SafetyBytes:   1024,
		KeepDays:      5,
		EmergencyDays: 2,
	})
	// Even with truncated images, five days exceed 1 KiB. Only the
	// emergency stage (two newest days, no images) fits.
	if err := logStore.Append(testEntry("entry-05", 100), dateKeyForDay(5)); err != nil {
		t.Fatalf("append day 5: %v", err)
	}

	dates, err := logStore.ListDates()
	if err != nil {
		t.Fatalf("list dates: %v", err)
	}
	if len(dates) != 2 || dates[0] != dateKeyForDay(5) || dates[1] != dateKeyForDay(4) {
		t.Fatalf("expected the 2 newest days, got %v", dates)
	}
	for _, date := range dates {
		day, err := logStore.Get(date)
		if err != nil {
			t.Fatalf("get %s: %v", date, err)
		}
		for _, meal := range day.Meals {
			if meal.ImageDataURL != "" {
				t.Fatalf("emergency stage must drop images, got %q", meal.ImageDataURL)
			}
		}
	}
}

func TestLogStoreClearsAsLastResort(t *testing.T) {
	t.Parallel()

	// A backend this small rejects every cleanup stage's write, so the
	// ladder ends with the store cleared.
	backend := NewMemoryBackend(64)
	logStore := NewLogStore(backend, LogStoreConfig{SafetyBytes: 1 << 20})

	entry := testEntry("a", 100)
	entry.ImageDataURL = strings.Repeat("D", 500)
	if err := logStore.Append(entry, "2026-08-29"); err != nil {
		t.Fatalf("append: %v", err)
	}

	dates, err := logStore.ListDates()
	if err != nil {
		t.Fatalf("list dates: %v", err)
	}
	if len(dates) != 0 {
		t.Fatalf("expected cleared store, got %v", dates)
	}
}

func TestLogStorePruneTrimsWithoutTouchingImages(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend(0)
	seedDays(t, backend, 6, "data:image/jpeg;base64,KEEPME")

	logStore := NewLogStore(backend, LogStoreConfig{})
	if err := logStore.Prune(2); err != nil {
		t.Fatalf("prune: %v", err)
	}

	dates, err := logStore.ListDates()
	if err != nil {
		t.Fatalf("list dates: %v", err)
	}
	if len(dates) != 2 || dates[0] != dateKeyForDay(5) || dates[1] != dateKeyForDay(4) {
		t.Fatalf("dates after prune = %v", dates)
	}
	day, err := logStore.Get(dates[0])
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if day.Meals[0].ImageDataURL != "data:image/jpeg;base64,KEEPME" {
		t.Fatalf("prune must not touch images, got %q", day.Meals[0].ImageDataURL)
	}
}

func TestLogStoreUsage(t *testing.T) {
	t.Parallel()

	logStore := NewLogStore(NewMemoryBackend(0), LogStoreConfig{QuotaBytes: 5 * 1024 * 1024})

	usage, err := logStore.Usage()
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.UsedBytes != 0 {
		t.Fatalf("empty store used = %d", usage.UsedBytes)
	}
	if usage.QuotaBytes != 5*1024*1024 {
		t.Fatalf("quota = %d", usage.QuotaBytes)
	}

	if err := logStore.Append(testEntry("a", 100), "2026-08-29"); err != nil {
		t.Fatalf("append: %v", err)
	}
	usage, err = logStore.Usage()
	if err != nil {
		t.Fatalf("usage after append: %v", err)
	}
	if usage.UsedBytes == 0 {
		t.Fatal("used bytes should grow after append")
	}
}

func TestLogStoreCorruptBlobStartsOver(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend(0)
	if err := backend.Write(logsKey, []byte("{broken")); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	logStore := NewLogStore(backend, LogStoreConfig{})
	if err := logStore.Append(testEntry("a", 100), "2026-08-29"); err != nil {
		t.Fatalf("append over corrupt blob: %v", err)
	}
	day, err := logStore.Get("2026-08-29")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(day.Meals) != 1 {
		t.Fatalf("meals = %+v", day.Meals)
	}
}
