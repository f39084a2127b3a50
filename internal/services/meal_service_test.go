package services

import (
	"errors"
	"testing"
	"time"

	"github.com/snapplate/snapplate/internal/models"
	"github.com/snapplate/snapplate/internal/store"
)

func newTestMealService() *MealService {
	logs := store.NewLogStore(store.NewMemoryBackend(0), store.LogStoreConfig{})
	service := NewMealService(logs)
	service.now = func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}
	return service
}

func TestBuildEntrySumsTotalsOnce(t *testing.T) {
	t.Parallel()

	service := newTestMealService()
	foods := []models.FoodItem{
		{Name: "Chicken", Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, Amount: "150g"},
		{Name: "Rice", Calories: 206, Protein: 4.3, Carbs: 45, Fat: 0.4, Amount: "1 cup"},
	}

	entry, err := service.BuildEntry(foods, "data:image/jpeg;base64,AAAA")
	if err != nil {
		t.Fatalf("BuildEntry() error: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("entry needs a generated id")
	}
	if entry.Timestamp.IsZero() {
		t.Fatal("entry needs a timestamp")
	}
	if entry.TotalCalories != 371 {
		t.Fatalf("total calories = %v", entry.TotalCalories)
	}
	if entry.TotalProtein != 35.3 {
		t.Fatalf("total protein = %v", entry.TotalProtein)
	}
	if entry.TotalCarbs != 45 || entry.TotalFat != 4 {
		t.Fatalf("totals = carbs %v fat %v", entry.TotalCarbs, entry.TotalFat)
	}

	other, err := service.BuildEntry(foods, "")
	if err != nil {
		t.Fatalf("BuildEntry() error: %v", err)
	}
	if other.ID == entry.ID {
		t.Fatal("entry ids must be unique")
	}
}

func TestBuildEntryRejectsEmptyFoodList(t *testing.T) {
	t.Parallel()

	service := newTestMealService()
	if _, err := service.BuildEntry(nil, ""); !errors.Is(err, ErrNoFoods) {
		t.Fatalf("expected ErrNoFoods, got %v", err)
	}
}

func TestSaveEntryDefaultsToToday(t *testing.T) {
	t.Parallel()

	service := newTestMealService()
	entry, err := service.BuildEntry([]models.FoodItem{{Name: "Apple", Calories: 95}}, "")
	if err != nil {
		t.Fatalf("BuildEntry() error: %v", err)
	}

	date, err := service.SaveEntry(entry, "")
	if err != nil {
		t.Fatalf("SaveEntry() error: %v", err)
	}
	if date != "2026-08-29" {
		t.Fatalf("date = %q", date)
	}

	day, err := service.DayLog("")
	if err != nil {
		t.Fatalf("DayLog() error: %v", err)
	}
	if len(day.Meals) != 1 || day.Meals[0].ID != entry.ID {
		t.Fatalf("meals = %+v", day.Meals)
	}
}

func TestSaveEntryExplicitDate(t *testing.T) {
	t.Parallel()

	service := newTestMealService()
	entry, err := service.BuildEntry([]models.FoodItem{{Name: "Apple", Calories: 95}}, "")
	if err != nil {
		t.Fatalf("BuildEntry() error: %v", err)
	}

	date, err := service.SaveEntry(entry, "2026-08-01")
	if err != nil {
		t.Fatalf("SaveEntry() error: %v", err)
	}
	if date != "2026-08-01" {
		t.Fatalf("date = %q", date)
	}

	if err := service.DeleteEntry(entry.ID, "2026-08-01"); err != nil {
		t.Fatalf("DeleteEntry() error: %v", err)
	}
	day, err := service.DayLog("2026-08-01")
	if err != nil {
		t.Fatalf("DayLog() error: %v", err)
	}
	if len(day.Meals) != 0 {
		t.Fatalf("meals after delete = %+v", day.Meals)
	}
}

func TestSaveEntryWrapsStoreFailure(t *testing.T) {
	t.Parallel()

	// Backend too small for anything; the escalation ladder clears the
	// store rather than failing, so force the error with a closed path.
	logs := store.NewLogStore(readOnlyBackend{}, store.LogStoreConfig{})
	service := NewMealService(logs)

	entry := models.MealEntry{ID: "x", Foods: []models.FoodItem{{Name: "Apple"}}}
	if _, err := service.SaveEntry(entry, "2026-08-29"); !errors.Is(err, ErrSaveMealFailed) {
		t.Fatalf("expected ErrSaveMealFailed, got %v", err)
	}
}

type readOnlyBackend struct{}

func (readOnlyBackend) Read(string) ([]byte, bool, error) { return nil, false, nil }
func (readOnlyBackend) Write(string, []byte) error        { return errors.New("read-only backend") }
func (readOnlyBackend) Delete(string) error               { return errors.New("read-only backend") }
func (readOnlyBackend) UsedBytes() (int64, error)         { return 0, nil }
