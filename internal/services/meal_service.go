package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/snapplate/snapplate/internal/models"
	"github.com/snapplate/snapplate/internal/store"
)

var (
	ErrNoFoods        = errors.New("meal entry needs at least one food item")
	ErrSaveMealFailed = errors.New("save meal entry failed")
)

// MealLogStore is the slice of the log store the meal service needs.
type MealLogStore interface {
	Append(entry models.MealEntry, dateKey string) error
	Remove(entryID string, dateKey string) error
	Get(dateKey string) (models.DailyLog, error)
	ListDates() ([]string, error)
	Usage() (store.Usage, error)
	Prune(daysToKeep int) error
}

// MealService assembles immutable meal entries and mediates log mutations.
type MealService struct {
	logs MealLogStore
	now  func() time.Time
}

func NewMealService(logs MealLogStore) *MealService {
	return &MealService{logs: logs, now: time.Now}
}

// BuildEntry creates a meal entry from analyzed foods. Totals are summed
// here, once; the entry is never recomputed after this.
func (service *MealService) BuildEntry(foods []models.FoodItem, imageDataURL string) (models.MealEntry, error) {
	if len(foods) == 0 {
		return models.MealEntry{}, ErrNoFoods
	}

	entry := models.MealEntry{
		ID:           uuid.NewString(),
		Timestamp:    service.now(),
		ImageDataURL: imageDataURL,
		Foods:        foods,
	}
	for _, food := range foods {
		entry.TotalCalories += food.Calories
		entry.TotalProtein += food.Protein
		entry.TotalCarbs += food.Carbs
		entry.TotalFat += food.Fat
	}
	return entry, nil
}

// SaveEntry appends an entry to the given day, defaulting to today.
func (service *MealService) SaveEntry(entry models.MealEntry, dateKey string) (string, error) {
	if dateKey == "" {
		dateKey = models.DateKey(service.now())
	}
	if err := service.logs.Append(entry, dateKey); err != nil {
		return "", ErrSaveMealFailed
	}
	return dateKey, nil
}

func (service *MealService) DeleteEntry(entryID string, dateKey string) error {
	if dateKey == "" {
		dateKey = models.DateKey(service.now())
	}
	return service.logs.Remove(entryID, dateKey)
}

func (service *MealService) DayLog(dateKey string) (models.DailyLog, error) {
	if dateKey == "" {
		dateKey = models.DateKey(service.now())
	}
	return service.logs.Get(dateKey)
}

func (service *MealService) Dates() ([]string, error) {
	return service.logs.ListDates()
}

func (service *MealService) StorageUsage() (store.Usage, error) {
	return service.logs.Usage()
}

func (service *MealService) PruneLog(daysToKeep int) error {
	return service.logs.Prune(daysToKeep)
}
