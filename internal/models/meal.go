package models

import "time"

// DateKeyFormat is the calendar-day key used to partition the meal log.
const DateKeyFormat = "2006-01-02"

// FoodItem is one detected food with its estimated macros. Instances are
// produced only by the response normalizer and never mutated afterwards.
type FoodItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Amount   string  `json:"amount"`
}

// MealEntry is one analyzed photo saved into a daily log. Totals are summed
// once at save time and never recomputed.
type MealEntry struct {
	ID            string     `json:"id"`
	Timestamp     time.Time  `json:"timestamp"`
	ImageDataURL  string     `json:"imageDataUrl,omitempty"`
	Foods         []FoodItem `json:"foods"`
	TotalCalories float64    `json:"totalCalories"`
	TotalProtein  float64    `json:"totalProtein"`
	TotalCarbs    float64    `json:"totalCarbs"`
	TotalFat      float64    `json:"totalFat"`
}

// DailyLog holds the meals recorded for one calendar day, in append order.
type DailyLog struct {
	Date  string      `json:"date"`
	Meals []MealEntry `json:"meals"`
}

func DateKey(t time.Time) string {
	return t.Format(DateKeyFormat)
}
