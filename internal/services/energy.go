package services

import (
	"math"

	"github.com/snapplate/snapplate/internal/models"
)

var activityMultipliers = map[string]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// BasalMetabolicRate implements the Mifflin-St Jeor equation. Weight is
// kilograms, height centimeters.
func BasalMetabolicRate(sex string, weight float64, height float64, age int) float64 {
	base := 10*weight + 6.25*height - 5*float64(age)
	if sex == models.SexMale {
		return base + 5
	}
	return base - 161
}

// TotalDailyEnergy returns the profile's estimated daily calorie
// expenditure, rounded to a whole kcal.
func TotalDailyEnergy(profile models.UserProfile) int {
	bmr := BasalMetabolicRate(profile.Sex, profile.Weight, profile.Height, profile.Age)
	multiplier, ok := activityMultipliers[profile.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers[models.ActivitySedentary]
	}
	return int(math.Round(bmr * multiplier))
}
