package models

const (
	SexMale   = "male"
	SexFemale = "female"
)

const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

// UserProfile describes the person the log belongs to. Weight is kilograms,
// height is centimeters.
type UserProfile struct {
	Sex           string  `json:"sex"`
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	ActivityLevel string  `json:"activityLevel"`
	GoalCalories  int     `json:"goalCalories,omitempty"`
}

func ValidSex(sex string) bool {
	return sex == SexMale || sex == SexFemale
}

func ValidActivityLevel(level string) bool {
	switch level {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}
