package model

// MealNutrition is the estimate for a single logged meal as returned to the client.
type MealNutrition struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// DailyTotals is the running total plus streak for one date.
type DailyTotals struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Streak   int     `json:"streak"`
}

type UploadResponse struct {
	Success     bool          `json:"success"`
	CurrentMeal MealNutrition `json:"current_meal"`
	DailyTotal  DailyTotals   `json:"daily_total"`
}
