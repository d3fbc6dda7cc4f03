package model

import "time"

// DailyNutrition is the running total for one calendar date. One row per date;
// the streak is fixed at creation time and only changes via the explicit bump.
type DailyNutrition struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Date     string  `gorm:"type:date;uniqueIndex;not null" json:"date"`
	Calories float64 `gorm:"default:0" json:"calories"`
	Proteins float64 `gorm:"default:0" json:"proteins"`
	Carbs    float64 `gorm:"default:0" json:"carbs"`
	Fats     float64 `gorm:"default:0" json:"fats"`
	Streak   int     `gorm:"default:0" json:"streak"`
}

// Meal is one logged food item. Rows are written once and never updated.
type Meal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"type:date;index;not null" json:"date"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Calories  float64   `json:"calories"`
	Proteins  float64   `json:"proteins"`
	Carbs     float64   `json:"carbs"`
	Fats      float64   `json:"fats"`
	CreatedAt time.Time `json:"created_at"`
}

func (DailyNutrition) TableName() string { return "daily_nutrition" }
func (Meal) TableName() string           { return "meals" }
