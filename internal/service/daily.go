package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mealsnap/internal/model"

	"gorm.io/gorm"
)

// DailyService owns the per-date aggregate rows. The database handle is the
// only state; concurrent requests share nothing else.
type DailyService struct {
	db *gorm.DB
}

func NewDailyService(db *gorm.DB) *DailyService { return &DailyService{db: db} }

func today() string { return time.Now().Format("2006-01-02") }

// ResolveToday returns today's aggregate row, creating it on first access.
// A new row continues the streak from the most recent earlier date, or starts
// at 1 when no earlier date exists.
func (s *DailyService) ResolveToday(ctx context.Context) (*model.DailyNutrition, error) {
	return resolveDay(s.db.WithContext(ctx), today())
}

func resolveDay(db *gorm.DB, date string) (*model.DailyNutrition, error) {
	var rec model.DailyNutrition
	err := db.Where("date = ?", date).First(&rec).Error
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query daily record: %w", err)
	}

	streak := 1
	var prev model.DailyNutrition
	err = db.Where("date < ?", date).Order("date DESC").First(&prev).Error
	if err == nil {
		streak = prev.Streak + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query previous record: %w", err)
	}

	rec = model.DailyNutrition{Date: date, Streak: streak}
	if err := db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create daily record: %w", err)
	}
	return &rec, nil
}

// ApplyMeal inserts the meal row and recomputes today's totals as the sum over
// all of today's meals, in one transaction so a late failure cannot leave the
// meal written without the totals (or vice versa). Deriving the totals from
// the meal rows instead of accumulating in place keeps them correct even if a
// previous update was lost.
func (s *DailyService) ApplyMeal(ctx context.Context, name string, n Nutrition) (*model.Meal, *model.DailyNutrition, error) {
	date := today()
	meal := model.Meal{
		Date:     date,
		Name:     name,
		Calories: n.Calories,
		Proteins: n.Proteins,
		Carbs:    n.Carbs,
		Fats:     n.Fats,
	}
	var rec *model.DailyNutrition

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = resolveDay(tx, date)
		if err != nil {
			return err
		}

		if err := tx.Create(&meal).Error; err != nil {
			return fmt.Errorf("insert meal: %w", err)
		}

		var sums struct {
			Calories float64
			Proteins float64
			Carbs    float64
			Fats     float64
		}
		err = tx.Model(&model.Meal{}).
			Select("COALESCE(SUM(calories),0) AS calories, COALESCE(SUM(proteins),0) AS proteins, COALESCE(SUM(carbs),0) AS carbs, COALESCE(SUM(fats),0) AS fats").
			Where("date = ?", date).
			Scan(&sums).Error
		if err != nil {
			return fmt.Errorf("sum meals: %w", err)
		}

		err = tx.Model(rec).Updates(map[string]interface{}{
			"calories": sums.Calories,
			"proteins": sums.Proteins,
			"carbs":    sums.Carbs,
			"fats":     sums.Fats,
		}).Error
		if err != nil {
			return fmt.Errorf("update totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &meal, rec, nil
}

// BumpStreak increments today's streak by one. Explicit manual action; no
// validation against calendar gaps.
func (s *DailyService) BumpStreak(ctx context.Context) (int, error) {
	db := s.db.WithContext(ctx)
	rec, err := resolveDay(db, today())
	if err != nil {
		return 0, err
	}
	rec.Streak++
	if err := db.Model(rec).Update("streak", rec.Streak).Error; err != nil {
		return 0, fmt.Errorf("update streak: %w", err)
	}
	return rec.Streak, nil
}

// ResetDaily zeroes today's cumulative fields. Meal history and streak are
// left alone.
func (s *DailyService) ResetDaily(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	rec, err := resolveDay(db, today())
	if err != nil {
		return err
	}
	err = db.Model(rec).Updates(map[string]interface{}{
		"calories": 0,
		"proteins": 0,
		"carbs":    0,
		"fats":     0,
	}).Error
	if err != nil {
		return fmt.Errorf("reset totals: %w", err)
	}
	return nil
}
