package handler

import (
	"context"
	"io"
	"net/http"

	"mealsnap/internal/logger"
	"mealsnap/internal/model"
	"mealsnap/internal/service"

	"github.com/gin-gonic/gin"
)

// MealAnalyzer produces the model's raw text estimate for a food photo.
type MealAnalyzer interface {
	AnalyzeMeal(ctx context.Context, image []byte, mimeType, foodName, foodQuantity string) (string, error)
}

type MealHandler struct {
	analyzer MealAnalyzer
	daily    *service.DailyService
}

func NewMealHandler(analyzer MealAnalyzer, daily *service.DailyService) *MealHandler {
	return &MealHandler{analyzer: analyzer, daily: daily}
}

// POST /upload  multipart: image (required), food_name, food_quantity
func (h *MealHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, service.ErrNoImage)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, service.ErrNoImage)
		return
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil || len(image) == 0 {
		fail(c, service.ErrNoImage)
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	foodName := c.PostForm("food_name")
	foodQuantity := c.PostForm("food_quantity")

	raw, err := h.analyzer.AnalyzeMeal(c.Request.Context(), image, mimeType, foodName, foodQuantity)
	if err != nil {
		fail(c, err)
		return
	}

	n, err := service.ParseNutrition(raw)
	if err != nil {
		fail(c, err)
		return
	}

	_, rec, err := h.daily.ApplyMeal(c.Request.Context(), foodName, n)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info("meal logged", "name", foodName, "calories", n.Calories, "daily_calories", rec.Calories)

	c.JSON(http.StatusOK, model.UploadResponse{
		Success: true,
		CurrentMeal: model.MealNutrition{
			Name:     foodName,
			Calories: n.Calories,
			Proteins: n.Proteins,
			Carbs:    n.Carbs,
			Fats:     n.Fats,
		},
		DailyTotal: model.DailyTotals{
			Calories: rec.Calories,
			Proteins: rec.Proteins,
			Carbs:    rec.Carbs,
			Fats:     rec.Fats,
			Streak:   rec.Streak,
		},
	})
}
