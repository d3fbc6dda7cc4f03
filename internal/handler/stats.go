package handler

import (
	"net/http"

	"mealsnap/internal/model"
	"mealsnap/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	daily *service.DailyService
}

func NewStatsHandler(daily *service.DailyService) *StatsHandler {
	return &StatsHandler{daily: daily}
}

// GET /daily-stats
func (h *StatsHandler) DailyStats(c *gin.Context) {
	rec, err := h.daily.ResolveToday(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DailyTotals{
		Calories: rec.Calories,
		Proteins: rec.Proteins,
		Carbs:    rec.Carbs,
		Fats:     rec.Fats,
		Streak:   rec.Streak,
	})
}

// POST /update-streak
func (h *StatsHandler) UpdateStreak(c *gin.Context) {
	streak, err := h.daily.BumpStreak(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "streak": streak})
}

// POST /reset-daily
func (h *StatsHandler) ResetDaily(c *gin.Context) {
	if err := h.daily.ResetDaily(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
