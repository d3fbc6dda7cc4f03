package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type ThemeHandler struct{}

func NewThemeHandler() *ThemeHandler { return &ThemeHandler{} }

func currentTheme(c *gin.Context) string {
	sess := sessions.Default(c)
	if theme, ok := sess.Get("theme").(string); ok && theme == "dark" {
		return "dark"
	}
	return "light"
}

// GET /
func (h *ThemeHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Theme": currentTheme(c)})
}

// GET /toggle-theme
func (h *ThemeHandler) ToggleTheme(c *gin.Context) {
	theme := "dark"
	if currentTheme(c) == "dark" {
		theme = "light"
	}
	sess := sessions.Default(c)
	sess.Set("theme", theme)
	if err := sess.Save(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
