package main

import (
	"embed"
	"flag"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"mealsnap/internal/config"
	"mealsnap/internal/handler"
	"mealsnap/internal/logger"
	"mealsnap/internal/model"
	"mealsnap/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed web
var webFS embed.FS

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	// Missing API key fails here, not on the first upload.
	if cfg.Gemini.APIKey == "" {
		slog.Error("gemini api key not configured, set GOOGLE_API_KEY")
		os.Exit(1)
	}

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.DailyNutrition{}, &model.Meal{}); err != nil {
		slog.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	aiSvc := service.NewGeminiService(
		cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model,
		time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second,
	)
	dailySvc := service.NewDailyService(db)

	mealH := handler.NewMealHandler(aiSvc, dailySvc)
	statsH := handler.NewStatsHandler(dailySvc)
	themeH := handler.NewThemeHandler()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(sessions.Sessions("mealsnap", cookie.NewStore([]byte(cfg.Session.Secret))))

	r.SetHTMLTemplate(template.Must(template.ParseFS(webFS, "web/index.html")))
	staticFS, _ := fs.Sub(webFS, "web/static")
	r.StaticFS("/static", http.FS(staticFS))

	r.GET("/", themeH.Index)
	r.GET("/toggle-theme", themeH.ToggleTheme)
	r.POST("/upload", mealH.Upload)
	r.GET("/daily-stats", statsH.DailyStats)
	r.POST("/update-streak", statsH.UpdateStreak)
	r.POST("/reset-daily", statsH.ResetDaily)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
