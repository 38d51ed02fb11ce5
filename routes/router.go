package routes

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/chanceboard/config"
	"github.com/cppla/chanceboard/controllers"
	"github.com/cppla/chanceboard/middleware"
	"github.com/cppla/chanceboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, source controllers.DatasetSource) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	// Access log goes to its own rolling file, at the application log level
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(ginzap.GinzapWithConfig(gl, &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        true,
			SkipPaths:  []string{"/health"},
			Context:    utils.RequestIDFields,
		}))
		r.Use(ginzap.CustomRecoveryWithZap(gl, false, utils.RecoveryResponse))
	} else {
		utils.Sugar.Warnw("gin access log disabled", "path", cfg.GinPath, "error", err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.VisitRecorder(db))

	index := filepath.Join(cfg.StaticDir, "index.html")
	r.Static("/static", cfg.StaticDir)
	r.GET("/", func(c *gin.Context) {
		c.File(index)
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	comboController := controllers.NewComboController(source)
	drawController := controllers.NewDrawController(source)
	chatController := controllers.NewChatController(db)
	statsController := controllers.NewStatsController(db, source)
	optionsController := controllers.NewOptionsController()

	r.GET("/charts/hot", comboController.HotChart)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	api.GET("/options", optionsController.GetOptions)
	api.GET("/notice", optionsController.GetNotice)
	api.GET("/stats", statsController.GetStats)

	api.GET("/combos/hot", comboController.Hot)
	api.GET("/combos/hot.csv", comboController.HotCSV)
	api.GET("/draws", drawController.ListDraws)
	api.GET("/draws.csv", drawController.DrawsCSV)

	chat := api.Group("/chat")
	chat.GET("/messages", chatController.ListMessages)
	chat.POST("/messages", middleware.RateLimit(cfg.ChatRateLimitPerMinute), chatController.PostMessage)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			utils.Error(ctx, http.StatusNotFound, 40401, "static asset not found")
			return
		}
		ctx.Status(http.StatusOK)
		ctx.File(index)
	})

	return r
}
