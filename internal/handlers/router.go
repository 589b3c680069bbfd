package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/betlegend/sitetools/internal/middleware"
)

type RouterConfig struct {
	CORSOrigin string
	TokenHash  string
	Runs       RunReader
	Runner     Runner
}

// NewRouter wires the report API. Everything but /ping needs the bearer
// token; starting a run is rate limited harder than reading results.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.SecurityHeaders())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", PingHandler())

	api := r.Group("/")
	api.Use(middleware.RateLimit(60, time.Minute), middleware.TokenAuth(cfg.TokenHash))
	{
		api.GET("/runs", ListRunsHandler(cfg.Runs))
		api.GET("/runs/:id", GetRunHandler(cfg.Runs))
		api.POST("/validate", middleware.RateLimit(5, time.Minute), ValidateHandler(cfg.Runner))
	}
	return r
}
