package app

import (
	"lingua_edu_backend/docs"
	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/middleware"
	"lingua_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerCatalogRoutes(authGroup, c)
		a.registerQuizRoutes(authGroup, c)
		a.registerProgressRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}
}

func (a *App) registerCatalogRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/categories", c.catalog.ListCategories)
	group.GET("/categories/:slug", c.catalog.GetCategory)
	group.GET("/categories/:slug/lessons", c.catalog.ListLessons)
	group.GET("/lessons/:id", c.catalog.GetLesson)
}

func (a *App) registerQuizRoutes(group *gin.RouterGroup, c *controllers) {
	quiz := group.Group("/quiz")
	{
		quiz.POST("/attempt", c.quiz.SubmitLessonQuiz)
		quiz.GET("/random", c.quiz.GetRandomQuiz)
		quiz.POST("/random/attempt", c.quiz.SubmitRandomQuiz)
	}
}

func (a *App) registerProgressRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/me", c.auth.Me)
	group.GET("/me/summary", c.progress.GetSummary)
	group.POST("/progress", c.progress.UpsertProgress)
}
