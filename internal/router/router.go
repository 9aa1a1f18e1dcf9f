package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/Janakrish1/Plan2Ship/config"
	"github.com/Janakrish1/Plan2Ship/internal/handler"
)

func Setup(
	cfg *config.Config,
	projectHandler *handler.ProjectHandler,
	fileHandler *handler.FileHandler,
	boardHandler *handler.BoardHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User", "X-Admin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{".png"})))

	api := r.Group("/api")
	{
		projects := api.Group("/projects")
		{
			projects.POST("/create", projectHandler.Create)
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.PATCH("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
			projects.POST("/:id/analyze-stage", projectHandler.AnalyzeStage)
			projects.POST("/:id/brainstorm", projectHandler.Brainstorm)
			projects.POST("/:id/wireframe-image", fileHandler.GenerateWireframeImage)
			projects.GET("/:id/wireframe-image/:filename", fileHandler.ServeWireframeImage)
			projects.POST("/:id/metrics-charts", fileHandler.GenerateMetricsCharts)
			projects.GET("/:id/metrics-charts/:filename", fileHandler.ServeMetricsChart)
		}

		board := api.Group("/board")
		{
			board.POST("/issues", boardHandler.CreateIssue)
			board.GET("/issues", boardHandler.ListIssues)
			board.GET("/issues/:id", boardHandler.GetIssue)
			board.PATCH("/issues/:id", boardHandler.UpdateIssue)
			board.POST("/issues/:id/transition", boardHandler.Transition)
			board.POST("/issues/:id/artifacts", boardHandler.CreateArtifact)
			board.POST("/artifacts/:artifactId/approve", boardHandler.ApproveArtifact)
			board.GET("/audit", boardHandler.ListAudit)
		}
	}

	return r
}
