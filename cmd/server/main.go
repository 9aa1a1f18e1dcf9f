package main

import (
	"flag"
	"log"
	"os"

	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/config"
	"github.com/Janakrish1/Plan2Ship/internal/eventbus"
	"github.com/Janakrish1/Plan2Ship/internal/eventsubscriber"
	"github.com/Janakrish1/Plan2Ship/internal/handler"
	"github.com/Janakrish1/Plan2Ship/internal/pkg/database"
	"github.com/Janakrish1/Plan2Ship/internal/pkg/imagegen"
	"github.com/Janakrish1/Plan2Ship/internal/pkg/llm"
	"github.com/Janakrish1/Plan2Ship/internal/repository"
	"github.com/Janakrish1/Plan2Ship/internal/router"
	"github.com/Janakrish1/Plan2Ship/internal/service"
	"github.com/Janakrish1/Plan2Ship/internal/storage"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("server starting...")

	cfg := config.GetConfig()

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	store, err := storage.NewStore(cfg.Data.ProjectsDir, cfg.Data.UploadsDir)
	if err != nil {
		log.Fatalf("Failed to initialize project store: %v", err)
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	issueRepo := repository.NewIssueRepository(db)
	artifactRepo := repository.NewArtifactRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	bus := eventbus.NewBus()
	eventsubscriber.NewAuditSubscriber(auditRepo).Register(bus)

	analysisService := service.NewAnalysisService(cfg, llmClient)
	projectService := service.NewProjectService(cfg, store, analysisService, bus)
	wireframeService := service.NewWireframeService(cfg, store, imagegen.NewClient(cfg))
	metricsService := service.NewMetricsService(cfg, store)
	boardService := service.NewBoardService(issueRepo, artifactRepo, approvalRepo, auditRepo)

	projectHandler := handler.NewProjectHandler(projectService)
	fileHandler := handler.NewFileHandler(store, wireframeService, metricsService)
	boardHandler := handler.NewBoardHandler(boardService)

	r := router.Setup(cfg, projectHandler, fileHandler, boardHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
