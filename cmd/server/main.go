package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clauseforge/internal"
	"clauseforge/internal/ai"
	"clauseforge/internal/config"
	"clauseforge/internal/handlers"
	"clauseforge/internal/services"
	"clauseforge/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	if err := internal.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize storage client based on configuration
	ctx := context.Background()
	var storageClient storage.Client

	switch cfg.Storage.Type {
	case "gcs":
		log.Printf("Initializing GCS storage with bucket: %s", cfg.GCS.BucketName)
		client, err := storage.NewGCSClient(ctx, cfg.GCS.BucketName, cfg.GCS.ProjectID, cfg.GCS.CredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize GCS client: %v", err)
		}
		storageClient = client
	default:
		log.Printf("Initializing local storage at: %s", cfg.Storage.LocalPath)
		client, err := storage.NewLocalClient(cfg.Storage.LocalPath)
		if err != nil {
			log.Fatalf("Failed to initialize local storage client: %v", err)
		}
		storageClient = client
	}
	defer storageClient.Close()

	// AI text capability
	aiClient := ai.NewClient(&cfg.AI)

	// PDF rendering
	pdfService, err := services.NewPDFService(cfg.Gotenberg.URL, cfg.Gotenberg.Timeout)
	if err != nil {
		log.Fatalf("Failed to initialize PDF service: %v", err)
	}
	log.Printf("PDF service initialized with URL: %s, timeout: %s", cfg.Gotenberg.URL, cfg.Gotenberg.Timeout)

	// Initialize services
	usageService := services.NewUsageService()
	clauseService := services.NewClauseService(aiClient, usageService)
	templateService := services.NewTemplateService()
	documentService := services.NewDocumentService(templateService)
	documentTypeService := services.NewDocumentTypeService()
	activityLogService := services.NewActivityLogService()

	bulkAssembler := services.NewBulkAssembler(templateService, documentService, pdfService, aiClient, storageClient, usageService)
	translationWorkflow := services.NewTranslationWorkflow(aiClient,
		services.NewGormPreviewStore(), services.NewGormTranslationStore(), documentService, usageService)

	// Seed the document type catalog if empty
	if err := documentTypeService.InitializeDefaults(); err != nil {
		log.Printf("Warning: Failed to initialize default document types: %v", err)
	}

	// Initialize handlers
	clauseHandler := handlers.NewClauseHandler(clauseService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	documentHandler := handlers.NewDocumentHandler(documentService, pdfService, storageClient)
	documentTypeHandler := handlers.NewDocumentTypeHandler(documentTypeService)
	bulkHandler := handlers.NewBulkHandler(bulkAssembler)
	translationHandler := handlers.NewTranslationHandler(translationWorkflow)

	// Initialize Gin router
	r := gin.Default()

	// Activity logging middleware
	r.Use(activityLogService.LoggingMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"storage":   cfg.Storage.Type,
		})
	})

	// Clauses
	r.POST("/clauses", clauseHandler.Create)
	r.POST("/clauses/batch", clauseHandler.BatchCreate)
	r.POST("/clauses/generate", clauseHandler.Generate)
	r.GET("/clauses", clauseHandler.List)
	r.GET("/clauses/:id", clauseHandler.Get)
	r.PUT("/clauses/:id", clauseHandler.Update)
	r.DELETE("/clauses/:id", clauseHandler.Delete)

	// Templates
	r.POST("/templates", templateHandler.Create)
	r.GET("/templates", templateHandler.List)
	r.GET("/templates/:id", templateHandler.Get)
	r.POST("/templates/:id/clauses", templateHandler.AddClause)
	r.DELETE("/templates/:id/clauses/:clauseId", templateHandler.RemoveClause)
	r.DELETE("/templates/:id", templateHandler.Delete)

	// Documents
	r.POST("/documents", documentHandler.Create)
	r.POST("/documents/from-template", documentHandler.FillTemplate)
	r.GET("/documents", documentHandler.List)
	r.GET("/documents/:id", documentHandler.Get)
	r.GET("/documents/:id/content", documentHandler.Content)
	r.GET("/documents/:id/download", documentHandler.Download)

	// Bulk generation
	r.POST("/bulk/template", bulkHandler.GenerateFromTemplate)
	r.POST("/bulk/ai", bulkHandler.GenerateWithAI)

	// Translations
	r.POST("/translations/preview", translationHandler.CreatePreview)
	r.POST("/translations/confirm", translationHandler.ConfirmPreview)

	// Document types
	r.GET("/document-types", documentTypeHandler.List)
	r.POST("/document-types", documentTypeHandler.Create)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := internal.CloseDB(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}

	log.Println("Server exited")
}
