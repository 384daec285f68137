package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"resumelens/resume-analyzer/internal/config"
	"resumelens/resume-analyzer/internal/handlers"
	"resumelens/resume-analyzer/internal/repositories"
	"resumelens/resume-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("✅ Config loaded successfully")

	if cfg.Gemini.APIKey == "" {
		log.Println("⚠️  GEMINI_API_KEY is not set; analysis requests will fail until it is configured")
	}

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	historyRepo := repositories.NewHistoryRepository(db)
	log.Println("✅ Repositories initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	storageService, err := services.NewStorageFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}
	if storageService != nil {
		if err := storageService.EnsureUploadDir(); err != nil {
			log.Fatalf("❌ Failed to create upload directory: %v", err)
		}
		log.Printf("✅ Upload archive enabled (%s)\n", cfg.Storage.Driver)
	}

	geminiService := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
		int32(cfg.Qdrant.VectorSize),
	)
	log.Println("✅ Services initialized successfully")

	// Similarity index is optional
	var (
		indexer    services.IndexerService
		indexQueue services.IndexQueue
		worker     services.Worker
	)
	if cfg.Qdrant.URL != "" {
		qdrantService, err := services.NewQdrantService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			cfg.Qdrant.VectorSize,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		defer qdrantService.Close()

		if err := qdrantService.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")

		indexer = services.NewIndexerService(historyRepo, geminiService, qdrantService)
		worker = services.NewWorker(indexer, cfg.Worker.Concurrency, cfg.Worker.QueueSize)
		worker.Start(ctx)
		indexQueue = worker
	} else {
		log.Println("⚠️  QDRANT_URL not set, similarity search disabled")
	}

	var notifier services.Notifier
	if cfg.Broker.URL != "" {
		notifier, err = services.NewAMQPNotifier(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			log.Fatalf("❌ Failed to initialize RabbitMQ: %v", err)
		}
		defer notifier.Close()
	}

	analyzerService := services.NewAnalyzerService(
		historyRepo,
		geminiService,
		services.NewDocumentParserService(),
		storageService,
		indexQueue,
		notifier,
	)
	log.Println("✅ Analyzer service initialized")

	// Initialize Handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, cfg.Storage.MaxFileSize)
	historyHandler := handlers.NewHistoryHandler(historyRepo, indexer)
	log.Println("✅ Handlers initialized")

	app := handlers.NewApp(handlers.AppConfig{
		AppName:     "Resume Analyzer API",
		MaxFileSize: cfg.Storage.MaxFileSize,
		StaticDir:   cfg.Server.StaticDir,
		Production:  cfg.IsProduction(),
	}, analyzeHandler, historyHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if worker != nil {
			worker.Stop()
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
