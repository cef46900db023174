package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"benchtrack/internal/config"
	"benchtrack/internal/handler"
	"benchtrack/internal/hub"
	"benchtrack/internal/repository/sqlite"
	"benchtrack/internal/service"
)

func main() {
	// Command line flags
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting benchtrack server...")

	// Load configuration
	var (
		cfg     *config.Config
		cfgFrom string
		err     error
	)
	if *configPath != "" {
		cfg, cfgFrom, err = config.LoadFromPath(*configPath)
	} else {
		cfg, cfgFrom, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgFrom != "" {
		log.Printf("Config loaded: %s", cfgFrom)
	} else {
		log.Println("No config file found, using defaults")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Open the store
	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	accounts := sqlite.NewAccountRepo(store)
	articles := sqlite.NewArticleRepo(store)

	// Material library categories live next to the database
	categories, err := config.NewCategoryStore(cfg.Library.CategoriesPath)
	if err != nil {
		log.Fatalf("Failed to load material categories: %v", err)
	}

	// Initialize event bus
	eventBus := service.NewEventBus()

	// Initialize SSE hub
	sseHub := hub.New()
	go sseHub.Run()

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go sseHub.Forward(eventChan)

	// Initialize services
	librarySvc := service.NewLibraryService(accounts, articles, eventBus)
	transferSvc := service.NewTransferService(accounts, articles, eventBus)
	materialSvc := service.NewMaterialService(accounts, articles, eventBus)

	libraryHandler := handler.NewLibraryHandler(librarySvc, transferSvc, materialSvc, categories)

	mux := http.NewServeMux()

	// Account routes
	mux.HandleFunc("GET /api/accounts", libraryHandler.ListAccounts)
	mux.HandleFunc("POST /api/accounts", libraryHandler.CreateAccount)
	mux.HandleFunc("GET /api/accounts/search", libraryHandler.SearchAccounts)
	mux.HandleFunc("GET /api/accounts/categories", libraryHandler.AccountCategories)
	mux.HandleFunc("GET /api/accounts/{id}", libraryHandler.GetAccount)
	mux.HandleFunc("PUT /api/accounts/{id}", libraryHandler.UpdateAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", libraryHandler.DeleteAccount)
	mux.HandleFunc("GET /api/accounts/{id}/stats", libraryHandler.AccountStats)
	mux.HandleFunc("GET /api/accounts/{id}/articles", libraryHandler.ListAccountArticles)

	// Article routes
	mux.HandleFunc("POST /api/articles", libraryHandler.CreateArticle)
	mux.HandleFunc("POST /api/articles/batch", libraryHandler.CreateArticles)
	mux.HandleFunc("POST /api/articles/batch-delete", libraryHandler.DeleteArticles)
	mux.HandleFunc("GET /api/articles/search", libraryHandler.SearchArticles)
	mux.HandleFunc("GET /api/articles/recent", libraryHandler.RecentArticles)
	mux.HandleFunc("GET /api/articles/{id}", libraryHandler.GetArticle)
	mux.HandleFunc("PUT /api/articles/{id}", libraryHandler.UpdateArticle)
	mux.HandleFunc("DELETE /api/articles/{id}", libraryHandler.DeleteArticle)

	// Transfer routes
	mux.HandleFunc("GET /api/export/{format}", libraryHandler.Export)
	mux.HandleFunc("POST /api/import/{format}", libraryHandler.Import)

	// Material library routes
	mux.HandleFunc("GET /api/material/articles", libraryHandler.MaterialArticles)
	mux.HandleFunc("POST /api/material/collect", libraryHandler.Collect)
	mux.HandleFunc("GET /api/material/categories", libraryHandler.MaterialCategories)
	mux.HandleFunc("POST /api/material/categories", libraryHandler.AddMaterialCategory)
	mux.HandleFunc("PUT /api/material/categories", libraryHandler.RenameMaterialCategory)
	mux.HandleFunc("DELETE /api/material/categories/{name}", libraryHandler.RemoveMaterialCategory)

	// Stats
	mux.HandleFunc("GET /api/stats", libraryHandler.Totals)

	// SSE events endpoint
	mux.Handle("GET /api/events", sseHub)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	// Create server
	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     finalHandler,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
