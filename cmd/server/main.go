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

	"github.com/rs/cors"

	"github.com/abcconfig/mapeo-admin/internal/api"
	"github.com/abcconfig/mapeo-admin/internal/backend"
	"github.com/abcconfig/mapeo-admin/internal/config"
	"github.com/abcconfig/mapeo-admin/internal/db"
	"github.com/abcconfig/mapeo-admin/internal/export"
	"github.com/abcconfig/mapeo-admin/internal/gateway"
	"github.com/abcconfig/mapeo-admin/internal/ingestion"
	"github.com/abcconfig/mapeo-admin/internal/middleware"
	"github.com/abcconfig/mapeo-admin/internal/mock"
	"github.com/abcconfig/mapeo-admin/internal/repository"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	// Pick the backend once: the seeded in-memory store for local work, the
	// remote API when one is configured, the local Postgres store otherwise.
	var (
		mapeos   backend.MapeoService
		columnas backend.ColumnaService
	)
	switch {
	case cfg.API.UseMock:
		store := mock.NewStore(mock.WithLatency(cfg.Mock.Latency), mock.WithLogger(logger))
		mapeos, columnas = store, store
		log.Println("Using in-memory mock backend")
	case cfg.API.BaseURL != "":
		client := gateway.NewClient(cfg.API.BaseURL, gateway.WithLogger(logger))
		mapeos, columnas = client, client
		log.Printf("Using remote backend at %s", cfg.API.BaseURL)
	default:
		conn, err := db.NewConnection(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer conn.Close()

		if err := db.RunMigrations(cfg.Database.URL(), "./migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		mapeos = repository.NewMapeoRepository(conn.Pool)
		columnas = repository.NewColumnaRepository(conn.Pool)
		log.Println("Using Postgres backend")
	}

	exportHandler := export.NewHTTPHandler(export.NewService(mapeos, columnas))
	importHandler := ingestion.NewHTTPHandler(ingestion.NewService(columnas))

	router := api.NewRouter(mapeos, columnas, logger, exportHandler, importHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	handler := corsHandler.Handler(middleware.LoggingMiddleware(logger)(router))

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting mapeo admin server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
