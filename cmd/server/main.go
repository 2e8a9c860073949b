package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/docushield/document-portal/internal/config"
	"github.com/docushield/document-portal/internal/database"
	"github.com/docushield/document-portal/internal/handler"
	"github.com/docushield/document-portal/internal/queue"
	"github.com/docushield/document-portal/internal/repository"
	"github.com/docushield/document-portal/internal/router"
	"github.com/docushield/document-portal/internal/service"
	"github.com/docushield/document-portal/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Nil when Redis is unreachable; rate limiting degrades to no-op and
	// blocked checks go straight to the database.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; login rate limiting disabled, blocked checks uncached")
	}

	store, err := storage.New(context.Background(), config.LoadStorageConfig())
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	users := repository.NewUserRepo(db)
	documents := repository.NewDocumentRepo(db)
	blocklist := service.NewBlocklist(users, rdb, config.BlockedCacheTTL())

	authHandler := handler.NewAuthHandler(cfg, users)
	adminCustomers := handler.NewAdminCustomerHandler(cfg, users, documents, blocklist)
	adminDocuments := handler.NewAdminDocumentHandler(documents)
	customerDocuments := handler.NewCustomerDocumentHandler(documents, store)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, config.LoadRateLimitConfig(), rdb, blocklist.IsBlocked)
	router.RegisterAdmin(e, adminCustomers, adminDocuments, cfg.JWTSecret, blocklist.IsBlocked)
	router.RegisterCustomer(e, customerDocuments, cfg.JWTSecret, blocklist.IsBlocked)

	// Audit consumer for review decisions; runs its own reconnect loop.
	go func() {
		if err := queue.StartReviewConsumer(); err != nil {
			log.Printf("review consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
