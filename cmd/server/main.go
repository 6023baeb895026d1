package main

import (
	"context"
	"log"
	"os"

	"portfolio-server/internal/adapter/github"
	httpadapter "portfolio-server/internal/adapter/http"
	repo "portfolio-server/internal/adapter/repository"
	"portfolio-server/internal/infrastructure/migration"
	"portfolio-server/internal/usecase"
	infra "portfolio-server/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx := context.Background()

	// infra setup; the table store is optional, the local cache is not
	pool, err := infra.NewPortfolioPool(ctx)
	if err != nil {
		log.Printf("warning: portfolio DB not available: %v", err)
	} else if err := migration.RunMigrations(ctx, pool); err != nil {
		log.Printf("warning: migrations failed: %v", err)
	}

	cacheDB, err := infra.NewCacheDB()
	if err != nil {
		log.Fatalf("local cache unavailable: %v", err)
	}

	tableStore := repo.NewPortfolioRepo(pool)
	contactStore := repo.NewContactRepo(pool)
	cacheStore := repo.NewCacheRepo(cacheDB)
	githubStore := github.NewStore()

	coordinator := usecase.NewCoordinator(tableStore, githubStore, cacheStore)

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "ladyadmin"
		log.Println("WARNING: using default admin password, set ADMIN_PASSWORD")
	}
	signingKey := []byte(os.Getenv("SESSION_SECRET"))
	if len(signingKey) == 0 {
		// sessions won't survive a restart without a configured secret
		signingKey = []byte(uuid.NewString())
		log.Println("WARNING: SESSION_SECRET not set, using an ephemeral signing key")
	}
	gate := usecase.NewGate(adminPassword, signingKey)

	var notifier httpadapter.Notifier
	if m := infra.NewMailer(); m.Configured() {
		notifier = m
	} else {
		log.Println("contact email notifications disabled, SMTP not configured")
	}

	app := fiber.New()

	h := httpadapter.NewHandler(coordinator, gate, contactStore, notifier)
	h.Register(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
