package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	migrations := []Migration{
		{
			Name: "create_portfolio_table",
			Up:   createPortfolioTable,
		},
		{
			Name: "create_contact_messages_table",
			Up:   createContactMessagesTable,
		},
		{
			Name: "add_brands_to_portfolio",
			Up:   addBrandsToPortfolio,
		},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func createPortfolioTable(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS portfolio (
			id BIGSERIAL PRIMARY KEY,
			experiences JSONB,
			education JSONB,
			skills JSONB,
			logos JSONB,
			socials JSONB,
			hero_content JSONB,
			whatsapp TEXT DEFAULT '',
			pdf_data TEXT DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

func createContactMessagesTable(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS contact_messages (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

// addBrandsToPortfolio adds the brands JSONB column if it doesn't exist
func addBrandsToPortfolio(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		ALTER TABLE portfolio
		ADD COLUMN IF NOT EXISTS brands JSONB;
	`
	if _, err := pool.Exec(ctx, query); err != nil {
		// Log the error but don't fail - the column may already exist
		slog.Warn("Error adding brands column (may already exist)", "error", err)
		return nil
	}
	return nil
}
