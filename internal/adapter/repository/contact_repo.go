package repository

import (
	"context"
	"errors"
	"log/slog"

	"portfolio-server/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

var errPoolUnavailable = errors.New("messages database not available")

// ContactRepo is append-only storage for inbound contact messages. The
// core never updates, deletes or compacts this table; listing is an
// administrative read off the hot load path.
type ContactRepo struct {
	pool *pgxpool.Pool
}

func NewContactRepo(pool *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{pool: pool}
}

func (r *ContactRepo) SaveContactMessage(ctx context.Context, name, email, message string) bool {
	if r.pool == nil {
		return false
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO contact_messages (name, email, message, created_at) VALUES ($1, $2, $3, now())`,
		name, email, message)
	if err != nil {
		slog.Warn("contact message insert failed", "error", err)
		return false
	}
	return true
}

// FetchContactMessages returns all messages, newest first.
func (r *ContactRepo) FetchContactMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	if r.pool == nil {
		return nil, errPoolUnavailable
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, message, created_at FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
