package repository

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// CacheRepo is the local key-value store, the server-side analog of the
// browser's localStorage. One row per namespaced snapshot-field key, all
// operations synchronous against an embedded SQLite file. It is the last
// resort of the read fallback chain and the first stop of every write.
type CacheRepo struct {
	db *sqlx.DB
}

func NewCacheRepo(db *sqlx.DB) *CacheRepo {
	return &CacheRepo{db: db}
}

// Get returns the stored value for key, or ok=false when the key is
// absent. Read errors are logged and reported as absence.
func (r *CacheRepo) Get(key string) ([]byte, bool) {
	var value string
	err := r.db.Get(&value, `SELECT value FROM cache WHERE key = ?`, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return []byte(value), true
}

// Set writes value under key, replacing any previous value. A failed
// write (disk full, locked file) is fatal for that write only; callers
// log and move on.
func (r *CacheRepo) Set(key string, value []byte) error {
	_, err := r.db.Exec(`INSERT INTO cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(value))
	return err
}

func (r *CacheRepo) Remove(key string) error {
	_, err := r.db.Exec(`DELETE FROM cache WHERE key = ?`, key)
	return err
}
