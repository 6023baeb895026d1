package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"portfolio-server/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PortfolioRepo is the primary system of record: a single-row portfolio
// table in the hosted Postgres. Reads take the most recently updated row;
// writes update only the columns present in the patch, or insert the
// first row if none exists yet.
//
// Two columns are named differently from the in-memory fields
// (hero_content, pdf_data); the rename happens here and nowhere else.
type PortfolioRepo struct {
	pool *pgxpool.Pool
}

func NewPortfolioRepo(pool *pgxpool.Pool) *PortfolioRepo {
	return &PortfolioRepo{pool: pool}
}

// FetchSnapshot reads the current portfolio row. Any error, including an
// empty table, is reported as absence; the coordinator's fallback chain
// is the recovery mechanism, not the caller.
func (r *PortfolioRepo) FetchSnapshot(ctx context.Context) (*domain.Snapshot, bool) {
	if r.pool == nil {
		return nil, false
	}

	var (
		exps, edu, skills, logos, brands, socials, hero []byte
		whatsapp, pdf                                   *string
	)
	err := r.pool.QueryRow(ctx, `SELECT experiences, education, skills, logos, brands, socials, hero_content, whatsapp, pdf_data
		FROM portfolio ORDER BY updated_at DESC LIMIT 1`).
		Scan(&exps, &edu, &skills, &logos, &brands, &socials, &hero, &whatsapp, &pdf)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			slog.Warn("portfolio fetch failed", "error", err)
		}
		return nil, false
	}

	snap := &domain.Snapshot{}
	decode := func(col string, raw []byte, dst interface{}) {
		if len(raw) == 0 {
			return
		}
		// malformed content is treated the same as absence, per column
		if err := json.Unmarshal(raw, dst); err != nil {
			slog.Warn("portfolio column undecodable", "column", col, "error", err)
		}
	}
	decode("experiences", exps, &snap.Experiences)
	decode("education", edu, &snap.Education)
	decode("skills", skills, &snap.Skills)
	decode("logos", logos, &snap.Logos)
	decode("brands", brands, &snap.Brands)
	decode("socials", socials, &snap.Socials)
	decode("hero_content", hero, &snap.HeroContent)
	if whatsapp != nil {
		snap.Whatsapp = *whatsapp
	}
	if pdf != nil {
		snap.PDFData = *pdf
	}
	return snap, true
}

// SaveSnapshot upserts the portfolio row from a partial or full patch.
// Present fields overwrite their columns and updated_at is stamped; a
// missing row is inserted with created_at as well. Returns false on any
// failure without raising.
func (r *PortfolioRepo) SaveSnapshot(ctx context.Context, p *domain.Patch) bool {
	if r.pool == nil || p == nil {
		return false
	}

	cols, vals, err := patchColumns(p)
	if err != nil {
		slog.Warn("portfolio patch not encodable", "error", err)
		return false
	}
	if len(cols) == 0 {
		return true
	}

	var id int64
	err = r.pool.QueryRow(ctx, `SELECT id FROM portfolio ORDER BY updated_at DESC LIMIT 1`).Scan(&id)
	switch {
	case err == nil:
		sets := make([]string, 0, len(cols)+1)
		for i, c := range cols {
			sets = append(sets, fmt.Sprintf("%s = $%d", c, i+1))
		}
		sets = append(sets, "updated_at = now()")
		vals = append(vals, id)
		q := fmt.Sprintf("UPDATE portfolio SET %s WHERE id = $%d", strings.Join(sets, ", "), len(vals))
		if _, err := r.pool.Exec(ctx, q, vals...); err != nil {
			slog.Warn("portfolio update failed", "error", err)
			return false
		}
		return true
	case errors.Is(err, pgx.ErrNoRows):
		ph := make([]string, len(cols))
		for i := range cols {
			ph[i] = fmt.Sprintf("$%d", i+1)
		}
		q := fmt.Sprintf("INSERT INTO portfolio (%s, created_at, updated_at) VALUES (%s, now(), now())",
			strings.Join(cols, ", "), strings.Join(ph, ", "))
		if _, err := r.pool.Exec(ctx, q, vals...); err != nil {
			slog.Warn("portfolio insert failed", "error", err)
			return false
		}
		return true
	default:
		slog.Warn("portfolio existence check failed", "error", err)
		return false
	}
}

// patchColumns maps present patch fields to their storage column names
// and encoded values.
func patchColumns(p *domain.Patch) ([]string, []interface{}, error) {
	var cols []string
	var vals []interface{}

	addJSON := func(col string, v interface{}) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		cols = append(cols, col)
		vals = append(vals, b)
		return nil
	}

	if p.Experiences != nil {
		if err := addJSON("experiences", *p.Experiences); err != nil {
			return nil, nil, err
		}
	}
	if p.Education != nil {
		if err := addJSON("education", *p.Education); err != nil {
			return nil, nil, err
		}
	}
	if p.Skills != nil {
		if err := addJSON("skills", *p.Skills); err != nil {
			return nil, nil, err
		}
	}
	if p.Logos != nil {
		if err := addJSON("logos", *p.Logos); err != nil {
			return nil, nil, err
		}
	}
	if p.Brands != nil {
		if err := addJSON("brands", *p.Brands); err != nil {
			return nil, nil, err
		}
	}
	if p.Socials != nil {
		if err := addJSON("socials", *p.Socials); err != nil {
			return nil, nil, err
		}
	}
	if p.HeroContent != nil {
		if err := addJSON("hero_content", *p.HeroContent); err != nil {
			return nil, nil, err
		}
	}
	if p.Whatsapp != nil {
		cols = append(cols, "whatsapp")
		vals = append(vals, *p.Whatsapp)
	}
	if p.PDFData != nil {
		cols = append(cols, "pdf_data")
		vals = append(vals, *p.PDFData)
	}
	return cols, vals, nil
}
