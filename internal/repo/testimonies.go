package repo

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/WAJoseph/christian-martyrs-honor/internal/models"
)

// ---------------- Testimonies ----------------

const testimonyColumns = `id, name, title, content, date, status, featured, created_at`

func scanTestimony(s scanner) (models.Testimony, error) {
	var t models.Testimony
	err := s.Scan(&t.ID, &t.Name, &t.Title, &t.Content, &t.Date, &t.Status, &t.Featured, &t.CreatedAt)
	return t, err
}

func (p *pgRepo) listTestimonies(ctx context.Context, query string, args ...any) ([]models.Testimony, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "ListTestimonies failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.Testimony{}
	for rows.Next() {
		t, err := scanTestimony(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p *pgRepo) ListTestimonies(ctx context.Context) ([]models.Testimony, error) {
	slog.DebugContext(ctx, "ListTestimonies")
	return p.listTestimonies(ctx, `SELECT `+testimonyColumns+` FROM testimonies ORDER BY date DESC, id DESC`)
}

func (p *pgRepo) ListApprovedTestimonies(ctx context.Context) ([]models.Testimony, error) {
	slog.DebugContext(ctx, "ListApprovedTestimonies")
	return p.listTestimonies(ctx,
		`SELECT `+testimonyColumns+` FROM testimonies WHERE status = $1 ORDER BY date DESC, id DESC`,
		string(models.TestimonyApproved))
}

func (p *pgRepo) GetTestimony(ctx context.Context, id int64) (models.Testimony, error) {
	slog.DebugContext(ctx, "GetTestimony", "testimony_id", id)
	t, err := scanTestimony(p.db.QueryRowContext(ctx, `SELECT `+testimonyColumns+` FROM testimonies WHERE id = $1`, id))
	return t, dbErr(err)
}

// optionalTime is NULL for the zero time so COALESCE keeps the column.
func optionalTime(t models.Testimony) pgtype.Timestamptz {
	if t.Date.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t.Date, Valid: true}
}

func (p *pgRepo) CreateTestimony(ctx context.Context, t models.Testimony) (models.Testimony, error) {
	slog.DebugContext(ctx, "CreateTestimony", "status", t.Status)
	if t.Status == "" {
		t.Status = models.TestimonyPending
	}
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO testimonies (name, title, content, date, status, featured)
		VALUES ($1, $2, $3, COALESCE($4, now()), $5, $6)
		RETURNING `+testimonyColumns,
		t.Name, t.Title, t.Content, optionalTime(t), string(t.Status), t.Featured)
	out, err := scanTestimony(row)
	if err != nil {
		slog.ErrorContext(ctx, "CreateTestimony failed", "err", err)
		return models.Testimony{}, dbErr(err)
	}
	return out, nil
}

func (p *pgRepo) UpdateTestimony(ctx context.Context, id int64, t models.Testimony) (models.Testimony, error) {
	slog.DebugContext(ctx, "UpdateTestimony", "testimony_id", id, "status", t.Status)
	row := p.db.QueryRowContext(ctx, `
		UPDATE testimonies SET name = $2, title = $3, content = $4,
			date = COALESCE($5, date), status = $6, featured = $7
		WHERE id = $1
		RETURNING `+testimonyColumns,
		id, t.Name, t.Title, t.Content, optionalTime(t), string(t.Status), t.Featured)
	out, err := scanTestimony(row)
	if err != nil {
		slog.ErrorContext(ctx, "UpdateTestimony failed", "testimony_id", id, "err", err)
		return models.Testimony{}, dbErr(err)
	}
	return out, nil
}

func (p *pgRepo) DeleteTestimony(ctx context.Context, id int64) error {
	slog.DebugContext(ctx, "DeleteTestimony", "testimony_id", id)
	return affected(p.db.ExecContext(ctx, `DELETE FROM testimonies WHERE id = $1`, id))
}
