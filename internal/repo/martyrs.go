package repo

import (
	"context"
	"log/slog"

	"github.com/WAJoseph/christian-martyrs-honor/internal/models"
)

// ---------------- Martyrs ----------------

const martyrColumns = `id, name, title, feast_day, year, era, icon_url, description, prayer,
	story, icon_description, intercessory_prayer, created_at, updated_at`

func scanMartyr(s scanner) (models.Martyr, error) {
	var m models.Martyr
	err := s.Scan(&m.ID, &m.Name, &m.Title, &m.FeastDay, &m.Year, &m.Era, &m.IconURL,
		&m.Description, &m.Prayer, &m.Story, &m.IconDescription, &m.IntercessoryPrayer,
		&m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (p *pgRepo) ListMartyrs(ctx context.Context) ([]models.Martyr, error) {
	slog.DebugContext(ctx, "ListMartyrs")
	rows, err := p.db.QueryContext(ctx, `SELECT `+martyrColumns+` FROM martyrs ORDER BY name ASC`)
	if err != nil {
		slog.ErrorContext(ctx, "ListMartyrs failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.Martyr{}
	for rows.Next() {
		m, err := scanMartyr(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "ListMartyrs failed", "err", err)
		return nil, err
	}
	slog.DebugContext(ctx, "ListMartyrs ok", "count", len(out))
	return out, nil
}

func (p *pgRepo) GetMartyr(ctx context.Context, id int64) (models.Martyr, error) {
	slog.DebugContext(ctx, "GetMartyr", "martyr_id", id)
	m, err := scanMartyr(p.db.QueryRowContext(ctx, `SELECT `+martyrColumns+` FROM martyrs WHERE id = $1`, id))
	return m, dbErr(err)
}

func (p *pgRepo) CreateMartyr(ctx context.Context, m models.Martyr) (models.Martyr, error) {
	slog.DebugContext(ctx, "CreateMartyr", "name", m.Name)
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO martyrs (name, title, feast_day, year, era, icon_url, description, prayer,
			story, icon_description, intercessory_prayer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+martyrColumns,
		m.Name, m.Title, m.FeastDay, m.Year, string(m.Era), m.IconURL, m.Description, m.Prayer,
		m.Story, m.IconDescription, m.IntercessoryPrayer)
	out, err := scanMartyr(row)
	if err != nil {
		slog.ErrorContext(ctx, "CreateMartyr failed", "err", err)
		return models.Martyr{}, dbErr(err)
	}
	return out, nil
}

func (p *pgRepo) UpdateMartyr(ctx context.Context, id int64, m models.Martyr) (models.Martyr, error) {
	slog.DebugContext(ctx, "UpdateMartyr", "martyr_id", id)
	row := p.db.QueryRowContext(ctx, `
		UPDATE martyrs SET name = $2, title = $3, feast_day = $4, year = $5, era = $6,
			icon_url = $7, description = $8, prayer = $9, story = $10,
			icon_description = $11, intercessory_prayer = $12, updated_at = now()
		WHERE id = $1
		RETURNING `+martyrColumns,
		id, m.Name, m.Title, m.FeastDay, m.Year, string(m.Era), m.IconURL, m.Description, m.Prayer,
		m.Story, m.IconDescription, m.IntercessoryPrayer)
	out, err := scanMartyr(row)
	if err != nil {
		slog.ErrorContext(ctx, "UpdateMartyr failed", "martyr_id", id, "err", err)
		return models.Martyr{}, dbErr(err)
	}
	return out, nil
}

func (p *pgRepo) DeleteMartyr(ctx context.Context, id int64) error {
	slog.DebugContext(ctx, "DeleteMartyr", "martyr_id", id)
	return affected(p.db.ExecContext(ctx, `DELETE FROM martyrs WHERE id = $1`, id))
}
