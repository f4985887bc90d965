package repo

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/WAJoseph/christian-martyrs-honor/internal/models"
)

// ---------------- Timeline centuries ----------------

func (p *pgRepo) ListCenturies(ctx context.Context) ([]models.TimelineCentury, error) {
	slog.DebugContext(ctx, "ListCenturies")
	rows, err := p.db.QueryContext(ctx, `SELECT id, century FROM timeline_centuries ORDER BY century ASC`)
	if err != nil {
		slog.ErrorContext(ctx, "ListCenturies failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.TimelineCentury{}
	for rows.Next() {
		var c models.TimelineCentury
		if err := rows.Scan(&c.ID, &c.Century); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *pgRepo) GetCentury(ctx context.Context, id int64) (models.TimelineCentury, error) {
	slog.DebugContext(ctx, "GetCentury", "century_id", id)
	var c models.TimelineCentury
	err := p.db.QueryRowContext(ctx, `SELECT id, century FROM timeline_centuries WHERE id = $1`, id).
		Scan(&c.ID, &c.Century)
	return c, dbErr(err)
}

func (p *pgRepo) CreateCentury(ctx context.Context, century string) (models.TimelineCentury, error) {
	slog.DebugContext(ctx, "CreateCentury", "century", century)
	var c models.TimelineCentury
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO timeline_centuries (century) VALUES ($1) RETURNING id, century`, century).
		Scan(&c.ID, &c.Century)
	if err != nil {
		slog.ErrorContext(ctx, "CreateCentury failed", "err", err)
		return models.TimelineCentury{}, dbErr(err)
	}
	return c, nil
}

func (p *pgRepo) UpdateCentury(ctx context.Context, id int64, century string) (models.TimelineCentury, error) {
	slog.DebugContext(ctx, "UpdateCentury", "century_id", id, "century", century)
	var c models.TimelineCentury
	err := p.db.QueryRowContext(ctx,
		`UPDATE timeline_centuries SET century = $2 WHERE id = $1 RETURNING id, century`, id, century).
		Scan(&c.ID, &c.Century)
	if err != nil {
		slog.ErrorContext(ctx, "UpdateCentury failed", "century_id", id, "err", err)
		return models.TimelineCentury{}, dbErr(err)
	}
	return c, nil
}

// DeleteCentury also removes the century's entries (ON DELETE CASCADE).
func (p *pgRepo) DeleteCentury(ctx context.Context, id int64) error {
	slog.DebugContext(ctx, "DeleteCentury", "century_id", id)
	return affected(p.db.ExecContext(ctx, `DELETE FROM timeline_centuries WHERE id = $1`, id))
}

// ---------------- Timeline entries ----------------

const entrySelect = `
	SELECT e.id, e.name, e.year, e.description, e.century_id, e.martyr_id, c.id, c.century
	FROM timeline_entries e
	JOIN timeline_centuries c ON c.id = e.century_id`

func scanEntry(s scanner) (models.TimelineEntry, error) {
	var (
		e        models.TimelineEntry
		c        models.TimelineCentury
		martyrID pgtype.Int8
	)
	if err := s.Scan(&e.ID, &e.Name, &e.Year, &e.Description, &e.CenturyID, &martyrID, &c.ID, &c.Century); err != nil {
		return models.TimelineEntry{}, err
	}
	e.MartyrID = fromInt8(martyrID)
	e.Century = &c
	return e, nil
}

func (p *pgRepo) ListEntries(ctx context.Context) ([]models.TimelineEntry, error) {
	slog.DebugContext(ctx, "ListEntries")
	rows, err := p.db.QueryContext(ctx, entrySelect+` ORDER BY c.century ASC, e.year ASC, e.id ASC`)
	if err != nil {
		slog.ErrorContext(ctx, "ListEntries failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.TimelineEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *pgRepo) GetEntry(ctx context.Context, id int64) (models.TimelineEntry, error) {
	slog.DebugContext(ctx, "GetEntry", "entry_id", id)
	e, err := scanEntry(p.db.QueryRowContext(ctx, entrySelect+` WHERE e.id = $1`, id))
	return e, dbErr(err)
}

func (p *pgRepo) CreateEntry(ctx context.Context, e models.TimelineEntry) (models.TimelineEntry, error) {
	slog.DebugContext(ctx, "CreateEntry", "century_id", e.CenturyID)
	var id int64
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO timeline_entries (name, year, description, century_id, martyr_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		e.Name, e.Year, e.Description, e.CenturyID, toInt8(e.MartyrID)).Scan(&id)
	if err != nil {
		slog.ErrorContext(ctx, "CreateEntry failed", "err", err)
		return models.TimelineEntry{}, dbErr(err)
	}
	return p.GetEntry(ctx, id)
}

func (p *pgRepo) UpdateEntry(ctx context.Context, id int64, e models.TimelineEntry) (models.TimelineEntry, error) {
	slog.DebugContext(ctx, "UpdateEntry", "entry_id", id)
	err := affected(p.db.ExecContext(ctx, `
		UPDATE timeline_entries SET name = $2, year = $3, description = $4, century_id = $5, martyr_id = $6
		WHERE id = $1`,
		id, e.Name, e.Year, e.Description, e.CenturyID, toInt8(e.MartyrID)))
	if err != nil {
		slog.ErrorContext(ctx, "UpdateEntry failed", "entry_id", id, "err", err)
		return models.TimelineEntry{}, err
	}
	return p.GetEntry(ctx, id)
}

func (p *pgRepo) DeleteEntry(ctx context.Context, id int64) error {
	slog.DebugContext(ctx, "DeleteEntry", "entry_id", id)
	return affected(p.db.ExecContext(ctx, `DELETE FROM timeline_entries WHERE id = $1`, id))
}

// ---------------- Grouped timeline ----------------

// Timeline returns every century, in order, with its entries. Centuries
// without entries are included with an empty list.
func (p *pgRepo) Timeline(ctx context.Context) ([]models.TimelineSection, error) {
	slog.DebugContext(ctx, "Timeline")
	rows, err := p.db.QueryContext(ctx, `
		SELECT c.id, c.century, e.name, e.year, e.description
		FROM timeline_centuries c
		LEFT JOIN timeline_entries e ON e.century_id = c.id
		ORDER BY c.century ASC, c.id ASC, e.id ASC`)
	if err != nil {
		slog.ErrorContext(ctx, "Timeline failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.TimelineSection{}
	lastID := int64(-1)
	for rows.Next() {
		var (
			centuryID         int64
			century           string
			name, year, descr pgtype.Text
		)
		if err := rows.Scan(&centuryID, &century, &name, &year, &descr); err != nil {
			return nil, err
		}
		if centuryID != lastID {
			out = append(out, models.TimelineSection{Century: century, Martyrs: []models.TimelineMartyr{}})
			lastID = centuryID
		}
		if !name.Valid {
			continue
		}
		sec := &out[len(out)-1]
		sec.Martyrs = append(sec.Martyrs, models.TimelineMartyr{
			Name:        textOrEmpty(name),
			Year:        textOrEmpty(year),
			Description: textOrEmpty(descr),
		})
	}
	return out, rows.Err()
}
