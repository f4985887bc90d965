// internal/repo/repo.go
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/WAJoseph/christian-martyrs-honor/internal/models"
)

// Repo defines the methods the rest of the app uses.
type Repo interface {
	ListMartyrs(ctx context.Context) ([]models.Martyr, error)
	GetMartyr(ctx context.Context, id int64) (models.Martyr, error)
	CreateMartyr(ctx context.Context, m models.Martyr) (models.Martyr, error)
	UpdateMartyr(ctx context.Context, id int64, m models.Martyr) (models.Martyr, error)
	DeleteMartyr(ctx context.Context, id int64) error

	ListTestimonies(ctx context.Context) ([]models.Testimony, error)
	ListApprovedTestimonies(ctx context.Context) ([]models.Testimony, error)
	GetTestimony(ctx context.Context, id int64) (models.Testimony, error)
	CreateTestimony(ctx context.Context, t models.Testimony) (models.Testimony, error)
	// UpdateTestimony keeps the stored date when t.Date is zero.
	UpdateTestimony(ctx context.Context, id int64, t models.Testimony) (models.Testimony, error)
	DeleteTestimony(ctx context.Context, id int64) error

	ListCenturies(ctx context.Context) ([]models.TimelineCentury, error)
	GetCentury(ctx context.Context, id int64) (models.TimelineCentury, error)
	CreateCentury(ctx context.Context, century string) (models.TimelineCentury, error)
	UpdateCentury(ctx context.Context, id int64, century string) (models.TimelineCentury, error)
	DeleteCentury(ctx context.Context, id int64) error

	ListEntries(ctx context.Context) ([]models.TimelineEntry, error)
	GetEntry(ctx context.Context, id int64) (models.TimelineEntry, error)
	CreateEntry(ctx context.Context, e models.TimelineEntry) (models.TimelineEntry, error)
	UpdateEntry(ctx context.Context, id int64, e models.TimelineEntry) (models.TimelineEntry, error)
	DeleteEntry(ctx context.Context, id int64) error

	Timeline(ctx context.Context) ([]models.TimelineSection, error)

	// ResetArchive removes every row; used before seeding.
	ResetArchive(ctx context.Context) error
	// PingContext runs a trivial query.
	PingContext(ctx context.Context) error
}

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type pgRepo struct{ db DBTX }

func New(db DBTX) Repo { return &pgRepo{db: db} }

// WithTx runs fn against a Repo bound to a transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, r Repo) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(ctx, New(tx))
}

func (p *pgRepo) PingContext(ctx context.Context) error {
	var one int
	return p.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

func (p *pgRepo) ResetArchive(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx,
		`TRUNCATE testimonies, timeline_entries, timeline_centuries, martyrs RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("reset archive: %w", err)
	}
	return nil
}

// ---------------- Helpers ----------------

type scanner interface {
	Scan(dest ...any) error
}

// dbErr maps driver errors onto the model sentinels.
func dbErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503", "23514", "22001":
			return fmt.Errorf("%w: %s", models.ErrInvalidInput, pgErr.Message)
		case "23505":
			return fmt.Errorf("%w: %s", models.ErrConflict, pgErr.Message)
		}
	}
	return err
}

// affected turns a zero-row write into ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return dbErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func toInt8(id *int64) pgtype.Int8 {
	if id == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *id, Valid: true}
}

func fromInt8(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func textOrEmpty(t pgtype.Text) string {
	if t.Valid {
		return t.String
	}
	return ""
}
