package repo

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WAJoseph/christian-martyrs-honor/internal/models"
)

func newMock(t *testing.T) (Repo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return New(db), mock, db
}

var martyrCols = []string{"id", "name", "title", "feast_day", "year", "era", "icon_url", "description",
	"prayer", "story", "icon_description", "intercessory_prayer", "created_at", "updated_at"}

var ts = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func martyrRow(rows *sqlmock.Rows, id int64, name string) *sqlmock.Rows {
	return rows.AddRow(id, name, "First Martyr", "December 27", "AD 36", "Apostolic", "/stephen.jpg",
		"Stoned in Jerusalem", "Pray for us", "", "", "", ts, ts)
}

func TestListMartyrs(t *testing.T) {
	r, mock, _ := newMock(t)
	rows := sqlmock.NewRows(martyrCols)
	martyrRow(rows, 2, "St. Agnes")
	martyrRow(rows, 1, "St. Stephen")
	mock.ExpectQuery(regexp.QuoteMeta("FROM martyrs ORDER BY name ASC")).WillReturnRows(rows)

	got, err := r.ListMartyrs(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "St. Agnes", got[0].Name)
	assert.Equal(t, models.EraApostolic, got[1].Era)
	assert.Equal(t, ts, got[1].CreatedAt)
}

func TestListMartyrsEmptyIsNotNil(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery("FROM martyrs").WillReturnRows(sqlmock.NewRows(martyrCols))

	got, err := r.ListMartyrs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetMartyrNotFound(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM martyrs WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := r.GetMartyr(context.Background(), 9)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateMartyr(t *testing.T) {
	r, mock, _ := newMock(t)
	in := models.Martyr{Name: "St. Stephen", Title: "First Martyr", Era: models.EraApostolic}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO martyrs")).
		WithArgs("St. Stephen", "First Martyr", "", "", "Apostolic", "", "", "", "", "", "").
		WillReturnRows(martyrRow(sqlmock.NewRows(martyrCols), 7, "St. Stephen"))

	got, err := r.CreateMartyr(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
}

func TestUpdateMartyrNotFound(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE martyrs SET")).WillReturnError(sql.ErrNoRows)

	_, err := r.UpdateMartyr(context.Background(), 3, models.Martyr{Name: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteMartyr(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM martyrs WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM martyrs WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, r.DeleteMartyr(context.Background(), 1))
	assert.ErrorIs(t, r.DeleteMartyr(context.Background(), 2), models.ErrNotFound)
}

var testimonyCols = []string{"id", "name", "title", "content", "date", "status", "featured", "created_at"}

func TestListApprovedTestimonies(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM testimonies WHERE status = $1 ORDER BY date DESC")).
		WithArgs("approved").
		WillReturnRows(sqlmock.NewRows(testimonyCols).
			AddRow(int64(1), "Maria S.", "Strength", "...", ts, "approved", true, ts))

	got, err := r.ListApprovedTestimonies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.TestimonyApproved, got[0].Status)
	assert.True(t, got[0].Featured)
}

func TestCreateTestimonyDefaults(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO testimonies")).
		WithArgs("Maria", "Title", "Body", nil, "pending", false).
		WillReturnRows(sqlmock.NewRows(testimonyCols).
			AddRow(int64(5), "Maria", "Title", "Body", ts, "pending", false, ts))

	got, err := r.CreateTestimony(context.Background(), models.Testimony{Name: "Maria", Title: "Title", Content: "Body"})
	require.NoError(t, err)
	assert.Equal(t, models.TestimonyPending, got.Status)
}

func TestUpdateTestimonyKeepsDate(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("date = COALESCE($5, date)")).
		WithArgs(int64(5), "Maria", "Title", "Body", nil, "approved", true).
		WillReturnRows(sqlmock.NewRows(testimonyCols).
			AddRow(int64(5), "Maria", "Title", "Body", ts, "approved", true, ts))

	got, err := r.UpdateTestimony(context.Background(), 5, models.Testimony{
		Name: "Maria", Title: "Title", Content: "Body", Status: models.TestimonyApproved, Featured: true,
	})
	require.NoError(t, err)
	assert.Equal(t, ts, got.Date)
}

func TestCreateCenturyConflict(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO timeline_centuries")).
		WithArgs("1st Century").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	_, err := r.CreateCentury(context.Background(), "1st Century")
	assert.ErrorIs(t, err, models.ErrConflict)
}

var entryCols = []string{"id", "name", "year", "description", "century_id", "martyr_id", "c_id", "century"}

func TestCreateEntry(t *testing.T) {
	r, mock, _ := newMock(t)
	martyr := int64(4)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO timeline_entries")).
		WithArgs("St. Stephen", "AD 36", "First martyr", int64(1), int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.id = $1")).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(int64(11), "St. Stephen", "AD 36", "First martyr", int64(1), int64(4), int64(1), "1st Century"))

	got, err := r.CreateEntry(context.Background(), models.TimelineEntry{
		Name: "St. Stephen", Year: "AD 36", Description: "First martyr", CenturyID: 1, MartyrID: &martyr,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	require.NotNil(t, got.MartyrID)
	assert.Equal(t, int64(4), *got.MartyrID)
	require.NotNil(t, got.Century)
	assert.Equal(t, "1st Century", got.Century.Century)
}

func TestCreateEntryUnknownCentury(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO timeline_entries")).
		WithArgs("x", "y", "z", int64(99), nil).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})

	_, err := r.CreateEntry(context.Background(), models.TimelineEntry{Name: "x", Year: "y", Description: "z", CenturyID: 99})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateEntryNotFound(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE timeline_entries SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := r.UpdateEntry(context.Background(), 3, models.TimelineEntry{Name: "x", CenturyID: 1})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListEntriesNullMartyr(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY c.century ASC, e.year ASC")).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(int64(1), "St. James", "AD 62", "Thrown from temple", int64(1), nil, int64(1), "1st Century"))

	got, err := r.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].MartyrID)
}

func TestTimelineGroupsByCentury(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN timeline_entries")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "century", "name", "year", "description"}).
			AddRow(int64(1), "1st Century", "St. Stephen", "AD 36", "First martyr").
			AddRow(int64(1), "1st Century", "St. James", "AD 62", "Brother of Jesus").
			AddRow(int64(2), "2nd Century", "St. Ignatius", "AD 108", "Bishop of Antioch").
			AddRow(int64(3), "3rd Century", nil, nil, nil))

	got, err := r.Timeline(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "1st Century", got[0].Century)
	assert.Len(t, got[0].Martyrs, 2)
	assert.Equal(t, models.TimelineMartyr{Name: "St. James", Year: "AD 62", Description: "Brother of Jesus"}, got[0].Martyrs[1])
	assert.Len(t, got[1].Martyrs, 1)
	assert.NotNil(t, got[2].Martyrs)
	assert.Empty(t, got[2].Martyrs)
}

func TestPingContext(t *testing.T) {
	r, mock, _ := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1")).WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1")).WillReturnError(errors.New("connection refused"))

	assert.NoError(t, r.PingContext(context.Background()))
	assert.Error(t, r.PingContext(context.Background()))
}

func TestWithTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		_, mock, db := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("TRUNCATE").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := WithTx(context.Background(), db, func(ctx context.Context, r Repo) error {
			return r.ResetArchive(ctx)
		})
		assert.NoError(t, err)
	})

	t.Run("rollback", func(t *testing.T) {
		_, mock, db := newMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := WithTx(context.Background(), db, func(context.Context, Repo) error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}
