package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	err    error
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, value := range r.values {
		switch d := dest[i].(type) {
		case *uuid.UUID:
			*d = value.(uuid.UUID)
		case *string:
			*d = value.(string)
		case **string:
			if value != nil {
				s := value.(string)
				*d = &s
			}
		case *int:
			*d = value.(int)
		case *time.Time:
			*d = value.(time.Time)
		}
	}
	return nil
}

type fakeDB struct {
	execSQL  string
	execArgs []any
	execTag  pgconn.CommandTag
	execErr  error
	row      fakeRow
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	f.execArgs = args
	return f.execTag, f.execErr
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return f.row
}

// TestReportRepositorySave проверяет генерацию id и параметры вставки.
func TestReportRepositorySave(t *testing.T) {
	db := &fakeDB{}
	repo := NewReportRepository(db)

	id, err := repo.Save(context.Background(), ReportLog{
		UserID:          " user-1 ",
		Grade:           "B",
		Score:           84,
		ReportPayload:   []byte(`{"healthScore":{}}`),
		NarrativeSource: "template",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, id)
	assert.Contains(t, db.execSQL, "INSERT INTO financial_health_reports")
	assert.Equal(t, id, db.execArgs[0])
	assert.Equal(t, "user-1", db.execArgs[1])
	assert.Equal(t, 84, db.execArgs[4])
}

// TestReportRepositorySaveRejectsEmptyReport проверяет отказ без тела отчета.
func TestReportRepositorySaveRejectsEmptyReport(t *testing.T) {
	_, err := NewReportRepository(&fakeDB{}).Save(context.Background(), ReportLog{})
	assert.ErrorIs(t, err, ErrInvalid)
}

// TestReportRepositorySaveError проверяет проброс ошибки БД.
func TestReportRepositorySaveError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection refused")}

	_, err := NewReportRepository(db).Save(context.Background(), ReportLog{ReportPayload: []byte(`{}`)})
	assert.EqualError(t, err, "connection refused")
}

// TestReportRepositoryGetByID проверяет чтение и маппинг NULL-полей.
func TestReportRepositoryGetByID(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{id, "user-1", nil, "C", 72, nil, `{"a":1}`, "text", "groq", created}}}

	log, err := NewReportRepository(db).GetByID(context.Background(), "user-1", id)
	require.NoError(t, err)

	assert.Equal(t, id, log.ID)
	assert.Equal(t, "", log.SessionID)
	assert.Nil(t, log.ProfilePayload)
	assert.Equal(t, `{"a":1}`, string(log.ReportPayload))
	assert.Equal(t, "text", log.Narrative)
	assert.Equal(t, created, log.CreatedAt)
}

// TestReportRepositoryGetByIDNotFound проверяет маппинг pgx.ErrNoRows.
func TestReportRepositoryGetByIDNotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}

	_, err := NewReportRepository(db).GetByID(context.Background(), "user-1", uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestReportRepositoryPurge проверяет вычисление границы и число удаленных строк.
func TestReportRepositoryPurge(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("DELETE 3")}
	repo := NewReportRepository(db)
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	deleted, err := repo.PurgeOlderThan(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, now.Add(-30*24*time.Hour), db.execArgs[0])

	_, err = repo.PurgeOlderThan(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalid)
}
