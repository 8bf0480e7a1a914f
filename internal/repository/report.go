package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// dbtx — подмножество *pgxpool.Pool, которое использует репозиторий.
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ReportRepository struct {
	db  dbtx
	now func() time.Time
}

type ReportLog struct {
	ID              uuid.UUID
	UserID          string
	SessionID       string
	Grade           string
	Score           int
	ProfilePayload  []byte
	ReportPayload   []byte
	Narrative       string
	NarrativeSource string
	CreatedAt       time.Time
}

// NewReportRepository создает репозиторий журнала отчетов.
func NewReportRepository(db dbtx) *ReportRepository {
	return &ReportRepository{db: db, now: time.Now}
}

// Save сохраняет сгенерированный отчет и возвращает его идентификатор.
func (r *ReportRepository) Save(ctx context.Context, log ReportLog) (uuid.UUID, error) {
	if len(log.ReportPayload) == 0 {
		return uuid.Nil, fmt.Errorf("%w: report payload is empty", ErrInvalid)
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO financial_health_reports
		 (id, user_id, session_id, grade, score, profile_payload, report_payload, narrative, narrative_source)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, NULLIF($6, '')::jsonb, $7::jsonb, NULLIF($8, ''), $9)`,
		log.ID,
		strings.TrimSpace(log.UserID),
		strings.TrimSpace(log.SessionID),
		log.Grade,
		log.Score,
		string(log.ProfilePayload),
		string(log.ReportPayload),
		log.Narrative,
		log.NarrativeSource,
	)
	if err != nil {
		return uuid.Nil, err
	}

	return log.ID, nil
}

// GetByID возвращает сохраненный отчет пользователя.
func (r *ReportRepository) GetByID(ctx context.Context, userID string, reportID uuid.UUID) (ReportLog, error) {
	var (
		log       ReportLog
		sessionID *string
		narrative *string
		profile   *string
		report    string
	)

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, session_id, grade, score, profile_payload::text, report_payload::text, narrative, narrative_source, created_at
		 FROM financial_health_reports
		 WHERE id = $1 AND user_id = $2`,
		reportID, userID,
	).Scan(&log.ID, &log.UserID, &sessionID, &log.Grade, &log.Score, &profile, &report, &narrative, &log.NarrativeSource, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return log, ErrNotFound
		}
		return log, err
	}

	if sessionID != nil {
		log.SessionID = *sessionID
	}
	if narrative != nil {
		log.Narrative = *narrative
	}
	if profile != nil {
		log.ProfilePayload = []byte(*profile)
	}
	log.ReportPayload = []byte(report)

	return log, nil
}

// PurgeOlderThan удаляет отчеты старше retention и возвращает число удаленных строк.
func (r *ReportRepository) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("%w: retention must be positive", ErrInvalid)
	}

	cutoff := r.now().Add(-retention)
	tag, err := r.db.Exec(ctx, `DELETE FROM financial_health_reports WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
