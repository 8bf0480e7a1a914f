package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/financial-health/internal/auth"
	"example.com/financial-health/internal/health"
	"example.com/financial-health/internal/metrics"
	"example.com/financial-health/internal/narrative"
	"example.com/financial-health/internal/notifications"
	"example.com/financial-health/internal/repository"
)

const (
	narrativeSourceTemplate = "template"
	narrativeSourceFallback = "fallback"
)

// Narrator описывает готовый отчет текстом; реализован ai.NarrativeService.
type Narrator interface {
	Narrate(ctx context.Context, report health.Report) (string, string, []byte, error)
}

// ReportStore — журнал сгенерированных отчетов.
type ReportStore interface {
	Save(ctx context.Context, log repository.ReportLog) (uuid.UUID, error)
	GetByID(ctx context.Context, userID string, reportID uuid.UUID) (repository.ReportLog, error)
}

type FinancialHealthHandler struct {
	Calculator *health.Calculator
	Narrator   Narrator
	Provider   string
	Reports    ReportStore
	Notifier   *notifications.Hub
	Metrics    *metrics.Metrics
}

// NewFinancialHealthHandler создает обработчик отчетов о финансовом здоровье.
// Narrator и reports могут быть nil: тогда используется шаблонный текст и отчеты не сохраняются.
func NewFinancialHealthHandler(calculator *health.Calculator, narrator Narrator, provider string, reports ReportStore, notifier *notifications.Hub, m *metrics.Metrics) *FinancialHealthHandler {
	if calculator == nil {
		calculator = health.NewCalculator(nil)
	}

	return &FinancialHealthHandler{
		Calculator: calculator,
		Narrator:   narrator,
		Provider:   provider,
		Reports:    reports,
		Notifier:   notifier,
		Metrics:    m,
	}
}

type FinancialHealthResponse struct {
	Success         bool          `json:"success"`
	Report          health.Report `json:"report"`
	Narrative       string        `json:"narrative"`
	NarrativeSource string        `json:"narrativeSource"`
	GeneratedAt     time.Time     `json:"generatedAt"`
	UserID          string        `json:"userId,omitempty"`
	SessionID       string        `json:"sessionId,omitempty"`
	ReportID        string        `json:"reportId,omitempty"`
}

type StoredReportResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	SessionID       string          `json:"sessionId,omitempty"`
	Grade           string          `json:"grade"`
	Score           int             `json:"score"`
	Report          json.RawMessage `json:"report"`
	Narrative       string          `json:"narrative"`
	NarrativeSource string          `json:"narrativeSource"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Generate строит отчет о финансовом здоровье по профилю из запроса.
func (h *FinancialHealthHandler) Generate(c echo.Context) error {
	req, profile, err := decodeProfileRequest(c)
	if err != nil {
		h.Metrics.IncFailure("validation")
		return respondRequestError(c, err)
	}

	report, err := h.calculate(profile)
	if err != nil {
		return h.computeError(c, err)
	}

	ctx := c.Request().Context()
	text, source := h.narrate(ctx, report)

	reportID := h.storeReport(ctx, req, report, text, source)
	h.publishReport(req, report, reportID)

	slog.Info("financial health report generated",
		slog.String("grade", string(report.HealthScore.Overall)),
		slog.Int("score", report.HealthScore.Grade),
		slog.Int("recommendations", len(report.Recommendations)),
		slog.String("narrative_source", source),
		slog.String("session_id", req.SessionID),
	)

	response := FinancialHealthResponse{
		Success:         true,
		Report:          report,
		Narrative:       text,
		NarrativeSource: source,
		GeneratedAt:     report.GeneratedAt,
		UserID:          req.UserID,
		SessionID:       req.SessionID,
	}
	if reportID != uuid.Nil {
		response.ReportID = reportID.String()
	}

	return c.JSON(http.StatusOK, response)
}

// GetReport возвращает сохраненный отчет текущего пользователя.
func (h *FinancialHealthHandler) GetReport(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if h.Reports == nil {
		return unavailable(c, "report storage is disabled")
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid report id")
	}

	stored, err := h.Reports.GetByID(c.Request().Context(), userID, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "report not found")
		}
		slog.Error("failed to load report", slog.String("report_id", reportID.String()), slog.String("error", err.Error()))
		return serverError(c)
	}

	return c.JSON(http.StatusOK, StoredReportResponse{
		ID:              stored.ID.String(),
		UserID:          stored.UserID,
		SessionID:       stored.SessionID,
		Grade:           stored.Grade,
		Score:           stored.Score,
		Report:          json.RawMessage(stored.ReportPayload),
		Narrative:       stored.Narrative,
		NarrativeSource: stored.NarrativeSource,
		CreatedAt:       stored.CreatedAt,
	})
}

func (h *FinancialHealthHandler) calculate(profile health.Profile) (health.Report, error) {
	started := time.Now()
	report, err := h.Calculator.Calculate(profile)
	if err != nil {
		return health.Report{}, err
	}

	h.Metrics.ObserveReport(string(report.HealthScore.Overall), time.Since(started))
	return report, nil
}

func (h *FinancialHealthHandler) computeError(c echo.Context, err error) error {
	if errors.Is(err, health.ErrInvalidProfile) {
		h.Metrics.IncFailure("validation")
		return c.JSON(http.StatusBadRequest, errorWithDetails{Error: msgProfileInvalid, Details: []string{err.Error()}})
	}

	h.Metrics.IncFailure("compute")
	slog.Error("failed to generate financial health report", slog.String("error", err.Error()))
	return c.JSON(http.StatusInternalServerError, errorWithDetails{
		Error:   "Failed to generate financial health report",
		Details: err.Error(),
	})
}

// narrate никогда не возвращает ошибку: при сбое модели используется шаблон.
func (h *FinancialHealthHandler) narrate(ctx context.Context, report health.Report) (string, string) {
	if h.Narrator == nil {
		h.Metrics.IncNarrative(narrativeSourceTemplate)
		return narrative.Summary(report), narrativeSourceTemplate
	}

	text, _, raw, err := h.Narrator.Narrate(ctx, report)
	if err != nil {
		slog.Warn("narrative fallback used",
			slog.String("provider", h.Provider),
			slog.Int("raw_bytes", len(raw)),
			slog.String("error", err.Error()),
		)
		h.Metrics.IncNarrative(narrativeSourceFallback)
		return narrative.Summary(report), narrativeSourceFallback
	}

	h.Metrics.IncNarrative(h.Provider)
	return text, h.Provider
}

func (h *FinancialHealthHandler) storeReport(ctx context.Context, req FinancialHealthRequest, report health.Report, text, source string) uuid.UUID {
	if h.Reports == nil {
		return uuid.Nil
	}

	reportPayload, err := json.Marshal(report)
	if err != nil {
		slog.Warn("failed to encode report", slog.String("error", err.Error()))
		return uuid.Nil
	}
	profilePayload, _ := json.Marshal(req.ProfileData)

	id, err := h.Reports.Save(ctx, repository.ReportLog{
		UserID:          req.UserID,
		SessionID:       req.SessionID,
		Grade:           string(report.HealthScore.Overall),
		Score:           report.HealthScore.Grade,
		ProfilePayload:  profilePayload,
		ReportPayload:   reportPayload,
		Narrative:       text,
		NarrativeSource: source,
	})
	if err != nil {
		slog.Warn("failed to store report", slog.String("error", err.Error()))
		return uuid.Nil
	}

	return id
}

func (h *FinancialHealthHandler) publishReport(req FinancialHealthRequest, report health.Report, reportID uuid.UUID) {
	if h.Notifier == nil || req.UserID == "" {
		return
	}

	data := map[string]interface{}{
		"grade":           report.HealthScore.Grade,
		"overall":         string(report.HealthScore.Overall),
		"recommendations": len(report.Recommendations),
		"session_id":      req.SessionID,
	}
	if reportID != uuid.Nil {
		data["report_id"] = reportID.String()
	}

	delivered := h.Notifier.Publish(req.UserID, notifications.Event{
		Type: notifications.EventFinancialHealthReady,
		Data: data,
	})
	h.Metrics.AddDelivered(delivered)
}
