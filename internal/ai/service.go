package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"example.com/financial-health/internal/health"
)

const maxNarrativeLength = 12000

const narrativeSystemPrompt = "You are a professional financial health analyst. Base every statement on the provided report. Never recalculate or invent numbers."

type NarrativeService struct {
	client Client
}

// NewNarrativeService создает сервис генерации текстового разбора отчета.
func NewNarrativeService(client Client) *NarrativeService {
	return &NarrativeService{client: client}
}

// Narrate просит модель описать готовый отчет и возвращает текст, промпт и сырой ответ.
func (s *NarrativeService) Narrate(ctx context.Context, report health.Report) (string, string, []byte, error) {
	prompt, err := buildNarrativePrompt(NewNarrativeInput(report))
	if err != nil {
		return "", "", nil, err
	}

	messages := []Message{
		{Role: "system", Content: narrativeSystemPrompt},
		{Role: "user", Content: prompt},
	}

	content, raw, err := s.client.Chat(ctx, messages)
	if err != nil {
		return "", prompt, raw, err
	}

	narrative := cleanNarrative(content)
	if err := validateNarrative(narrative, report); err != nil {
		return "", prompt, raw, err
	}

	return narrative, prompt, raw, nil
}

// NewNarrativeInput сворачивает отчет в компактный вид для промпта.
func NewNarrativeInput(report health.Report) NarrativeInput {
	metrics := report.Metrics
	input := NarrativeInput{
		Grade:       string(report.HealthScore.Overall),
		Score:       report.HealthScore.Grade,
		Description: report.HealthScore.Description,
		Metrics: []MetricSnapshot{
			{Name: "debt_to_income_ratio", Value: metrics.DebtToIncomeRatio.Percentage, Unit: "percent", Status: string(metrics.DebtToIncomeRatio.Status), Benchmark: metrics.DebtToIncomeRatio.Benchmark},
			{Name: "savings_rate", Value: metrics.SavingsRate.Percentage, Unit: "percent", Status: string(metrics.SavingsRate.Status), Benchmark: metrics.SavingsRate.Benchmark},
			{Name: "emergency_fund", Value: metrics.EmergencyFund.MonthsCovered, Unit: "months", Status: string(metrics.EmergencyFund.Status), Benchmark: metrics.EmergencyFund.Benchmark},
			{Name: "debt_load", Value: metrics.DebtLoad.TotalDebt, Unit: "currency", Status: string(metrics.DebtLoad.Status), Benchmark: metrics.DebtLoad.Benchmark},
		},
		Breakdown: BreakdownSnapshot{
			MonthlyIncome:    report.Breakdown.TotalMonthlyIncome,
			MonthlyExpenses:  report.Breakdown.TotalMonthlyExpenses,
			TotalDebt:        report.Breakdown.TotalDebt,
			TotalSavings:     report.Breakdown.TotalSavings,
			NetWorth:         report.Breakdown.NetWorth,
			DisposableIncome: report.Breakdown.DisposableIncome,
		},
		Recommendations: make([]RecommendationDigest, 0, len(report.Recommendations)),
		Projections: ProjectionSnapshot{
			OneYearNetWorth:  report.Projections.OneYear.NetWorth,
			FiveYearNetWorth: report.Projections.FiveYear.NetWorth,
			OneYearDebtPaid:  report.Projections.OneYear.DebtReduction,
			FiveYearDebtPaid: report.Projections.FiveYear.DebtReduction,
		},
	}

	for _, rec := range report.Recommendations {
		input.Recommendations = append(input.Recommendations, RecommendationDigest{
			ID:          rec.ID,
			Priority:    string(rec.Priority),
			Title:       rec.Title,
			Description: rec.Description,
			ActionSteps: rec.ActionSteps,
		})
	}

	return input
}

func buildNarrativePrompt(input NarrativeInput) (string, error) {
	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Write a financial health narrative in Markdown for the report below.

Requirements:
- Sections, in order: "### Executive Summary", "### Key Metrics Analysis", "### Priority Recommendations", "### Future Outlook".
- State the letter grade and the score exactly as given.
- Explain why each metric matters, using only the provided values and benchmarks.
- Walk through the recommendations in the given order, keeping their priorities.
- Professional, encouraging tone. No judgmental language.
- If there are no recommendations, say that no immediate action is needed.
- No code fences.

Report:
%s`, string(payload))

	return prompt, nil
}

func cleanNarrative(input string) string {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(trimmed, "markdown")
		trimmed = strings.TrimPrefix(trimmed, "md")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	return trimmed
}

func validateNarrative(narrative string, report health.Report) error {
	if narrative == "" {
		return errors.New("narrative is empty")
	}
	if utf8.RuneCountInString(narrative) > maxNarrativeLength {
		return errors.New("narrative is too long")
	}
	if !strings.Contains(narrative, strconv.Itoa(report.HealthScore.Grade)) {
		return fmt.Errorf("narrative does not mention score %d", report.HealthScore.Grade)
	}
	return nil
}
