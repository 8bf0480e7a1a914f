package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/financial-health/internal/health"
)

type fakeClient struct {
	content  string
	err      error
	messages []Message
}

func (f *fakeClient) Chat(_ context.Context, messages []Message) (string, []byte, error) {
	f.messages = messages
	return f.content, []byte(`{"raw":true}`), f.err
}

func testReport(t *testing.T) health.Report {
	t.Helper()

	report, err := health.Generate(health.Profile{
		Incomes:  []health.Income{{Source: "Salary", Amount: 5000}},
		Expenses: []health.Expense{{Category: "Rent", Amount: 2000}},
		Debts:    []health.Debt{{Type: "Loan", Amount: 40000}},
		Savings:  []health.Saving{{Type: "Emergency", Amount: 3000}},
	}, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return report
}

// TestNarrateSuccess проверяет успешную генерацию и состав промпта.
func TestNarrateSuccess(t *testing.T) {
	report := testReport(t)
	client := &fakeClient{content: "```markdown\n### Executive Summary\nScore " + "55/100" + "\n```"}
	service := NewNarrativeService(client)

	report.HealthScore.Grade = 55
	narrative, prompt, raw, err := service.Narrate(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, "### Executive Summary\nScore 55/100", narrative)
	assert.Contains(t, prompt, `"debt_to_income_ratio"`)
	assert.Contains(t, prompt, `"debt-reduction"`)
	assert.Equal(t, `{"raw":true}`, string(raw))
	require.Len(t, client.messages, 2)
	assert.Equal(t, "system", client.messages[0].Role)
}

// TestNarrateClientError проверяет проброс ошибки клиента.
func TestNarrateClientError(t *testing.T) {
	service := NewNarrativeService(&fakeClient{err: errors.New("timeout")})

	_, prompt, _, err := service.Narrate(context.Background(), testReport(t))
	assert.EqualError(t, err, "timeout")
	assert.NotEmpty(t, prompt)
}

// TestNarrateRejectsInvalidText проверяет валидацию ответа модели.
func TestNarrateRejectsInvalidText(t *testing.T) {
	report := testReport(t)

	_, _, _, err := NewNarrativeService(&fakeClient{content: "   "}).Narrate(context.Background(), report)
	assert.EqualError(t, err, "narrative is empty")

	_, _, _, err = NewNarrativeService(&fakeClient{content: "Looks fine overall."}).Narrate(context.Background(), report)
	assert.Error(t, err)
}

// TestNewNarrativeInput проверяет сворачивание отчета.
func TestNewNarrativeInput(t *testing.T) {
	report := testReport(t)

	input := NewNarrativeInput(report)

	assert.Equal(t, string(report.HealthScore.Overall), input.Grade)
	assert.Len(t, input.Metrics, 4)
	assert.Len(t, input.Recommendations, len(report.Recommendations))
	assert.Equal(t, report.Breakdown.NetWorth, input.Breakdown.NetWorth)
	assert.Equal(t, report.Projections.FiveYear.NetWorth, input.Projections.FiveYearNetWorth)
}

// TestCleanNarrative проверяет удаление обрамления кода.
func TestCleanNarrative(t *testing.T) {
	assert.Equal(t, "text", cleanNarrative("  text \n"))
	assert.Equal(t, "### A", cleanNarrative("```md\n### A\n```"))
	assert.Equal(t, "### B", cleanNarrative("```\n### B\n```"))
}
