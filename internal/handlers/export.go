package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"example.com/financial-health/internal/health"
)

const exportDateLayout = "20060102"

// ExportCSV строит отчет по профилю и отдает его CSV-файлом section,key,value.
func (h *FinancialHealthHandler) ExportCSV(c echo.Context) error {
	_, profile, err := decodeProfileRequest(c)
	if err != nil {
		h.Metrics.IncFailure("validation")
		return respondRequestError(c, err)
	}

	report, err := h.calculate(profile)
	if err != nil {
		return h.computeError(c, err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeReportCSV(writer, report); err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "financial-health-" + report.GeneratedAt.Format(exportDateLayout) + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func writeReportCSV(writer *csv.Writer, report health.Report) error {
	records := [][]string{
		{"section", "key", "value"},
		{"score", "overall", string(report.HealthScore.Overall)},
		{"score", "grade", formatInt(report.HealthScore.Grade)},
		{"score", "description", report.HealthScore.Description},
		{"metrics", "debtToIncomeRatio.percentage", formatFloat(report.Metrics.DebtToIncomeRatio.Percentage)},
		{"metrics", "debtToIncomeRatio.status", string(report.Metrics.DebtToIncomeRatio.Status)},
		{"metrics", "savingsRate.percentage", formatFloat(report.Metrics.SavingsRate.Percentage)},
		{"metrics", "savingsRate.status", string(report.Metrics.SavingsRate.Status)},
		{"metrics", "emergencyFund.monthsCovered", formatFloat(report.Metrics.EmergencyFund.MonthsCovered)},
		{"metrics", "emergencyFund.status", string(report.Metrics.EmergencyFund.Status)},
		{"metrics", "debtLoad.totalDebt", formatFloat(report.Metrics.DebtLoad.TotalDebt)},
		{"metrics", "debtLoad.status", string(report.Metrics.DebtLoad.Status)},
		{"breakdown", "totalMonthlyIncome", formatFloat(report.Breakdown.TotalMonthlyIncome)},
		{"breakdown", "totalMonthlyExpenses", formatFloat(report.Breakdown.TotalMonthlyExpenses)},
		{"breakdown", "totalDebt", formatFloat(report.Breakdown.TotalDebt)},
		{"breakdown", "totalSavings", formatFloat(report.Breakdown.TotalSavings)},
		{"breakdown", "netWorth", formatFloat(report.Breakdown.NetWorth)},
		{"breakdown", "disposableIncome", formatFloat(report.Breakdown.DisposableIncome)},
	}

	for _, category := range report.Breakdown.ExpenseCategories {
		records = append(records,
			[]string{"expenseCategories", category.Category + ".amount", formatFloat(category.Amount)},
			[]string{"expenseCategories", category.Category + ".percentage", formatFloat(category.Percentage)},
		)
	}

	for _, rec := range report.Recommendations {
		records = append(records, []string{"recommendations", rec.ID, string(rec.Priority) + ": " + rec.Title})
	}

	records = append(records, projectionRecords("projections.oneYear", report.Projections.OneYear)...)
	records = append(records, projectionRecords("projections.fiveYear", report.Projections.FiveYear)...)

	return writer.WriteAll(records)
}

func projectionRecords(section string, p health.Projection) [][]string {
	return [][]string{
		{section, "netWorth", formatFloat(p.NetWorth)},
		{section, "savings", formatFloat(p.Savings)},
		{section, "debtReduction", formatFloat(p.DebtReduction)},
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatInt(value int) string {
	return strconv.Itoa(value)
}
