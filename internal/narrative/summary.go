package narrative

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"example.com/financial-health/internal/health"
)

var printer = message.NewPrinter(language.English)

// Summary собирает markdown-резюме отчета без обращения к внешним сервисам.
func Summary(report health.Report) string {
	score := report.HealthScore
	metrics := report.Metrics
	breakdown := report.Breakdown

	var b strings.Builder

	b.WriteString("### Executive Summary\n\n")
	fmt.Fprintf(&b, "**Financial Health Score**: %s (%d/100)\n", score.Overall, score.Grade)
	b.WriteString(score.Description + "\n\n")

	b.WriteString("### Key Metrics Analysis\n\n")
	fmt.Fprintf(&b, "- **Debt-to-Income Ratio**: %s%%\n", decimal(metrics.DebtToIncomeRatio.Percentage))
	fmt.Fprintf(&b, "  - Status: %s\n", metrics.DebtToIncomeRatio.Status)
	fmt.Fprintf(&b, "  - %s\n\n", metrics.DebtToIncomeRatio.Benchmark)
	fmt.Fprintf(&b, "- **Savings Rate**: %s%%\n", decimal(metrics.SavingsRate.Percentage))
	fmt.Fprintf(&b, "  - Status: %s\n", metrics.SavingsRate.Status)
	fmt.Fprintf(&b, "  - %s\n\n", metrics.SavingsRate.Benchmark)
	fmt.Fprintf(&b, "- **Emergency Fund**: %s months covered\n", decimal(metrics.EmergencyFund.MonthsCovered))
	fmt.Fprintf(&b, "  - Status: %s\n", metrics.EmergencyFund.Status)
	fmt.Fprintf(&b, "  - %s\n\n", metrics.EmergencyFund.Recommendation)
	fmt.Fprintf(&b, "- **Debt Load**: %s\n", Currency(metrics.DebtLoad.TotalDebt))
	fmt.Fprintf(&b, "  - Status: %s\n", metrics.DebtLoad.Status)
	fmt.Fprintf(&b, "  - %s\n\n", metrics.DebtLoad.Benchmark)

	b.WriteString("### Financial Breakdown\n\n")
	fmt.Fprintf(&b, "- **Monthly Income**: %s\n", Currency(breakdown.TotalMonthlyIncome))
	fmt.Fprintf(&b, "- **Monthly Expenses**: %s\n", Currency(breakdown.TotalMonthlyExpenses))
	fmt.Fprintf(&b, "- **Total Debt**: %s\n", Currency(breakdown.TotalDebt))
	fmt.Fprintf(&b, "- **Total Savings**: %s\n", Currency(breakdown.TotalSavings))
	fmt.Fprintf(&b, "- **Net Worth**: %s\n\n", Currency(breakdown.NetWorth))

	b.WriteString("### Priority Recommendations\n")
	if len(report.Recommendations) == 0 {
		b.WriteString("\nNo immediate action needed. Your finances meet every benchmark we check.\n")
	}
	for i, rec := range report.Recommendations {
		fmt.Fprintf(&b, "\n%d. **%s** (%s priority)\n", i+1, rec.Title, rec.Priority)
		fmt.Fprintf(&b, "   - %s\n", rec.Description)
		fmt.Fprintf(&b, "   - Impact: %s\n", rec.Impact)
		fmt.Fprintf(&b, "   - Timeframe: %s\n", rec.Timeframe)
		fmt.Fprintf(&b, "   - Action Steps: %s\n", strings.Join(rec.ActionSteps, ", "))
	}

	b.WriteString("\n### Projections\n\n")
	fmt.Fprintf(&b, "- **In 1 year**: net worth %s, savings %s, debt paid down %s\n",
		Currency(report.Projections.OneYear.NetWorth),
		Currency(report.Projections.OneYear.Savings),
		Currency(report.Projections.OneYear.DebtReduction))
	fmt.Fprintf(&b, "- **In 5 years**: net worth %s, savings %s, debt paid down %s\n\n",
		Currency(report.Projections.FiveYear.NetWorth),
		Currency(report.Projections.FiveYear.Savings),
		Currency(report.Projections.FiveYear.DebtReduction))

	b.WriteString("### Conclusion\n\n")
	b.WriteString("Your financial health analysis has been completed with actionable recommendations to improve your financial wellness.")

	return b.String()
}

// Currency форматирует сумму с разделителями тысяч, например $12,500.5.
func Currency(value float64) string {
	return "$" + printer.Sprintf("%v", number.Decimal(value, number.MaxFractionDigits(2)))
}

func decimal(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
