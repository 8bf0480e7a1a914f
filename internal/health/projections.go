package health

import "math"

const (
	debtPaymentShare     = 0.3
	debtPayoffMonths     = 24
	savingsGrowthRate    = 1.03
	fiveYearGrowthPeriod = 4
)

type projectionInput struct {
	currentSavings float64
	currentDebt    float64
	monthlyIncome  float64
	savingsRate    float64
}

// Упрощенная модель: постоянная норма сбережений и линейное погашение долга,
// без графика амортизации.
func project(in projectionInput) Projections {
	monthlySavings := in.monthlyIncome * math.Max(0, in.savingsRate) / 100
	monthlyDebtPayment := math.Min(monthlySavings*debtPaymentShare, in.currentDebt/debtPayoffMonths)

	oneYearSavings := in.currentSavings + monthlySavings*12
	oneYearDebt := math.Max(0, in.currentDebt-monthlyDebtPayment*12)

	fiveYearSavings := oneYearSavings*math.Pow(savingsGrowthRate, fiveYearGrowthPeriod) + monthlySavings*48
	fiveYearDebt := math.Max(0, in.currentDebt-monthlyDebtPayment*60)

	return Projections{
		OneYear: Projection{
			NetWorth:      roundHalfUp(oneYearSavings - oneYearDebt),
			Savings:       roundHalfUp(oneYearSavings),
			DebtReduction: roundHalfUp(in.currentDebt - oneYearDebt),
		},
		FiveYear: Projection{
			NetWorth:      roundHalfUp(fiveYearSavings - fiveYearDebt),
			Savings:       roundHalfUp(fiveYearSavings),
			DebtReduction: roundHalfUp(in.currentDebt - fiveYearDebt),
		},
	}
}
