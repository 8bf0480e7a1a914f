package health

import "math"

const (
	debtToIncomeBenchmark  = "Recommended: <36% for total debt, <28% for housing"
	savingsRateBenchmark   = "Recommended: 20% or higher"
	emergencyFundBenchmark = "Recommended: 3-6 months of expenses"
	debtLoadBenchmark      = "Recommended: total debt below 6 months of income"

	emergencyFundBuild  = "Build to 3-6 months of expenses"
	emergencyFundFunded = "Well funded"
)

type totals struct {
	income     float64
	expenses   float64
	debt       float64
	savings    float64
	disposable float64
	netWorth   float64
}

type indicators struct {
	debtToIncome  float64
	savingsRate   float64
	emergencyFund float64
}

func aggregate(profile Profile) totals {
	var t totals
	for _, income := range profile.Incomes {
		t.income += income.Amount
	}
	for _, expense := range profile.Expenses {
		t.expenses += expense.Amount
	}
	for _, debt := range profile.Debts {
		t.debt += debt.Amount
	}
	for _, saving := range profile.Savings {
		t.savings += saving.Amount
	}

	t.disposable = t.income - t.expenses
	t.netWorth = t.savings - t.debt
	return t
}

func computeIndicators(t totals) indicators {
	var ind indicators
	if t.income > 0 {
		ind.debtToIncome = t.debt / (t.income * 12) * 100
		ind.savingsRate = t.disposable / t.income * 100
	}
	if t.expenses > 0 {
		ind.emergencyFund = t.savings / t.expenses
	}
	return ind
}

func expenseCategories(profile Profile, totalExpenses float64) []ExpenseCategory {
	out := make([]ExpenseCategory, 0, len(profile.Expenses))
	for _, expense := range profile.Expenses {
		var percentage float64
		if totalExpenses > 0 {
			percentage = expense.Amount / totalExpenses * 100
		}
		out = append(out, ExpenseCategory{
			Category:   expense.Category,
			Amount:     expense.Amount,
			Percentage: percentage,
		})
	}
	return out
}

// DebtToIncomeStatus классифицирует отношение долга к годовому доходу (в процентах).
func DebtToIncomeStatus(ratio float64) Status {
	switch {
	case ratio <= 25:
		return StatusExcellent
	case ratio <= 36:
		return StatusGood
	case ratio <= 50:
		return StatusFair
	default:
		return StatusPoor
	}
}

// SavingsRateStatus классифицирует норму сбережений (в процентах).
func SavingsRateStatus(rate float64) Status {
	switch {
	case rate >= 20:
		return StatusExcellent
	case rate >= 15:
		return StatusGood
	case rate >= 10:
		return StatusFair
	case rate >= 0:
		return StatusPoor
	default:
		return StatusCritical
	}
}

// EmergencyFundStatus классифицирует запас сбережений в месяцах расходов.
func EmergencyFundStatus(months float64) Status {
	switch {
	case months >= 6:
		return StatusExcellent
	case months >= 3:
		return StatusGood
	case months >= 1:
		return StatusFair
	default:
		return StatusPoor
	}
}

// DebtLoadStatus сравнивает общий долг с шестью месячными доходами.
func DebtLoadStatus(totalDebt, monthlyIncome float64) Status {
	switch {
	case totalDebt == 0:
		return StatusExcellent
	case totalDebt < monthlyIncome*6:
		return StatusManageable
	default:
		return StatusConcerning
	}
}

func buildMetrics(t totals, ind indicators) Metrics {
	recommendation := emergencyFundFunded
	if ind.emergencyFund < 3 {
		recommendation = emergencyFundBuild
	}

	return Metrics{
		DebtToIncomeRatio: RatioMetric{
			Percentage: round2(ind.debtToIncome),
			Status:     DebtToIncomeStatus(ind.debtToIncome),
			Benchmark:  debtToIncomeBenchmark,
		},
		SavingsRate: RatioMetric{
			Percentage: round2(ind.savingsRate),
			Status:     SavingsRateStatus(ind.savingsRate),
			Benchmark:  savingsRateBenchmark,
		},
		EmergencyFund: EmergencyFundMetric{
			MonthsCovered:  round2(ind.emergencyFund),
			Status:         EmergencyFundStatus(ind.emergencyFund),
			Benchmark:      emergencyFundBenchmark,
			Recommendation: recommendation,
		},
		DebtLoad: DebtLoadMetric{
			TotalDebt: t.debt,
			Status:    DebtLoadStatus(t.debt, t.income),
			Benchmark: debtLoadBenchmark,
		},
	}
}

// roundHalfUp округляет .5 в сторону +Inf, как это делает клиентская часть.
func roundHalfUp(value float64) float64 {
	return math.Floor(value + 0.5)
}

func round2(value float64) float64 {
	return roundHalfUp(value*100) / 100
}
