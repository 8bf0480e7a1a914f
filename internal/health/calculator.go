package health

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidProfile = errors.New("invalid financial profile")
	ErrNonFinite      = errors.New("financial health computation produced a non-finite value")
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

// Now возвращает текущее время в UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type Calculator struct {
	clock Clock
}

// NewCalculator создает калькулятор с источником времени для generatedAt.
func NewCalculator(clock Clock) *Calculator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Calculator{clock: clock}
}

// Calculate строит отчет о финансовом здоровье на текущий момент часов калькулятора.
func (c *Calculator) Calculate(profile Profile) (Report, error) {
	return Generate(profile, c.clock.Now())
}

// Generate — единственная точка расчета отчета: агрегаты, показатели, балл,
// рекомендации и прогнозы. Функция чистая и не хранит состояния.
func Generate(profile Profile, now time.Time) (Report, error) {
	if err := validateAmounts(profile); err != nil {
		return Report{}, err
	}

	t := aggregate(profile)
	ind := computeIndicators(t)
	if err := ensureFinite(t, ind); err != nil {
		return Report{}, err
	}

	categories := expenseCategories(profile, t.expenses)
	recommendations := buildRecommendations(recommendationInput{
		totals:     t,
		indicators: ind,
		categories: categories,
		goals:      profile.Goals,
	})

	projections := project(projectionInput{
		currentSavings: t.savings,
		currentDebt:    t.debt,
		monthlyIncome:  t.income,
		savingsRate:    ind.savingsRate,
	})
	if err := ensureFiniteProjections(projections); err != nil {
		return Report{}, err
	}

	display := make([]ExpenseCategory, len(categories))
	for i, category := range categories {
		category.Percentage = round2(category.Percentage)
		display[i] = category
	}

	return Report{
		HealthScore: scoreHealth(t, ind),
		Metrics:     buildMetrics(t, ind),
		Breakdown: Breakdown{
			TotalMonthlyIncome:   t.income,
			TotalMonthlyExpenses: t.expenses,
			TotalDebt:            t.debt,
			TotalSavings:         t.savings,
			NetWorth:             t.netWorth,
			DisposableIncome:     t.disposable,
			ExpenseCategories:    display,
		},
		Recommendations: recommendations,
		Projections:     projections,
		GeneratedAt:     now,
	}, nil
}

func validateAmounts(profile Profile) error {
	check := func(section string, index int, amount float64) error {
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return fmt.Errorf("%w: %s[%d].amount is not a finite number", ErrInvalidProfile, section, index)
		}
		if amount < 0 {
			return fmt.Errorf("%w: %s[%d].amount must not be negative", ErrInvalidProfile, section, index)
		}
		return nil
	}

	for i, income := range profile.Incomes {
		if err := check("incomes", i, income.Amount); err != nil {
			return err
		}
	}
	for i, expense := range profile.Expenses {
		if err := check("expenses", i, expense.Amount); err != nil {
			return err
		}
	}
	for i, debt := range profile.Debts {
		if err := check("debts", i, debt.Amount); err != nil {
			return err
		}
	}
	for i, saving := range profile.Savings {
		if err := check("savings", i, saving.Amount); err != nil {
			return err
		}
	}

	return nil
}

func ensureFinite(t totals, ind indicators) error {
	values := []struct {
		name  string
		value float64
	}{
		{"totalMonthlyIncome", t.income},
		{"totalMonthlyExpenses", t.expenses},
		{"totalDebt", t.debt},
		{"totalSavings", t.savings},
		{"disposableIncome", t.disposable},
		{"netWorth", t.netWorth},
		{"debtToIncomeRatio", ind.debtToIncome},
		{"savingsRate", ind.savingsRate},
		{"emergencyFundMonths", ind.emergencyFund},
	}
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%w: %s", ErrNonFinite, v.name)
		}
	}
	return nil
}

func ensureFiniteProjections(p Projections) error {
	for _, value := range []float64{
		p.OneYear.NetWorth, p.OneYear.Savings, p.OneYear.DebtReduction,
		p.FiveYear.NetWorth, p.FiveYear.Savings, p.FiveYear.DebtReduction,
	} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%w: projections", ErrNonFinite)
		}
	}
	return nil
}
