package health

import "time"

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

type Status string

const (
	StatusExcellent  Status = "excellent"
	StatusGood       Status = "good"
	StatusFair       Status = "fair"
	StatusPoor       Status = "poor"
	StatusCritical   Status = "critical"
	StatusManageable Status = "manageable"
	StatusConcerning Status = "concerning"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Profile struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Incomes      []Income     `json:"incomes"`
	Expenses     []Expense    `json:"expenses"`
	Debts        []Debt       `json:"debts"`
	Savings      []Saving     `json:"savings"`
	Goals        []Goal       `json:"goals"`
}

type PersonalInfo struct {
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Location     string `json:"location"`
	FamilyStatus string `json:"familyStatus"`
}

// Income.Amount всегда трактуется как месячная сумма, Frequency в расчетах не участвует.
type Income struct {
	Source    string  `json:"source"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
}

type Expense struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Debt.Amount — остаток долга, а не ежемесячный платеж.
type Debt struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

type Saving struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

type Goal struct {
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	TargetAmount *float64 `json:"targetAmount,omitempty"`
}

type Report struct {
	HealthScore     HealthScore      `json:"healthScore"`
	Metrics         Metrics          `json:"metrics"`
	Breakdown       Breakdown        `json:"breakdown"`
	Recommendations []Recommendation `json:"recommendations"`
	Projections     Projections      `json:"projections"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

type HealthScore struct {
	Overall     Grade  `json:"overall"`
	Grade       int    `json:"grade"`
	Description string `json:"description"`
}

type Metrics struct {
	DebtToIncomeRatio RatioMetric         `json:"debtToIncomeRatio"`
	SavingsRate       RatioMetric         `json:"savingsRate"`
	EmergencyFund     EmergencyFundMetric `json:"emergencyFund"`
	DebtLoad          DebtLoadMetric      `json:"debtLoad"`
}

type RatioMetric struct {
	Percentage float64 `json:"percentage"`
	Status     Status  `json:"status"`
	Benchmark  string  `json:"benchmark"`
}

type EmergencyFundMetric struct {
	MonthsCovered  float64 `json:"monthsCovered"`
	Status         Status  `json:"status"`
	Benchmark      string  `json:"benchmark"`
	Recommendation string  `json:"recommendation"`
}

type DebtLoadMetric struct {
	TotalDebt float64 `json:"totalDebt"`
	Status    Status  `json:"status"`
	Benchmark string  `json:"benchmark"`
}

type Breakdown struct {
	TotalMonthlyIncome   float64           `json:"totalMonthlyIncome"`
	TotalMonthlyExpenses float64           `json:"totalMonthlyExpenses"`
	TotalDebt            float64           `json:"totalDebt"`
	TotalSavings         float64           `json:"totalSavings"`
	NetWorth             float64           `json:"netWorth"`
	DisposableIncome     float64           `json:"disposableIncome"`
	ExpenseCategories    []ExpenseCategory `json:"expenseCategories"`
}

type ExpenseCategory struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type Recommendation struct {
	ID          string   `json:"id"`
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Timeframe   string   `json:"timeframe"`
	ActionSteps []string `json:"actionSteps"`
}

type Projections struct {
	OneYear  Projection `json:"oneYear"`
	FiveYear Projection `json:"fiveYear"`
}

type Projection struct {
	NetWorth      float64 `json:"netWorth"`
	Savings       float64 `json:"savings"`
	DebtReduction float64 `json:"debtReduction"`
}
