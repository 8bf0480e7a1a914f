package ai

type NarrativeInput struct {
	Grade           string                 `json:"grade"`
	Score           int                    `json:"score"`
	Description     string                 `json:"description"`
	Metrics         []MetricSnapshot       `json:"metrics"`
	Breakdown       BreakdownSnapshot      `json:"breakdown"`
	Recommendations []RecommendationDigest `json:"recommendations"`
	Projections     ProjectionSnapshot     `json:"projections"`
}

type MetricSnapshot struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Status    string  `json:"status"`
	Benchmark string  `json:"benchmark"`
}

type BreakdownSnapshot struct {
	MonthlyIncome    float64 `json:"monthly_income"`
	MonthlyExpenses  float64 `json:"monthly_expenses"`
	TotalDebt        float64 `json:"total_debt"`
	TotalSavings     float64 `json:"total_savings"`
	NetWorth         float64 `json:"net_worth"`
	DisposableIncome float64 `json:"disposable_income"`
}

type RecommendationDigest struct {
	ID          string   `json:"id"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionSteps []string `json:"action_steps"`
}

type ProjectionSnapshot struct {
	OneYearNetWorth  float64 `json:"one_year_net_worth"`
	FiveYearNetWorth float64 `json:"five_year_net_worth"`
	OneYearDebtPaid  float64 `json:"one_year_debt_paid"`
	FiveYearDebtPaid float64 `json:"five_year_debt_paid"`
}
