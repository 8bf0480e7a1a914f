package health

import (
	"fmt"
	"strings"
)

const (
	RecommendationEmergencyFund    = "emergency-fund"
	RecommendationDebtReduction    = "debt-reduction"
	RecommendationIncreaseSavings  = "increase-savings"
	RecommendationOptimizeExpenses = "optimize-expenses"
	RecommendationIncreaseIncome   = "increase-income"
	RecommendationPrioritizeGoals  = "prioritize-goals"
)

const (
	emergencyFundMonthsTarget = 3
	debtToIncomeLimit         = 36
	savingsRateTarget         = 15
	dominantExpenseShare      = 40
	disposableIncomeFloor     = 500
)

type recommendationInput struct {
	totals     totals
	indicators indicators
	categories []ExpenseCategory
	goals      []Goal
}

type recommendationRule func(in recommendationInput) (Recommendation, bool)

// Порядок правил определяет порядок рекомендаций в отчете.
var recommendationRules = []recommendationRule{
	emergencyFundRule,
	debtReductionRule,
	increaseSavingsRule,
	optimizeExpensesRule,
	increaseIncomeRule,
	prioritizeGoalsRule,
}

func buildRecommendations(in recommendationInput) []Recommendation {
	out := make([]Recommendation, 0, len(recommendationRules))
	seen := make(map[string]struct{}, len(recommendationRules))

	for _, rule := range recommendationRules {
		rec, ok := rule(in)
		if !ok {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}

	return out
}

func emergencyFundRule(in recommendationInput) (Recommendation, bool) {
	if in.indicators.emergencyFund >= emergencyFundMonthsTarget {
		return Recommendation{}, false
	}

	return Recommendation{
		ID:          RecommendationEmergencyFund,
		Priority:    PriorityHigh,
		Category:    "savings",
		Title:       "Build Emergency Fund",
		Description: "Your emergency fund covers less than 3 months of expenses. This should be your top priority.",
		Impact:      "High - Protects against financial emergencies",
		Timeframe:   "3-6 months",
		ActionSteps: []string{
			"Open a high-yield savings account",
			"Set up automatic transfers of $200-500 monthly",
			"Start with $1,000 mini emergency fund",
			"Gradually build to 3-6 months of expenses",
		},
	}, true
}

func debtReductionRule(in recommendationInput) (Recommendation, bool) {
	if in.indicators.debtToIncome <= debtToIncomeLimit {
		return Recommendation{}, false
	}

	return Recommendation{
		ID:          RecommendationDebtReduction,
		Priority:    PriorityHigh,
		Category:    "debt",
		Title:       "Reduce Debt Load",
		Description: "Your debt-to-income ratio is above recommended levels. Focus on debt reduction.",
		Impact:      "High - Improves cash flow and reduces interest payments",
		Timeframe:   "6-24 months",
		ActionSteps: []string{
			"List all debts with interest rates",
			"Use debt avalanche method (pay highest interest first)",
			"Consider debt consolidation if beneficial",
			"Avoid taking on new debt",
		},
	}, true
}

func increaseSavingsRule(in recommendationInput) (Recommendation, bool) {
	if in.indicators.savingsRate >= savingsRateTarget {
		return Recommendation{}, false
	}

	return Recommendation{
		ID:          RecommendationIncreaseSavings,
		Priority:    PriorityMedium,
		Category:    "savings",
		Title:       "Increase Savings Rate",
		Description: "Your savings rate is below the recommended 15-20%. Look for ways to save more.",
		Impact:      "Medium - Builds long-term wealth",
		Timeframe:   "3-12 months",
		ActionSteps: []string{
			"Track expenses for one month",
			"Identify areas to cut spending",
			"Automate savings transfers",
			"Increase savings by 1% monthly until reaching 20%",
		},
	}, true
}

func optimizeExpensesRule(in recommendationInput) (Recommendation, bool) {
	top, ok := dominantCategory(in.categories)
	if !ok || top.Percentage <= dominantExpenseShare {
		return Recommendation{}, false
	}

	return Recommendation{
		ID:          RecommendationOptimizeExpenses,
		Priority:    PriorityMedium,
		Category:    "expenses",
		Title:       fmt.Sprintf("Optimize %s Spending", top.Category),
		Description: fmt.Sprintf("%s represents %.0f%% of your expenses, which may be too high.", top.Category, roundHalfUp(top.Percentage)),
		Impact:      "Medium - Frees up money for savings and debt reduction",
		Timeframe:   "1-3 months",
		ActionSteps: []string{
			fmt.Sprintf("Review all %s expenses", strings.ToLower(top.Category)),
			"Compare prices and look for alternatives",
			"Negotiate better rates where possible",
			"Set a monthly budget limit",
		},
	}, true
}

func increaseIncomeRule(in recommendationInput) (Recommendation, bool) {
	if in.totals.disposable >= disposableIncomeFloor {
		return Recommendation{}, false
	}

	return Recommendation{
		ID:          RecommendationIncreaseIncome,
		Priority:    PriorityMedium,
		Category:    "income",
		Title:       "Explore Income Opportunities",
		Description: "Your disposable income is limited. Consider ways to increase earnings.",
		Impact:      "High - Provides more financial flexibility",
		Timeframe:   "3-12 months",
		ActionSteps: []string{
			"Evaluate opportunities for promotion or raise",
			"Develop additional skills for career advancement",
			"Consider side hustles or freelance work",
			"Explore passive income opportunities",
		},
	}, true
}

func prioritizeGoalsRule(in recommendationInput) (Recommendation, bool) {
	if in.totals.debt <= 0 || !hasShortTermGoal(in.goals) {
		return Recommendation{}, false
	}

	return Recommendation{
		ID:          RecommendationPrioritizeGoals,
		Priority:    PriorityLow,
		Category:    "goals",
		Title:       "Prioritize Financial Goals",
		Description: "Consider prioritizing debt reduction before pursuing short-term goals.",
		Impact:      "Medium - Optimizes financial strategy",
		Timeframe:   "1-6 months",
		ActionSteps: []string{
			"List all financial goals with target dates",
			"Calculate total cost of short-term goals",
			"Consider delaying non-essential goals until debt is reduced",
			"Focus on emergency fund and debt reduction first",
		},
	}, true
}

// dominantCategory возвращает первую категорию с максимальной долей.
func dominantCategory(categories []ExpenseCategory) (ExpenseCategory, bool) {
	if len(categories) == 0 {
		return ExpenseCategory{}, false
	}

	top := categories[0]
	for _, category := range categories[1:] {
		if category.Percentage > top.Percentage {
			top = category
		}
	}
	return top, true
}

func hasShortTermGoal(goals []Goal) bool {
	for _, goal := range goals {
		if strings.Contains(strings.ToLower(goal.Type), "short") {
			return true
		}
	}
	return false
}
