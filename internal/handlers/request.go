package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/financial-health/internal/auth"
	"example.com/financial-health/internal/health"
)

const (
	msgProfileRequired   = "Financial profile data is required"
	msgProfileIncomplete = "Incomplete financial profile. Must include personal info, incomes, expenses, debts, and savings."
	msgProfileInvalid    = "Invalid financial profile"
)

type FinancialHealthRequest struct {
	ProfileData *ProfileRequest `json:"profileData" validate:"required"`
	UserID      string          `json:"userId"`
	SessionID   string          `json:"sessionId" validate:"max=128"`
}

type ProfileRequest struct {
	PersonalInfo *PersonalInfoRequest `json:"personalInfo" validate:"required"`
	Incomes      []IncomeRequest      `json:"incomes" validate:"dive"`
	Expenses     []ExpenseRequest     `json:"expenses" validate:"dive"`
	Debts        []DebtRequest        `json:"debts" validate:"dive"`
	Savings      []SavingRequest      `json:"savings" validate:"dive"`
	Goals        []GoalRequest        `json:"goals" validate:"omitempty,dive"`
}

type PersonalInfoRequest struct {
	Name         string `json:"name"`
	Age          int    `json:"age" validate:"gte=0"`
	Location     string `json:"location"`
	FamilyStatus string `json:"familyStatus"`
}

type IncomeRequest struct {
	Source    string  `json:"source"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Frequency string  `json:"frequency"`
}

type ExpenseRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

type DebtRequest struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

type SavingRequest struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

type GoalRequest struct {
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	TargetAmount *float64 `json:"targetAmount" validate:"omitempty,gte=0"`
}

// requestError несет готовый HTTP-ответ для ошибок разбора запроса.
type requestError struct {
	status int
	body   interface{}
}

func (e *requestError) Error() string {
	return http.StatusText(e.status)
}

func newRequestError(message string) *requestError {
	return &requestError{status: http.StatusBadRequest, body: map[string]string{"error": message}}
}

func respondRequestError(c echo.Context, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return c.JSON(reqErr.status, reqErr.body)
	}
	return badRequest(c, err.Error())
}

// decodeProfileRequest разбирает и проверяет тело запроса на построение отчета.
// Подпись валидного bearer-токена заменяет userId из тела.
func decodeProfileRequest(c echo.Context) (FinancialHealthRequest, health.Profile, error) {
	var req FinancialHealthRequest
	if err := c.Bind(&req); err != nil {
		return req, health.Profile{}, newRequestError("invalid payload")
	}

	if req.ProfileData == nil {
		return req, health.Profile{}, newRequestError(msgProfileRequired)
	}

	if !req.ProfileData.complete() {
		return req, health.Profile{}, newRequestError(msgProfileIncomplete)
	}

	if err := c.Validate(&req); err != nil {
		return req, health.Profile{}, &requestError{
			status: http.StatusBadRequest,
			body:   errorWithDetails{Error: msgProfileInvalid, Details: validationDetails(err)},
		}
	}

	if userID, ok := auth.UserIDFromContext(c); ok {
		req.UserID = userID
	}

	return req, req.ProfileData.toProfile(), nil
}

// complete требует наличия всех разделов, кроме целей; пустой массив допустим.
func (p *ProfileRequest) complete() bool {
	return p.PersonalInfo != nil &&
		p.Incomes != nil &&
		p.Expenses != nil &&
		p.Debts != nil &&
		p.Savings != nil
}

func (p *ProfileRequest) toProfile() health.Profile {
	profile := health.Profile{
		PersonalInfo: health.PersonalInfo{
			Name:         p.PersonalInfo.Name,
			Age:          p.PersonalInfo.Age,
			Location:     p.PersonalInfo.Location,
			FamilyStatus: p.PersonalInfo.FamilyStatus,
		},
		Incomes:  make([]health.Income, 0, len(p.Incomes)),
		Expenses: make([]health.Expense, 0, len(p.Expenses)),
		Debts:    make([]health.Debt, 0, len(p.Debts)),
		Savings:  make([]health.Saving, 0, len(p.Savings)),
		Goals:    make([]health.Goal, 0, len(p.Goals)),
	}

	for _, income := range p.Incomes {
		profile.Incomes = append(profile.Incomes, health.Income{Source: income.Source, Amount: income.Amount, Frequency: income.Frequency})
	}
	for _, expense := range p.Expenses {
		profile.Expenses = append(profile.Expenses, health.Expense{Category: expense.Category, Amount: expense.Amount})
	}
	for _, debt := range p.Debts {
		profile.Debts = append(profile.Debts, health.Debt{Type: debt.Type, Amount: debt.Amount})
	}
	for _, saving := range p.Savings {
		profile.Savings = append(profile.Savings, health.Saving{Type: saving.Type, Amount: saving.Amount})
	}
	for _, goal := range p.Goals {
		profile.Goals = append(profile.Goals, health.Goal{Title: goal.Title, Type: goal.Type, TargetAmount: goal.TargetAmount})
	}

	return profile
}
