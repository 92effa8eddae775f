package expense

import (
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/TamilarasanG17/VT-Wallet/internal"
	"github.com/TamilarasanG17/VT-Wallet/internal/core/common/validation"
)

// CreateExpenseDTO is the request payload for recording an expense.
type CreateExpenseDTO struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
}

func (dto CreateExpenseDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).
		Required().
		MaxLength(200)
	v.Field("amount", dto.Amount).
		Required().
		MinDecimal(MinAmount, errors.ErrCodeInvalidAmount)
	v.Field("category", dto.Category).
		Required().
		OneOf(Categories, errors.ErrCodeInvalidCategory)
	v.Field("date", dto.Date).
		Required()
	return v.Validate()
}

// CategorySummaryEntry is one row of the current-month category breakdown.
// Percentage is the category's share of the overall monthly total, rounded
// to two decimal places.
type CategorySummaryEntry struct {
	Category   string          `json:"category"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	Percentage decimal.Decimal `json:"percentage"`
}

// HistoryExpense is the member projection used by the history groupings.
type HistoryExpense struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
}

type WeeklyHistoryGroup struct {
	WeekID     string           `json:"weekId"`
	TotalSpent decimal.Decimal  `json:"totalSpent"`
	Expenses   []HistoryExpense `json:"expenses"`
}

type MonthlyHistoryGroup struct {
	MonthID    string           `json:"monthId"`
	TotalSpent decimal.Decimal  `json:"totalSpent"`
	Expenses   []HistoryExpense `json:"expenses"`
}

func toHistoryExpense(e *Expense) HistoryExpense {
	return HistoryExpense{
		ID:       e.ID,
		Name:     e.Name,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     e.Date,
	}
}
