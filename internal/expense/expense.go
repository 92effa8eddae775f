package expense

import (
	"time"

	"github.com/shopspring/decimal"

	expenseDatamodel "github.com/TamilarasanG17/VT-Wallet/internal/core/datamodel/expense"
)

// Expense is one user-submitted transaction. Week, Month and Year are
// derived from Date exactly once at creation and stored; they are the
// grouping keys for every report and retention sweep afterward, even if a
// fresh computation against Date would disagree.
type Expense struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"-"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
	Week      string          `json:"week"`
	Month     string          `json:"month"`
	Year      int             `json:"year"`
	CreatedAt time.Time       `json:"created_at"`
}

const (
	CategoryFood          = "food"
	CategoryTravel        = "travel"
	CategoryEntertainment = "entertainment"
	CategoryBills         = "bills"
	CategoryShopping      = "shopping"
	CategoryOther         = "other"
)

// Categories is the closed set of accepted expense categories.
var Categories = []string{
	CategoryFood,
	CategoryTravel,
	CategoryEntertainment,
	CategoryBills,
	CategoryShopping,
	CategoryOther,
}

// MinAmount is the smallest accepted expense amount.
var MinAmount = decimal.RequireFromString("0.01")

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:        e.ID,
		UserID:    e.UserID,
		Name:      e.Name,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date,
		Week:      e.Week,
		Month:     e.Month,
		Year:      e.Year,
		CreatedAt: e.CreatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:        e.ID,
		UserID:    e.UserID,
		Name:      e.Name,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date,
		Week:      e.Week,
		Month:     e.Month,
		Year:      e.Year,
		CreatedAt: e.CreatedAt,
	}
}

func FromDataModelSlice(records []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(records))
	for i, e := range records {
		result[i] = FromDataModel(e)
	}
	return result
}
