package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the persistence shape of an expense record. The week, month and
// year columns are derived at write time and frozen; reporting and retention
// query them directly instead of recomputing from the date column.
type Expense struct {
	ID        string          `gorm:"primaryKey;type:uuid"`
	UserID    int64           `gorm:"column:user_id;not null;index"`
	Name      string          `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Category  string          `gorm:"not null"`
	Date      time.Time       `gorm:"column:date;not null;index"`
	Week      string          `gorm:"column:week;not null;index"`
	Month     string          `gorm:"column:month;not null"`
	Year      int             `gorm:"column:year;not null"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

// CategoryTotal is the projection returned by the per-category
// group-by-sum aggregation.
type CategoryTotal struct {
	Category   string          `gorm:"column:category"`
	TotalSpent decimal.Decimal `gorm:"column:total_spent"`
}
