package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	expenseDatamodel "github.com/TamilarasanG17/VT-Wallet/internal/core/datamodel/expense"
	"github.com/TamilarasanG17/VT-Wallet/internal/expense"
)

func TestExpenseRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ExpenseRepository Suite")
}

// SQLiteExpense mirrors the expenses table without postgres-only column
// types so AutoMigrate works against the in-memory database.
type SQLiteExpense struct {
	ID        string    `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null"`
	Name      string    `gorm:"not null"`
	Amount    float64   `gorm:"column:amount;type:decimal(12,2);not null"`
	Category  string    `gorm:"not null"`
	Date      time.Time `gorm:"column:date;not null"`
	Week      string    `gorm:"column:week;not null"`
	Month     string    `gorm:"column:month;not null"`
	Year      int       `gorm:"column:year;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteExpense) TableName() string {
	return "expenses"
}

var _ = Describe("ExpenseRepository", func() {
	var (
		db   *gorm.DB
		repo expense.Repository
	)

	const userID int64 = 1

	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

	insert := func(id, name, amt, category string, date time.Time, week, month string, year int) {
		record := &expenseDatamodel.Expense{
			ID:        id,
			UserID:    userID,
			Name:      name,
			Amount:    decimal.RequireFromString(amt),
			Category:  category,
			Date:      date,
			Week:      week,
			Month:     month,
			Year:      year,
			CreatedAt: date,
		}
		Expect(repo.Create(record)).To(Succeed())
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteExpense{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewExpenseRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("FindAll", func() {
		It("should return only the user's records, newest first", func() {
			insert("a", "Old", "10.00", "food", now.AddDate(0, 0, -3), "Week 33 (2025)", "August", 2025)
			insert("b", "New", "20.00", "food", now, "Week 34 (2025)", "August", 2025)

			other := &expenseDatamodel.Expense{
				ID: "c", UserID: 2, Name: "Theirs",
				Amount: decimal.RequireFromString("5.00"), Category: "food",
				Date: now, Week: "Week 34 (2025)", Month: "August", Year: 2025,
			}
			Expect(repo.Create(other)).To(Succeed())

			records, err := repo.FindAll(userID)

			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Name).To(Equal("New"))
			Expect(records[1].Name).To(Equal("Old"))
		})
	})

	Describe("FindSince", func() {
		It("should exclude records before the cutoff", func() {
			insert("a", "Fresh", "10.00", "food", now.AddDate(0, 0, -1), "Week 34 (2025)", "August", 2025)
			insert("b", "Stale", "20.00", "food", now.AddDate(0, 0, -10), "Week 32 (2025)", "August", 2025)

			records, err := repo.FindSince(userID, now.AddDate(0, 0, -7))

			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Name).To(Equal("Fresh"))
		})
	})

	Describe("FindByWeek", func() {
		It("should match the stored week label exactly", func() {
			insert("a", "This", "10.00", "food", now, "Week 34 (2025)", "August", 2025)
			insert("b", "Other", "20.00", "food", now.AddDate(0, 0, -14), "Week 32 (2025)", "August", 2025)

			records, err := repo.FindByWeek(userID, "Week 34 (2025)")

			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Name).To(Equal("This"))
		})
	})

	Describe("FindByMonth", func() {
		It("should match month name and year together", func() {
			insert("a", "This", "10.00", "food", now, "Week 34 (2025)", "August", 2025)
			insert("b", "LastYear", "20.00", "food", now.AddDate(-1, 0, 0), "Week 34 (2024)", "August", 2024)

			records, err := repo.FindByMonth(userID, "August", 2025)

			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Name).To(Equal("This"))
		})
	})

	Describe("TopByAmount", func() {
		It("should order by amount descending and apply the limit", func() {
			insert("a", "Small", "5.00", "food", now, "Week 34 (2025)", "August", 2025)
			insert("b", "Big", "100.00", "shopping", now, "Week 34 (2025)", "August", 2025)
			insert("c", "Medium", "50.00", "bills", now, "Week 34 (2025)", "August", 2025)

			records, err := repo.TopByAmount(userID, "August", 2025, 2)

			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Name).To(Equal("Big"))
			Expect(records[1].Name).To(Equal("Medium"))
		})
	})

	Describe("SumByCategory", func() {
		It("should aggregate totals per category, largest first", func() {
			insert("a", "Groceries", "30.00", "food", now, "Week 34 (2025)", "August", 2025)
			insert("b", "Snacks", "20.00", "food", now, "Week 34 (2025)", "August", 2025)
			insert("c", "Bus", "10.00", "travel", now, "Week 34 (2025)", "August", 2025)

			totals, err := repo.SumByCategory(userID, "August", 2025)

			Expect(err).NotTo(HaveOccurred())
			Expect(totals).To(HaveLen(2))
			Expect(totals[0].Category).To(Equal("food"))
			Expect(totals[0].TotalSpent.Equal(decimal.RequireFromString("50"))).To(BeTrue())
			Expect(totals[1].Category).To(Equal("travel"))
		})
	})

	Describe("DeleteOlderThan", func() {
		It("should remove only the user's records before the cutoff", func() {
			insert("a", "Fresh", "10.00", "food", now.AddDate(0, 0, -1), "Week 34 (2025)", "August", 2025)
			insert("b", "Stale", "20.00", "food", now.AddDate(0, 0, -10), "Week 32 (2025)", "August", 2025)

			deleted, err := repo.DeleteOlderThan(userID, now.AddDate(0, 0, -7))

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(int64(1)))

			remaining, err := repo.FindAll(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].Name).To(Equal("Fresh"))
		})
	})

	Describe("DeleteByWeek", func() {
		It("should remove every record of the week bucket", func() {
			insert("a", "A", "10.00", "food", now, "Week 34 (2025)", "August", 2025)
			insert("b", "B", "20.00", "food", now, "Week 34 (2025)", "August", 2025)
			insert("c", "C", "30.00", "food", now.AddDate(0, 0, -14), "Week 32 (2025)", "August", 2025)

			deleted, err := repo.DeleteByWeek(userID, "Week 34 (2025)")

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(int64(2)))
		})

		It("should report zero rows for an unknown label", func() {
			deleted, err := repo.DeleteByWeek(userID, "Week 1 (1999)")

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeZero())
		})
	})

	Describe("DeleteByMonth", func() {
		It("should remove the month bucket and leave other years alone", func() {
			insert("a", "This", "10.00", "food", now, "Week 34 (2025)", "August", 2025)
			insert("b", "LastYear", "20.00", "food", now.AddDate(-1, 0, 0), "Week 34 (2024)", "August", 2024)

			deleted, err := repo.DeleteByMonth(userID, "August", 2025)

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(int64(1)))

			remaining, err := repo.FindAll(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].Name).To(Equal("LastYear"))
		})
	})

	Describe("PurgeOlderThan", func() {
		It("should remove stale records across all users", func() {
			insert("a", "Mine", "10.00", "food", now.AddDate(0, 0, -10), "Week 32 (2025)", "August", 2025)
			other := &expenseDatamodel.Expense{
				ID: "b", UserID: 2, Name: "Theirs",
				Amount: decimal.RequireFromString("5.00"), Category: "food",
				Date: now.AddDate(0, 0, -10), Week: "Week 32 (2025)", Month: "August", Year: 2025,
			}
			Expect(repo.Create(other)).To(Succeed())

			deleted, err := repo.PurgeOlderThan(now.AddDate(0, 0, -7))

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(int64(2)))
		})
	})
})
