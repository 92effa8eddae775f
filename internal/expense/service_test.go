package expense_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	errors "github.com/TamilarasanG17/VT-Wallet/internal"
	expenseDatamodel "github.com/TamilarasanG17/VT-Wallet/internal/core/datamodel/expense"
	"github.com/TamilarasanG17/VT-Wallet/internal/expense"
)

func TestExpenseService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ExpenseService Suite")
}

// Mock repository for testing
type mockExpenseRepository struct {
	records     []*expenseDatamodel.Expense
	createError error
	findError   error
	deleteError error
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{records: make([]*expenseDatamodel.Expense, 0)}
}

func (m *mockExpenseRepository) Create(e *expenseDatamodel.Expense) error {
	if m.createError != nil {
		return m.createError
	}
	m.records = append(m.records, e)
	return nil
}

func (m *mockExpenseRepository) FindAll(userID int64) ([]*expenseDatamodel.Expense, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	out := make([]*expenseDatamodel.Expense, 0)
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockExpenseRepository) FindSince(userID int64, cutoff time.Time) ([]*expenseDatamodel.Expense, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	out := make([]*expenseDatamodel.Expense, 0)
	for _, r := range m.records {
		if r.UserID == userID && !r.Date.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockExpenseRepository) FindByWeek(userID int64, weekLabel string) ([]*expenseDatamodel.Expense, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	out := make([]*expenseDatamodel.Expense, 0)
	for _, r := range m.records {
		if r.UserID == userID && r.Week == weekLabel {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockExpenseRepository) FindByMonth(userID int64, monthName string, year int) ([]*expenseDatamodel.Expense, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	out := make([]*expenseDatamodel.Expense, 0)
	for _, r := range m.records {
		if r.UserID == userID && r.Month == monthName && r.Year == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockExpenseRepository) TopByAmount(userID int64, monthName string, year int, limit int) ([]*expenseDatamodel.Expense, error) {
	matched, err := m.FindByMonth(userID, monthName, year)
	if err != nil {
		return nil, err
	}
	// insertion sort by amount descending, stable enough for test sizes
	for i := 1; i < len(matched); i++ {
		for j := i; j > 0 && matched[j].Amount.GreaterThan(matched[j-1].Amount); j-- {
			matched[j], matched[j-1] = matched[j-1], matched[j]
		}
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *mockExpenseRepository) SumByCategory(userID int64, monthName string, year int) ([]expenseDatamodel.CategoryTotal, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	for _, r := range m.records {
		if r.UserID != userID || r.Month != monthName || r.Year != year {
			continue
		}
		if _, ok := totals[r.Category]; !ok {
			order = append(order, r.Category)
		}
		totals[r.Category] = totals[r.Category].Add(r.Amount)
	}
	out := make([]expenseDatamodel.CategoryTotal, 0, len(order))
	for _, c := range order {
		out = append(out, expenseDatamodel.CategoryTotal{Category: c, TotalSpent: totals[c]})
	}
	return out, nil
}

func (m *mockExpenseRepository) deleteWhere(keep func(*expenseDatamodel.Expense) bool) (int64, error) {
	if m.deleteError != nil {
		return 0, m.deleteError
	}
	kept := make([]*expenseDatamodel.Expense, 0, len(m.records))
	var deleted int64
	for _, r := range m.records {
		if keep(r) {
			kept = append(kept, r)
		} else {
			deleted++
		}
	}
	m.records = kept
	return deleted, nil
}

func (m *mockExpenseRepository) DeleteOlderThan(userID int64, cutoff time.Time) (int64, error) {
	return m.deleteWhere(func(r *expenseDatamodel.Expense) bool {
		return r.UserID != userID || !r.Date.Before(cutoff)
	})
}

func (m *mockExpenseRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	return m.deleteWhere(func(r *expenseDatamodel.Expense) bool {
		return !r.Date.Before(cutoff)
	})
}

func (m *mockExpenseRepository) DeleteByID(userID int64, id string) (int64, error) {
	return m.deleteWhere(func(r *expenseDatamodel.Expense) bool {
		return r.UserID != userID || r.ID != id
	})
}

func (m *mockExpenseRepository) DeleteByWeek(userID int64, weekLabel string) (int64, error) {
	return m.deleteWhere(func(r *expenseDatamodel.Expense) bool {
		return r.UserID != userID || r.Week != weekLabel
	})
}

func (m *mockExpenseRepository) DeleteByMonth(userID int64, monthName string, year int) (int64, error) {
	return m.deleteWhere(func(r *expenseDatamodel.Expense) bool {
		return r.UserID != userID || r.Month != monthName || r.Year != year
	})
}

var _ = Describe("ExpenseService", func() {
	var (
		repo    *mockExpenseRepository
		service *expense.Service
	)

	const userID int64 = 1

	// Monday of ISO week 34.
	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

	amount := func(s string) decimal.Decimal {
		return decimal.RequireFromString(s)
	}

	seed := func(name, amt, category string, date time.Time) *expenseDatamodel.Expense {
		_, err := service.RecordExpense(userID, expense.CreateExpenseDTO{
			Name:     name,
			Amount:   amount(amt),
			Category: category,
			Date:     date,
		})
		Expect(err).NotTo(HaveOccurred())
		return repo.records[len(repo.records)-1]
	}

	BeforeEach(func() {
		repo = newMockExpenseRepository()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = expense.NewService(repo, logger, 0)
	})

	Describe("RecordExpense", func() {
		Context("when the payload is valid", func() {
			It("should derive and store the bucket fields", func() {
				created, err := service.RecordExpense(userID, expense.CreateExpenseDTO{
					Name:     "Groceries",
					Amount:   amount("54.20"),
					Category: expense.CategoryFood,
					Date:     now,
				})

				Expect(err).NotTo(HaveOccurred())
				Expect(created.ID).NotTo(BeEmpty())
				Expect(created.Week).To(Equal("Week 34 (2025)"))
				Expect(created.Month).To(Equal("August"))
				Expect(created.Year).To(Equal(2025))
				Expect(repo.records).To(HaveLen(1))
			})

			It("should keep the stored week label even across a year boundary", func() {
				date := time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC)
				created, err := service.RecordExpense(userID, expense.CreateExpenseDTO{
					Name:     "Fireworks",
					Amount:   amount("20.00"),
					Category: expense.CategoryEntertainment,
					Date:     date,
				})

				Expect(err).NotTo(HaveOccurred())
				// ISO week of the year the Thursday falls in, calendar year of the date.
				Expect(created.Week).To(Equal("Week 1 (2025)"))
				Expect(created.Year).To(Equal(2024))
				Expect(created.Month).To(Equal("December"))
			})
		})

		Context("when validation fails", func() {
			It("should reject an empty name", func() {
				_, err := service.RecordExpense(userID, expense.CreateExpenseDTO{
					Name:     "   ",
					Amount:   amount("10.00"),
					Category: expense.CategoryFood,
					Date:     now,
				})

				Expect(err).To(HaveOccurred())
				appErr, ok := errors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
				Expect(repo.records).To(BeEmpty())
			})

			It("should reject an amount below the minimum", func() {
				_, err := service.RecordExpense(userID, expense.CreateExpenseDTO{
					Name:     "Penny",
					Amount:   amount("0.001"),
					Category: expense.CategoryFood,
					Date:     now,
				})

				Expect(err).To(HaveOccurred())
				Expect(repo.records).To(BeEmpty())
			})

			It("should reject an unknown category", func() {
				_, err := service.RecordExpense(userID, expense.CreateExpenseDTO{
					Name:     "Mystery",
					Amount:   amount("10.00"),
					Category: "gadgets",
					Date:     now,
				})

				Expect(err).To(HaveOccurred())
			})
		})

		Context("when the repository fails", func() {
			It("should wrap the store error", func() {
				repo.createError = io.ErrUnexpectedEOF

				_, err := service.RecordExpense(userID, expense.CreateExpenseDTO{
					Name:     "Groceries",
					Amount:   amount("10.00"),
					Category: expense.CategoryFood,
					Date:     now,
				})

				Expect(err).To(HaveOccurred())
				appErr, ok := errors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(errors.ErrorTypeStoreUnavailable))
			})
		})
	})

	Describe("ListDaily", func() {
		It("should delete records older than the window and return the rest", func() {
			seed("Fresh", "10.00", expense.CategoryFood, now.AddDate(0, 0, -1))
			seed("Stale", "20.00", expense.CategoryFood, now.AddDate(0, 0, -10))

			result, err := service.ListDaily(userID, now)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].Name).To(Equal("Fresh"))
			// The stale record is gone from the store, not just filtered.
			Expect(repo.records).To(HaveLen(1))
		})

		It("should remove stale records from every view, including histories", func() {
			seed("Stale", "20.00", expense.CategoryFood, now.AddDate(0, 0, -30))

			_, err := service.ListDaily(userID, now)
			Expect(err).NotTo(HaveOccurred())

			history, err := service.WeeklyHistory(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(BeEmpty())
		})
	})

	Describe("ListWeekly", func() {
		It("should match on the stored week label of the reference instant", func() {
			seed("This week", "10.00", expense.CategoryFood, now)
			seed("Last month", "20.00", expense.CategoryFood, now.AddDate(0, -1, 0))

			result, err := service.ListWeekly(userID, now)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].Name).To(Equal("This week"))
		})
	})

	Describe("ListMonthly", func() {
		It("should match on the stored month and year", func() {
			seed("This month", "10.00", expense.CategoryFood, now)
			seed("Last year", "20.00", expense.CategoryFood, now.AddDate(-1, 0, 0))

			result, err := service.ListMonthly(userID, now)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].Name).To(Equal("This month"))
		})
	})

	Describe("CategorySummary", func() {
		It("should compute totals and shares of the monthly overall", func() {
			seed("Groceries", "75.00", expense.CategoryFood, now)
			seed("Cinema", "25.00", expense.CategoryEntertainment, now)

			summary, err := service.CategorySummary(userID, now)

			Expect(err).NotTo(HaveOccurred())
			Expect(summary).To(HaveLen(2))
			Expect(summary[0].Category).To(Equal(expense.CategoryFood))
			Expect(summary[0].TotalSpent.Equal(amount("75.00"))).To(BeTrue())
			Expect(summary[0].Percentage.Equal(amount("75"))).To(BeTrue())
			Expect(summary[1].Percentage.Equal(amount("25"))).To(BeTrue())
		})

		It("should round percentages to two decimal places", func() {
			seed("A", "10.00", expense.CategoryFood, now)
			seed("B", "10.00", expense.CategoryTravel, now)
			seed("C", "10.00", expense.CategoryBills, now)

			summary, err := service.CategorySummary(userID, now)

			Expect(err).NotTo(HaveOccurred())
			Expect(summary).To(HaveLen(3))
			for _, entry := range summary {
				Expect(entry.Percentage.Equal(amount("33.33"))).To(BeTrue())
			}
		})

		It("should return an empty slice for an empty month", func() {
			summary, err := service.CategorySummary(userID, now)

			Expect(err).NotTo(HaveOccurred())
			Expect(summary).NotTo(BeNil())
			Expect(summary).To(BeEmpty())
		})
	})

	Describe("TopSpending", func() {
		It("should order by amount descending and honor the limit", func() {
			seed("Small", "5.00", expense.CategoryFood, now)
			seed("Big", "100.00", expense.CategoryShopping, now)
			seed("Medium", "50.00", expense.CategoryBills, now)

			result, err := service.TopSpending(userID, now, 2)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(2))
			Expect(result[0].Name).To(Equal("Big"))
			Expect(result[1].Name).To(Equal("Medium"))
		})

		It("should fall back to the default limit", func() {
			seed("Only", "5.00", expense.CategoryFood, now)

			result, err := service.TopSpending(userID, now, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
		})
	})

	Describe("WeeklyHistory", func() {
		It("should group records by stored week label with totals", func() {
			seed("A", "10.00", expense.CategoryFood, now)
			seed("B", "15.00", expense.CategoryFood, now)
			seed("C", "20.00", expense.CategoryFood, now.AddDate(0, 0, -14))

			history, err := service.WeeklyHistory(userID)

			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))

			byID := make(map[string]decimal.Decimal)
			for _, g := range history {
				byID[g.WeekID] = g.TotalSpent
			}
			Expect(byID["Week 34 (2025)"].Equal(amount("25.00"))).To(BeTrue())
			Expect(byID["Week 32 (2025)"].Equal(amount("20.00"))).To(BeTrue())
		})

		It("should order groups by label string, not chronologically", func() {
			// Week 9 sorts after Week 34 as a string, so it comes first in
			// the descending order.
			seed("Spring", "10.00", expense.CategoryFood, time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC))
			seed("Summer", "20.00", expense.CategoryFood, now)

			history, err := service.WeeklyHistory(userID)

			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))
			Expect(history[0].WeekID).To(Equal("Week 9 (2025)"))
			Expect(history[1].WeekID).To(Equal("Week 34 (2025)"))
		})
	})

	Describe("MonthlyHistory", func() {
		It("should group by month and year with a combined id", func() {
			seed("A", "10.00", expense.CategoryFood, now)
			seed("B", "20.00", expense.CategoryFood, time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC))

			history, err := service.MonthlyHistory(userID)

			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))
			Expect(history[0].MonthID).To(Equal("August 2025"))
			Expect(history[1].MonthID).To(Equal("August 2024"))
		})

		It("should order months within a year alphabetically descending", func() {
			seed("Jan", "10.00", expense.CategoryFood, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
			seed("Sep", "20.00", expense.CategoryFood, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC))
			seed("Feb", "30.00", expense.CategoryFood, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC))

			history, err := service.MonthlyHistory(userID)

			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(3))
			Expect(history[0].MonthID).To(Equal("September 2025"))
			Expect(history[1].MonthID).To(Equal("January 2025"))
			Expect(history[2].MonthID).To(Equal("February 2025"))
		})
	})

	Describe("DeleteExpense", func() {
		It("should delete an owned record", func() {
			record := seed("Groceries", "10.00", expense.CategoryFood, now)

			err := service.DeleteExpense(userID, record.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.records).To(BeEmpty())
		})

		It("should return not found for an unknown id", func() {
			err := service.DeleteExpense(userID, "does-not-exist")

			Expect(err).To(Equal(errors.ErrExpenseNotFound))
		})

		It("should not delete another user's record", func() {
			record := seed("Groceries", "10.00", expense.CategoryFood, now)

			err := service.DeleteExpense(userID+1, record.ID)

			Expect(err).To(Equal(errors.ErrExpenseNotFound))
			Expect(repo.records).To(HaveLen(1))
		})
	})

	Describe("DeletePeriod", func() {
		It("should delete a whole week bucket", func() {
			seed("A", "10.00", expense.CategoryFood, now)
			seed("B", "20.00", expense.CategoryFood, now)

			deleted, err := service.DeletePeriod(userID, "weekly", "Week 34 (2025)")

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(int64(2)))
			Expect(repo.records).To(BeEmpty())
		})

		It("should return not found when the bucket is already empty", func() {
			seed("A", "10.00", expense.CategoryFood, now)

			_, err := service.DeletePeriod(userID, "weekly", "Week 34 (2025)")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.DeletePeriod(userID, "weekly", "Week 34 (2025)")
			Expect(err).To(Equal(errors.ErrPeriodNotFound))
		})

		It("should delete a month bucket addressed by name and year", func() {
			seed("A", "10.00", expense.CategoryFood, now)

			deleted, err := service.DeletePeriod(userID, "monthly", "August 2025")

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(int64(1)))
		})

		It("should reject a malformed monthly period id", func() {
			_, err := service.DeletePeriod(userID, "monthly", "August")

			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeInvalidArgument))
		})

		It("should reject an unknown kind", func() {
			_, err := service.DeletePeriod(userID, "yearly", "2025")

			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(errors.ErrCodeInvalidHistoryKind))
		})
	})

	Describe("SweepExpired", func() {
		It("should purge expired records across users", func() {
			seed("Mine stale", "10.00", expense.CategoryFood, now.AddDate(0, 0, -30))
			other := &expenseDatamodel.Expense{
				ID: "other", UserID: 2, Name: "Theirs stale",
				Amount: amount("5.00"), Category: expense.CategoryFood,
				Date: now.AddDate(0, 0, -30), Week: "Week 30 (2025)", Month: "July", Year: 2025,
			}
			repo.records = append(repo.records, other)

			deleted, err := service.SweepExpired(now)

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(int64(2)))
			Expect(repo.records).To(BeEmpty())
		})
	})
})
