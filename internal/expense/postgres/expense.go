package postgres

import (
	"time"

	"gorm.io/gorm"

	expenseDatamodel "github.com/TamilarasanG17/VT-Wallet/internal/core/datamodel/expense"
	"github.com/TamilarasanG17/VT-Wallet/internal/expense"
)

// ExpenseRepository implements the expense.Repository interface using GORM.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(e *expenseDatamodel.Expense) error {
	return r.db.Create(e).Error
}

func (r *ExpenseRepository) FindAll(userID int64) ([]*expenseDatamodel.Expense, error) {
	var records []*expenseDatamodel.Expense
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *ExpenseRepository) FindSince(userID int64, cutoff time.Time) ([]*expenseDatamodel.Expense, error) {
	var records []*expenseDatamodel.Expense
	err := r.db.Where("user_id = ? AND date >= ?", userID, cutoff).
		Order("date DESC").
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *ExpenseRepository) FindByWeek(userID int64, weekLabel string) ([]*expenseDatamodel.Expense, error) {
	var records []*expenseDatamodel.Expense
	err := r.db.Where("user_id = ? AND week = ?", userID, weekLabel).
		Order("date DESC").
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *ExpenseRepository) FindByMonth(userID int64, monthName string, year int) ([]*expenseDatamodel.Expense, error) {
	var records []*expenseDatamodel.Expense
	err := r.db.Where("user_id = ? AND month = ? AND year = ?", userID, monthName, year).
		Order("date DESC").
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *ExpenseRepository) TopByAmount(userID int64, monthName string, year int, limit int) ([]*expenseDatamodel.Expense, error) {
	var records []*expenseDatamodel.Expense
	err := r.db.Where("user_id = ? AND month = ? AND year = ?", userID, monthName, year).
		Order("amount DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// SumByCategory runs the group-by-sum aggregation in the database and
// returns per-category totals ordered by total descending.
func (r *ExpenseRepository) SumByCategory(userID int64, monthName string, year int) ([]expenseDatamodel.CategoryTotal, error) {
	var totals []expenseDatamodel.CategoryTotal
	err := r.db.Model(&expenseDatamodel.Expense{}).
		Select("category, SUM(amount) AS total_spent").
		Where("user_id = ? AND month = ? AND year = ?", userID, monthName, year).
		Group("category").
		Order("total_spent DESC").
		Scan(&totals).Error
	return totals, err
}

func (r *ExpenseRepository) DeleteOlderThan(userID int64, cutoff time.Time) (int64, error) {
	tx := r.db.Where("user_id = ? AND date < ?", userID, cutoff).
		Delete(&expenseDatamodel.Expense{})
	return tx.RowsAffected, tx.Error
}

// PurgeOlderThan sweeps expired records across all users; used by the
// retention worker.
func (r *ExpenseRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	tx := r.db.Where("date < ?", cutoff).
		Delete(&expenseDatamodel.Expense{})
	return tx.RowsAffected, tx.Error
}

func (r *ExpenseRepository) DeleteByID(userID int64, id string) (int64, error) {
	tx := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&expenseDatamodel.Expense{})
	return tx.RowsAffected, tx.Error
}

func (r *ExpenseRepository) DeleteByWeek(userID int64, weekLabel string) (int64, error) {
	tx := r.db.Where("user_id = ? AND week = ?", userID, weekLabel).
		Delete(&expenseDatamodel.Expense{})
	return tx.RowsAffected, tx.Error
}

func (r *ExpenseRepository) DeleteByMonth(userID int64, monthName string, year int) (int64, error) {
	tx := r.db.Where("user_id = ? AND month = ? AND year = ?", userID, monthName, year).
		Delete(&expenseDatamodel.Expense{})
	return tx.RowsAffected, tx.Error
}
