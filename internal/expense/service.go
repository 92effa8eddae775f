package expense

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"log/slog"

	errors "github.com/TamilarasanG17/VT-Wallet/internal"
	expenseDatamodel "github.com/TamilarasanG17/VT-Wallet/internal/core/datamodel/expense"
	"github.com/TamilarasanG17/VT-Wallet/internal/timebucket"
)

// DefaultDailyWindow is the reporting window for the daily view; records
// older than this are removed by the retention sweep.
const DefaultDailyWindow = 7 * 24 * time.Hour

// DefaultTopLimit caps the top-spending view when the caller does not ask
// for a specific limit.
const DefaultTopLimit = 10

const (
	PeriodKindWeekly  = "weekly"
	PeriodKindMonthly = "monthly"
)

// Repository defines the data access methods the aggregation engine needs.
// Every query is scoped to a single owner.
type Repository interface {
	Create(e *expenseDatamodel.Expense) error
	FindAll(userID int64) ([]*expenseDatamodel.Expense, error)
	FindSince(userID int64, cutoff time.Time) ([]*expenseDatamodel.Expense, error)
	FindByWeek(userID int64, weekLabel string) ([]*expenseDatamodel.Expense, error)
	FindByMonth(userID int64, monthName string, year int) ([]*expenseDatamodel.Expense, error)
	TopByAmount(userID int64, monthName string, year int, limit int) ([]*expenseDatamodel.Expense, error)
	SumByCategory(userID int64, monthName string, year int) ([]expenseDatamodel.CategoryTotal, error)
	DeleteOlderThan(userID int64, cutoff time.Time) (int64, error)
	PurgeOlderThan(cutoff time.Time) (int64, error)
	DeleteByID(userID int64, id string) (int64, error)
	DeleteByWeek(userID int64, weekLabel string) (int64, error)
	DeleteByMonth(userID int64, monthName string, year int) (int64, error)
}

// Service implements the aggregation and retention engine. Every operation
// takes the verified owner's user ID; the time-bucketed ones take an explicit
// reference instant so callers (and tests) control the clock.
type Service struct {
	repo        Repository
	logger      *slog.Logger
	dailyWindow time.Duration
}

func NewService(repo Repository, logger *slog.Logger, dailyWindow time.Duration) *Service {
	if dailyWindow <= 0 {
		dailyWindow = DefaultDailyWindow
	}
	return &Service{
		repo:        repo,
		logger:      logger,
		dailyWindow: dailyWindow,
	}
}

// RecordExpense validates the payload, derives the bucket fields from the
// occurrence date and persists a new record. The bucket fields are never
// recomputed after this point.
func (s *Service) RecordExpense(userID int64, dto CreateExpenseDTO) (*Expense, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	buckets := timebucket.Compute(dto.Date)

	e := &Expense{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      dto.Name,
		Amount:    dto.Amount,
		Category:  dto.Category,
		Date:      dto.Date.UTC(),
		Week:      buckets.WeekLabel,
		Month:     buckets.MonthName,
		Year:      buckets.Year,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ToDataModel(e)); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", userID)
		return nil, errors.NewStoreUnavailableError("failed to save expense", err)
	}

	s.logger.Info("expense recorded",
		"expense_id", e.ID,
		"user_id", userID,
		"amount", e.Amount,
		"week", e.Week)

	return e, nil
}

// ListAll returns every expense of the user, newest first.
func (s *Service) ListAll(userID int64) ([]*Expense, error) {
	records, err := s.repo.FindAll(userID)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", userID)
		return nil, errors.NewStoreUnavailableError("failed to list expenses", err)
	}
	return FromDataModelSlice(records), nil
}

// ListDaily is a destructive read: it first deletes every record older than
// the daily window and then returns what is left, newest first. A concurrent
// writer may slip a record in between the sweep and the read; that is
// accepted (read-committed, no multi-statement transaction).
func (s *Service) ListDaily(userID int64, now time.Time) ([]*Expense, error) {
	cutoff := now.UTC().Add(-s.dailyWindow)

	deleted, err := s.repo.DeleteOlderThan(userID, cutoff)
	if err != nil {
		s.logger.Error("retention sweep failed", "error", err, "user_id", userID)
		return nil, errors.NewStoreUnavailableError("retention sweep failed", err)
	}
	if deleted > 0 {
		s.logger.Info("retention sweep removed expired records",
			"user_id", userID,
			"deleted", deleted,
			"cutoff", cutoff)
	}

	records, err := s.repo.FindSince(userID, cutoff)
	if err != nil {
		s.logger.Error("failed to list daily expenses", "error", err, "user_id", userID)
		return nil, errors.NewStoreUnavailableError("failed to list daily expenses", err)
	}
	return FromDataModelSlice(records), nil
}

// ListWeekly returns the records whose stored week label matches the current
// week of the reference instant.
func (s *Service) ListWeekly(userID int64, now time.Time) ([]*Expense, error) {
	label := timebucket.Compute(now).WeekLabel

	records, err := s.repo.FindByWeek(userID, label)
	if err != nil {
		s.logger.Error("failed to list weekly expenses", "error", err, "user_id", userID, "week", label)
		return nil, errors.NewStoreUnavailableError("failed to list weekly expenses", err)
	}
	return FromDataModelSlice(records), nil
}

// ListMonthly returns the records whose stored month and year match the
// reference instant.
func (s *Service) ListMonthly(userID int64, now time.Time) ([]*Expense, error) {
	buckets := timebucket.Compute(now)

	records, err := s.repo.FindByMonth(userID, buckets.MonthName, buckets.Year)
	if err != nil {
		s.logger.Error("failed to list monthly expenses", "error", err, "user_id", userID)
		return nil, errors.NewStoreUnavailableError("failed to list monthly expenses", err)
	}
	return FromDataModelSlice(records), nil
}

// CategorySummary groups current-month records by category with each
// category's share of the monthly total. An empty month yields an empty
// slice, never an error.
func (s *Service) CategorySummary(userID int64, now time.Time) ([]CategorySummaryEntry, error) {
	buckets := timebucket.Compute(now)

	totals, err := s.repo.SumByCategory(userID, buckets.MonthName, buckets.Year)
	if err != nil {
		s.logger.Error("failed to compute category summary", "error", err, "user_id", userID)
		return nil, errors.NewStoreUnavailableError("failed to compute category summary", err)
	}

	overall := decimal.Zero
	for _, t := range totals {
		overall = overall.Add(t.TotalSpent)
	}

	hundred := decimal.NewFromInt(100)
	summary := make([]CategorySummaryEntry, 0, len(totals))
	for _, t := range totals {
		pct := decimal.Zero
		if overall.IsPositive() {
			pct = t.TotalSpent.Div(overall).Mul(hundred).Round(2)
		}
		summary = append(summary, CategorySummaryEntry{
			Category:   t.Category,
			TotalSpent: t.TotalSpent,
			Percentage: pct,
		})
	}

	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].TotalSpent.GreaterThan(summary[j].TotalSpent)
	})

	return summary, nil
}

// TopSpending returns up to limit current-month records ordered by amount
// descending. Limit defaults to DefaultTopLimit.
func (s *Service) TopSpending(userID int64, now time.Time, limit int) ([]*Expense, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	buckets := timebucket.Compute(now)

	records, err := s.repo.TopByAmount(userID, buckets.MonthName, buckets.Year, limit)
	if err != nil {
		s.logger.Error("failed to list top spending", "error", err, "user_id", userID)
		return nil, errors.NewStoreUnavailableError("failed to list top spending", err)
	}
	return FromDataModelSlice(records), nil
}

// WeeklyHistory groups every record by its stored week label. Groups are
// ordered by the label string descending, which is not chronological once
// week numbers cross into double digits ("Week 9" sorts after "Week 34").
// That matches the stored-label contract and is kept as-is.
func (s *Service) WeeklyHistory(userID int64) ([]WeeklyHistoryGroup, error) {
	records, err := s.repo.FindAll(userID)
	if err != nil {
		s.logger.Error("failed to load weekly history", "error", err, "user_id", userID)
		return nil, errors.NewStoreUnavailableError("failed to load weekly history", err)
	}

	byWeek := make(map[string]*WeeklyHistoryGroup)
	order := make([]string, 0)
	for _, r := range records {
		e := FromDataModel(r)
		group, ok := byWeek[e.Week]
		if !ok {
			group = &WeeklyHistoryGroup{WeekID: e.Week, TotalSpent: decimal.Zero}
			byWeek[e.Week] = group
			order = append(order, e.Week)
		}
		group.Expenses = append(group.Expenses, toHistoryExpense(e))
		group.TotalSpent = group.TotalSpent.Add(e.Amount)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(order)))

	groups := make([]WeeklyHistoryGroup, 0, len(order))
	for _, week := range order {
		groups = append(groups, *byWeek[week])
	}
	return groups, nil
}

// MonthlyHistory groups every record by its stored (month, year) pair.
// Groups are ordered year descending, then month name descending
// alphabetically ("September" before "January") — same quirk as the weekly
// history, kept deliberately.
func (s *Service) MonthlyHistory(userID int64) ([]MonthlyHistoryGroup, error) {
	records, err := s.repo.FindAll(userID)
	if err != nil {
		s.logger.Error("failed to load monthly history", "error", err, "user_id", userID)
		return nil, errors.NewStoreUnavailableError("failed to load monthly history", err)
	}

	type monthKey struct {
		month string
		year  int
	}
	byMonth := make(map[monthKey]*MonthlyHistoryGroup)
	order := make([]monthKey, 0)
	for _, r := range records {
		e := FromDataModel(r)
		key := monthKey{month: e.Month, year: e.Year}
		group, ok := byMonth[key]
		if !ok {
			group = &MonthlyHistoryGroup{
				MonthID:    e.Month + " " + strconv.Itoa(e.Year),
				TotalSpent: decimal.Zero,
			}
			byMonth[key] = group
			order = append(order, key)
		}
		group.Expenses = append(group.Expenses, toHistoryExpense(e))
		group.TotalSpent = group.TotalSpent.Add(e.Amount)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year > order[j].year
		}
		return order[i].month > order[j].month
	})

	groups := make([]MonthlyHistoryGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byMonth[key])
	}
	return groups, nil
}

// DeleteExpense removes a single record owned by the caller.
func (s *Service) DeleteExpense(userID int64, id string) error {
	deleted, err := s.repo.DeleteByID(userID, id)
	if err != nil {
		s.logger.Error("failed to delete expense", "error", err, "user_id", userID, "expense_id", id)
		return errors.NewStoreUnavailableError("failed to delete expense", err)
	}
	if deleted == 0 {
		return errors.ErrExpenseNotFound
	}

	s.logger.Info("expense deleted", "user_id", userID, "expense_id", id)
	return nil
}

// DeletePeriod removes every record in a historical bucket. For weekly the
// period ID is the stored week label; for monthly it is "{MonthName} {Year}".
func (s *Service) DeletePeriod(userID int64, kind, periodID string) (int64, error) {
	var deleted int64
	var err error

	switch kind {
	case PeriodKindWeekly:
		deleted, err = s.repo.DeleteByWeek(userID, periodID)
	case PeriodKindMonthly:
		parts := strings.Fields(periodID)
		if len(parts) != 2 {
			return 0, errors.NewInvalidArgumentError("invalid monthly period id", errors.ErrCodeInvalidPeriod)
		}
		year, convErr := strconv.Atoi(parts[1])
		if convErr != nil {
			return 0, errors.NewInvalidArgumentError("invalid monthly period id", errors.ErrCodeInvalidPeriod)
		}
		deleted, err = s.repo.DeleteByMonth(userID, parts[0], year)
	default:
		return 0, errors.NewInvalidArgumentError("invalid history kind", errors.ErrCodeInvalidHistoryKind)
	}

	if err != nil {
		s.logger.Error("failed to delete period", "error", err, "user_id", userID, "kind", kind, "period_id", periodID)
		return 0, errors.NewStoreUnavailableError("failed to delete period", err)
	}
	if deleted == 0 {
		return 0, errors.ErrPeriodNotFound
	}

	s.logger.Info("period deleted",
		"user_id", userID,
		"kind", kind,
		"period_id", periodID,
		"deleted", deleted)
	return deleted, nil
}

// SweepExpired removes records outside the daily window for every user. Used
// by the standalone retention worker; ListDaily performs the same sweep per
// user as a side effect.
func (s *Service) SweepExpired(now time.Time) (int64, error) {
	cutoff := now.UTC().Add(-s.dailyWindow)

	deleted, err := s.repo.PurgeOlderThan(cutoff)
	if err != nil {
		s.logger.Error("global retention sweep failed", "error", err)
		return 0, errors.NewStoreUnavailableError("retention sweep failed", err)
	}
	if deleted > 0 {
		s.logger.Info("global retention sweep completed", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
