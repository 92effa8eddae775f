package expense_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/TamilarasanG17/VT-Wallet/internal/auth"
	"github.com/TamilarasanG17/VT-Wallet/internal/expense"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var _ = Describe("Expense Handler", func() {
	var (
		repo    *mockExpenseRepository
		service *expense.Service
		handler *expense.Handler
	)

	const userID int64 = 1

	authedRequest := func(method, target string, body []byte) *http.Request {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req := httptest.NewRequest(method, target, reader)
		ctx := auth.ContextWithUser(req.Context(), &auth.User{ID: userID, Email: "tamil@mail.com"})
		return req.WithContext(ctx)
	}

	withURLParams := func(req *http.Request, pairs ...string) *http.Request {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(pairs); i += 2 {
			rctx.URLParams.Add(pairs[i], pairs[i+1])
		}
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	BeforeEach(func() {
		repo = newMockExpenseRepository()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = expense.NewService(repo, logger, 0)
		handler = expense.NewHandler(service)
	})

	Describe("CreateExpense", func() {
		It("should create an expense and return the derived buckets", func() {
			payload, err := json.Marshal(map[string]interface{}{
				"name":     "Groceries",
				"amount":   "54.20",
				"category": "food",
				"date":     time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
			})
			Expect(err).NotTo(HaveOccurred())

			w := httptest.NewRecorder()
			handler.CreateExpense(w, authedRequest(http.MethodPost, "/expenses", payload))

			Expect(w.Code).To(Equal(http.StatusCreated))

			var created expense.Expense
			Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
			Expect(created.Week).To(Equal("Week 34 (2025)"))
			Expect(created.Month).To(Equal("August"))
			Expect(created.Year).To(Equal(2025))
		})

		It("should reject an invalid payload with 400", func() {
			payload := []byte(`{"name":"","amount":"0","category":"food"}`)

			w := httptest.NewRecorder()
			handler.CreateExpense(w, authedRequest(http.MethodPost, "/expenses", payload))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject an unauthenticated request", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewReader([]byte(`{}`)))

			handler.CreateExpense(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("GetAllExpenses", func() {
		It("should return the user's expenses as JSON", func() {
			_, err := service.RecordExpense(userID, expense.CreateExpenseDTO{
				Name:     "Groceries",
				Amount:   mustDecimal("10.00"),
				Category: expense.CategoryFood,
				Date:     time.Now().UTC(),
			})
			Expect(err).NotTo(HaveOccurred())

			w := httptest.NewRecorder()
			handler.GetAllExpenses(w, authedRequest(http.MethodGet, "/expenses", nil))

			Expect(w.Code).To(Equal(http.StatusOK))

			var result []expense.Expense
			Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
			Expect(result).To(HaveLen(1))
			Expect(result[0].Name).To(Equal("Groceries"))
		})
	})

	Describe("DeleteExpense", func() {
		It("should return 404 for an unknown id", func() {
			w := httptest.NewRecorder()
			req := withURLParams(authedRequest(http.MethodDelete, "/expenses/nope", nil), "id", "nope")

			handler.DeleteExpense(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("DeletePeriod", func() {
		It("should return 400 for an unknown kind", func() {
			w := httptest.NewRecorder()
			req := withURLParams(authedRequest(http.MethodDelete, "/expenses/history/yearly/2025", nil),
				"kind", "yearly", "id", "2025")

			handler.DeletePeriod(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GetCategories", func() {
		It("should list the closed category set", func() {
			w := httptest.NewRecorder()

			handler.GetCategories(w, httptest.NewRequest(http.MethodGet, "/categories", nil))

			Expect(w.Code).To(Equal(http.StatusOK))

			var categories []string
			Expect(json.NewDecoder(w.Body).Decode(&categories)).To(Succeed())
			Expect(categories).To(ContainElements("food", "travel", "entertainment", "bills", "shopping", "other"))
		})
	})
})
