package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/TamilarasanG17/VT-Wallet/internal/auth"
	"github.com/TamilarasanG17/VT-Wallet/internal/expense"
	"github.com/TamilarasanG17/VT-Wallet/internal/transport/middleware"
	"github.com/TamilarasanG17/VT-Wallet/internal/transport/swagger"
	"github.com/TamilarasanG17/VT-Wallet/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, expenseHandler *expense.Handler, allowedOrigins []string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", authHandler.Register)
				sr.Post("/login", authHandler.Login)
				sr.Post("/forgot-password", authHandler.ForgotPassword)
				sr.Post("/verify-code", authHandler.VerifyCode)
				sr.Post("/reset-password", authHandler.ResetPassword)
				sr.Post("/refresh", authHandler.RefreshToken)
			})
		}

		// Public categories route (no auth required)
		if expenseHandler != nil {
			r.Get("/categories", expenseHandler.GetCategories)
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
				}

				// Expense routes
				if expenseHandler != nil {
					pr.Route("/expenses", func(er chi.Router) {
						er.Post("/", expenseHandler.CreateExpense)
						er.Get("/", expenseHandler.GetAllExpenses)
						er.Get("/daily", expenseHandler.GetDailyExpenses)
						er.Get("/weekly", expenseHandler.GetWeeklyExpenses)
						er.Get("/monthly", expenseHandler.GetMonthlyExpenses)
						er.Get("/summary/categories", expenseHandler.GetCategorySummary)
						er.Get("/top", expenseHandler.GetTopSpending)
						er.Get("/history/weekly", expenseHandler.GetWeeklyHistory)
						er.Get("/history/monthly", expenseHandler.GetMonthlyHistory)
						er.Delete("/{id}", expenseHandler.DeleteExpense)
						er.Delete("/history/{kind}/{id}", expenseHandler.DeletePeriod)
					})
				}
			})
		}
	})
}
