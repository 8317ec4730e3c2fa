package main

import (
	"database/sql"
	"net/http"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/handlers"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repositories, handlers and middleware into the HTTP API.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	userRepo := repo.NewUserRepo(db, cfg.BcryptCost)
	incomeRepo := repo.NewIncomeRepo(db)
	expenseRepo := repo.NewExpenseRepo(db)
	auditRepo := repo.NewAuditRepo(db)

	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)

	authHandler := &handlers.AuthHandler{UserRepo: userRepo, Tokens: tokens}
	incomeHandler := &handlers.IncomeHandler{Repo: incomeRepo, UserRepo: userRepo, AuditRepo: auditRepo}
	expenseHandler := &handlers.ExpenseHandler{Repo: expenseRepo, UserRepo: userRepo, AuditRepo: auditRepo}
	summaryHandler := &handlers.SummaryHandler{Incomes: incomeRepo, Expenses: expenseRepo, DefaultTimezone: cfg.DefaultTimezone}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}
	healthHandler := &handlers.HealthHandler{DB: db}

	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// ===== Operational =====
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	limiter := middleware.AuthRateLimiter(cfg.AuthRateLimitPerMinute)

	r.Route("/api/auth", func(r chi.Router) {
		// ===== Public =====
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		// ===== Protected =====
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))

			r.Get("/user", authHandler.User)

			r.Get("/income", incomeHandler.ListIncomes)
			r.Post("/income", incomeHandler.CreateIncome)
			r.Put("/income/{id}", incomeHandler.UpdateIncome)
			r.Delete("/income/{id}", incomeHandler.DeleteIncome)

			r.Get("/expense", expenseHandler.ListExpenses)
			r.Post("/expense", expenseHandler.CreateExpense)
			r.Put("/expense/{id}", expenseHandler.UpdateExpense)
			r.Delete("/expense/{id}", expenseHandler.DeleteExpense)

			r.Get("/summary", summaryHandler.GetSummary)
			r.Get("/activity", auditHandler.ListActivity)
		})
	})

	return r
}
