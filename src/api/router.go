package api

import (
	"net/http"

	"fintrack-server/src/config"
	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(pool *pgxpool.Pool, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handlers.Register(pool))
		r.Post("/auth/login", handlers.Login(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// User
			r.Get("/auth/me", handlers.GetMe(pool))
			r.Put("/auth/profile", handlers.UpdateProfile(pool))
			r.Put("/auth/password", handlers.ChangePassword(pool))
			r.Delete("/auth/account", handlers.DeleteAccount(pool))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Get("/transactions", handlers.GetTransactions(pool))
			r.Post("/transactions/bulk-delete", handlers.BulkDeleteTransactions(pool))
			r.Get("/transactions/{transaction_id}", handlers.GetTransaction(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))

			// Analytics
			r.Get("/transactions/summary", handlers.GetSummary(pool))
			r.Get("/transactions/categories/{type}", handlers.GetCategoryBreakdown(pool))
			r.Get("/transactions/trends", handlers.GetMonthlyTrend(pool))
		})
	})

	return r
}
