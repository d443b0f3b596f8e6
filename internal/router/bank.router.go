package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	hrest "banking-service/internal/handler/rest"
	"banking-service/internal/middleware"
)

func SetupRoutes(
	r chi.Router,
	h *hrest.BankRestHandler,
	auth *middleware.AuthMiddleware,
) chi.Router {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(api chi.Router) {
		// ---------------- Public ----------------
		api.Group(func(pub chi.Router) {
			pub.Get("/health", h.Health)
			pub.Post("/auth/signup", h.Signup)
			pub.Post("/auth/login", h.Login)

			// Card charges arrive from merchants; the card token plus CVV
			// is the credential, not a bearer token.
			pub.Post("/cards/{cardToken}/charge", h.ChargeCard)
			pub.Post("/cards/{cardToken}/refund", h.RefundCard)
		})

		// ---------------- Authenticated ----------------
		api.Group(func(g chi.Router) {
			g.Use(auth.Require)

			g.Get("/users/me", h.Me)

			g.Post("/accounts", h.CreateAccount)
			g.Get("/accounts", h.ListAccounts)
			g.Get("/accounts/{accountID}/balance", h.GetBalance)
			g.Post("/accounts/{accountID}/deposit", h.Deposit)
			g.Post("/accounts/{accountID}/withdraw", h.Withdraw)
			g.Get("/accounts/{accountID}/transactions", h.ListTransactions)

			g.Post("/transfers", h.Transfer)

			g.Post("/accounts/{accountID}/cards", h.IssueCard)
			g.Get("/accounts/{accountID}/cards", h.ListCards)

			g.Post("/accounts/{accountID}/statements", h.GenerateStatement)
			g.Get("/accounts/{accountID}/statements", h.ListStatements)
			g.Get("/accounts/{accountID}/balance/verify", h.VerifyBalance)
		})
	})

	return r
}
