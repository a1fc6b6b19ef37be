package http

import (
	"github.com/labstack/echo/v4"

	"lendora-backend/internal/adapter/middleware"
	userDomain "lendora-backend/internal/domain/user"
)

const (
	roleAdmin    = string(userDomain.RoleAdmin)
	roleBorrower = string(userDomain.RoleBorrower)
	roleLender   = string(userDomain.RoleLender)
	roleAnalyst  = string(userDomain.RoleAnalyst)
)

// Routes bundles every handler plus the session resolver the auth middleware
// needs. Extra middleware (idempotency, when redis is up) wraps every
// authenticated route; login stays outside it so clients can always sign in.
type Routes struct {
	Health    *Handler
	Auth      *AuthHandler
	Users     *UserHandler
	Loans     *LoanHandler
	Analytics *AnalyticsHandler
	Assistant *AssistantHandler
	Sessions  middleware.SessionResolver
	Extra     []echo.MiddlewareFunc
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)

	api := e.Group("/api")
	api.POST("/auth/login", r.Auth.Login)

	mws := append([]echo.MiddlewareFunc{middleware.RequireAuth(r.Sessions)}, r.Extra...)
	authed := api.Group("", mws...)

	authed.POST("/auth/logout", r.Auth.Logout)
	authed.GET("/auth/me", r.Auth.Me)
	authed.GET("/session/selected-user", r.Auth.SelectedUser)
	authed.PUT("/session/selected-user", r.Auth.SelectUser)

	authed.GET("/users", r.Users.ListUsers, middleware.RequireRole(roleAdmin, roleAnalyst))
	authed.POST("/users", r.Users.CreateUser, middleware.RequireRole(roleAdmin))
	authed.GET("/users/:user_id", r.Users.GetUser)

	authed.GET("/loans", r.Loans.ListLoans)
	authed.POST("/loans", r.Loans.CreateLoan, middleware.RequireRole(roleAdmin, roleBorrower))
	authed.GET("/loans/:loan_id", r.Loans.GetLoan)
	authed.PATCH("/loans/:loan_id/status", r.Loans.UpdateLoanStatus, middleware.RequireRole(roleAdmin, roleLender))
	authed.POST("/loans/:loan_id/repayments", r.Loans.AddRepayment, middleware.RequireRole(roleBorrower))

	analystOrAdmin := middleware.RequireRole(roleAdmin, roleAnalyst)
	authed.GET("/analytics/summary", r.Analytics.Summary, analystOrAdmin)
	authed.GET("/analytics/lenders/:user_id", r.Analytics.LenderSummary, middleware.RequireRole(roleLender, roleAdmin, roleAnalyst))
	authed.GET("/analytics/borrowers/:user_id", r.Analytics.BorrowerSummary, middleware.RequireRole(roleBorrower, roleAdmin, roleAnalyst))
	authed.GET("/analytics/charts/status.png", r.Analytics.StatusChart, analystOrAdmin)
	authed.GET("/analytics/charts/amounts.png", r.Analytics.AmountsChart, analystOrAdmin)
	authed.GET("/analytics/charts/credit-scores.png", r.Analytics.CreditScoresChart, analystOrAdmin)

	authed.POST("/assistant/ask", r.Assistant.Ask, middleware.RequireRole(roleAnalyst))
}
