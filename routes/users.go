package routes

import (
	"net/http"
	"time"

	"vantor/controllers/auth"
	"vantor/controllers/users"
	"vantor/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers all user-facing routes on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Login/register limiter: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Session limiter: 120 reads / 60 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutHandler)))).Methods(http.MethodPost)
	api.Handle("/logout-all", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutAllHandler)))).Methods(http.MethodPost)

	// Change password (write)
	api.Handle("/users/change-password", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ChangePasswordHandler)))).Methods(http.MethodPost)

	// User info (read)
	api.Handle("/users/info", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UserInfoHandler)))).Methods(http.MethodGet)

	// Public: list active plans with optional profit preview
	api.Handle("/plans", userLimiter.Middleware(http.HandlerFunc(users.ListPlansHandler))).Methods(http.MethodGet)

	// Wallets
	api.Handle("/users/wallets", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.MyWalletsHandler)))).Methods(http.MethodGet)

	// Investments
	api.Handle("/users/investments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateInvestmentHandler)))).Methods(http.MethodPost)
	api.Handle("/users/investments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.MyInvestmentsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/investments/{id:[0-9]+}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.InvestmentDetailHandler)))).Methods(http.MethodGet)

	// Deposits
	api.Handle("/users/deposits", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateDepositHandler)))).Methods(http.MethodPost)
	api.Handle("/users/deposits", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.MyDepositsHandler)))).Methods(http.MethodGet)

	// Withdrawals
	api.Handle("/users/withdrawals", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateWithdrawalHandler)))).Methods(http.MethodPost)
	api.Handle("/users/withdrawals", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.MyWithdrawalsHandler)))).Methods(http.MethodGet)

	// Payment accounts
	api.Handle("/users/payment-accounts", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreatePaymentAccountHandler)))).Methods(http.MethodPost)
	api.Handle("/users/payment-accounts", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.MyPaymentAccountsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/payment-accounts/{id:[0-9]+}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.DeletePaymentAccountHandler)))).Methods(http.MethodDelete)

	// Transaction history
	api.Handle("/users/transactions", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionHistory)))).Methods(http.MethodGet)

	// KYC
	api.Handle("/users/kyc", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.SubmitKycHandler)))).Methods(http.MethodPost)
	api.Handle("/users/kyc", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.KycStatusHandler)))).Methods(http.MethodGet)

	// Referral team
	api.Handle("/users/team", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.MyTeamHandler)))).Methods(http.MethodGet)

	// Notifications
	api.Handle("/users/notifications", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.MyNotificationsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/notifications/{id:[0-9]+}/read", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.MarkNotificationReadHandler)))).Methods(http.MethodPost)
}
