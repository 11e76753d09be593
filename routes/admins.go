package routes

import (
	"net/http"
	"time"

	"vantor/controllers/admins"
	"vantor/middleware"

	"github.com/gorilla/mux"
)

func SetAdminRoutes(api *mux.Router) {
	// Rate limiter for admin login: 5 attempts per IP per minute
	adminLoginLimiter := middleware.NewIPRateLimiter(5, time.Minute)

	// Public admin routes
	api.Handle("/admin/login", adminLoginLimiter.Middleware(http.HandlerFunc(admins.Login))).Methods(http.MethodPost)

	// Protected admin routes
	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	// Dashboard stats
	adminRouter.Handle("/dashboard", http.HandlerFunc(admins.DashboardHandler)).Methods(http.MethodGet)

	// Admin profile
	adminRouter.Handle("/me", http.HandlerFunc(admins.AdminInfoHandler)).Methods(http.MethodGet)
	adminRouter.Handle("/me/password", http.HandlerFunc(admins.ChangeAdminPasswordHandler)).Methods(http.MethodPut)

	// User management
	adminRouter.Handle("/users", http.HandlerFunc(admins.GetUsers)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}", http.HandlerFunc(admins.GetUserDetail)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}/status", http.HandlerFunc(admins.UpdateUserStatus)).Methods(http.MethodPut)
	adminRouter.Handle("/users/{id:[0-9]+}/password", http.HandlerFunc(admins.ResetUserPassword)).Methods(http.MethodPut)

	// Plan management
	adminRouter.Handle("/plans", http.HandlerFunc(admins.GetPlans)).Methods(http.MethodGet)
	adminRouter.Handle("/plans", http.HandlerFunc(admins.CreatePlan)).Methods(http.MethodPost)
	adminRouter.Handle("/plans/{id:[0-9]+}", http.HandlerFunc(admins.UpdatePlan)).Methods(http.MethodPut)
	adminRouter.Handle("/plans/{id:[0-9]+}", http.HandlerFunc(admins.DeactivatePlan)).Methods(http.MethodDelete)

	// Investment management
	adminRouter.Handle("/investments", http.HandlerFunc(admins.GetInvestments)).Methods(http.MethodGet)
	adminRouter.Handle("/investments/{id:[0-9]+}", http.HandlerFunc(admins.GetInvestmentDetail)).Methods(http.MethodGet)

	// Withdrawal review
	adminRouter.Handle("/withdrawals", http.HandlerFunc(admins.GetWithdrawals)).Methods(http.MethodGet)
	adminRouter.Handle("/withdrawals/{id:[0-9]+}/approve", http.HandlerFunc(admins.ApproveWithdrawal)).Methods(http.MethodPost)
	adminRouter.Handle("/withdrawals/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectWithdrawal)).Methods(http.MethodPost)

	// Deposit review
	adminRouter.Handle("/deposits", http.HandlerFunc(admins.GetDeposits)).Methods(http.MethodGet)
	adminRouter.Handle("/deposits/{id:[0-9]+}/approve", http.HandlerFunc(admins.ApproveDeposit)).Methods(http.MethodPost)
	adminRouter.Handle("/deposits/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectDeposit)).Methods(http.MethodPost)

	// KYC review
	adminRouter.Handle("/kyc", http.HandlerFunc(admins.GetKycSubmissions)).Methods(http.MethodGet)
	adminRouter.Handle("/kyc/{id:[0-9]+}/approve", http.HandlerFunc(admins.ApproveKyc)).Methods(http.MethodPost)
	adminRouter.Handle("/kyc/{id:[0-9]+}/reject", http.HandlerFunc(admins.RejectKyc)).Methods(http.MethodPost)

	// Ledger overview
	adminRouter.Handle("/transactions", http.HandlerFunc(admins.GetTransactions)).Methods(http.MethodGet)

	// Settings
	adminRouter.Handle("/settings", http.HandlerFunc(admins.GetSettings)).Methods(http.MethodGet)
	adminRouter.Handle("/settings", http.HandlerFunc(admins.UpdateSettings)).Methods(http.MethodPut)
}
