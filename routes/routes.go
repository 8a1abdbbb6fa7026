package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/D3-crypto/ems-api/config"
	"github.com/D3-crypto/ems-api/handlers"
	"github.com/D3-crypto/ems-api/mailer"
	"github.com/D3-crypto/ems-api/middlewares"
	"github.com/D3-crypto/ems-api/store"
)

// RegisterRoutes wires all HTTP routes.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, st *store.Store, mail mailer.Mailer) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(st, mail, cfg.JWTSecret)
	att := handlers.NewAttendanceHandler(st)
	lv := handlers.NewLeaveHandler(st)
	rp := handlers.NewReportHandler(st)
	mt := handlers.NewMaintenanceHandler(st)
	prof := handlers.NewProfileHandler(st)
	dash := handlers.NewDashboardHandler(st)
	ea := handlers.NewEmployeeAdminHandler(st)
	hh := handlers.NewHealthHandler(st)

	e.GET("/health", hh.Health)

	// ===== Public Auth =====
	emp := e.Group("/api/employee")
	emp.POST("/signup", auth.Signup)
	emp.POST("/verify-otp", auth.VerifyOTP)
	emp.POST("/login", auth.Login)
	emp.POST("/forgot-password", auth.ForgotPassword)
	emp.POST("/reset-password", auth.ResetPassword)

	// ===== Protected (ต้องมี access token) =====
	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	priv := e.Group("/api/employee", authMW)
	priv.POST("/logout", auth.Logout)

	priv.POST("/punch-in", att.PunchIn)
	priv.POST("/punch-out", att.PunchOut)
	priv.GET("/attendance/me", att.Me)
	priv.GET("/attendance/status", att.Status)

	priv.POST("/leaves", lv.Apply)
	priv.GET("/leaves", lv.Mine)

	priv.GET("/me", prof.Me)
	priv.POST("/profile/password", prof.ChangePassword)

	// ===== Admin routes =====
	admin := e.Group("/api/employee/admin", authMW, middlewares.RequireRole("admin"))
	admin.GET("/attendance", att.List)
	admin.GET("/attendance/export/xlsx", rp.ExportXLSX)
	admin.GET("/attendance/export/csv", rp.ExportCSV)

	admin.GET("/leaves", lv.List)
	admin.GET("/leaves/pending-count", lv.PendingCount)
	admin.POST("/leaves/:id/approve", lv.Approve)
	admin.POST("/leaves/:id/reject", lv.Reject)

	admin.GET("/employees", ea.List)
	admin.GET("/dashboard/summary", dash.Summary)
	admin.GET("/dashboard/daily", dash.Daily)

	admin.POST("/maintenance/cleanup", mt.Cleanup)
}
