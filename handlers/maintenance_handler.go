package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/D3-crypto/ems-api/store"
)

// MaintenanceHandler งานกวาดข้อมูลค้าง สั่งจาก cron ภายนอกหรือแอดมินกดเอง
type MaintenanceHandler struct {
	Store *store.Store
}

func NewMaintenanceHandler(st *store.Store) *MaintenanceHandler {
	return &MaintenanceHandler{Store: st}
}

// POST /api/employee/admin/maintenance/cleanup
// ลบผู้ใช้ไม่ยืนยันและ OTP ที่หมดอายุเกิน 10 นาที
func (h *MaintenanceHandler) Cleanup(c echo.Context) error {
	users, otps, err := h.Store.PerformPeriodicCleanup()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":       "Cleanup completed",
		"users_deleted": users,
		"otps_deleted":  otps,
	})
}
