package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/D3-crypto/ems-api/store"
)

// HealthHandler ใช้สำหรับ /health เช็คทั้งตัวแอปและฐานข้อมูล
type HealthHandler struct {
	Store *store.Store
}

func NewHealthHandler(st *store.Store) *HealthHandler {
	return &HealthHandler{Store: st}
}

// GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	if err := h.Store.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "down",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "up",
	})
}
