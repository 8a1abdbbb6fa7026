package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/D3-crypto/ems-api/store"
)

// EmployeeAdminHandler ทะเบียนพนักงานฝั่งแอดมิน
type EmployeeAdminHandler struct {
	Store *store.Store
}

func NewEmployeeAdminHandler(st *store.Store) *EmployeeAdminHandler {
	return &EmployeeAdminHandler{Store: st}
}

// GET /api/employee/admin/employees?q=&page=&size=
// รหัสผ่านไม่หลุดออกไปเพราะฟิลด์เป็น json:"-"
func (h *EmployeeAdminHandler) List(c echo.Context) error {
	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 10)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	users, err := h.Store.Users.Search(strings.TrimSpace(c.QueryParam("q")), (page-1)*size, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Employees retrieved successfully",
		"count":   len(users),
		"data":    users,
	})
}
