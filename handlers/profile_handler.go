package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/D3-crypto/ems-api/store"
)

type ProfileHandler struct {
	Store *store.Store
}

func NewProfileHandler(st *store.Store) *ProfileHandler {
	return &ProfileHandler{Store: st}
}

type changePasswordReq struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

// GET /api/employee/me
// ข้อมูลผู้ใช้ปัจจุบัน พร้อม session และสถานะเข้างาน
func (h *ProfileHandler) Me(c echo.Context) error {
	user, err := h.Store.Users.ByID(currentUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var session map[string]any
	if active, err := h.Store.Sessions.ActiveSession(user.ID); err == nil {
		session = map[string]any{
			"device_type": active.DeviceType,
			"login_time":  active.LoginTime,
		}
	} else if !errors.Is(err, store.ErrNoActiveSession) {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	punch, err := h.Store.Attendance.CurrentPunch(user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"role":        user.Role,
			"is_verified": user.IsVerified,
		},
		"session":    session,
		"punched_in": punch != nil,
	})
}

// POST /api/employee/profile/password
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Current = strings.TrimSpace(req.Current)
	req.Next = strings.TrimSpace(req.Next)

	if len(req.Next) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "WEAK_PASSWORD"})
	}

	user, err := h.Store.Users.ByID(currentUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if _, err := h.Store.Users.Authenticate(user.Email, req.Current); err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CURRENT_PASSWORD"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if err := h.Store.Users.SetPassword(user.ID, req.Next); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
