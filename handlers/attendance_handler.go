package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/D3-crypto/ems-api/models"
	"github.com/D3-crypto/ems-api/store"
)

type AttendanceHandler struct {
	Store *store.Store
}

func NewAttendanceHandler(st *store.Store) *AttendanceHandler {
	return &AttendanceHandler{Store: st}
}

// พิกัดส่งมาเป็น string ตามที่แอปมือถือยิงมา ไม่แปลงเป็นตัวเลข
type PunchReq struct {
	Location  string `json:"location"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// POST /api/employee/punch-in
// ต้องมี session ที่ active และวันนั้นยังไม่เคย punch in
func (h *AttendanceHandler) PunchIn(c echo.Context) error {
	var req PunchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	user, err := h.Store.Users.ByID(currentUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if _, err := h.Store.Sessions.ActiveSession(user.ID); err != nil {
		if errors.Is(err, store.ErrNoActiveSession) {
			return c.JSON(http.StatusUnauthorized, map[string]any{"error": "User is not logged in. Please log in again."})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	punch, err := h.Store.Attendance.PunchIn(user, req.Location, req.Latitude, req.Longitude)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyPunchedIn):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "You have already punched in. Please punch out first."})
		case errors.Is(err, store.ErrAlreadyPunchedInToday):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "You have already punched in today. Please punch out before punching in again."})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Punch in successful",
		"data":    punch,
	})
}

// POST /api/employee/punch-out
func (h *AttendanceHandler) PunchOut(c echo.Context) error {
	var req PunchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	user, err := h.Store.Users.ByID(currentUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if _, err := h.Store.Sessions.ActiveSession(user.ID); err != nil {
		if errors.Is(err, store.ErrNoActiveSession) {
			return c.JSON(http.StatusUnauthorized, map[string]any{"error": "No active session found. Please login first."})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	record, err := h.Store.Attendance.PunchOut(user, req.Location, req.Latitude, req.Longitude)
	if err != nil {
		if errors.Is(err, store.ErrNotPunchedIn) {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "No punch in record found. Please punch in first."})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Punch out successful",
		"data":    record,
	})
}

// GET /api/employee/admin/attendance (admin เท่านั้น)
func (h *AttendanceHandler) List(c echo.Context) error {
	records, err := h.Store.Attendance.All()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Attendance records retrieved successfully",
		"count":   len(records),
		"data":    records,
	})
}

// GET /api/employee/attendance/me?date=YYYY-MM-DD หรือ ?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *AttendanceHandler) Me(c echo.Context) error {
	userID := currentUserID(c)
	date := strings.TrimSpace(c.QueryParam("date"))
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))

	var (
		records []models.Attendance
		err     error
	)
	if start != "" && end != "" {
		records, err = h.Store.Attendance.ByUserDateRange(userID, start, end)
	} else {
		records, err = h.Store.Attendance.ByUser(userID, date)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Attendance records retrieved successfully",
		"count":   len(records),
		"data":    records,
	})
}

// GET /api/employee/attendance/status
// บอกว่าตอนนี้ punch in ค้างอยู่หรือไม่
func (h *AttendanceHandler) Status(c echo.Context) error {
	punch, err := h.Store.Attendance.CurrentPunch(currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "An error occurred while checking attendance status"})
	}
	if punch == nil {
		return c.JSON(http.StatusOK, map[string]any{"punched_in": false, "data": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"punched_in": true, "data": punch})
}
