package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/D3-crypto/ems-api/models"
	"github.com/D3-crypto/ems-api/store"
)

type LeaveHandler struct {
	Store *store.Store
}

func NewLeaveHandler(st *store.Store) *LeaveHandler {
	return &LeaveHandler{Store: st}
}

type ApplyLeaveReq struct {
	LeaveType string `json:"leave_type"` // sick/personal/vacation
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Reason    string `json:"reason"`
	IsFullDay *bool  `json:"is_full_day"` // ไม่ส่งมา = ลาเต็มวัน
}

// POST /api/employee/leaves
func (h *LeaveHandler) Apply(c echo.Context) error {
	var req ApplyLeaveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	leaveType := strings.TrimSpace(req.LeaveType)
	startDate := strings.TrimSpace(req.StartDate)
	endDate := strings.TrimSpace(req.EndDate)
	if leaveType == "" || startDate == "" || endDate == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE_FORMAT"})
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE_FORMAT"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "End date must be after start date."})
	}
	isFullDay := true
	if req.IsFullDay != nil {
		isFullDay = *req.IsFullDay
	}

	user, err := h.Store.Users.ByID(currentUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	leave, err := h.Store.Leaves.Apply(user, leaveType, startDate, endDate, strings.TrimSpace(req.Reason), isFullDay)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Leave request submitted successfully",
		"data":    leave,
	})
}

// GET /api/employee/leaves
func (h *LeaveHandler) Mine(c echo.Context) error {
	leaves, err := h.Store.Leaves.ByUser(currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Leave requests retrieved successfully",
		"count":   len(leaves),
		"data":    leaves,
	})
}

// GET /api/employee/admin/leaves?status=&type=&userId=&from=&to=&q=&page=&size=
func (h *LeaveHandler) List(c echo.Context) error {
	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 10)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	leaves, err := h.Store.Leaves.Search(store.LeaveFilter{
		Status:    strings.TrimSpace(c.QueryParam("status")),
		LeaveType: strings.TrimSpace(c.QueryParam("type")),
		UserID:    strings.TrimSpace(c.QueryParam("userId")),
		From:      strings.TrimSpace(c.QueryParam("from")),
		To:        strings.TrimSpace(c.QueryParam("to")),
		Query:     strings.TrimSpace(c.QueryParam("q")),
		Offset:    (page - 1) * size,
		Limit:     size,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, leaves)
}

// GET /api/employee/admin/leaves/pending-count
func (h *LeaveHandler) PendingCount(c echo.Context) error {
	n, err := h.Store.Leaves.PendingCount()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"count": n})
}

type decideLeaveReq struct {
	RejectReason string `json:"rejectReason"` // ถ้าปฏิเสธ ต้องมี
}

// POST /api/employee/admin/leaves/:id/approve
func (h *LeaveHandler) Approve(c echo.Context) error {
	return h.decide(c, models.LeaveStatusApproved, "")
}

// POST /api/employee/admin/leaves/:id/reject
func (h *LeaveHandler) Reject(c echo.Context) error {
	var body decideLeaveReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	reason := strings.TrimSpace(body.RejectReason)
	if reason == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "REJECT_REASON_REQUIRED"})
	}
	return h.decide(c, models.LeaveStatusRejected, reason)
}

func (h *LeaveHandler) decide(c echo.Context, status, rejectReason string) error {
	leave, err := h.Store.Leaves.Decide(c.Param("id"), currentUserID(c), status, rejectReason)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrLeaveNotFound):
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		case errors.Is(err, store.ErrLeaveDecided):
			return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_DECIDED"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "data": leave})
}
