package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/D3-crypto/ems-api/store"
)

type DashboardHandler struct {
	Store *store.Store
}

func NewDashboardHandler(st *store.Store) *DashboardHandler {
	return &DashboardHandler{Store: st}
}

// GET /api/employee/admin/dashboard/summary
// คืนค่าจำนวนคร่าว ๆ สำหรับหน้าแดชบอร์ด
func (h *DashboardHandler) Summary(c echo.Context) error {
	employees, err := h.Store.Users.Count()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	punchedIn, err := h.Store.Attendance.CountPunchedIn()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	pendingLeaves, err := h.Store.Leaves.PendingCount()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"employees":      employees,
		"punched_in":     punchedIn,
		"pending_leaves": pendingLeaves,
	})
}

// GET /api/employee/admin/dashboard/daily?date=YYYY-MM-DD
// รวมการเข้างานกับใบลาอนุมัติแล้วของวันนั้นเป็นรายคน
// { date, rows: [{ user_id, username, email, status, time, location, leave_type }] }
func (h *DashboardHandler) Daily(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = store.Today()
	}

	type row struct {
		UserID    string `json:"user_id"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Status    string `json:"status"` // "present" | "leave"
		Time      string `json:"time"`
		Location  string `json:"location"`
		LeaveType string `json:"leave_type,omitempty"`
	}

	records, err := h.Store.Attendance.ByDate(date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	leaves, err := h.Store.Leaves.ApprovedOverlapping(date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	byUser := map[string]row{}
	for _, lv := range leaves {
		byUser[lv.UserID] = row{
			UserID:    lv.UserID,
			Username:  lv.Username,
			Email:     lv.Email,
			Status:    "leave",
			Time:      "-",
			LeaveType: lv.LeaveType,
		}
	}
	// มาทำงานจริงทับสถานะลา
	for _, r := range records {
		byUser[r.UserID] = row{
			UserID:   r.UserID,
			Username: r.Username,
			Email:    r.Email,
			Status:   "present",
			Time:     r.Time,
			Location: r.Location,
		}
	}

	out := make([]row, 0, len(byUser))
	for _, r := range byUser {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].UserID < out[j].UserID
	})

	return c.JSON(http.StatusOK, map[string]any{
		"date": date,
		"rows": out,
	})
}
