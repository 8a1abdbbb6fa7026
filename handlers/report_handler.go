package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/D3-crypto/ems-api/models"
	"github.com/D3-crypto/ems-api/store"
)

// ReportHandler ทำรายงานการเข้างานให้แอดมินดาวน์โหลด
type ReportHandler struct {
	Store *store.Store
}

func NewReportHandler(st *store.Store) *ReportHandler {
	return &ReportHandler{Store: st}
}

var reportHeaders = []string{
	"Username", "Email", "Date", "Punch In", "Punch In Location",
	"Punch Out Date", "Punch Out", "Punch Out Location",
}

func reportRow(r models.Attendance) []string {
	return []string{
		r.Username, r.Email, r.Date, r.Time, r.Location,
		r.PunchedOutDate, r.PunchedOutTime, r.PunchedOutLocation,
	}
}

func (h *ReportHandler) records(c echo.Context) ([]models.Attendance, error) {
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	if start != "" && end != "" {
		return h.Store.Attendance.ByDateRange(start, end)
	}
	return h.Store.Attendance.All()
}

// GET /api/employee/admin/attendance/export/xlsx?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) ExportXLSX(c echo.Context) error {
	records, err := h.records(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheetName := "Attendance"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "EXPORT_FAILED"})
	}

	for i, head := range reportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}
	for idx, r := range records {
		row := idx + 2
		for i, val := range reportRow(r) {
			f.SetCellValue(sheetName, fmt.Sprintf("%c%d", 'A'+i, row), val)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 22)
	f.SetColWidth(sheetName, "C", "H", 14)

	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="attendance_%s.xlsx"`, time.Now().Format("20060102")))
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}

// GET /api/employee/admin/attendance/export/csv?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) ExportCSV(c echo.Context) error {
	records, err := h.records(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="attendance_%s.csv"`, time.Now().Format("20060102")))
	c.Response().WriteHeader(http.StatusOK)

	// BOM ให้ Excel เปิดไฟล์ UTF-8 ได้ถูก
	if _, err := c.Response().Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	w := csv.NewWriter(c.Response().Writer)
	if err := w.Write(reportHeaders); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(reportRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
