package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// อ่าน user id ที่ middleware RequireAuth ฝังไว้ใน context
func currentUserID(c echo.Context) string {
	s, _ := c.Get("user_id").(string)
	return s
}
