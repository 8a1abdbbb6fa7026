package store

import "time"

// เวลาอ้างอิงของทั้งระบบเป็น UTC+05:30 เสมอ ห้ามปน UTC ตรงๆ เวลาเปรียบเทียบ
var ist = time.FixedZone("IST", 5*60*60+30*60)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

func nowIST() time.Time { return time.Now().In(ist) }

// Today วันที่ปัจจุบันตามเขตเวลาของระบบ รูปแบบ YYYY-MM-DD
func Today() string { return nowIST().Format(dateLayout) }
