package models

import "time"

// ActionTypePunchIn คือค่า action_type ของแถวประวัติที่เปิดด้วยการ punch-in
const ActionTypePunchIn = "punch_in"

// สถานะ "กำลังเข้างาน" มีแถว = ยังไม่ออกงาน, ลบแถวตอน punch-out
// uniqueIndex ที่ user_id กัน punch-in ซ้อนจากสองคำขอพร้อมกัน
type PunchedIn struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	Username  string    `json:"username" gorm:"size:150"`
	Email     string    `json:"email" gorm:"size:255"`
	Date      string    `json:"date" gorm:"size:10;not null"` // YYYY-MM-DD
	Time      string    `json:"time" gorm:"size:8;not null"`  // HH:MM:SS
	Location  string    `json:"location" gorm:"size:255"`
	Latitude  string    `json:"latitude" gorm:"size:50"`
	Longitude string    `json:"longitude" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at"`
}

func (PunchedIn) TableName() string { return "punched_in" }

// ประวัติการลงเวลา เก็บถาวร หนึ่งแถวต่อคนต่อวัน
// เปิดแถวตอน punch-in แล้วเติมข้อมูล punch-out ลงแถวเดิม
type Attendance struct {
	ID         string `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_attendance_user_date"`
	Username   string `json:"username" gorm:"size:150"`
	Email      string `json:"email" gorm:"size:255"`
	Date       string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_attendance_user_date"` // YYYY-MM-DD
	Time       string `json:"time" gorm:"size:8;not null"`                                       // HH:MM:SS (เวลาเข้างาน)
	Location   string `json:"location" gorm:"size:255"`
	Latitude   string `json:"latitude" gorm:"size:50"`
	Longitude  string `json:"longitude" gorm:"size:50"`
	ActionType string `json:"action_type" gorm:"size:10;not null"` // "punch_in"

	PunchedOutDate      string     `json:"punched_out_date,omitempty" gorm:"size:10"` // YYYY-MM-DD
	PunchedOutTime      string     `json:"punched_out_time,omitempty" gorm:"size:8"`  // HH:MM:SS
	PunchedOutLocation  string     `json:"punched_out_location,omitempty" gorm:"size:255"`
	PunchedOutLatitude  string     `json:"punched_out_latitude,omitempty" gorm:"size:50"`
	PunchedOutLongitude string     `json:"punched_out_longitude,omitempty" gorm:"size:50"`
	PunchedOutAt        *time.Time `json:"punched_out_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Attendance) TableName() string { return "attendance" }
