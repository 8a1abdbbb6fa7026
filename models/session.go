package models

import "time"

const (
	DeviceWeb    = "web"
	DeviceMobile = "mobile"
)

// เซสชันล็อกอิน ล็อกอินครั้งใหม่จะปิดเซสชันเก่าทั้งหมดของผู้ใช้คนนั้น
type LoginSession struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     string    `json:"user_id" gorm:"type:uuid;index;not null"`
	Username   string    `json:"username" gorm:"size:150"`
	DeviceType string    `json:"device_type" gorm:"size:50;not null"` // "web" | "mobile"
	LoginTime  time.Time `json:"login_time" gorm:"not null"`
	IsActive   bool      `json:"is_active" gorm:"index;not null;default:true"`
}

// ประวัติล็อกเอาต์ (append-only ไม่แก้ไขย้อนหลัง)
type LogoutSession struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     string    `json:"user_id" gorm:"type:uuid;index;not null"`
	DeviceType string    `json:"device_type" gorm:"size:50;not null"`
	LogoutTime time.Time `json:"logout_time" gorm:"not null"`
}
