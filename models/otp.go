package models

import "time"

const (
	OTPPurposeSignup         = "signup"
	OTPPurposeForgotPassword = "forgot_password"
)

// OTPValidity คืออายุของรหัส OTP นับจากเวลาออก
const OTPValidity = 10 * time.Minute

// รหัส OTP 6 หลัก ใช้ได้ครั้งเดียว ลบทิ้งทันทีที่ยืนยันสำเร็จ
type OTP struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"size:255;index;not null"`
	Code      string    `json:"otp" gorm:"size:6;not null"`
	Purpose   string    `json:"purpose" gorm:"size:20;not null"` // "signup" | "forgot_password"
	IsUsed    bool      `json:"is_used" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiresAt คืนเวลาหมดอายุของรหัสนี้
func (o OTP) ExpiresAt() time.Time {
	return o.CreatedAt.Add(OTPValidity)
}
