package models

import "time"

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// ผู้ใช้งานระบบ (พนักงาน/แอดมิน) อีเมลห้ามซ้ำ
type User struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	Username   string    `json:"username" gorm:"size:150;not null"`
	Email      string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password   string    `json:"-" gorm:"not null"`                             // เก็บ bcrypt hash
	IsVerified bool      `json:"is_verified" gorm:"not null;default:false"`     // ยืนยันอีเมลแล้วหรือยัง
	Role       string    `json:"role" gorm:"size:20;not null;default:employee"` // "employee" | "admin"
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
