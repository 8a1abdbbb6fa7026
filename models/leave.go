package models

import "time"

const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// ใบลาของพนักงาน สร้างเป็น pending รอแอดมินอนุมัติ/ปฏิเสธ
type Leave struct {
	ID        string `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string `json:"user_id" gorm:"type:uuid;index;not null"`
	Username  string `json:"username" gorm:"size:150"`
	Email     string `json:"email" gorm:"size:255"`
	LeaveType string `json:"leave_type" gorm:"size:100;not null"` // sick/personal/vacation/...
	StartDate string `json:"start_date" gorm:"size:10;not null"`  // YYYY-MM-DD
	EndDate   string `json:"end_date" gorm:"size:10;not null"`    // YYYY-MM-DD
	Reason    string `json:"reason" gorm:"type:text"`
	IsFullDay bool   `json:"is_full_day" gorm:"not null;default:true"`
	Status    string `json:"status" gorm:"size:20;not null;default:pending"` // pending | approved | rejected

	DecidedBy    string     `json:"decided_by,omitempty" gorm:"type:uuid"` // user_id ของแอดมินที่ตัดสิน
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Leave) TableName() string { return "leaves" }
