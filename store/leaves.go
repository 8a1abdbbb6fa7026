package store

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/D3-crypto/ems-api/models"
)

type LeaveStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLeaveStore(db *gorm.DB) *LeaveStore {
	return &LeaveStore{db: db, now: nowIST}
}

// Apply ยื่นใบลาใหม่ สถานะเริ่มต้น pending เสมอ
func (s *LeaveStore) Apply(user *models.User, leaveType, startDate, endDate, reason string, isFullDay bool) (*models.Leave, error) {
	now := s.now()
	leave := &models.Leave{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		LeaveType: leaveType,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    reason,
		IsFullDay: isFullDay,
		Status:    models.LeaveStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Create(leave).Error; err != nil {
		return nil, err
	}
	return leave, nil
}

func (s *LeaveStore) ByID(id string) (*models.Leave, error) {
	var leave models.Leave
	if err := s.db.Where("id = ?", id).First(&leave).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	return &leave, nil
}

// ByUser คืนใบลาของผู้ใช้ ใหม่สุดก่อน
func (s *LeaveStore) ByUser(userID string) ([]models.Leave, error) {
	var leaves []models.Leave
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

// LeaveFilter เงื่อนไขค้นใบลาฝั่งแอดมิน ฟิลด์ที่เว้นว่างคือไม่กรอง
type LeaveFilter struct {
	Status    string
	LeaveType string
	UserID    string
	From      string // YYYY-MM-DD
	To        string // YYYY-MM-DD
	Query     string // คีย์เวิร์ดใน reason
	Offset    int
	Limit     int
}

// Search คืนใบลาตามเงื่อนไข ใหม่สุดก่อน
func (s *LeaveStore) Search(f LeaveFilter) ([]models.Leave, error) {
	tx := s.db.Model(&models.Leave{})
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.LeaveType != "" {
		tx = tx.Where("leave_type = ?", f.LeaveType)
	}
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.From != "" && f.To != "" {
		// ทับซ้อนช่วง (overlap): (StartDate <= to) AND (EndDate >= from)
		tx = tx.Where("start_date <= ? AND end_date >= ?", f.To, f.From)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		tx = tx.Where("LOWER(reason) LIKE ?", like)
	}
	tx = tx.Order("created_at DESC, id DESC")
	if f.Offset > 0 {
		tx = tx.Offset(f.Offset)
	}
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}
	var leaves []models.Leave
	err := tx.Find(&leaves).Error
	return leaves, err
}

// PendingCount นับใบลาที่ยังรออนุมัติทั้งระบบ
func (s *LeaveStore) PendingCount() (int64, error) {
	var n int64
	err := s.db.Model(&models.Leave{}).
		Where("status = ?", models.LeaveStatusPending).Count(&n).Error
	return n, err
}

// ApprovedOverlapping คืนใบลาอนุมัติแล้วที่คร่อมวันนั้น ใช้ในแดชบอร์ดรายวัน
func (s *LeaveStore) ApprovedOverlapping(date string) ([]models.Leave, error) {
	var leaves []models.Leave
	err := s.db.Where("status = ? AND start_date <= ? AND end_date >= ?",
		models.LeaveStatusApproved, date, date).
		Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

// Decide ตัดสินใบลาที่ยัง pending เท่านั้น ตัดสินซ้ำไม่ได้
// WHERE status=pending ทำให้สองแอดมินกดพร้อมกันชนะได้คนเดียว
func (s *LeaveStore) Decide(leaveID, adminID, status, rejectReason string) (*models.Leave, error) {
	now := s.now()
	var leave models.Leave
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Leave{}).
			Where("id = ? AND status = ?", leaveID, models.LeaveStatusPending).
			Updates(map[string]any{
				"status":        status,
				"decided_by":    adminID,
				"decided_at":    now,
				"reject_reason": rejectReason,
				"updated_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Where("id = ?", leaveID).First(&leave).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrLeaveNotFound
				}
				return err
			}
			return ErrLeaveDecided
		}
		return tx.Where("id = ?", leaveID).First(&leave).Error
	})
	if err != nil {
		return nil, err
	}
	return &leave, nil
}
