package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/D3-crypto/ems-api/models"
)

type SessionStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db, now: nowIST}
}

// Login เปิดเซสชันใหม่ให้ผู้ใช้
// นโยบาย: ล็อกอินที่ไหนก็ตามปิดเซสชันเก่าทุกอัน พร้อม synthesize logout
// ของอุปกรณ์เดิมแต่ละอันไว้เป็นหลักฐาน ทั้งหมดอยู่ใน transaction เดียว
func (s *SessionStore) Login(user *models.User, deviceType string) (*models.LoginSession, error) {
	now := s.now()
	session := &models.LoginSession{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Username:   user.Username,
		DeviceType: deviceType,
		LoginTime:  now,
		IsActive:   true,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var actives []models.LoginSession
		if err := tx.Where("user_id = ? AND is_active = ?", user.ID, true).
			Find(&actives).Error; err != nil {
			return err
		}
		for _, old := range actives {
			if err := tx.Model(&models.LoginSession{}).Where("id = ?", old.ID).
				Update("is_active", false).Error; err != nil {
				return err
			}
			logout := &models.LogoutSession{
				ID:         uuid.NewString(),
				UserID:     user.ID,
				DeviceType: old.DeviceType,
				LogoutTime: now,
			}
			if err := tx.Create(logout).Error; err != nil {
				return err
			}
		}
		return tx.Create(session).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Logout ปิดเซสชัน active ทั้งหมดของผู้ใช้ (ทั้งชุด ไม่ใช่อันเดียว)
// แล้วบันทึก logout หนึ่งแถวตาม device ที่ขอ ไม่มีเซสชันค้างก็ไม่ถือว่าผิด
func (s *SessionStore) Logout(user *models.User, deviceType string) error {
	now := s.now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LoginSession{}).
			Where("user_id = ? AND is_active = ?", user.ID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		logout := &models.LogoutSession{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			DeviceType: deviceType,
			LogoutTime: now,
		}
		return tx.Create(logout).Error
	})
}

// ActiveSession คืนเซสชันที่ยัง active ล่าสุด ไม่มีคืน ErrNoActiveSession
func (s *SessionStore) ActiveSession(userID string) (*models.LoginSession, error) {
	var session models.LoginSession
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("login_time DESC").First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return &session, nil
}

// LatestLogin คืน login ล่าสุดไม่ว่าจะ active หรือไม่ ไม่เคยมีคืน nil
func (s *SessionStore) LatestLogin(userID string) (*models.LoginSession, error) {
	var session models.LoginSession
	err := s.db.Where("user_id = ?", userID).
		Order("login_time DESC").First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// LatestLogout คืน logout ล่าสุด ไม่เคยมีคืน nil
func (s *SessionStore) LatestLogout(userID string) (*models.LogoutSession, error) {
	var logout models.LogoutSession
	err := s.db.Where("user_id = ?", userID).
		Order("logout_time DESC").First(&logout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &logout, nil
}

// LoggedOutSinceLastLogin รายงานว่ามี logout ที่ใหม่กว่า login ล่าสุดหรือไม่
// ใช้กันการตั้งรหัสผ่านใหม่ด้วย OTP ที่ออกไว้ก่อนผู้ใช้ออกจากระบบ
func (s *SessionStore) LoggedOutSinceLastLogin(userID string) (bool, error) {
	login, err := s.LatestLogin(userID)
	if err != nil {
		return false, err
	}
	logout, err := s.LatestLogout(userID)
	if err != nil {
		return false, err
	}
	if login == nil || logout == nil {
		return false, nil
	}
	// ต้องใหม่กว่าแบบ strict เวลาเท่ากันไม่นับ
	return logout.LogoutTime.After(login.LoginTime), nil
}
