package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/D3-crypto/ems-api/models"
)

type OTPStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOTPStore(db *gorm.DB) *OTPStore {
	return &OTPStore{db: db, now: nowIST}
}

// Issue ออกรหัส 6 หลักใหม่ให้อีเมลนั้นตาม purpose
// ทุกครั้งที่ออกจะกวาดรหัสหมดอายุทั้งระบบทิ้งก่อน (maintenance แฝง)
// รหัสซ้ำข้ามอีเมล/purpose ได้ ไม่ต้อง unique
func (s *OTPStore) Issue(email, purpose string) (*models.OTP, error) {
	if _, err := s.CleanupExpired(); err != nil {
		return nil, err
	}
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	otp := &models.OTP{
		ID:        uuid.NewString(),
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		IsUsed:    false,
		CreatedAt: s.now(),
	}
	if err := s.db.Create(otp).Error; err != nil {
		return nil, err
	}
	return otp, nil
}

// LatestUnused คืนรหัสที่ยังไม่ใช้อันล่าสุด อันนี้อันเดียวที่ใช้ตรวจได้
func (s *OTPStore) LatestUnused(email, purpose string) (*models.OTP, error) {
	var otp models.OTP
	err := s.db.Where("email = ? AND purpose = ? AND is_used = ?", email, purpose, false).
		Order("created_at DESC").First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}
	return &otp, nil
}

// Verify ตรวจรหัสตามลำดับ: ไม่มีรหัสค้าง -> ErrOTPNotFound,
// รหัสไม่ตรง -> ErrOTPMismatch, ตรงแต่เกิน 10 นาที -> ErrOTPExpired,
// ผ่านแล้ว consume ทิ้งทันที ใช้ซ้ำไม่ได้
func (s *OTPStore) Verify(email, purpose, code string) error {
	otp, err := s.LatestUnused(email, purpose)
	if err != nil {
		return err
	}
	if otp.Code != code {
		return ErrOTPMismatch
	}
	if s.now().Sub(otp.CreatedAt) >= models.OTPValidity {
		return ErrOTPExpired
	}
	return s.Consume(otp)
}

// Consume ลบแถวรหัสทิ้งถาวร การลบคือ marker ว่าใช้แล้ว
func (s *OTPStore) Consume(otp *models.OTP) error {
	res := s.db.Where("id = ?", otp.ID).Delete(&models.OTP{})
	if res.Error != nil {
		return res.Error
	}
	// แพ้คำขอคู่ขนานที่ consume ไปก่อน
	if res.RowsAffected == 0 {
		return ErrOTPNotFound
	}
	return nil
}

// CleanupExpired ลบรหัสที่ออกมาเกิน 10 นาทีทั้งหมด คืนจำนวนที่ลบ
func (s *OTPStore) CleanupExpired() (int64, error) {
	cutoff := s.now().Add(-models.OTPValidity)
	res := s.db.Where("created_at < ?", cutoff).Delete(&models.OTP{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
