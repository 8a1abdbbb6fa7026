package store

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/D3-crypto/ems-api/models"
)

// ผู้ใช้ที่สมัครแล้วไม่ยืนยันอีเมลภายใน 10 นาที ถือว่าแถวนั้นค้างและลบทิ้งได้
const unverifiedTTL = 10 * time.Minute

type UserStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db, now: nowIST}
}

// Create สมัครผู้ใช้ใหม่ (ยังไม่ยืนยันอีเมล)
// อีเมลซ้ำกับผู้ใช้ที่ยืนยันแล้ว -> ErrUserExists
// อีเมลซ้ำกับแถวไม่ยืนยันที่อายุต่ำกว่า 10 นาที -> ErrSignupPending
// แถวไม่ยืนยันที่เก่ากว่านั้นถูกลบพร้อม OTP ค้างของอีเมลนั้นก่อนสร้างใหม่
func (s *UserStore) Create(username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &models.User{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      email,
		Password:   string(hash),
		IsVerified: false,
		Role:       models.RoleEmployee,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", email).First(&existing).Error
		switch {
		case err == nil:
			if existing.IsVerified {
				return ErrUserExists
			}
			if now.Sub(existing.CreatedAt) < unverifiedTTL {
				return ErrSignupPending
			}
			if err := tx.Where("email = ? AND is_verified = ?", email, false).
				Delete(&models.User{}).Error; err != nil {
				return err
			}
			if err := tx.Where("email = ?", email).Delete(&models.OTP{}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// อีเมลว่าง สร้างได้เลย
		default:
			return err
		}
		return tx.Create(user).Error
	})
	if err != nil {
		// สมัครพร้อมกันสองคำขอ อันที่แพ้ unique index ถือว่ามีสมัครค้างอยู่แล้ว
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSignupPending
		}
		return nil, err
	}
	return user, nil
}

// CreateAdmin สร้างผู้ใช้ role admin ที่ยืนยันแล้ว ใช้จากสคริปต์เท่านั้น
func (s *UserStore) CreateAdmin(username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &models.User{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      email,
		Password:   string(hash),
		IsVerified: true,
		Role:       models.RoleAdmin,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

// Authenticate ไม่บอกว่าพลาดเพราะไม่มีผู้ใช้หรือรหัสผิด ให้ caller ตีความเอง
func (s *UserStore) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserStore) ByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) ByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Count นับผู้ใช้ทั้งระบบ
func (s *UserStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.User{}).Count(&n).Error
	return n, err
}

// Search ค้นผู้ใช้จาก username/email วนหน้าแบบ offset ใหม่สุดก่อน
func (s *UserStore) Search(query string, offset, limit int) ([]models.User, error) {
	tx := s.db.Model(&models.User{})
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		tx = tx.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	tx = tx.Order("created_at DESC, id DESC")
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var users []models.User
	err := tx.Find(&users).Error
	return users, err
}

// SetPassword เปลี่ยนรหัสผ่านเป็นค่าใหม่ (เก็บ bcrypt hash)
func (s *UserStore) SetPassword(userID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	res := s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]any{
			"password":   string(hash),
			"updated_at": s.now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// VerifyEmail ติดธงยืนยันอีเมล เดินทางเดียว ไม่มีปลดธง
func (s *UserStore) VerifyEmail(userID string) error {
	res := s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]any{
			"is_verified": true,
			"updated_at":  s.now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PromoteToAdmin ยกผู้ใช้ตามอีเมลเป็น admin
func (s *UserStore) PromoteToAdmin(email string) error {
	res := s.db.Model(&models.User{}).Where("email = ?", email).
		Updates(map[string]any{
			"role":       models.RoleAdmin,
			"updated_at": s.now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CleanupUnverified ลบผู้ใช้ไม่ยืนยันที่ค้างเกิน 10 นาทีทั้งหมด คืนจำนวนที่ลบ
func (s *UserStore) CleanupUnverified() (int64, error) {
	cutoff := s.now().Add(-unverifiedTTL)
	res := s.db.Where("is_verified = ? AND created_at < ?", false, cutoff).
		Delete(&models.User{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
