package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/D3-crypto/ems-api/models"
)

type AttendanceStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAttendanceStore(db *gorm.DB) *AttendanceStore {
	return &AttendanceStore{db: db, now: nowIST}
}

// CurrentPunch คืน pointer "กำลังเข้างาน" ของผู้ใช้ ไม่มีคืน nil
func (s *AttendanceStore) CurrentPunch(userID string) (*models.PunchedIn, error) {
	var pointer models.PunchedIn
	err := s.db.Where("user_id = ?", userID).First(&pointer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pointer, nil
}

// PunchIn เปิดสถานะเข้างานของวันนี้
// เงื่อนไขตามลำดับ: ยังมี pointer ค้าง -> ErrAlreadyPunchedIn,
// วันนี้มีประวัติแล้ว (แม้จะ punch out ไปแล้ว) -> ErrAlreadyPunchedInToday
// สำเร็จแล้วได้ทั้ง pointer และแถวประวัติพร้อมกัน ล้มคือไม่เขียนอะไรเลย
// unique index สองตัวปิดรอบ race ที่เช็คก่อนเขียนไม่เห็นกัน
func (s *AttendanceStore) PunchIn(user *models.User, location, latitude, longitude string) (*models.PunchedIn, error) {
	now := s.now()
	date := now.Format(dateLayout)
	clock := now.Format(timeLayout)
	pointer := &models.PunchedIn{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Date:      date,
		Time:      clock,
		Location:  location,
		Latitude:  latitude,
		Longitude: longitude,
		CreatedAt: now,
	}
	record := &models.Attendance{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Date:       date,
		Time:       clock,
		Location:   location,
		Latitude:   latitude,
		Longitude:  longitude,
		ActionType: models.ActionTypePunchIn,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PunchedIn{}).
			Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyPunchedIn
		}
		if err := tx.Model(&models.Attendance{}).
			Where("user_id = ? AND date = ?", user.ID, date).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyPunchedInToday
		}
		if err := tx.Create(pointer).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyPunchedIn
			}
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyPunchedInToday
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pointer, nil
}

// PunchOut ปิดสถานะเข้างาน: เติมข้อมูลขาออกลงแถวประวัติของวันที่ punch in
// แล้วลบ pointer ทิ้ง คืนแถวประวัติที่สมบูรณ์แล้ว
// ไม่มี pointer -> ErrNotPunchedIn และไม่เขียนอะไรทั้งนั้น
func (s *AttendanceStore) PunchOut(user *models.User, location, latitude, longitude string) (*models.Attendance, error) {
	now := s.now()
	date := now.Format(dateLayout)
	clock := now.Format(timeLayout)
	var completed models.Attendance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pointer models.PunchedIn
		if err := tx.Where("user_id = ?", user.ID).First(&pointer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotPunchedIn
			}
			return err
		}
		// กะข้ามคืนใช้วันที่ของ pointer ไม่ใช่วันนี้
		res := tx.Model(&models.Attendance{}).
			Where("user_id = ? AND date = ? AND punched_out_at IS NULL", user.ID, pointer.Date).
			Updates(map[string]any{
				"punched_out_date":      date,
				"punched_out_time":      clock,
				"punched_out_location":  location,
				"punched_out_latitude":  latitude,
				"punched_out_longitude": longitude,
				"punched_out_at":        now,
				"updated_at":            now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPunchedIn
		}
		del := tx.Where("user_id = ?", user.ID).Delete(&models.PunchedIn{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return ErrNotPunchedIn
		}
		return tx.Where("user_id = ? AND date = ?", user.ID, pointer.Date).
			First(&completed).Error
	})
	if err != nil {
		return nil, err
	}
	return &completed, nil
}

// All คืนประวัติทั้งระบบ ใหม่สุดก่อน
func (s *AttendanceStore) All() ([]models.Attendance, error) {
	var records []models.Attendance
	err := s.db.Order("created_at DESC").Find(&records).Error
	return records, err
}

// ByUser คืนประวัติของผู้ใช้ ใส่ date (YYYY-MM-DD) เพื่อกรองเฉพาะวันได้
func (s *AttendanceStore) ByUser(userID, date string) ([]models.Attendance, error) {
	q := s.db.Where("user_id = ?", userID)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	var records []models.Attendance
	err := q.Order("created_at DESC").Find(&records).Error
	return records, err
}

// ByUserDateRange คืนประวัติของผู้ใช้ในช่วงวัน รวมปลายทั้งสองข้าง
func (s *AttendanceStore) ByUserDateRange(userID, startDate, endDate string) ([]models.Attendance, error) {
	var records []models.Attendance
	err := s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, startDate, endDate).
		Order("created_at DESC").Find(&records).Error
	return records, err
}

// ByDateRange คืนประวัติทุกคนในช่วงวัน ใช้ตอน export รายงาน
func (s *AttendanceStore) ByDateRange(startDate, endDate string) ([]models.Attendance, error) {
	var records []models.Attendance
	err := s.db.Where("date >= ? AND date <= ?", startDate, endDate).
		Order("date DESC, created_at DESC").Find(&records).Error
	return records, err
}

// ByDate คืนประวัติทุกคนของวันเดียว ใช้ในแดชบอร์ดรายวัน
func (s *AttendanceStore) ByDate(date string) ([]models.Attendance, error) {
	var records []models.Attendance
	err := s.db.Where("date = ?", date).
		Order("time ASC, created_at ASC").Find(&records).Error
	return records, err
}

// CountPunchedIn นับจำนวนคนที่กำลังเข้างานอยู่ตอนนี้
func (s *AttendanceStore) CountPunchedIn() (int64, error) {
	var n int64
	err := s.db.Model(&models.PunchedIn{}).Count(&n).Error
	return n, err
}
