package store

import "gorm.io/gorm"

// Store รวม repository ทุกตัวบนฐานข้อมูลเดียวกัน ส่งต่อให้ handler ผ่าน DI
// ไม่ใช้ global DB
type Store struct {
	db *gorm.DB

	Users      *UserStore
	OTPs       *OTPStore
	Sessions   *SessionStore
	Attendance *AttendanceStore
	Leaves     *LeaveStore
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserStore(db),
		OTPs:       NewOTPStore(db),
		Sessions:   NewSessionStore(db),
		Attendance: NewAttendanceStore(db),
		Leaves:     NewLeaveStore(db),
	}
}

// Ping เช็คว่าฐานข้อมูลยังตอบอยู่ ใช้กับ /health
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// PerformPeriodicCleanup กวาดผู้ใช้ที่ไม่ยืนยันเกิน 10 นาทีและ OTP หมดอายุทิ้ง
// ปกติงานนี้แฝงอยู่ในการออก OTP อยู่แล้ว endpoint maintenance เรียกอันนี้ตรงๆ ได้
func (s *Store) PerformPeriodicCleanup() (usersCleaned, otpsCleaned int64, err error) {
	usersCleaned, err = s.Users.CleanupUnverified()
	if err != nil {
		return 0, 0, err
	}
	otpsCleaned, err = s.OTPs.CleanupExpired()
	if err != nil {
		return usersCleaned, 0, err
	}
	return usersCleaned, otpsCleaned, nil
}
