package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/D3-crypto/ems-api/config"
	"github.com/D3-crypto/ems-api/models"
)

// Connect เปิด PostgreSQL แล้วคืน handle ให้ caller ถือเอง ไม่ตั้ง global
// TranslateError เปิดไว้ให้ unique violation กลายเป็น gorm.ErrDuplicatedKey เหมือนกันทุก driver
func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// ----- AutoMigrate โครงสร้างทั้งหมดของเรา -----
	if err := db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.LoginSession{},
		&models.LogoutSession{},
		&models.PunchedIn{},
		&models.Attendance{},
		&models.Leave{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}

	return db
}
