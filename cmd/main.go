package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/D3-crypto/ems-api/config"
	"github.com/D3-crypto/ems-api/database"
	"github.com/D3-crypto/ems-api/mailer"
	"github.com/D3-crypto/ems-api/routes"
	"github.com/D3-crypto/ems-api/store"
)

// @title           Employee Management System API
// @version         1.0
// @description     Echo + PostgreSQL (signup/OTP, sessions, punch in-out, leaves)
// @BasePath        /
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// เชื่อมต่อฐานข้อมูล (ถ้า DB ยังไม่ขึ้น โปรแกรมจะ error ทันที เหมาะสำหรับ early fail)
	db := database.Connect(cfg)
	st := store.New(db)

	// ไม่ตั้ง SMTP_HOST = โหมด dev พิมพ์เมลลง log แทนการส่งจริง
	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		mail = mailer.Log{}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.RegisterRoutes(e, cfg, st, mail)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
