// scripts/cleanup_expired_otps: ลบ OTP หมดอายุและผู้ใช้ไม่ยืนยันที่ค้างเกิน 10 นาที
// ตั้ง cron เรียกเป็นระยะได้
package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/D3-crypto/ems-api/config"
	"github.com/D3-crypto/ems-api/database"
	"github.com/D3-crypto/ems-api/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	st := store.New(database.Connect(cfg))

	users, otps, err := st.PerformPeriodicCleanup()
	if err != nil {
		log.Fatalf("cleanup failed: %v", err)
	}
	fmt.Printf("Deleted %d expired OTP(s).\n", otps)
	fmt.Printf("Deleted %d stale unverified user(s).\n", users)
}
