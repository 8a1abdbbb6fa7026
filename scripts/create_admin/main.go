// scripts/create_admin: สร้างบัญชีแอดมินตั้งต้น ใช้ครั้งแรกตอนระบบยังไม่มีผู้ใช้
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/D3-crypto/ems-api/config"
	"github.com/D3-crypto/ems-api/database"
	"github.com/D3-crypto/ems-api/store"
)

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	st := store.New(database.Connect(cfg))

	username := envOr("ADMIN_USERNAME", "Admin")
	email := envOr("ADMIN_EMAIL", "admin@ems.com")
	password := envOr("ADMIN_PASSWORD", "ChangeMe123!")

	admin, err := st.Users.CreateAdmin(username, email, password)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			fmt.Println("⚠️  Admin user already exists with email:", email)
			os.Exit(0)
		}
		log.Fatalf("failed to insert admin: %v", err)
	}

	fmt.Println("✅ Admin user created successfully!")
	fmt.Println("   ID:      ", admin.ID)
	fmt.Println("   Email:   ", email)
	fmt.Println("   Password:", password, "(plain, remember to change later!)")
}
