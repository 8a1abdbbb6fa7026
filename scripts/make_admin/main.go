// scripts/make_admin: ยกผู้ใช้ที่มีอยู่แล้วเป็น admin ตามอีเมล
// Usage: make_admin <email>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/D3-crypto/ems-api/config"
	"github.com/D3-crypto/ems-api/database"
	"github.com/D3-crypto/ems-api/models"
	"github.com/D3-crypto/ems-api/store"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: make_admin <email>")
		os.Exit(2)
	}
	email := os.Args[1]

	_ = godotenv.Load()
	cfg := config.Load()
	st := store.New(database.Connect(cfg))

	user, err := st.Users.ByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			fmt.Printf("User with email %q not found.\n", email)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "query failed:", err)
		os.Exit(1)
	}
	if user.Role == models.RoleAdmin {
		fmt.Printf("User %q is already an admin.\n", email)
		os.Exit(0)
	}

	if err := st.Users.PromoteToAdmin(email); err != nil {
		fmt.Fprintln(os.Stderr, "promote failed:", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully promoted user %q to admin.\n", email)
}
