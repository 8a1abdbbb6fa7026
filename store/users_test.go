package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/D3-crypto/ems-api/models"
)

func TestUserStore_CreateAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	users := NewUserStore(db)
	users.now = clk.now

	u, err := users.Create("somchai", "somchai@ems.th", "secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, models.RoleEmployee, u.Role)
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "secret123", u.Password)

	got, err := users.Authenticate("somchai@ems.th", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate("somchai@ems.th", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate("nobody@ems.th", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserStore_Create_VerifiedEmailBlocked(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	users := NewUserStore(db)
	users.now = clk.now

	u, err := users.Create("somchai", "somchai@ems.th", "secret123")
	assert.NoError(t, err)
	assert.NoError(t, users.VerifyEmail(u.ID))

	clk.advance(time.Hour)
	_, err = users.Create("somchai2", "somchai@ems.th", "other456")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserStore_Create_RecentUnverifiedBlocked(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	users := NewUserStore(db)
	users.now = clk.now

	_, err := users.Create("somchai", "somchai@ems.th", "secret123")
	assert.NoError(t, err)

	clk.advance(9 * time.Minute)
	_, err = users.Create("somchai", "somchai@ems.th", "secret123")
	assert.ErrorIs(t, err, ErrSignupPending)
}

func TestUserStore_Create_StaleUnverifiedReplaced(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	users := NewUserStore(db)
	users.now = clk.now
	otps := NewOTPStore(db)
	otps.now = clk.now

	old, err := users.Create("somchai", "somchai@ems.th", "secret123")
	assert.NoError(t, err)
	_, err = otps.Issue("somchai@ems.th", models.OTPPurposeSignup)
	assert.NoError(t, err)

	clk.advance(11 * time.Minute)
	fresh, err := users.Create("somchai", "somchai@ems.th", "secret456")
	assert.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID)

	// แถวค้างหายพร้อม OTP ของอีเมลนั้น
	got, err := users.ByEmail("somchai@ems.th")
	assert.NoError(t, err)
	assert.Equal(t, fresh.ID, got.ID)
	_, err = otps.LatestUnused("somchai@ems.th", models.OTPPurposeSignup)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestUserStore_VerifyEmail_OneWay(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	users := NewUserStore(db)
	users.now = clk.now

	u, err := users.Create("somchai", "somchai@ems.th", "secret123")
	assert.NoError(t, err)

	assert.NoError(t, users.VerifyEmail(u.ID))
	assert.NoError(t, users.VerifyEmail(u.ID))

	got, err := users.ByID(u.ID)
	assert.NoError(t, err)
	assert.True(t, got.IsVerified)

	assert.ErrorIs(t, users.VerifyEmail("no-such-id"), ErrUserNotFound)
}

func TestUserStore_SetPassword(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	users := NewUserStore(db)
	users.now = clk.now

	u, err := users.Create("somchai", "somchai@ems.th", "secret123")
	assert.NoError(t, err)

	assert.NoError(t, users.SetPassword(u.ID, "newpass789"))

	_, err = users.Authenticate("somchai@ems.th", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate("somchai@ems.th", "newpass789")
	assert.NoError(t, err)
}

func TestUserStore_CleanupUnverified(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	users := NewUserStore(db)
	users.now = clk.now

	_, err := users.Create("somchai", "stale@ems.th", "secret123")
	assert.NoError(t, err)
	createVerifiedUser(t, db, clk, "kept@ems.th")

	clk.advance(11 * time.Minute)
	_, err = users.Create("somsri", "fresh@ems.th", "secret123")
	assert.NoError(t, err)

	deleted, err := users.CleanupUnverified()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = users.ByEmail("stale@ems.th")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = users.ByEmail("kept@ems.th")
	assert.NoError(t, err)
	_, err = users.ByEmail("fresh@ems.th")
	assert.NoError(t, err)
}

func TestUserStore_CreateAdmin(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	users := NewUserStore(db)
	users.now = clk.now

	admin, err := users.CreateAdmin("boss", "boss@ems.th", "bosspass1")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsVerified)

	_, err = users.CreateAdmin("boss", "boss@ems.th", "bosspass1")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserStore_PromoteToAdmin(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	users := NewUserStore(db)
	users.now = clk.now
	u := createVerifiedUser(t, db, clk, "somchai@ems.th")

	assert.NoError(t, users.PromoteToAdmin(u.Email))

	got, err := users.ByID(u.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	assert.ErrorIs(t, users.PromoteToAdmin("nobody@ems.th"), ErrUserNotFound)
}

func TestUserStore_CountAndSearch(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	users := NewUserStore(db)
	users.now = clk.now

	first := createVerifiedUser(t, db, clk, "somchai@ems.th")
	clk.advance(time.Minute)
	createVerifiedUser(t, db, clk, "somsri@ems.th")
	clk.advance(time.Minute)
	third, err := users.Create("malee", "malee@other.th", "secret123")
	assert.NoError(t, err)

	n, err := users.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)

	all, err := users.Search("", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	// ใหม่สุดก่อน
	assert.Equal(t, third.ID, all[0].ID)

	// จับทั้ง username และ email ไม่สน case
	byName, err := users.Search("MALEE", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, byName, 1)
	byEmail, err := users.Search("ems.th", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, byEmail, 2)

	page, err := users.Search("", 2, 1)
	assert.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}
