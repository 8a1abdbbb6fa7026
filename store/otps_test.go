package store

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/D3-crypto/ems-api/models"
)

func TestOTPStore_IssueAndVerify_SingleUse(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	otps := NewOTPStore(db)
	otps.now = clk.now

	otp, err := otps.Issue("somchai@ems.th", models.OTPPurposeSignup)
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), otp.Code)

	clk.advance(time.Minute)
	assert.NoError(t, otps.Verify("somchai@ems.th", models.OTPPurposeSignup, otp.Code))

	// ใช้แล้วแถวหายทันที เล่นซ้ำไม่ได้
	_, err = otps.LatestUnused("somchai@ems.th", models.OTPPurposeSignup)
	assert.ErrorIs(t, err, ErrOTPNotFound)
	assert.ErrorIs(t, otps.Verify("somchai@ems.th", models.OTPPurposeSignup, otp.Code), ErrOTPNotFound)
}

func TestOTPStore_Verify_Mismatch(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	otps := NewOTPStore(db)
	otps.now = clk.now

	otp, err := otps.Issue("somchai@ems.th", models.OTPPurposeSignup)
	assert.NoError(t, err)

	wrong := "000000"
	if otp.Code == wrong {
		wrong = "000001"
	}
	assert.ErrorIs(t, otps.Verify("somchai@ems.th", models.OTPPurposeSignup, wrong), ErrOTPMismatch)

	// รหัสยังอยู่ ตรวจใหม่ด้วยรหัสถูกยังผ่าน
	assert.NoError(t, otps.Verify("somchai@ems.th", models.OTPPurposeSignup, otp.Code))
}

func TestOTPStore_Verify_ExpiryBoundary(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	otps := NewOTPStore(db)
	otps.now = clk.now

	otp, err := otps.Issue("somchai@ems.th", models.OTPPurposeSignup)
	assert.NoError(t, err)

	clk.advance(599 * time.Second)
	assert.NoError(t, otps.Verify("somchai@ems.th", models.OTPPurposeSignup, otp.Code))

	otp2, err := otps.Issue("somchai@ems.th", models.OTPPurposeSignup)
	assert.NoError(t, err)

	clk.advance(601 * time.Second)
	err = otps.Verify("somchai@ems.th", models.OTPPurposeSignup, otp2.Code)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestOTPStore_LatestUnusedWins(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	otps := NewOTPStore(db)
	otps.now = clk.now

	first, err := otps.Issue("somchai@ems.th", models.OTPPurposeSignup)
	assert.NoError(t, err)
	clk.advance(time.Minute)
	second, err := otps.Issue("somchai@ems.th", models.OTPPurposeSignup)
	assert.NoError(t, err)

	latest, err := otps.LatestUnused("somchai@ems.th", models.OTPPurposeSignup)
	assert.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	// รหัสเก่าหมดสิทธิ์ทันทีที่มีรหัสใหม่กว่า
	if first.Code != second.Code {
		assert.ErrorIs(t, otps.Verify("somchai@ems.th", models.OTPPurposeSignup, first.Code), ErrOTPMismatch)
	}
	assert.NoError(t, otps.Verify("somchai@ems.th", models.OTPPurposeSignup, second.Code))
}

func TestOTPStore_IssueSweepsExpired(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	otps := NewOTPStore(db)
	otps.now = clk.now

	_, err := otps.Issue("somchai@ems.th", models.OTPPurposeSignup)
	assert.NoError(t, err)

	clk.advance(11 * time.Minute)
	// ออกรหัสให้ใครก็ได้ กวาดของหมดอายุทั้งระบบ
	_, err = otps.Issue("somsri@ems.th", models.OTPPurposeForgotPassword)
	assert.NoError(t, err)

	_, err = otps.LatestUnused("somchai@ems.th", models.OTPPurposeSignup)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPStore_PurposeScoped(t *testing.T) {
	db := newTestDB(t)
	clk := newTestClock()
	otps := NewOTPStore(db)
	otps.now = clk.now

	signup, err := otps.Issue("somchai@ems.th", models.OTPPurposeSignup)
	assert.NoError(t, err)
	reset, err := otps.Issue("somchai@ems.th", models.OTPPurposeForgotPassword)
	assert.NoError(t, err)

	// ใช้รหัสฝั่ง reset ไม่กระทบฝั่ง signup
	assert.NoError(t, otps.Verify("somchai@ems.th", models.OTPPurposeForgotPassword, reset.Code))
	assert.NoError(t, otps.Verify("somchai@ems.th", models.OTPPurposeSignup, signup.Code))
}
