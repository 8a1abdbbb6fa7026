package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/D3-crypto/ems-api/mailer"
	"github.com/D3-crypto/ems-api/models"
	"github.com/D3-crypto/ems-api/store"
)

/* ====================== Config & Helpers ====================== */

const (
	accessTTL  = 1 * time.Hour
	refreshTTL = 7 * 24 * time.Hour

	verifySubject = "Verify Your Email - Employee Management System"
	resetSubject  = "Reset Your Password - Employee Management System"
)

type AuthHandler struct {
	JWTSecret string
	Store     *store.Store
	Mail      mailer.Mailer
}

func NewAuthHandler(st *store.Store, mail mailer.Mailer, jwtSecret string) *AuthHandler {
	return &AuthHandler{JWTSecret: jwtSecret, Store: st, Mail: mail}
}

func (h *AuthHandler) signJWT(u *models.User, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"typ":   typ,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

// คู่ access+refresh แบบเดียวกับที่ FE ใช้
func (h *AuthHandler) tokenPair(u *models.User) (map[string]string, error) {
	access, err := h.signJWT(u, "access", accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := h.signJWT(u, "refresh", refreshTTL)
	if err != nil {
		return nil, err
	}
	return map[string]string{"access": access, "refresh": refresh}, nil
}

/* ====================== DTOs ====================== */

type SignupReq struct {
	UserName        string `json:"user_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ReEnterPassword string `json:"reEnterPassword"`
}

type VerifyOTPReq struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type LoginReq struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceType string `json:"deviceType"` // "web" | "mobile" (default web)
}

type ForgotPasswordReq struct {
	Email string `json:"email"`
}

type ResetPasswordReq struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LogoutReq struct {
	DeviceType string `json:"deviceType"`
}

/* ====================== Handlers ====================== */

// POST /api/employee/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	name := strings.TrimSpace(req.UserName)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if name == "" || email == "" || req.Password == "" || req.ReEnterPassword == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	if !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_EMAIL"})
	}
	if req.Password != req.ReEnterPassword {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Passwords do not match"})
	}

	user, err := h.Store.Users.Create(name, email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserExists):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "User with this email already exists and is verified"})
		case errors.Is(err, store.ErrSignupPending):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "User with this email already exists. Please verify your email or wait 10 minutes to sign up again."})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	otp, err := h.Store.OTPs.Issue(email, models.OTPPurposeSignup)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	body := fmt.Sprintf("Your OTP for email verification is: %s", otp.Code)
	if err := h.Mail.Send(email, verifySubject, body); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "EMAIL_SEND_FAILED"})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "User created successfully. Please verify your email.",
		"user_id": user.ID,
	})
}

// POST /api/employee/verify-otp
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	code := strings.TrimSpace(req.OTP)
	if email == "" || code == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	if err := h.Store.OTPs.Verify(email, models.OTPPurposeSignup, code); err != nil {
		switch {
		case errors.Is(err, store.ErrOTPNotFound), errors.Is(err, store.ErrOTPMismatch):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid OTP"})
		case errors.Is(err, store.ErrOTPExpired):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "OTP has expired"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	user, err := h.Store.Users.ByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if err := h.Store.Users.VerifyEmail(user.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{"message": "Email verified successfully"})
}

// POST /api/employee/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Email and password are required"})
	}
	device := strings.TrimSpace(req.DeviceType)
	if device == "" {
		device = models.DeviceWeb
	}

	user, err := h.Store.Users.Authenticate(email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]any{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if !user.IsVerified {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Please verify your email before logging in"})
	}

	if _, err := h.Store.Sessions.Login(user, device); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	tokens, err := h.tokenPair(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Login successful",
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		"tokens": tokens,
	})
}

// POST /api/employee/forgot-password
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	if _, err := h.Store.Users.ByEmail(email); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "User with this email does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	otp, err := h.Store.OTPs.Issue(email, models.OTPPurposeForgotPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	body := fmt.Sprintf("Your OTP for password reset is: %s", otp.Code)
	if err := h.Mail.Send(email, resetSubject, body); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "EMAIL_SEND_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{"message": "OTP sent to email for password reset"})
}

// POST /api/employee/reset-password
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	code := strings.TrimSpace(req.OTP)
	if email == "" || code == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	if req.NewPassword != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Passwords do not match"})
	}

	// ผู้ใช้ที่ logout ไปหลัง login ล่าสุด ต้องกลับไป login ก่อน
	// กัน OTP ที่ออกไว้ก่อนหน้าถูกเอามาสวมตั้งรหัสผ่านทีหลัง
	user, err := h.Store.Users.ByEmail(email)
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if user != nil {
		out, err := h.Store.Sessions.LoggedOutSinceLastLogin(user.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
		if out {
			return c.JSON(http.StatusUnauthorized, map[string]any{"error": "You have logged out. Please log in again to reset password."})
		}
	}

	if err := h.Store.OTPs.Verify(email, models.OTPPurposeForgotPassword, code); err != nil {
		switch {
		case errors.Is(err, store.ErrOTPNotFound):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid OTP"})
		case errors.Is(err, store.ErrOTPMismatch):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "Incorrect OTP"})
		case errors.Is(err, store.ErrOTPExpired):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "OTP has expired"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if user == nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "User not found"})
	}
	if err := h.Store.Users.SetPassword(user.ID, req.NewPassword); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{"message": "Password reset successfully"})
}

// POST /api/employee/logout (ต้องมี token)
func (h *AuthHandler) Logout(c echo.Context) error {
	var req LogoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	device := strings.TrimSpace(req.DeviceType)
	if device == "" {
		device = models.DeviceWeb
	}

	user, err := h.Store.Users.ByID(currentUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if err := h.Store.Sessions.Logout(user, device); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{"message": "Logout successful"})
}
