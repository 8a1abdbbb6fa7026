package store

import "errors"

var (
	ErrUserExists         = errors.New("user already exists and is verified")
	ErrSignupPending      = errors.New("unverified signup still pending")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrOTPNotFound = errors.New("no otp found")
	ErrOTPMismatch = errors.New("otp mismatch")
	ErrOTPExpired  = errors.New("otp expired")

	ErrNoActiveSession = errors.New("no active session")

	ErrAlreadyPunchedIn      = errors.New("already punched in")
	ErrAlreadyPunchedInToday = errors.New("already punched in today")
	ErrNotPunchedIn          = errors.New("no punch in record")

	ErrLeaveNotFound = errors.New("leave not found")
	ErrLeaveDecided  = errors.New("leave already decided")
)
