package users

import "time"

// User es la cuenta del dueño. PasswordHash vacío = solo Google.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	GoogleSub    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Intent es lo que el usuario quería hacer al iniciar el login.
type Intent string

const (
	IntentLogin    Intent = "login"
	IntentRegister Intent = "register"
)

const (
	PathDashboard = "/dashboard"
	PathRegister  = "/register"
	PathLogin     = "/login"
	PathRedirect  = "/auth/redirect"
)
