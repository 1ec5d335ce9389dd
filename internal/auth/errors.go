package auth

import "github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"

var (
	ErrInvalidCredentials = utils.Unauthorized("Invalid email or password")
	ErrAccountDeactivated = utils.Unauthorized("Account is deactivated. Please contact administrator.")
	ErrInvalidToken       = utils.Unauthorized("Invalid or expired token")
	ErrTokenRevoked       = utils.Unauthorized("Token has been revoked")
	ErrMissingToken       = utils.Unauthorized("No token provided, authorization denied")
	ErrWrongPassword      = utils.Unauthorized("Current password is incorrect")
	ErrEmailTaken         = utils.Conflict("User with this email already exists")
	ErrUserNotFound       = utils.NotFound("User not found")
	ErrWeakPassword       = utils.Validation("Password must be at least 6 characters long")
	ErrMissingFields      = utils.Validation("Name, email, and password are required")
	ErrMissingPasswords   = utils.Validation("Current password and new password are required")
)

const MinPasswordLength = 6
