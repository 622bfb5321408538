package auth

import (
	"log"
	"strings"
	"unicode"

	"markettrack-backend/internal/config"
	"markettrack-backend/internal/database"
	"markettrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ClaimsResponse struct {
	UserID   uint            `json:"user_ID"`
	Username string          `json:"user_Username"`
	Role     models.UserRole `json:"user_Role"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// POST /api/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(body.Username)

		// Unknown user and wrong password answer identically so usernames
		// cannot be enumerated. A store failure is not a credential
		// failure and surfaces as one.
		var user models.User
		if err := database.DB.Where("username = ?", body.Username).First(&user).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("login lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create token")
		}

		// The signed claims are the single source of truth for identity;
		// the user object is exactly what the token carries.
		return c.JSON(fiber.Map{
			"token": token,
			"user": ClaimsResponse{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(CtxUserIDKey).(uint)
		username, _ := c.Locals(CtxUsernameKey).(string)
		role, _ := c.Locals(CtxUserRoleKey).(models.UserRole)

		return c.JSON(ClaimsResponse{
			UserID:   userID,
			Username: username,
			Role:     role,
		})
	}
}

// PUT /api/users/:id/password (rate limited in the router)
func ChangePasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}

		callerID, _ := c.Locals(CtxUserIDKey).(uint)
		role, _ := c.Locals(CtxUserRoleKey).(models.UserRole)

		// Only the account owner or an elevated role may change it.
		if callerID != uint(id) && role != models.RoleAdmin && role != models.RoleSuperAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Access Denied")
		}

		var body ChangePasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("user lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.OldPassword)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Current password is incorrect")
		}

		if err := ValidatePasswordStrength(body.NewPassword); err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user.PasswordHash = string(hash)
		if err := database.DB.Save(&user).Error; err != nil {
			log.Printf("password change for user %d failed: %v", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update password")
		}

		log.Printf("User %d changed password (by user %d)", id, callerID)

		return c.JSON(fiber.Map{"message": "Password updated successfully."})
	}
}

// ValidatePasswordStrength enforces the password policy: at least 8
// characters with upper case, lower case, a digit and a special character.
func ValidatePasswordStrength(pw string) error {
	if len(pw) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return fiber.NewError(fiber.StatusBadRequest, "Password must include uppercase, lowercase, number, and special character")
	}
	return nil
}
