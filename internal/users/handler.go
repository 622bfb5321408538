package users

import (
	"fmt"
	"log"
	"strings"

	"markettrack-backend/internal/audit"
	"markettrack-backend/internal/auth"
	"markettrack-backend/internal/database"
	"markettrack-backend/internal/models"
	"markettrack-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Username   string `json:"user_Username"`
	FirstName  string `json:"user_FirstName"`
	MiddleName string `json:"user_MiddleName"`
	LastName   string `json:"user_LastName"`
	Address    string `json:"user_Address"`
	Contact    string `json:"user_Contact"`
	Password   string `json:"user_Password"`
	Role       string `json:"user_Role"`
}

// UpdateUserRequest covers profile fields and role. Passwords change only
// through the dedicated password route.
type UpdateUserRequest struct {
	Username   string `json:"user_Username"`
	FirstName  string `json:"user_FirstName"`
	MiddleName string `json:"user_MiddleName"`
	LastName   string `json:"user_LastName"`
	Address    string `json:"user_Address"`
	Contact    string `json:"user_Contact"`
	Role       string `json:"user_Role"`
}

type UserResponse struct {
	ID         uint            `json:"user_ID"`
	Username   string          `json:"user_Username"`
	FirstName  string          `json:"user_FirstName"`
	MiddleName string          `json:"user_MiddleName"`
	LastName   string          `json:"user_LastName"`
	Address    string          `json:"user_Address"`
	Contact    string          `json:"user_Contact"`
	Role       models.UserRole `json:"user_Role"`
	CreatedAt  string          `json:"created_at"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		MiddleName: u.MiddleName,
		LastName:   u.LastName,
		Address:    u.Address,
		Contact:    u.Contact,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func currentUser(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	username, _ := c.Locals(auth.CtxUsernameKey).(string)
	return userID, username
}

// GET /api/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("username asc").Find(&users).Error; err != nil {
			log.Printf("user list failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list users")
		}

		resp := make([]UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, userResponse(&users[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/users/:id
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("user lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return c.JSON(userResponse(&user))
	}
}

// POST /api/users
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(body.Username)

		if err := validate.RequiredString("user_Username", body.Username); err != nil {
			return err
		}
		if err := validate.RequiredString("user_FirstName", body.FirstName); err != nil {
			return err
		}
		if err := validate.RequiredString("user_LastName", body.LastName); err != nil {
			return err
		}

		role, err := models.ParseRole(body.Role)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "user_Role must be one of SuperAdmin, Admin, User, Pending")
		}

		if err := auth.ValidatePasswordStrength(body.Password); err != nil {
			return err
		}

		var exist models.User
		if err := database.DB.Where("username = ?", body.Username).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Username is already taken")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Username:     body.Username,
			FirstName:    strings.TrimSpace(body.FirstName),
			MiddleName:   strings.TrimSpace(body.MiddleName),
			LastName:     strings.TrimSpace(body.LastName),
			Address:      strings.TrimSpace(body.Address),
			Contact:      strings.TrimSpace(body.Contact),
			PasswordHash: string(hash),
			Role:         role,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("user create failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		callerID, callerName := currentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      callerID,
			UserName:    callerName,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("User created: %s (%s)", user.Username, user.Role),
			After:       userResponse(&user),
		}); logErr != nil {
			log.Printf("audit log failed: %v", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(userResponse(&user))
	}
}

// PUT /api/users/:id
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("user lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(body.Username)

		if err := validate.RequiredString("user_Username", body.Username); err != nil {
			return err
		}
		if err := validate.RequiredString("user_FirstName", body.FirstName); err != nil {
			return err
		}
		if err := validate.RequiredString("user_LastName", body.LastName); err != nil {
			return err
		}

		role, err := models.ParseRole(body.Role)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "user_Role must be one of SuperAdmin, Admin, User, Pending")
		}

		if body.Username != user.Username {
			var exist models.User
			if err := database.DB.Where("username = ?", body.Username).First(&exist).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Username is already taken")
			}
		}

		// Demoting the last SuperAdmin would lock the admin screens.
		if user.Role == models.RoleSuperAdmin && role != models.RoleSuperAdmin {
			var superAdmins int64
			if err := database.DB.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&superAdmins).Error; err != nil {
				log.Printf("superadmin count failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update user")
			}
			if superAdmins <= 1 {
				return fiber.NewError(fiber.StatusConflict, "Cannot demote the last SuperAdmin")
			}
		}

		before := userResponse(&user)

		user.Username = body.Username
		user.FirstName = strings.TrimSpace(body.FirstName)
		user.MiddleName = strings.TrimSpace(body.MiddleName)
		user.LastName = strings.TrimSpace(body.LastName)
		user.Address = strings.TrimSpace(body.Address)
		user.Contact = strings.TrimSpace(body.Contact)
		user.Role = role

		if err := database.DB.Save(&user).Error; err != nil {
			log.Printf("user update failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update user")
		}

		callerID, callerName := currentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      callerID,
			UserName:    callerName,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("User updated: %s", user.Username),
			Before:      before,
			After:       userResponse(&user),
		}); logErr != nil {
			log.Printf("audit log failed: %v", logErr)
		}

		return c.JSON(userResponse(&user))
	}
}

// DELETE /api/users/:id
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("user lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		// The system must always keep at least one SuperAdmin.
		if user.Role == models.RoleSuperAdmin {
			var superAdmins int64
			if err := database.DB.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&superAdmins).Error; err != nil {
				log.Printf("superadmin count failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Could not delete user")
			}
			if superAdmins <= 1 {
				return fiber.NewError(fiber.StatusConflict, "Cannot delete the last SuperAdmin")
			}
		}

		if err := database.DB.Delete(&user).Error; err != nil {
			log.Printf("user delete failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete user")
		}

		callerID, callerName := currentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      callerID,
			UserName:    callerName,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("User deleted: %s", user.Username),
			Before:      userResponse(&user),
		}); logErr != nil {
			log.Printf("audit log failed: %v", logErr)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
