// Package validate holds the write-path field rules shared by every
// entity handler. Rules run before the store is touched; a violation
// surfaces as a 400 naming the field, a failed foreign-key probe that is
// not a plain miss surfaces as a 500.
package validate

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"markettrack-backend/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func RequiredString(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s is required", field))
	}
	return nil
}

func NonNegative(field string, value float64) error {
	if value < 0 {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be non-negative", field))
	}
	return nil
}

// RefExists probes the store for the referenced row. A missing row is a
// validation failure on the caller's input, not a not-found on the
// addressed resource.
func RefExists(field string, model any, id uint) error {
	if id == 0 {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s is required", field))
	}
	if err := database.DB.Select("id").First(model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s does not reference an existing record", field))
		}
		log.Printf("foreign key probe for %s=%d failed: %v", field, id, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Database error")
	}
	return nil
}
