package catalog

import (
	"fmt"
	"log"
	"strings"

	"markettrack-backend/internal/database"
	"markettrack-backend/internal/models"
	"markettrack-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CategoryRequest struct {
	Name string `json:"category_Name"`
}

type CategoryResponse struct {
	ID        uint   `json:"category_ID"`
	Name      string `json:"category_Name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func categoryResponse(cat *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		CreatedAt: cat.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: cat.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		if err := database.DB.Order("name asc").Find(&categories).Error; err != nil {
			log.Printf("category list failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}

		resp := make([]CategoryResponse, 0, len(categories))
		for i := range categories {
			resp = append(resp, categoryResponse(&categories[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/categories/:id
func GetCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("category lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}
		return c.JSON(categoryResponse(&cat))
	}
}

// POST /api/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := validate.RequiredString("category_Name", body.Name); err != nil {
			return err
		}

		cat := models.Category{Name: strings.TrimSpace(body.Name)}
		if err := database.DB.Create(&cat).Error; err != nil {
			log.Printf("category create failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create category")
		}

		return c.Status(fiber.StatusCreated).JSON(categoryResponse(&cat))
	}
}

// PUT /api/categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("category lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := validate.RequiredString("category_Name", body.Name); err != nil {
			return err
		}

		cat.Name = strings.TrimSpace(body.Name)
		if err := database.DB.Save(&cat).Error; err != nil {
			log.Printf("category update failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update category")
		}

		return c.JSON(categoryResponse(&cat))
	}
}

// DELETE /api/categories/:id
//
// Deletion fails closed: a category still referenced by products is never
// removed and nothing cascades.
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("category lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		var productCount int64
		if err := database.DB.Model(&models.Product{}).Where("category_id = ?", cat.ID).Count(&productCount).Error; err != nil {
			log.Printf("category dependent check failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}
		if productCount > 0 {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Category is referenced by %d product(s)", productCount))
		}

		if err := database.DB.Delete(&cat).Error; err != nil {
			log.Printf("category delete failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
