package inventory

import (
	"errors"
	"log"
	"time"

	"markettrack-backend/internal/database"
	"markettrack-backend/internal/models"
	"markettrack-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateStockRequest struct {
	ProductID       uint    `json:"product_ID"`
	Quantity        float64 `json:"stock_Quantity"`
	LastRestockDate string  `json:"last_RestockDate"`
}

type UpdateStockRequest struct {
	Quantity        float64 `json:"stock_Quantity"`
	LastRestockDate string  `json:"last_RestockDate"`
}

// StockResponse carries product, category and supplier names for the
// stock table view.
type StockResponse struct {
	ID              uint    `json:"stock_ID"`
	ProductID       uint    `json:"product_ID"`
	Product         string  `json:"product_Name"`
	Category        string  `json:"category_Name"`
	Supplier        string  `json:"supplier_Company"`
	Quantity        float64 `json:"stock_Quantity"`
	LastRestockDate string  `json:"last_RestockDate"`
}

func stockResponse(s *models.Stock) StockResponse {
	return StockResponse{
		ID:              s.ID,
		ProductID:       s.ProductID,
		Product:         s.Product.Name,
		Category:        s.Product.Category.Name,
		Supplier:        s.Product.Supplier.Company,
		Quantity:        s.Quantity,
		LastRestockDate: s.LastRestockDate.Format("2006-01-02"),
	}
}

// parseDate accepts the date-only form the stock screens send, or a full
// RFC3339 timestamp. Empty means "now".
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// GET /api/stock
func ListStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entries []models.Stock
		if err := database.DB.
			Preload("Product").
			Preload("Product.Category").
			Preload("Product.Supplier").
			Order("id asc").
			Find(&entries).Error; err != nil {
			log.Printf("stock list failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list stock")
		}

		resp := make([]StockResponse, 0, len(entries))
		for i := range entries {
			resp = append(resp, stockResponse(&entries[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/stock/:id
func GetStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entry models.Stock
		if err := database.DB.
			Preload("Product").
			Preload("Product.Category").
			Preload("Product.Supplier").
			First(&entry, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("stock lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Stock entry not found")
		}
		return c.JSON(stockResponse(&entry))
	}
}

// POST /api/stock
//
// A product has at most one stock row. Posting stock for a product that
// already has one adds to the existing quantity and refreshes the restock
// date, in one transaction.
func CreateStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := validate.NonNegative("stock_Quantity", body.Quantity); err != nil {
			return err
		}
		if err := validate.RefExists("product_ID", &models.Product{}, body.ProductID); err != nil {
			return err
		}

		restockDate, err := parseDate(body.LastRestockDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "last_RestockDate must be YYYY-MM-DD")
		}

		var entry models.Stock
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			err := tx.Where("product_id = ?", body.ProductID).First(&entry).Error
			if err == nil {
				entry.Quantity += body.Quantity
				entry.LastRestockDate = restockDate
				return tx.Save(&entry).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			entry = models.Stock{
				ProductID:       body.ProductID,
				Quantity:        body.Quantity,
				LastRestockDate: restockDate,
			}
			return tx.Create(&entry).Error
		})
		if txErr != nil {
			log.Printf("stock create failed: %v", txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not add stock")
		}

		database.DB.
			Preload("Product").
			Preload("Product.Category").
			Preload("Product.Supplier").
			First(&entry, entry.ID)

		return c.Status(fiber.StatusCreated).JSON(stockResponse(&entry))
	}
}

// PUT /api/stock/:id
func UpdateStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entry models.Stock
		if err := database.DB.First(&entry, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("stock lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Stock entry not found")
		}

		var body UpdateStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := validate.NonNegative("stock_Quantity", body.Quantity); err != nil {
			return err
		}

		restockDate, err := parseDate(body.LastRestockDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "last_RestockDate must be YYYY-MM-DD")
		}

		entry.Quantity = body.Quantity
		entry.LastRestockDate = restockDate

		if err := database.DB.Save(&entry).Error; err != nil {
			log.Printf("stock update failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update stock")
		}

		database.DB.
			Preload("Product").
			Preload("Product.Category").
			Preload("Product.Supplier").
			First(&entry, entry.ID)

		return c.JSON(stockResponse(&entry))
	}
}

// DELETE /api/stock/:id
func DeleteStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entry models.Stock
		if err := database.DB.First(&entry, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("stock lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Stock entry not found")
		}

		if err := database.DB.Delete(&entry).Error; err != nil {
			log.Printf("stock delete failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete stock")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
