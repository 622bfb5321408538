package catalog

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
)

type ProductRequest struct {
	Name       string  `json:"product_Name"`
	CategoryID uint    `json:"category_ID"`
	SupplierID uint    `json:"supplier_ID"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"product_Quantity"`
}

// ProductResponse is read-enriched with the referenced display names.
type ProductResponse struct {
	ID         uint    `json:"product_ID"`
	Name       string  `json:"product_Name"`
	CategoryID uint    `json:"category_ID"`
	Category   string  `json:"category_Name"`
	SupplierID uint    `json:"supplier_ID"`
	Supplier   string  `json:"supplier_Company"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"product_Quantity"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func productResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		Category:   p.Category.Name,
		SupplierID: p.SupplierID,
		Supplier:   p.Supplier.Company,
		Price:      p.Price,
		Quantity:   p.Quantity,
		CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func validateProduct(body *ProductRequest) error {
	if err := validate.RequiredString("product_Name", body.Name); err != nil {
		return err
	}
	if err := validate.NonNegative("price", body.Price); err != nil {
		return err
	}
	if err := validate.NonNegative("product_Quantity", body.Quantity); err != nil {
		return err
	}
	if err := validate.RefExists("category_ID", &models.Category{}, body.CategoryID); err != nil {
		return err
	}
	return validate.RefExists("supplier_ID", &models.Supplier{}, body.SupplierID)
}

func currentUser(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	username, _ := c.Locals(auth.CtxUsernameKey).(string)
	return userID, username
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Preload("Category").Preload("Supplier").
			Order("name asc").
			Find(&products).Error; err != nil {
			log.Printf("product list failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		resp := make([]ProductResponse, 0, len(products))
		for i := range products {
			resp = append(resp, productResponse(&products[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.Preload("Category").Preload("Supplier").
			First(&product, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("product lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return c.JSON(productResponse(&product))
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := validateProduct(&body); err != nil {
			return err
		}

		product := models.Product{
			Name:       strings.TrimSpace(body.Name),
			CategoryID: body.CategoryID,
			SupplierID: body.SupplierID,
			Price:      body.Price,
			Quantity:   body.Quantity,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			log.Printf("product create failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		userID, username := currentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    username,
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Product created: %s", product.Name),
			After:       body,
		}); logErr != nil {
			log.Printf("audit log failed: %v", logErr)
		}

		database.DB.Preload("Category").Preload("Supplier").First(&product, product.ID)

		return c.Status(fiber.StatusCreated).JSON(productResponse(&product))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("product lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := validateProduct(&body); err != nil {
			return err
		}

		before := ProductRequest{
			Name:       product.Name,
			CategoryID: product.CategoryID,
			SupplierID: product.SupplierID,
			Price:      product.Price,
			Quantity:   product.Quantity,
		}

		product.Name = strings.TrimSpace(body.Name)
		product.CategoryID = body.CategoryID
		product.SupplierID = body.SupplierID
		product.Price = body.Price
		product.Quantity = body.Quantity

		if err := database.DB.Save(&product).Error; err != nil {
			log.Printf("product update failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		userID, username := currentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    username,
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Product updated: %s", product.Name),
			Before:      before,
			After:       body,
		}); logErr != nil {
			log.Printf("audit log failed: %v", logErr)
		}

		database.DB.Preload("Category").Preload("Supplier").First(&product, product.ID)

		return c.JSON(productResponse(&product))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("product lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var stockCount int64
		if err := database.DB.Model(&models.Stock{}).Where("product_id = ?", product.ID).Count(&stockCount).Error; err != nil {
			log.Printf("product dependent check failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}
		var orderCount int64
		if err := database.DB.Model(&models.PurchaseOrder{}).Where("product_id = ?", product.ID).Count(&orderCount).Error; err != nil {
			log.Printf("product dependent check failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}
		if stockCount > 0 || orderCount > 0 {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Product is referenced by %d stock entr(ies) and %d purchase order(s)", stockCount, orderCount))
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			log.Printf("product delete failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		userID, username := currentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    username,
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Product deleted: %s", product.Name),
			Before: ProductRequest{
				Name:       product.Name,
				CategoryID: product.CategoryID,
				SupplierID: product.SupplierID,
				Price:      product.Price,
				Quantity:   product.Quantity,
			},
		}); logErr != nil {
			log.Printf("audit log failed: %v", logErr)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
