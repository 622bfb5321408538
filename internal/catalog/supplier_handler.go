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

type SupplierRequest struct {
	Company       string `json:"supplier_Company"`
	ContactPerson string `json:"contact_Person"`
	ContactNumber string `json:"supplier_ContactNumber"`
	Email         string `json:"supplier_Email"`
	Address       string `json:"supplier_Address"`
}

type SupplierResponse struct {
	ID            uint   `json:"supplier_ID"`
	Company       string `json:"supplier_Company"`
	ContactPerson string `json:"contact_Person"`
	ContactNumber string `json:"supplier_ContactNumber"`
	Email         string `json:"supplier_Email"`
	Address       string `json:"supplier_Address"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func supplierResponse(s *models.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Company:       s.Company,
		ContactPerson: s.ContactPerson,
		ContactNumber: s.ContactNumber,
		Email:         s.Email,
		Address:       s.Address,
		CreatedAt:     s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Order("company asc").Find(&suppliers).Error; err != nil {
			log.Printf("supplier list failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list suppliers")
		}

		resp := make([]SupplierResponse, 0, len(suppliers))
		for i := range suppliers {
			resp = append(resp, supplierResponse(&suppliers[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/suppliers/:id
func GetSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("supplier lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}
		return c.JSON(supplierResponse(&supplier))
	}
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := validate.RequiredString("supplier_Company", body.Company); err != nil {
			return err
		}

		supplier := models.Supplier{
			Company:       strings.TrimSpace(body.Company),
			ContactPerson: strings.TrimSpace(body.ContactPerson),
			ContactNumber: strings.TrimSpace(body.ContactNumber),
			Email:         strings.TrimSpace(strings.ToLower(body.Email)),
			Address:       strings.TrimSpace(body.Address),
		}

		if err := database.DB.Create(&supplier).Error; err != nil {
			log.Printf("supplier create failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create supplier")
		}

		return c.Status(fiber.StatusCreated).JSON(supplierResponse(&supplier))
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("supplier lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := validate.RequiredString("supplier_Company", body.Company); err != nil {
			return err
		}

		supplier.Company = strings.TrimSpace(body.Company)
		supplier.ContactPerson = strings.TrimSpace(body.ContactPerson)
		supplier.ContactNumber = strings.TrimSpace(body.ContactNumber)
		supplier.Email = strings.TrimSpace(strings.ToLower(body.Email))
		supplier.Address = strings.TrimSpace(body.Address)

		if err := database.DB.Save(&supplier).Error; err != nil {
			log.Printf("supplier update failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update supplier")
		}

		return c.JSON(supplierResponse(&supplier))
	}
}

// DELETE /api/suppliers/:id
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("supplier lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		var productCount int64
		if err := database.DB.Model(&models.Product{}).Where("supplier_id = ?", supplier.ID).Count(&productCount).Error; err != nil {
			log.Printf("supplier dependent check failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete supplier")
		}
		var orderCount int64
		if err := database.DB.Model(&models.PurchaseOrder{}).Where("supplier_id = ?", supplier.ID).Count(&orderCount).Error; err != nil {
			log.Printf("supplier dependent check failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete supplier")
		}
		if productCount > 0 || orderCount > 0 {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Supplier is referenced by %d product(s) and %d purchase order(s)", productCount, orderCount))
		}

		if err := database.DB.Delete(&supplier).Error; err != nil {
			log.Printf("supplier delete failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete supplier")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
