package orders

import (
	"log"
	"time"

	"markettrack-backend/internal/database"
	"markettrack-backend/internal/models"
	"markettrack-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type PurchaseOrderRequest struct {
	SupplierID      uint    `json:"supplier_ID"`
	ProductID       uint    `json:"product_ID"`
	QuantityOrdered float64 `json:"quantity_Ordered"`
	OrderDate       string  `json:"order_Date"`
	UnitPrice       float64 `json:"unit_Price"`
	Status          string  `json:"status"`
}

type PurchaseOrderResponse struct {
	ID              uint               `json:"order_ID"`
	SupplierID      uint               `json:"supplier_ID"`
	Supplier        string             `json:"supplier_Company"`
	ProductID       uint               `json:"product_ID"`
	Product         string             `json:"product_Name"`
	QuantityOrdered float64            `json:"quantity_Ordered"`
	OrderDate       string             `json:"order_Date"`
	UnitPrice       float64            `json:"unit_Price"`
	Status          models.OrderStatus `json:"status"`
}

func orderResponse(o *models.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:              o.ID,
		SupplierID:      o.SupplierID,
		Supplier:        o.Supplier.Company,
		ProductID:       o.ProductID,
		Product:         o.Product.Name,
		QuantityOrdered: o.QuantityOrdered,
		OrderDate:       o.OrderDate.Format("2006-01-02"),
		UnitPrice:       o.UnitPrice,
		Status:          o.Status,
	}
}

func parseStatus(s string) (models.OrderStatus, error) {
	if s == "" {
		return models.OrderStatusPending, nil
	}
	switch models.OrderStatus(s) {
	case models.OrderStatusPending, models.OrderStatusDelivered, models.OrderStatusCancelled:
		return models.OrderStatus(s), nil
	}
	return "", fiber.NewError(fiber.StatusBadRequest, "status must be Pending, Delivered or Cancelled")
}

func parseOrderDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func validateOrder(body *PurchaseOrderRequest) error {
	if err := validate.NonNegative("quantity_Ordered", body.QuantityOrdered); err != nil {
		return err
	}
	if err := validate.NonNegative("unit_Price", body.UnitPrice); err != nil {
		return err
	}
	if err := validate.RefExists("supplier_ID", &models.Supplier{}, body.SupplierID); err != nil {
		return err
	}
	return validate.RefExists("product_ID", &models.Product{}, body.ProductID)
}

// GET /api/purchase-orders
func ListPurchaseOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orders []models.PurchaseOrder
		if err := database.DB.Preload("Supplier").Preload("Product").
			Order("order_date desc").
			Find(&orders).Error; err != nil {
			log.Printf("purchase order list failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list purchase orders")
		}

		resp := make([]PurchaseOrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, orderResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/purchase-orders/:id
func GetPurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.PurchaseOrder
		if err := database.DB.Preload("Supplier").Preload("Product").
			First(&order, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("purchase order lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}
		return c.JSON(orderResponse(&order))
	}
}

// POST /api/purchase-orders
func CreatePurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PurchaseOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := validateOrder(&body); err != nil {
			return err
		}

		status, err := parseStatus(body.Status)
		if err != nil {
			return err
		}
		orderDate, err := parseOrderDate(body.OrderDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "order_Date must be YYYY-MM-DD")
		}

		order := models.PurchaseOrder{
			SupplierID:      body.SupplierID,
			ProductID:       body.ProductID,
			QuantityOrdered: body.QuantityOrdered,
			OrderDate:       orderDate,
			UnitPrice:       body.UnitPrice,
			Status:          status,
		}

		if err := database.DB.Create(&order).Error; err != nil {
			log.Printf("purchase order create failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create purchase order")
		}

		database.DB.Preload("Supplier").Preload("Product").First(&order, order.ID)

		return c.Status(fiber.StatusCreated).JSON(orderResponse(&order))
	}
}

// PUT /api/purchase-orders/:id
func UpdatePurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.PurchaseOrder
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("purchase order lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}

		var body PurchaseOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := validateOrder(&body); err != nil {
			return err
		}

		status, err := parseStatus(body.Status)
		if err != nil {
			return err
		}
		orderDate, err := parseOrderDate(body.OrderDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "order_Date must be YYYY-MM-DD")
		}

		order.SupplierID = body.SupplierID
		order.ProductID = body.ProductID
		order.QuantityOrdered = body.QuantityOrdered
		order.OrderDate = orderDate
		order.UnitPrice = body.UnitPrice
		order.Status = status

		if err := database.DB.Save(&order).Error; err != nil {
			log.Printf("purchase order update failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update purchase order")
		}

		database.DB.Preload("Supplier").Preload("Product").First(&order, order.ID)

		return c.JSON(orderResponse(&order))
	}
}

// DELETE /api/purchase-orders/:id
func DeletePurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.PurchaseOrder
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			if !database.NotFound(err) {
				log.Printf("purchase order lookup failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Database error")
			}
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}

		if err := database.DB.Delete(&order).Error; err != nil {
			log.Printf("purchase order delete failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete purchase order")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
