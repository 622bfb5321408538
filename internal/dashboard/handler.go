package dashboard

import (
	"log"
	"time"

	"markettrack-backend/internal/database"
	"markettrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Stock below this quantity counts as an alert on the dashboard.
const lowStockThreshold = 10

type SummaryResponse struct {
	TotalProducts  int64 `json:"totalProducts"`
	TotalSuppliers int64 `json:"totalSuppliers"`
	PendingOrders  int64 `json:"pendingOrders"`
	StockAlerts    int64 `json:"stockAlerts"`
}

type CategoryShare struct {
	Category     string  `json:"category_Name"`
	ProductCount int64   `json:"product_count"`
	Percentage   float64 `json:"percentage"`
}

type CategoryStockLevel struct {
	Category   string  `json:"category_Name"`
	TotalStock float64 `json:"total_stock"`
}

// GET /api/dashboard/summary
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resp SummaryResponse

		if err := database.DB.Model(&models.Product{}).Count(&resp.TotalProducts).Error; err != nil {
			log.Printf("dashboard summary failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load summary")
		}
		if err := database.DB.Model(&models.Supplier{}).Count(&resp.TotalSuppliers).Error; err != nil {
			log.Printf("dashboard summary failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load summary")
		}
		if err := database.DB.Model(&models.PurchaseOrder{}).
			Where("status = ?", models.OrderStatusPending).
			Count(&resp.PendingOrders).Error; err != nil {
			log.Printf("dashboard summary failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load summary")
		}
		if err := database.DB.Model(&models.Stock{}).
			Where("quantity < ?", lowStockThreshold).
			Count(&resp.StockAlerts).Error; err != nil {
			log.Printf("dashboard summary failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load summary")
		}

		return c.JSON(resp)
	}
}

// GET /api/dashboard/category-distribution
func CategoryDistributionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []CategoryShare
		err := database.DB.Raw(`
			SELECT
				c.name AS category,
				COUNT(p.id) AS product_count,
				ROUND(COUNT(p.id) * 100.0 / NULLIF((SELECT COUNT(*) FROM products), 0), 1) AS percentage
			FROM categories c
			LEFT JOIN products p ON p.category_id = c.id
			GROUP BY c.id, c.name
			HAVING COUNT(p.id) > 0
			ORDER BY product_count DESC
		`).Scan(&rows).Error
		if err != nil {
			log.Printf("category distribution failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load category distribution")
		}

		return c.JSON(rows)
	}
}

type RecentOrder struct {
	OrderID         uint    `json:"order_ID"`
	Supplier        string  `json:"supplier_Company"`
	OrderDate       string  `json:"order_Date"`
	QuantityOrdered float64 `json:"quantity_Ordered"`
	UnitPrice       float64 `json:"unit_Price"`
	Status          string  `json:"status"`
	TotalAmount     float64 `json:"total_amount"`
}

type LowStockItem struct {
	ProductID uint    `json:"product_ID"`
	Product   string  `json:"product_Name"`
	Category  string  `json:"category_Name"`
	Quantity  float64 `json:"stock_Quantity"`
}

// GET /api/dashboard/recent-orders
func RecentOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []struct {
			OrderID         uint
			Supplier        string
			OrderDate       time.Time
			QuantityOrdered float64
			UnitPrice       float64
			Status          string
		}
		err := database.DB.Raw(`
			SELECT
				po.id AS order_id,
				s.company AS supplier,
				po.order_date,
				po.quantity_ordered,
				po.unit_price,
				po.status
			FROM purchase_orders po
			LEFT JOIN suppliers s ON po.supplier_id = s.id
			ORDER BY po.order_date DESC
			LIMIT 5
		`).Scan(&rows).Error
		if err != nil {
			log.Printf("recent orders failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recent orders")
		}

		resp := make([]RecentOrder, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, RecentOrder{
				OrderID:         r.OrderID,
				Supplier:        r.Supplier,
				OrderDate:       r.OrderDate.Format("2006-01-02"),
				QuantityOrdered: r.QuantityOrdered,
				UnitPrice:       r.UnitPrice,
				Status:          r.Status,
				TotalAmount:     r.QuantityOrdered * r.UnitPrice,
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/dashboard/low-stock
//
// Products with no stock row at all count as low stock too.
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []LowStockItem
		err := database.DB.Raw(`
			SELECT
				p.id AS product_id,
				p.name AS product,
				c.name AS category,
				COALESCE(s.quantity, 0) AS quantity
			FROM products p
			LEFT JOIN categories c ON p.category_id = c.id
			LEFT JOIN stocks s ON s.product_id = p.id
			WHERE s.quantity < ? OR s.quantity IS NULL
			ORDER BY COALESCE(s.quantity, 0) ASC
			LIMIT 10
		`, lowStockThreshold).Scan(&rows).Error
		if err != nil {
			log.Printf("low stock failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load low stock items")
		}

		return c.JSON(rows)
	}
}

// GET /api/dashboard/stock-levels
func StockLevelsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []CategoryStockLevel
		err := database.DB.Raw(`
			SELECT
				c.name AS category,
				COALESCE(SUM(s.quantity), 0) AS total_stock
			FROM categories c
			LEFT JOIN products p ON p.category_id = c.id
			LEFT JOIN stocks s ON s.product_id = p.id
			GROUP BY c.id, c.name
			ORDER BY total_stock DESC
			LIMIT 5
		`).Scan(&rows).Error
		if err != nil {
			log.Printf("stock levels failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stock levels")
		}

		return c.JSON(rows)
	}
}
