package server

import (
	"log"
	"strings"
	"time"

	"markettrack-backend/internal/audit"
	"markettrack-backend/internal/auth"
	"markettrack-backend/internal/catalog"
	"markettrack-backend/internal/config"
	"markettrack-backend/internal/dashboard"
	"markettrack-backend/internal/inventory"
	"markettrack-backend/internal/models"
	"markettrack-backend/internal/orders"
	"markettrack-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// New builds the Fiber app with every route and its role policy. Routes
// without a RequireRole group are authenticated-only.
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public
	api.Post("/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Password changes are rate limited per IP, nothing else is.
	protected.Put("/users/:id/password",
		limiter.New(limiter.Config{
			Max:        5,
			Expiration: 15 * time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTooManyRequests, "Too many password change attempts, please try again later.")
			},
		}),
		auth.ChangePasswordHandler())

	// Categories
	protected.Get("/categories", catalog.ListCategoriesHandler())
	protected.Get("/categories/:id", catalog.GetCategoryHandler())
	protected.Post("/categories", catalog.CreateCategoryHandler())
	protected.Put("/categories/:id", catalog.UpdateCategoryHandler())
	protected.Delete("/categories/:id", catalog.DeleteCategoryHandler())

	// Suppliers
	protected.Get("/suppliers", catalog.ListSuppliersHandler())
	protected.Get("/suppliers/:id", catalog.GetSupplierHandler())
	protected.Post("/suppliers", catalog.CreateSupplierHandler())
	protected.Put("/suppliers/:id", catalog.UpdateSupplierHandler())
	protected.Delete("/suppliers/:id", catalog.DeleteSupplierHandler())

	// Products: writes are Admin/SuperAdmin, delete keeps the original
	// Admin-only allow-list. Membership is exact, no hierarchy.
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Post("/products",
		auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
		catalog.CreateProductHandler())
	protected.Put("/products/:id",
		auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
		catalog.UpdateProductHandler())
	protected.Delete("/products/:id",
		auth.RequireRole(models.RoleAdmin),
		catalog.DeleteProductHandler())

	// Stock
	protected.Get("/stock", inventory.ListStockHandler())
	protected.Get("/stock/:id", inventory.GetStockHandler())
	protected.Post("/stock",
		auth.RequireRole(models.RoleSuperAdmin, models.RoleAdmin),
		inventory.CreateStockHandler())
	protected.Put("/stock/:id",
		auth.RequireRole(models.RoleSuperAdmin, models.RoleAdmin),
		inventory.UpdateStockHandler())
	protected.Delete("/stock/:id",
		auth.RequireRole(models.RoleSuperAdmin, models.RoleAdmin),
		inventory.DeleteStockHandler())

	// Purchase orders
	protected.Get("/purchase-orders", orders.ListPurchaseOrdersHandler())
	protected.Get("/purchase-orders/:id", orders.GetPurchaseOrderHandler())
	protected.Post("/purchase-orders", orders.CreatePurchaseOrderHandler())
	protected.Put("/purchase-orders/:id", orders.UpdatePurchaseOrderHandler())
	protected.Delete("/purchase-orders/:id", orders.DeletePurchaseOrderHandler())

	// User management (SuperAdmin only). Gated per route so the
	// self-service password route above stays outside the allow-list.
	superAdmin := auth.RequireRole(models.RoleSuperAdmin)
	protected.Get("/users", superAdmin, users.ListUsersHandler())
	protected.Get("/users/:id", superAdmin, users.GetUserHandler())
	protected.Post("/users", superAdmin, users.CreateUserHandler())
	protected.Put("/users/:id", superAdmin, users.UpdateUserHandler())
	protected.Delete("/users/:id", superAdmin, users.DeleteUserHandler())

	// Dashboard
	protected.Get("/dashboard/summary", dashboard.SummaryHandler())
	protected.Get("/dashboard/category-distribution", dashboard.CategoryDistributionHandler())
	protected.Get("/dashboard/stock-levels", dashboard.StockLevelsHandler())
	protected.Get("/dashboard/recent-orders", dashboard.RecentOrdersHandler())
	protected.Get("/dashboard/low-stock", dashboard.LowStockHandler())

	// Audit logs
	protected.Get("/audit-logs",
		auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
		audit.ListAuditLogsHandler())

	return app
}
