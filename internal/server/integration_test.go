package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"markettrack-backend/internal/auth"
	"markettrack-backend/internal/config"
	"markettrack-backend/internal/database"
	"markettrack-backend/internal/models"
)

// TestCRUDIntegration exercises the API against a live Postgres.
func TestCRUDIntegration(t *testing.T) {
	if os.Getenv("RUN_CRUD_INTEGRATION") != "true" {
		t.Skip("set RUN_CRUD_INTEGRATION=true to run this integration test")
	}

	_ = godotenv.Load("../../.env")

	cfg := config.Load()
	database.Init(cfg)
	database.EnsureAdmin(cfg)

	app := New(cfg)

	// Login with the bootstrap admin; the returned user object must be
	// exactly the signed claims.
	var loginResp struct {
		Token string `json:"token"`
		User  struct {
			UserID   uint   `json:"user_ID"`
			Username string `json:"user_Username"`
			Role     string `json:"user_Role"`
		} `json:"user"`
	}
	resp := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"username": cfg.AdminUsername,
		"password": cfg.AdminPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &loginResp)
	require.NotEmpty(t, loginResp.Token)

	claims, err := auth.ParseToken(cfg.JWTSecret, loginResp.Token)
	require.NoError(t, err)
	assert.Equal(t, loginResp.User.UserID, claims.UserID)
	assert.Equal(t, loginResp.User.Username, claims.Username)
	assert.Equal(t, loginResp.User.Role, string(claims.Role))

	// The bootstrap credential carries the Admin role, and the token
	// says so.
	assert.Equal(t, string(models.RoleAdmin), string(claims.Role))

	token := loginResp.Token
	suffix := time.Now().UnixNano()

	// Category + supplier to hang a product on.
	var category struct {
		ID   uint   `json:"category_ID"`
		Name string `json:"category_Name"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/categories", token, map[string]any{
		"category_Name": fmt.Sprintf("it-category-%d", suffix),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &category)

	var supplier struct {
		ID uint `json:"supplier_ID"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/suppliers", token, map[string]any{
		"supplier_Company": fmt.Sprintf("it-supplier-%d", suffix),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &supplier)

	// An empty product name is a validation failure and no row appears.
	resp = doJSON(t, app, http.MethodPost, "/api/products", token, map[string]any{
		"product_Name":     "",
		"category_ID":      category.ID,
		"supplier_ID":      supplier.ID,
		"price":            10,
		"product_Quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var blankCount int64
	database.DB.Model(&models.Product{}).Where("name = ?", "").Count(&blankCount)
	assert.Zero(t, blankCount)

	// A dangling category reference is a validation failure too.
	resp = doJSON(t, app, http.MethodPost, "/api/products", token, map[string]any{
		"product_Name":     fmt.Sprintf("it-product-%d", suffix),
		"category_ID":      uint(999999999),
		"supplier_ID":      supplier.ID,
		"price":            10,
		"product_Quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var product struct {
		ID uint `json:"product_ID"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/products", token, map[string]any{
		"product_Name":     fmt.Sprintf("it-product-%d", suffix),
		"category_ID":      category.ID,
		"supplier_ID":      supplier.ID,
		"price":            19.99,
		"product_Quantity": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &product)

	// The category is referenced now: deletion must fail closed and both
	// rows must survive.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/categories/%d", category.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Same for the supplier.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/suppliers/%d", supplier.ID), token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Posting stock twice for the same product folds into one row.
	var stock struct {
		ID       uint    `json:"stock_ID"`
		Quantity float64 `json:"stock_Quantity"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/stock", token, map[string]any{
		"product_ID":     product.ID,
		"stock_Quantity": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &stock)

	var restocked struct {
		ID       uint    `json:"stock_ID"`
		Quantity float64 `json:"stock_Quantity"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/stock", token, map[string]any{
		"product_ID":     product.ID,
		"stock_Quantity": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &restocked)
	assert.Equal(t, stock.ID, restocked.ID)
	assert.Equal(t, float64(8), restocked.Quantity)

	// A fresh purchase order shows up in the recent-orders feed with its
	// computed total.
	var order struct {
		ID uint `json:"order_ID"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/purchase-orders", token, map[string]any{
		"supplier_ID":      supplier.ID,
		"product_ID":       product.ID,
		"quantity_Ordered": 4,
		"unit_Price":       2.5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &order)

	var recent []struct {
		OrderID     uint    `json:"order_ID"`
		TotalAmount float64 `json:"total_amount"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/dashboard/recent-orders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &recent)
	found := false
	for _, r := range recent {
		if r.OrderID == order.ID {
			found = true
			assert.Equal(t, float64(10), r.TotalAmount)
		}
	}
	assert.True(t, found, "order %d missing from recent-orders", order.ID)

	// With 8 on hand the product sits under the low-stock threshold.
	var lowStock []struct {
		ProductID uint    `json:"product_ID"`
		Quantity  float64 `json:"stock_Quantity"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/dashboard/low-stock", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &lowStock)
	found = false
	for _, item := range lowStock {
		if item.ProductID == product.ID {
			found = true
			assert.Equal(t, float64(8), item.Quantity)
		}
	}
	assert.True(t, found, "product %d missing from low-stock", product.ID)

	// Cleanup bottom-up; the bootstrap Admin is on every delete
	// allow-list.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/purchase-orders/%d", order.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/stock/%d", stock.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/suppliers/%d", supplier.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// TestPasswordChangeIntegration walks the password route end to end:
// wrong old password, weak new password, a real change, and a login with
// the new credential.
func TestPasswordChangeIntegration(t *testing.T) {
	if os.Getenv("RUN_CRUD_INTEGRATION") != "true" {
		t.Skip("set RUN_CRUD_INTEGRATION=true to run this integration test")
	}

	_ = godotenv.Load("../../.env")

	cfg := config.Load()
	database.Init(cfg)

	app := New(cfg)
	suffix := time.Now().UnixNano()

	password := "It1!changes"
	user := seedUser(t, fmt.Sprintf("it-pwd-%d", suffix), password, models.RoleUser)
	defer database.DB.Delete(&models.User{}, user.ID)

	token := loginAs(t, app, user.Username, password)

	path := fmt.Sprintf("/api/users/%d/password", user.ID)

	// Wrong old password is refused.
	resp := doJSON(t, app, http.MethodPut, path, token, map[string]string{
		"oldPassword": "Wr0ng!old",
		"newPassword": "An0ther!pass",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A weak replacement is refused even with the right old password.
	resp = doJSON(t, app, http.MethodPut, path, token, map[string]string{
		"oldPassword": password,
		"newPassword": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The real change goes through and the new credential logs in.
	newPassword := "It2!changed"
	resp = doJSON(t, app, http.MethodPut, path, token, map[string]string{
		"oldPassword": password,
		"newPassword": newPassword,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	loginAs(t, app, user.Username, newPassword)
}

// TestLastSuperAdminProtection checks that the final SuperAdmin can be
// neither deleted nor demoted.
func TestLastSuperAdminProtection(t *testing.T) {
	if os.Getenv("RUN_CRUD_INTEGRATION") != "true" {
		t.Skip("set RUN_CRUD_INTEGRATION=true to run this integration test")
	}

	_ = godotenv.Load("../../.env")

	cfg := config.Load()
	database.Init(cfg)

	// Any SuperAdmin already present (from earlier runs or manual
	// seeding) would make the "last one" checks pass vacuously.
	var existing int64
	require.NoError(t, database.DB.Model(&models.User{}).
		Where("role = ?", models.RoleSuperAdmin).
		Count(&existing).Error)
	if existing > 0 {
		t.Skipf("database already has %d SuperAdmin(s)", existing)
	}

	app := New(cfg)
	suffix := time.Now().UnixNano()

	password := "Sup3r!admin"
	first := seedUser(t, fmt.Sprintf("it-super-%d", suffix), password, models.RoleSuperAdmin)
	defer database.DB.Delete(&models.User{}, first.ID)

	token := loginAs(t, app, first.Username, password)

	// Sole SuperAdmin: delete and demote both fail closed.
	resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", first.ID), token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/users/%d", first.ID), token, map[string]string{
		"user_Username":  first.Username,
		"user_FirstName": first.FirstName,
		"user_LastName":  first.LastName,
		"user_Role":      string(models.RoleAdmin),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// With a second SuperAdmin in place the delete goes through.
	var second struct {
		ID uint `json:"user_ID"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/users", token, map[string]string{
		"user_Username":  fmt.Sprintf("it-super2-%d", suffix),
		"user_FirstName": "Second",
		"user_LastName":  "Super",
		"user_Password":  "Sup3r!admin2",
		"user_Role":      string(models.RoleSuperAdmin),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &second)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", second.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func seedUser(t *testing.T, username, password string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		FirstName:    "Integration",
		LastName:     "Test",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func loginAs(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
