package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"plantshop/internal/app"
	"plantshop/internal/models"
	"plantshop/internal/repositories"
	"plantshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAdminID       = "admin"
	testAdminPassword = "correct-horse"
	testJWTSecret     = "test_jwt_secret"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	productRepo := repositories.NewGORMProductRepository(db)
	productService := services.NewProductService(productRepo, nil, zap.NewNop())
	authService := services.NewAuthService(services.AdminCredentials{
		ID:       testAdminID,
		Password: testAdminPassword,
	}, testJWTSecret)

	return app.New(app.Deps{
		Products: productService,
		Auth:     authService,
		Logger:   zap.NewNop(),
	})
}

func doJSON(t *testing.T, a *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func login(t *testing.T, a *fiber.App) string {
	t.Helper()
	resp := doJSON(t, a, http.MethodPost, "/login", map[string]string{"id": testAdminID, "password": testAdminPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	require.NotEmpty(t, body["token"])
	return body["token"]
}

func aloe() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Aloe",
		"price":       10,
		"categories":  []string{"Succulent"},
		"stock":       5,
		"imageUrl":    "https://x/a.png",
		"description": "ten+ chars desc",
		"careTips":    "ten+ chars tip",
	}
}

func createProduct(t *testing.T, a *fiber.App, token string, payload map[string]interface{}) models.Product {
	t.Helper()
	resp := doJSON(t, a, http.MethodPost, "/products", payload, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decode(t, resp, &created)
	return created
}

func listProducts(t *testing.T, a *fiber.App, query string) models.ProductPage {
	t.Helper()
	resp := doJSON(t, a, http.MethodGet, "/products"+query, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page models.ProductPage
	decode(t, resp, &page)
	return page
}

func TestLogin(t *testing.T) {
	a := setupApp(t)

	token := login(t, a)
	assert.NotEmpty(t, token)

	resp := doJSON(t, a, http.MethodPost, "/login", map[string]string{"id": testAdminID, "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, map[string]interface{}{"error": "Invalid credentials"}, body)

	resp = doJSON(t, a, http.MethodPost, "/login", map[string]string{"id": testAdminID}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProductLifecycle(t *testing.T) {
	a := setupApp(t)
	token := login(t, a)

	// --- Create ---
	before := time.Now().Add(-time.Second)
	created := createProduct(t, a, token, aloe())
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.CreatedAt.After(before))
	assert.Equal(t, "Aloe", created.Name)
	assert.Equal(t, 10.0, created.Price)
	assert.Equal(t, []string{"Succulent"}, created.Categories)
	assert.Equal(t, 5, created.Stock)
	assert.False(t, created.Featured)

	// --- Get ---
	resp := doJSON(t, a, http.MethodGet, "/products/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Product
	decode(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, created.Price, fetched.Price)
	assert.Equal(t, created.Categories, fetched.Categories)
	assert.Equal(t, created.Stock, fetched.Stock)
	assert.Equal(t, created.ImageURL, fetched.ImageURL)
	assert.Equal(t, created.Description, fetched.Description)
	assert.Equal(t, created.CareTips, fetched.CareTips)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	// --- Replace ---
	replacement := map[string]interface{}{
		"name":        "Aloe Vera",
		"price":       12.5,
		"categories":  []string{"Succulent", "Air Purifying"},
		"stock":       0,
		"imageUrl":    "https://x/aloe-vera.png",
		"description": "Medicinal succulent plant",
		"careTips":    "Bright indirect light",
		"featured":    true,
		"createdAt":   "2000-01-01T00:00:00Z",
		"id":          "ignored",
	}
	resp = doJSON(t, a, http.MethodPut, "/products/"+created.ID, replacement, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	decode(t, resp, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, "Aloe Vera", updated.Name)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, []string{"Succulent", "Air Purifying"}, updated.Categories)
	assert.Equal(t, 0, updated.Stock)
	assert.True(t, updated.Featured)

	// --- Delete ---
	resp = doJSON(t, a, http.MethodDelete, "/products/"+created.ID, nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var deleteResp map[string]interface{}
	decode(t, resp, &deleteResp)
	assert.Equal(t, true, deleteResp["success"])

	// Verify deletion
	resp = doJSON(t, a, http.MethodGet, "/products/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, a, http.MethodDelete, "/products/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, a, http.MethodPut, "/products/"+created.ID, aloe(), token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProductEndpointsWithoutAuth(t *testing.T) {
	a := setupApp(t)

	resp := doJSON(t, a, http.MethodPost, "/products", aloe(), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "Unauthorized", body["error"])

	resp = doJSON(t, a, http.MethodPost, "/products", aloe(), "forged.token.value")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	id := uuid.NewString()
	resp = doJSON(t, a, http.MethodPut, "/products/"+id, aloe(), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, a, http.MethodDelete, "/products/"+id, nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// No record was created by the rejected POSTs.
	page := listProducts(t, a, "")
	assert.Equal(t, int64(0), page.TotalItems)
	assert.Empty(t, page.Items)
}

func TestCreateProductValidation(t *testing.T) {
	a := setupApp(t)
	token := login(t, a)

	payload := aloe()
	payload["name"] = ""
	payload["categories"] = []string{"Jungle"}
	payload["description"] = "short"
	delete(payload, "stock")

	resp := doJSON(t, a, http.MethodPost, "/products", payload, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "Invalid payload", body.Error)
	fields := map[string]bool{}
	for _, d := range body.Details {
		fields[d.Field] = true
	}
	assert.Equal(t, map[string]bool{"name": true, "categories[0]": true, "description": true, "stock": true}, fields)
}

func TestGetProductBadID(t *testing.T) {
	a := setupApp(t)

	resp := doJSON(t, a, http.MethodGet, "/products/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, a, http.MethodGet, "/products/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestListProducts(t *testing.T) {
	a := setupApp(t)
	token := login(t, a)

	cheap := aloe()
	cheap["name"] = "Aloe"
	cheap["price"] = 10
	createProduct(t, a, token, cheap)

	pricey := aloe()
	pricey["name"] = "Jade"
	pricey["price"] = 20
	createProduct(t, a, token, pricey)

	herb := aloe()
	herb["name"] = "Basil"
	herb["price"] = 3
	herb["categories"] = []string{"Herbs"}
	createProduct(t, a, token, herb)

	page := listProducts(t, a, "?category=Succulent&sort=price&order=asc&page=1&limit=1")
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Aloe", page.Items[0].Name)
	assert.Equal(t, int64(2), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Page)

	page = listProducts(t, a, "?category=Succulent&sort=price&order=desc")
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Jade", page.Items[0].Name)

	page = listProducts(t, a, "?category=Cacti")
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.TotalItems)

	page = listProducts(t, a, "?category=all")
	assert.Equal(t, int64(3), page.TotalItems)
	assert.Len(t, page.Items, 3)

	page = listProducts(t, a, "?search=basil")
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Basil", page.Items[0].Name)

	page = listProducts(t, a, "?page=2&limit=9223372036854775807")
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(3), page.TotalItems)

	resp := doJSON(t, a, http.MethodGet, "/products?page=4611686018427387904&limit=4", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, a, http.MethodGet, "/products?page=abc&limit=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Error   string              `json:"error"`
		Details []map[string]string `json:"details"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "Invalid query parameters", body.Error)
	assert.Len(t, body.Details, 2)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	a := setupApp(t)

	resp := doJSON(t, a, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]interface{}
	decode(t, resp, &health)
	assert.Equal(t, "healthy", health["status"])

	resp = doJSON(t, a, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
