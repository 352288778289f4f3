package cartControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/juanrobles05/Urban-Loom/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

// setupRouter wires the cart routes behind a stub that injects the user id
// the way the JWT middleware would.
func setupRouter(db *gorm.DB, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	r.GET("/cart", GetCart(db))
	r.POST("/cart", AddLine(db))
	r.PUT("/cart/:item_id", UpdateLine(db))
	r.DELETE("/cart/:item_id", RemoveLine(db))
	r.DELETE("/cart", ClearCart(db))
	return r
}

func seedUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{
		ID:        id,
		Email:     id + "@example.com",
		FirstName: "Ana",
		LastName:  "Robles",
	}).Error)
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int, active bool) *models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: active,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAddLineCreatesAndMerges(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	product := seedProduct(t, db, "Wool Rug", "120.00", 10, true)
	r := setupRouter(db, "u1")

	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	// Same product again merges into the existing line.
	w = doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)

	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
}

func TestAddLineClampsToStock(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	product := seedProduct(t, db, "Linen Throw", "80.00", 3, true)
	r := setupRouter(db, "u1")

	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 7})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Contains(t, body["warning"], "Only 3 units")

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)
	require.Equal(t, 3, item.Quantity)
}

func TestAddLineMergeClampsToHeadroom(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	product := seedProduct(t, db, "Cushion", "25.00", 5, true)
	r := setupRouter(db, "u1")

	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 4})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 4})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Contains(t, body["warning"], "Only 1 more")

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)
	require.Equal(t, 5, item.Quantity)

	// Cart already holds everything in stock: no change, just a warning.
	w = doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	require.Contains(t, body["warning"], "all available stock")

	require.NoError(t, db.First(&item).Error)
	require.Equal(t, 5, item.Quantity)
}

func TestAddLineQuantityDefaultsToOne(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	product := seedProduct(t, db, "Coaster", "5.00", 10, true)
	r := setupRouter(db, "u1")

	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": -4})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)
	require.Equal(t, 1, item.Quantity)
}

func TestAddLineRejectsInactiveAndOutOfStock(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	inactive := seedProduct(t, db, "Retired Rug", "60.00", 5, false)
	depleted := seedProduct(t, db, "Sold Out", "30.00", 0, true)
	r := setupRouter(db, "u1")

	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": inactive.ID, "quantity": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": depleted.ID, "quantity": 1})
	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	require.Contains(t, body["error"], "out of stock")

	w = doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": 9999, "quantity": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateLineClampsAndRemoves(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	product := seedProduct(t, db, "Runner", "60.00", 4, true)
	r := setupRouter(db, "u1")

	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), gin.H{"quantity": 9})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Contains(t, body["warning"], "Only 4 units")

	require.NoError(t, db.First(&item, item.ID).Error)
	require.Equal(t, 4, item.Quantity)

	// Quantity zero removes the line entirely.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)

	err := db.First(&models.CartItem{}, item.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLineOwnership(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	product := seedProduct(t, db, "Rug", "50.00", 10, true)

	owner := setupRouter(db, "u1")
	w := doJSON(t, owner, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)

	// Another user can neither update nor delete the line.
	intruder := setupRouter(db, "u2")
	w = doJSON(t, intruder, http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), gin.H{"quantity": 3})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, intruder, http.MethodDelete, fmt.Sprintf("/cart/%d", item.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, db.First(&item, item.ID).Error)
	require.Equal(t, 1, item.Quantity)
}

func TestCartTotalsUseLivePrices(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	product := seedProduct(t, db, "Wall Hanging", "100.00", 10, true)
	r := setupRouter(db, "u1")

	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", "u1").First(&cart).Error)

	totals, err := CartTotals(db, cart.CartID)
	require.NoError(t, err)
	require.Equal(t, 2, totals.TotalItems)
	require.True(t, totals.TotalPrice.Equal(decimal.RequireFromString("200.00")))

	// A price change is reflected immediately; carts never snapshot prices.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("150.00")).Error)

	totals, err = CartTotals(db, cart.CartID)
	require.NoError(t, err)
	require.True(t, totals.TotalPrice.Equal(decimal.RequireFromString("300.00")))
}

func TestCartTotalsSkipDeletedProducts(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	kept := seedProduct(t, db, "Kept", "10.00", 10, true)
	doomed := seedProduct(t, db, "Doomed", "20.00", 10, true)
	r := setupRouter(db, "u1")

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": kept.ID, "quantity": 1})
	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": doomed.ID, "quantity": 2})

	require.NoError(t, db.Delete(&models.Product{}, doomed.ID).Error)

	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", "u1").First(&cart).Error)

	totals, err := CartTotals(db, cart.CartID)
	require.NoError(t, err)
	require.Equal(t, 1, totals.TotalItems)
	require.True(t, totals.TotalPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestClearCart(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	product := seedProduct(t, db, "Throw", "40.00", 10, true)
	r := setupRouter(db, "u1")

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 2})

	w := doJSON(t, r, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	require.Zero(t, count)

	// Clearing an absent cart is still a 200.
	other := setupRouter(db, "nobody")
	w = doJSON(t, other, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
