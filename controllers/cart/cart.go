package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juanrobles05/Urban-Loom/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AddLineInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type UpdateLineInput struct {
	Quantity int `json:"quantity"`
}

// getOrCreateCart returns the user's cart, creating it lazily on first use.
func getOrCreateCart(db *gorm.DB, userID string) (models.Cart, error) {
	var cart models.Cart
	err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error
	return cart, err
}

// POST /user/cart
//
// Stock capping here is advisory only: the authoritative check happens at
// order assembly, because stock can change between a cart edit and checkout.
func AddLine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var input AddLineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// Bad quantities are clamped, never rejected.
		quantity := input.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		var product models.Product
		if err := db.Where("is_active = ?", true).First(&product, input.ProductID).Error; err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate product"
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusBadRequest
				errMsg = "Product does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}

		if product.Stock <= 0 {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("%s is out of stock", product.Name)})
			return
		}

		cart, err := getOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}

		var item models.CartItem
		err = db.Where("cart_id = ? AND product_id = ?", cart.CartID, product.ID).First(&item).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
				return
			}

			// First add of this product: one line per (cart, product).
			warning := ""
			if quantity > product.Stock {
				warning = fmt.Sprintf("Only %d units of %s available", product.Stock, product.Name)
				quantity = product.Stock
			}
			item = models.CartItem{
				CartID:    cart.CartID,
				ProductID: product.ID,
				Quantity:  quantity,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
				return
			}
			respondWithItem(c, http.StatusCreated, item, warning)
			return
		}

		// Existing line: merge quantities, capped at current stock.
		newQuantity := item.Quantity + quantity
		warning := ""
		if newQuantity > product.Stock {
			headroom := product.Stock - item.Quantity
			if headroom <= 0 {
				respondWithItem(c, http.StatusOK, item,
					fmt.Sprintf("You already have all available stock of %s in your cart", product.Name))
				return
			}
			warning = fmt.Sprintf("Only %d more units of %s could be added, stock limit reached", headroom, product.Name)
			newQuantity = product.Stock
		}

		item.Quantity = newQuantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		respondWithItem(c, http.StatusOK, item, warning)
	}
}

func respondWithItem(c *gin.Context, status int, item models.CartItem, warning string) {
	body := gin.H{"item": item}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(status, body)
}

// findOwnedItem fetches a cart line only if it belongs to the requester's
// cart; anything else reads as not-found.
func findOwnedItem(db *gorm.DB, userID, itemID string) (models.CartItem, error) {
	var item models.CartItem
	err := db.Joins("JOIN carts ON carts.cart_id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	return item, err
}

// PUT /user/cart/:item_id
func UpdateLine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var input UpdateLineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := findOwnedItem(db, userID, c.Param("item_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		// Zero or negative quantity means remove.
		if input.Quantity <= 0 {
			if err := db.Delete(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
			return
		}

		var product models.Product
		if err := db.First(&product, item.ProductID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product no longer exists"})
			return
		}

		quantity := input.Quantity
		warning := ""
		if quantity > product.Stock {
			warning = fmt.Sprintf("Only %d units of %s available", product.Stock, product.Name)
			quantity = product.Stock
		}

		item.Quantity = quantity
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		respondWithItem(c, http.StatusOK, item, warning)
	}
}

// DELETE /user/cart/:item_id
func RemoveLine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		item, err := findOwnedItem(db, userID, c.Param("item_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		if err := db.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// Totals are recomputed on demand from live product prices; nothing in the
// cart caches a price.
type Totals struct {
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartTotals sums quantities and quantity x current price across the cart.
// Lines whose product has disappeared contribute nothing.
func CartTotals(db *gorm.DB, cartID uint) (Totals, error) {
	var items []models.CartItem
	if err := db.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return Totals{}, err
	}

	totals := Totals{TotalPrice: decimal.Zero}
	for _, item := range items {
		var product models.Product
		if err := db.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return Totals{}, err
		}
		totals.TotalItems += item.Quantity
		totals.TotalPrice = totals.TotalPrice.Add(
			product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return totals, nil
}

// GET /user/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		cart, err := getOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		var items []models.CartItem
		if err := db.Where("cart_id = ?", cart.CartID).
			Order("added_at ASC, id ASC").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}

		totals, err := CartTotals(db, cart.CartID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute totals"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items":       items,
			"total_items": totals.TotalItems,
			"total_price": totals.TotalPrice,
		})
	}
}

// DELETE /user/cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
