package orderControllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juanrobles05/Urban-Loom/models"
	"github.com/juanrobles05/Urban-Loom/payment"
	"gorm.io/gorm"
)

// paymentTimeout bounds the payment step (document rendering today, any
// future external gateway). A timeout behaves as a processing failure and
// rolls the assembly back.
const paymentTimeout = 15 * time.Second

type AssembleOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	CardNumber    string `json:"card_number"`
	CardName      string `json:"card_name"`
	ExpiryDate    string `json:"expiry_date"`
	CVV           string `json:"cvv"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// validateCardFields runs the presentation-level format checks for card
// payments. Business invariants (balance, stock) live in the core.
func validateCardFields(req AssembleOrderRequest) []string {
	var errs []string

	number := strings.ReplaceAll(req.CardNumber, " ", "")
	if len(number) < 13 || len(number) > 19 || !allDigits(number) {
		errs = append(errs, "Invalid card number. Must be 13 to 19 digits.")
	}
	if len(strings.TrimSpace(req.CardName)) < 3 {
		errs = append(errs, "The name on the card is required.")
	}
	if len(strings.TrimSpace(req.ExpiryDate)) != 5 {
		errs = append(errs, "Invalid expiry date. Format: MM/YY")
	}
	cvv := strings.TrimSpace(req.CVV)
	if len(cvv) < 3 || len(cvv) > 4 || !allDigits(cvv) {
		errs = append(errs, "Invalid CVV. Must be 3 or 4 digits.")
	}

	return errs
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// POST /orders/assemble
func AssembleOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var req AssembleOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if req.PaymentMethod == payment.MethodCard {
			if errs := validateCardFields(req); len(errs) > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), paymentTimeout)
		defer cancel()

		result, err := AssembleOrder(ctx, db, userID, req.PaymentMethod)
		if err != nil {
			var stockErr *StockConflictError
			var payErr *PaymentError
			switch {
			case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrNoShippingAddress):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.As(err, &stockErr):
				c.JSON(http.StatusConflict, gin.H{
					"error":      stockErr.Error(),
					"product_id": stockErr.ProductID,
				})
			case errors.As(err, &payErr):
				c.JSON(http.StatusPaymentRequired, gin.H{"error": payErr.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		broadcastOrderEvent(result.Order, "created")
		c.JSON(http.StatusCreated, result)
	}
}

// POST /orders/:orderID/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		order, err := CancelOrder(db, userID, uint(orderID))
		if err != nil {
			var notCancellable *NotCancellableError
			switch {
			case errors.Is(err, ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			case errors.As(err, &notCancellable):
				c.JSON(http.StatusConflict, gin.H{"error": notCancellable.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
			}
			return
		}

		broadcastOrderEvent(*order, "cancelled")
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled, stock restored", "order": order})
	}
}

// PUT /orders/:orderID/status (admin, fulfillment progression)
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		next := models.OrderStatus(strings.ToLower(req.Status))
		if !next.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
			return
		}
		if next == models.OrderStatusCancelled {
			// Cancellation restores stock and must go through the cancel
			// operation, never a bare status write.
			c.JSON(http.StatusBadRequest, gin.H{"error": "use the cancel endpoint to cancel an order"})
			return
		}

		order, err := TransitionOrderStatus(db, uint(orderID), next)
		if err != nil {
			var invalid *InvalidTransitionError
			switch {
			case errors.Is(err, ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			case errors.As(err, &invalid):
				c.JSON(http.StatusConflict, gin.H{"error": invalid.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			}
			return
		}

		broadcastOrderEvent(*order, string(next))
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
	}
}

// GET /orders/user
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Preload("Items.Product").
			Preload("ShippingAddress").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		// A numeric param is an order id, anything else is a reference.
		// References always contain a dash, so the two lookups are disjoint,
		// and the id column is never compared against non-numeric text.
		query := db.
			Preload("Items").
			Preload("Items.Product").
			Preload("ShippingAddress").
			Where("user_id = ?", userID)
		if id, err := strconv.ParseUint(c.Param("orderID"), 10, 64); err == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("reference = ?", c.Param("orderID"))
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// GET /orders (admin)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Preload("ShippingAddress").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID/check — download the generated check document.
func DownloadCheckHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var order models.Order
		if err := db.Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		var document models.PaymentDocument
		if err := db.Where("order_id = ?", order.ID).First(&document).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No payment document for this order"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=check_"+document.CheckNumber+".pdf")
		c.Data(http.StatusOK, "application/pdf", document.Data)
	}
}

// GET /orders/payment-methods
func PaymentMethodsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"methods": payment.AvailableMethods()})
	}
}
