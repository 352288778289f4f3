package checkoutControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juanrobles05/Urban-Loom/models"
	"gorm.io/gorm"
)

// ErrNoSelection is returned when the payment step runs before a shipping
// address was chosen, or after the selection was already consumed.
var ErrNoSelection = errors.New("no shipping address selected")

type SelectAddressInput struct {
	AddressID uint `json:"address_id" binding:"required"`
}

// POST /user/checkout/address
func SetShippingAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var input SelectAddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// The address must belong to the requester. Anything else is reported
		// as not-found so other users' addresses are never confirmed to exist.
		var address models.ShippingAddress
		if err := db.Where("id = ? AND user_id = ?", input.AddressID, userID).
			First(&address).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipping address not found"})
			return
		}

		var session models.CheckoutSession
		err := db.Where("user_id = ?", userID).First(&session).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			session = models.CheckoutSession{UserID: userID, ShippingAddressID: address.ID}
			if err := db.Create(&session).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save selection"})
				return
			}
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load checkout session"})
			return
		default:
			session.ShippingAddressID = address.ID
			session.UpdatedAt = time.Now()
			if err := db.Save(&session).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save selection"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Shipping address selected", "address": address})
	}
}

// GET /user/checkout
func GetCheckout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var session models.CheckoutSession
		if err := db.Where("user_id = ?", userID).First(&session).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"shipping_address": nil})
			return
		}

		var address models.ShippingAddress
		if err := db.Where("id = ? AND user_id = ?", session.ShippingAddressID, userID).
			First(&address).Error; err != nil {
			// The selected address was deleted in the meantime; drop the stale
			// selection instead of handing out a dangling reference.
			db.Where("user_id = ?", userID).Delete(&models.CheckoutSession{})
			c.JSON(http.StatusOK, gin.H{"shipping_address": nil})
			return
		}

		c.JSON(http.StatusOK, gin.H{"shipping_address": address})
	}
}

// ConsumeShippingAddress returns the selected address and clears the
// selection, all on the caller's transaction. The selection is single-use:
// one successful order assembly consumes it.
func ConsumeShippingAddress(tx *gorm.DB, userID string) (*models.ShippingAddress, error) {
	var session models.CheckoutSession
	if err := tx.Where("user_id = ?", userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSelection
		}
		return nil, err
	}

	var address models.ShippingAddress
	if err := tx.Where("id = ? AND user_id = ?", session.ShippingAddressID, userID).
		First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSelection
		}
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&models.CheckoutSession{}).Error; err != nil {
		return nil, err
	}
	return &address, nil
}
