package orderControllers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	checkoutControllers "github.com/juanrobles05/Urban-Loom/controllers/checkout"
	"github.com/juanrobles05/Urban-Loom/models"
	"github.com/juanrobles05/Urban-Loom/payment"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssemblyResult is what a successful order assembly hands back to the
// presentation layer.
type AssemblyResult struct {
	Order   models.Order   `json:"order"`
	Payment payment.Result `json:"payment"`
}

// Generate unique order reference
func newOrderReference() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// lockForUpdate takes a row-level lock on databases that support it. SQLite
// has no SELECT ... FOR UPDATE; its single-writer model already serializes
// the transactions involved.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AssembleOrder converts the user's cart into an immutable, stock-committed
// order, all inside one transaction:
//
//  1. lock the cart row (double submits serialize here)
//  2. consume the checkout session's shipping address
//  3. re-check stock per line against locked product rows, abort on shortfall
//  4. snapshot order items at current prices, decrement stock
//  5. run the payment strategy; any failure rolls the whole thing back
//  6. clear the cart and persist the payment document if one was issued
func AssembleOrder(ctx context.Context, db *gorm.DB, userID, method string) (*AssemblyResult, error) {
	processor, err := payment.ForMethod(method)
	if err != nil {
		return nil, err
	}

	var result AssemblyResult
	err = db.Transaction(func(tx *gorm.DB) error {
		// The cart row is the critical section for this user's checkout: a
		// concurrent assembly of the same cart blocks here and then finds the
		// cart already emptied.
		var cart models.Cart
		if err := lockForUpdate(tx).
			Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Where("cart_id = ?", cart.CartID).
			Order("added_at ASC, id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		address, err := checkoutControllers.ConsumeShippingAddress(tx, userID)
		if err != nil {
			if errors.Is(err, checkoutControllers.ErrNoSelection) {
				return ErrNoShippingAddress
			}
			return err
		}

		var user models.User
		if err := lockForUpdate(tx).
			First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		order := models.Order{
			Reference:         newOrderReference(),
			UserID:            userID,
			Status:            models.OrderStatusPending,
			PaymentMethod:     method,
			ShippingAddressID: &address.ID,
			ShippingAddress:   address,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, item := range items {
			var product models.Product
			if err := lockForUpdate(tx).
				First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &StockConflictError{ProductID: item.ProductID, Requested: item.Quantity}
				}
				return err
			}

			if product.Stock < item.Quantity {
				return &StockConflictError{
					ProductID: product.ID,
					Name:      product.Name,
					Available: product.Stock,
					Requested: item.Quantity,
				}
			}

			productID := product.ID
			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: &productID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}

			if err := tx.Model(&product).
				Update("stock", product.Stock-item.Quantity).Error; err != nil {
				return err
			}

			total = total.Add(orderItem.Total())
			order.Items = append(order.Items, orderItem)
		}

		if err := tx.Model(&order).Update("total_amount", total).Error; err != nil {
			return err
		}
		order.TotalAmount = total

		payResult := processor.Process(ctx, tx, &user, &order, total)
		if !payResult.Success {
			return &PaymentError{Reason: payResult.Message}
		}

		if len(payResult.Document) > 0 {
			document := models.PaymentDocument{
				OrderID:     order.ID,
				CheckNumber: payResult.TransactionID,
				Data:        payResult.Document,
			}
			if err := tx.Create(&document).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("cart_id = ?", cart.CartID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		result = AssemblyResult{Order: order, Payment: payResult}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelOrder restores stock for every surviving order item and marks the
// order cancelled. Only pending and paid orders can be cancelled; anything
// else is rejected without mutation.
func CancelOrder(db *gorm.DB, userID string, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Preload("Items").
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !order.Status.Cancellable() {
			return &NotCancellableError{Status: order.Status}
		}

		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			var product models.Product
			err := lockForUpdate(tx).
				First(&product, *item.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product was deleted since the order was placed; there is
				// nothing left to restore for this line.
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Model(&product).
				Update("stock", product.Stock+item.Quantity).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&order).
			Update("status", models.OrderStatusCancelled).Error; err != nil {
			return err
		}
		order.Status = models.OrderStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionOrderStatus moves an order along the fulfillment state machine
// (shipped, completed). Transitions the machine forbids are rejected before
// any write.
func TransitionOrderStatus(db *gorm.DB, orderID uint, next models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !order.Status.CanTransitionTo(next) {
			return &InvalidTransitionError{From: order.Status, To: next}
		}

		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return err
		}
		order.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
