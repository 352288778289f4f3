package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/juanrobles05/Urban-Loom/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CardProcessor settles immediately by debiting the user's account balance.
type CardProcessor struct{}

func (p *CardProcessor) Name() string {
	return "Credit/Debit Card"
}

func (p *CardProcessor) Validate(user *models.User, amount decimal.Decimal) (bool, string) {
	if user.Balance.LessThan(amount) {
		return false, fmt.Sprintf(
			"insufficient balance: available $%s, required $%s",
			user.Balance.StringFixed(2), amount.StringFixed(2),
		)
	}
	return true, ""
}

func (p *CardProcessor) Process(ctx context.Context, tx *gorm.DB, user *models.User, order *models.Order, amount decimal.Decimal) Result {
	if ok, reason := p.Validate(user, amount); !ok {
		return failure("%s", reason)
	}
	if err := ctx.Err(); err != nil {
		return failure("payment aborted: %v", err)
	}

	newBalance := user.Balance.Sub(amount)
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
		Update("balance", newBalance).Error; err != nil {
		return failure("failed to debit balance: %v", err)
	}
	user.Balance = newBalance

	transactionID := fmt.Sprintf("CARD-%d-%s", order.ID, time.Now().Format("20060102150405"))
	if err := tx.Model(order).Updates(map[string]interface{}{
		"status":         models.OrderStatusPaid,
		"transaction_id": transactionID,
	}).Error; err != nil {
		return failure("failed to update order: %v", err)
	}
	order.Status = models.OrderStatusPaid
	order.TransactionID = &transactionID

	return Result{
		Success:       true,
		Message:       fmt.Sprintf("payment processed, new balance $%s", newBalance.StringFixed(2)),
		TransactionID: transactionID,
	}
}
