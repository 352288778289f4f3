// Package payment holds the pluggable payment strategies used during order
// assembly. Each strategy settles differently: card debits the user's balance
// immediately, check only issues a document and defers settlement.
package payment

import (
	"context"
	"fmt"

	"github.com/juanrobles05/Urban-Loom/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Result is returned by every Process call. On success a transaction id is
// always present; Document is set only by strategies that issue one.
type Result struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"`
	Document      []byte `json:"-"`
}

func failure(format string, args ...interface{}) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

// Processor is the contract every payment strategy implements.
//
// Process runs on the caller's transaction: any rows it touches are rolled
// back together with the rest of the order assembly when the overall
// transaction aborts. Processors report failures through the Result, they
// never panic past this boundary.
type Processor interface {
	// Name returns the display label of the payment method.
	Name() string

	// Validate is a pure precondition check with no side effects.
	Validate(user *models.User, amount decimal.Decimal) (ok bool, reason string)

	// Process performs the settlement side effect and advances the order
	// status according to the strategy's own rule.
	Process(ctx context.Context, tx *gorm.DB, user *models.User, order *models.Order, amount decimal.Decimal) Result
}

var processors = map[string]func() Processor{
	MethodCard:  func() Processor { return &CardProcessor{} },
	MethodCheck: func() Processor { return &CheckProcessor{} },
}

const (
	MethodCard  = "card"
	MethodCheck = "check"
)

// ForMethod returns the processor registered under the given method key.
// An unknown key is a configuration error, not a silent default.
func ForMethod(method string) (Processor, error) {
	newProcessor, ok := processors[method]
	if !ok {
		return nil, fmt.Errorf("unknown payment method %q", method)
	}
	return newProcessor(), nil
}

// AvailableMethods maps method keys to display names, for presentation.
func AvailableMethods() map[string]string {
	methods := make(map[string]string, len(processors))
	for key, newProcessor := range processors {
		methods[key] = newProcessor().Name()
	}
	return methods
}
