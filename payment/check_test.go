package payment

import (
	"context"
	"regexp"
	"testing"

	"github.com/juanrobles05/Urban-Loom/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCheckValidate(t *testing.T) {
	processor := &CheckProcessor{}

	ok, reason := processor.Validate(&models.User{}, decimal.RequireFromString("10.00"))
	require.False(t, ok)
	require.Contains(t, reason, "first and last name")

	payer := &models.User{FirstName: "Ana", LastName: "Robles"}

	ok, reason = processor.Validate(payer, decimal.Zero)
	require.False(t, ok)
	require.Contains(t, reason, "greater than zero")

	ok, _ = processor.Validate(payer, decimal.RequireFromString("0.01"))
	require.True(t, ok)
}

func TestCheckProcessIssuesDocument(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "0.00") // a check needs no funds up front
	order := createOrder(t, db, user.ID)

	processor := &CheckProcessor{}
	result := processor.Process(context.Background(), db, user, order, decimal.RequireFromString("249.90"))
	require.True(t, result.Success)
	require.Regexp(t, regexp.MustCompile(`^CHK-\d{6}-\d{8}$`), result.TransactionID)
	require.NotEmpty(t, result.Document)
	require.Equal(t, "%PDF", string(result.Document[:4]))

	// Settlement is deferred: the order stays pending.
	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	require.Equal(t, models.OrderStatusPending, stored.Status)
	require.NotNil(t, stored.TransactionID)
	require.Equal(t, result.TransactionID, *stored.TransactionID)

	// Balance untouched.
	var payer models.User
	require.NoError(t, db.First(&payer, "id = ?", user.ID).Error)
	require.True(t, payer.Balance.IsZero())
}

func TestCheckProcessExpiredContext(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "0.00")
	order := createOrder(t, db, user.ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := &CheckProcessor{}
	result := processor.Process(ctx, db, user, order, decimal.RequireFromString("10.00"))
	require.False(t, result.Success)
	require.Contains(t, result.Message, "failed to generate check")
}

func TestAmountToWords(t *testing.T) {
	cases := map[string]string{
		"0.00":    "Zero with 00/100",
		"5.25":    "Five with 25/100",
		"40.00":   "Forty with 00/100",
		"87.09":   "Eighty-seven with 09/100",
		"1250.50": "1250 with 50/100",
	}
	for amount, want := range cases {
		require.Equal(t, want, amountToWords(decimal.RequireFromString(amount)), amount)
	}
}
