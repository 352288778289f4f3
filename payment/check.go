package payment

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/juanrobles05/Urban-Loom/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckProcessor issues a bank-style check document instead of moving funds.
// Settlement is deferred: the order stays pending until the check is
// validated manually, so no automatic pending -> paid transition exists here.
type CheckProcessor struct{}

func (p *CheckProcessor) Name() string {
	return "Bank Check"
}

func (p *CheckProcessor) Validate(user *models.User, amount decimal.Decimal) (bool, string) {
	if user.FullName() == "" {
		return false, "payer must have first and last name configured"
	}
	if !amount.IsPositive() {
		return false, "amount must be greater than zero"
	}
	return true, ""
}

func (p *CheckProcessor) Process(ctx context.Context, tx *gorm.DB, user *models.User, order *models.Order, amount decimal.Decimal) Result {
	if ok, reason := p.Validate(user, amount); !ok {
		return failure("%s", reason)
	}

	checkNumber := fmt.Sprintf("CHK-%06d-%s", order.ID, time.Now().Format("20060102"))

	document, err := renderCheckPDF(ctx, user, order, amount, checkNumber)
	if err != nil {
		return failure("failed to generate check: %v", err)
	}

	// The order stays pending until the check is settled externally.
	if err := tx.Model(order).Update("transaction_id", checkNumber).Error; err != nil {
		return failure("failed to record check number: %v", err)
	}
	order.TransactionID = &checkNumber

	return Result{
		Success:       true,
		Message:       fmt.Sprintf("check %s generated, download and present it at any branch", checkNumber),
		TransactionID: checkNumber,
		Document:      document,
	}
}

// renderCheckPDF builds the document under the caller's deadline. Rendering
// that outlives the context counts as a processing failure so the assembly
// transaction rolls back instead of leaving a half-created order.
func renderCheckPDF(ctx context.Context, user *models.User, order *models.Order, amount decimal.Decimal, checkNumber string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type rendered struct {
		data []byte
		err  error
	}
	done := make(chan rendered, 1)

	go func() {
		data, err := buildCheckPDF(user, order, amount, checkNumber)
		done <- rendered{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.data, r.err
	}
}

func buildCheckPDF(user *models.User, order *models.Order, amount decimal.Decimal, checkNumber string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("Bank Check", false)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "BANK CHECK", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(120, 8, "BANCO ALTA RAZA", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, "Date: "+time.Now().Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 6, "Branch: Main", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Check No: "+checkNumber, "", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(15, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(8)

	// Amount
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "PAY TO THE ORDER OF: Urban Loom S.A.", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("AMOUNT: $%s COP", amount.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("(%s Colombian pesos)", amountToWords(amount)), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Payer table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "PAYER INFORMATION:", "", 1, "L", false, 0, "")
	payerRows := [][2]string{
		{"Name:", user.FullName()},
		{"Email:", user.Email},
		{"Phone:", orDefault(user.Phone, "N/A")},
		{"Order:", fmt.Sprintf("#%d", order.ID)},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range payerRows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(120, 8, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(20)

	// Signature line
	pdf.CellFormat(0, 6, "_________________________________", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Account Holder Signature", "", 1, "C", false, 0, "")

	// Instructions
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "INSTRUCTIONS:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	instructions := []string{
		"1. Print this check on letter-size paper.",
		"2. Sign in the indicated space.",
		"3. Present the check at any Urban Loom branch.",
		"4. Your order will be processed once the check is validated.",
		"5. Keep a copy for your records.",
	}
	for _, line := range instructions {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	unitWords = []string{"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	tenWords  = []string{"", "ten", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
)

// amountToWords spells out small integer amounts; larger ones fall back to
// digits. The cents always appear as a NN/100 fraction.
func amountToWords(amount decimal.Decimal) string {
	integer := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(integer)).Mul(decimal.NewFromInt(100)).IntPart()

	var words string
	switch {
	case integer == 0:
		words = "zero"
	case integer < 10:
		words = unitWords[integer]
	case integer < 100:
		words = tenWords[integer/10]
		if unit := integer % 10; unit > 0 {
			words += "-" + unitWords[unit]
		}
	default:
		words = fmt.Sprintf("%d", integer)
	}

	return fmt.Sprintf("%s with %02d/100", capitalize(words), cents)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
