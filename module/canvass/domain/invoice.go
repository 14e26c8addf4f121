package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nandanugg/canvass/sdk/money"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePartial   InvoiceStatus = "partial"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Invoice amounts are exact; they are reduced to minor units only when
// stored.
type Invoice struct {
	ID          string
	TenantID    string
	CustomerID  string
	CreatedBy   string
	Number      string
	Currency    money.Currency
	Items       []InvoiceItem
	Subtotal    money.Money
	Discount    money.Money
	Tax         money.Money
	Total       money.Money
	Paid        money.Money
	Balance     money.Money
	Status      InvoiceStatus
	InvoiceDate time.Time
	DueDate     *time.Time
}

type InvoiceItem struct {
	ID          string
	Description string
	Quantity    int64
	UnitPrice   money.Money
	LineTotal   money.Money
}

type InvoiceItemInput struct {
	Description    string
	Quantity       int64
	UnitPriceMinor int64
}

type CreateInvoiceRequest struct {
	TenantID     string
	CustomerID   string
	CreatedBy    string
	Currency     money.Currency
	Items        []InvoiceItemInput
	DiscountRate decimal.Decimal
	TaxRate      decimal.Decimal
	DueDate      *time.Time
}
