package domain

import (
	"time"

	"github.com/nandanugg/canvass/sdk/geo"
	"github.com/nandanugg/canvass/sdk/money"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCheck    PaymentMethod = "check"
	PaymentGiro     PaymentMethod = "giro"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCheck, PaymentGiro:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentRejected  PaymentStatus = "rejected"
)

type Payment struct {
	ID          string
	TenantID    string
	CustomerID  string
	InvoiceID   string
	CollectedBy string
	Number      string
	Amount      money.Money
	Method      PaymentMethod
	Reference   string
	Location    *geo.Coordinates
	Geofence    *geo.GeofenceResult
	Status      PaymentStatus
	PaidAt      time.Time
}

type RecordPaymentRequest struct {
	TenantID    string
	InvoiceID   string
	CollectedBy string
	Amount      money.Money
	Method      PaymentMethod
	Reference   string
	Location    *geo.Coordinates
	PaidAt      time.Time
}

// PaymentAllocation applies a payment to an invoice. Invoice carries the
// amounts after the payment; PreviousPaid is what the stored row must still
// hold for the update to apply.
type PaymentAllocation struct {
	Payment      *Payment
	Invoice      *Invoice
	PreviousPaid money.Money
}
