package domain

import (
	"time"

	"github.com/nandanugg/canvass/sdk/money"
)

type AgingBucket string

const (
	AgingCurrent    AgingBucket = "current"
	AgingDays1To30  AgingBucket = "1_30"
	AgingDays31To60 AgingBucket = "31_60"
	AgingDays61To90 AgingBucket = "61_90"
	AgingDays90Plus AgingBucket = "90_plus"
)

// AgingBuckets in report order.
var AgingBuckets = []AgingBucket{AgingCurrent, AgingDays1To30, AgingDays31To60, AgingDays61To90, AgingDays90Plus}

func BucketFor(daysPastDue int) AgingBucket {
	switch {
	case daysPastDue <= 0:
		return AgingCurrent
	case daysPastDue <= 30:
		return AgingDays1To30
	case daysPastDue <= 60:
		return AgingDays31To60
	case daysPastDue <= 90:
		return AgingDays61To90
	default:
		return AgingDays90Plus
	}
}

// OpenInvoice is the receivable part of an invoice that still has a balance.
type OpenInvoice struct {
	ID          string
	CustomerID  string
	Number      string
	InvoiceDate time.Time
	DueDate     *time.Time
	Balance     money.Money
}

// DaysPastDue counts calendar days (UTC) from the due date to asOf. An
// invoice without a due date is due on its invoice date.
func (o OpenInvoice) DaysPastDue(asOf time.Time) int {
	due := o.InvoiceDate
	if o.DueDate != nil {
		due = *o.DueDate
	}
	return int(startOfDay(asOf).Sub(startOfDay(due)).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type OpenInvoiceQuery struct {
	TenantID   string
	CustomerID string
	Currency   money.Currency
}

type AgingQuery struct {
	TenantID   string
	CustomerID string
	Currency   money.Currency
	AsOf       time.Time
}

type AgingBucketTotal struct {
	Bucket       AgingBucket
	Balance      money.Money
	InvoiceCount int
}

type AgingReport struct {
	AsOf     time.Time
	Currency money.Currency
	Buckets  []AgingBucketTotal
	Total    money.Money
}
