package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/database"
	"github.com/nandanugg/canvass/sdk/money"
)

type InvoiceService struct {
	customers       database.CustomerRepository
	invoices        database.InvoiceRepository
	defaultCurrency money.Currency
	now             func() time.Time
}

func NewInvoiceService(customers database.CustomerRepository, invoices database.InvoiceRepository, defaultCurrency money.Currency) *InvoiceService {
	return &InvoiceService{
		customers:       customers,
		invoices:        invoices,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

// CreateInvoice prices the items exactly and stores the invoice. Discount
// applies to the subtotal and tax to the discounted subtotal; nothing is
// rounded until the amounts are stored in minor units.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", domain.ErrInvalidInvoice)
	}
	if req.DiscountRate.IsNegative() || req.DiscountRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: discount rate %s out of range", domain.ErrInvalidInvoice, req.DiscountRate)
	}
	if req.TaxRate.IsNegative() {
		return nil, fmt.Errorf("%w: negative tax rate", domain.ErrInvalidInvoice)
	}

	code := req.Currency
	if code == "" {
		code = s.defaultCurrency
	}
	currency, err := money.ParseCurrency(string(code))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInvoice, err)
	}

	customer, err := s.customers.GetByID(ctx, req.TenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.InvoiceItem, 0, len(req.Items))
	subtotal := money.FromMinor(0, currency)
	for i, in := range req.Items {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be positive", domain.ErrInvalidInvoice, i+1)
		}
		if in.UnitPriceMinor < 0 {
			return nil, fmt.Errorf("%w: item %d negative price", domain.ErrInvalidInvoice, i+1)
		}
		unit := money.FromMinor(in.UnitPriceMinor, currency)
		line := unit.MulInt(in.Quantity)
		if subtotal, err = subtotal.Add(line); err != nil {
			return nil, err
		}
		items = append(items, domain.InvoiceItem{
			ID:          uuid.NewString(),
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   unit,
			LineTotal:   line,
		})
	}

	discount := subtotal.Mul(req.DiscountRate)
	taxable, err := subtotal.Sub(discount)
	if err != nil {
		return nil, err
	}
	tax := taxable.Mul(req.TaxRate)
	total, err := taxable.Add(tax)
	if err != nil {
		return nil, err
	}

	for _, m := range []money.Money{subtotal, discount, tax, total} {
		if !m.FitsMinor() {
			return nil, fmt.Errorf("%w: amount %s too large", domain.ErrInvalidInvoice, m)
		}
	}
	for i, it := range items {
		if !it.LineTotal.FitsMinor() {
			return nil, fmt.Errorf("%w: item %d amount %s too large", domain.ErrInvalidInvoice, i+1, it.LineTotal)
		}
	}
	if err := s.checkCreditLimit(ctx, customer, total); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	inv := &domain.Invoice{
		ID:          uuid.NewString(),
		TenantID:    req.TenantID,
		CustomerID:  req.CustomerID,
		CreatedBy:   req.CreatedBy,
		Number:      documentNumber("INV", now),
		Currency:    currency,
		Items:       items,
		Subtotal:    subtotal,
		Discount:    discount,
		Tax:         tax,
		Total:       total,
		Paid:        money.FromMinor(0, currency),
		Balance:     total,
		Status:      domain.InvoiceSent,
		InvoiceDate: now,
		DueDate:     req.DueDate,
	}
	if err := s.invoices.Insert(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, id string) (*domain.Invoice, error) {
	return s.invoices.GetByID(ctx, tenantID, id)
}

// checkCreditLimit rejects an invoice that would take the customer's open
// balance past their credit limit. A zero limit, or one held in another
// currency, is not enforced.
func (s *InvoiceService) checkCreditLimit(ctx context.Context, c *domain.Customer, total money.Money) error {
	limit := c.CreditLimit
	if !limit.IsPositive() || limit.Currency() != total.Currency() {
		return nil
	}

	open, err := s.invoices.ListOpen(ctx, &domain.OpenInvoiceQuery{
		TenantID:   c.TenantID,
		CustomerID: c.ID,
		Currency:   total.Currency(),
	})
	if err != nil {
		return err
	}
	exposure := total
	for _, o := range open {
		if exposure, err = exposure.Add(o.Balance); err != nil {
			return err
		}
	}

	over, err := exposure.GreaterThan(limit)
	if err != nil {
		return err
	}
	if over {
		return fmt.Errorf("%w: customer %s would owe %s, limit %s", domain.ErrCreditLimit, c.Code, exposure, limit)
	}
	return nil
}

// AgingReport sums open balances by how many days past due they are. An
// empty currency means the default currency and a zero AsOf means today.
func (s *InvoiceService) AgingReport(ctx context.Context, query *domain.AgingQuery) (*domain.AgingReport, error) {
	code := query.Currency
	if code == "" {
		code = s.defaultCurrency
	}
	currency, err := money.ParseCurrency(string(code))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	asOf := query.AsOf
	if asOf.IsZero() {
		asOf = s.now()
	}

	open, err := s.invoices.ListOpen(ctx, &domain.OpenInvoiceQuery{
		TenantID:   query.TenantID,
		CustomerID: query.CustomerID,
		Currency:   currency,
	})
	if err != nil {
		return nil, err
	}

	zero := money.FromMinor(0, currency)
	report := &domain.AgingReport{
		AsOf:     asOf.UTC(),
		Currency: currency,
		Buckets:  make([]domain.AgingBucketTotal, len(domain.AgingBuckets)),
		Total:    zero,
	}
	index := make(map[domain.AgingBucket]int, len(domain.AgingBuckets))
	for i, b := range domain.AgingBuckets {
		report.Buckets[i] = domain.AgingBucketTotal{Bucket: b, Balance: zero}
		index[b] = i
	}

	for _, o := range open {
		row := &report.Buckets[index[domain.BucketFor(o.DaysPastDue(asOf))]]
		if row.Balance, err = row.Balance.Add(o.Balance); err != nil {
			return nil, err
		}
		row.InvoiceCount++
		if report.Total, err = report.Total.Add(o.Balance); err != nil {
			return nil, err
		}
	}
	return report, nil
}
