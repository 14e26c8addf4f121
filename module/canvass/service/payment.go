package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/database"
)

type PaymentService struct {
	customers database.CustomerRepository
	invoices  database.InvoiceRepository
	payments  database.PaymentRepository
	geofence  *GeofenceService
	now       func() time.Time
}

func NewPaymentService(customers database.CustomerRepository, invoices database.InvoiceRepository, payments database.PaymentRepository, geofence *GeofenceService) *PaymentService {
	return &PaymentService{
		customers: customers,
		invoices:  invoices,
		payments:  payments,
		geofence:  geofence,
		now:       time.Now,
	}
}

// RecordPayment applies a collected payment to an invoice. The amount must
// be positive, in the invoice currency and no more than the open balance.
func (s *PaymentService) RecordPayment(ctx context.Context, req *domain.RecordPaymentRequest) (*domain.PaymentAllocation, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	if !req.Amount.FitsMinor() {
		return nil, fmt.Errorf("%w: amount %s too large", domain.ErrInvalidAmount, req.Amount)
	}
	method := req.Method
	if method == "" {
		method = domain.PaymentCash
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidRequest, method)
	}
	if req.Location != nil {
		if err := req.Location.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLocation, err)
		}
	}

	inv, err := s.invoices.GetByID(ctx, req.TenantID, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoiceCancelled || inv.Status == domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: invoice %s is %s", domain.ErrInvalidInvoice, inv.Number, inv.Status)
	}

	over, err := req.Amount.GreaterThan(inv.Balance)
	if err != nil {
		return nil, err
	}
	if over {
		return nil, fmt.Errorf("%w: %s > %s", domain.ErrOverpayment, req.Amount, inv.Balance)
	}

	p := &domain.Payment{
		ID:          uuid.NewString(),
		TenantID:    req.TenantID,
		CustomerID:  inv.CustomerID,
		InvoiceID:   inv.ID,
		CollectedBy: req.CollectedBy,
		Amount:      req.Amount,
		Method:      method,
		Reference:   req.Reference,
		Location:    req.Location,
		Status:      domain.PaymentPending,
		PaidAt:      req.PaidAt,
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = s.now()
	}
	p.PaidAt = p.PaidAt.UTC()
	p.Number = documentNumber("PAY", p.PaidAt)

	if req.Location != nil {
		customer, err := s.customers.GetByID(ctx, req.TenantID, inv.CustomerID)
		if err != nil {
			return nil, err
		}
		if p.Geofence, err = s.geofence.Evaluate(customer, *req.Location); err != nil {
			return nil, err
		}
	}

	updated := *inv
	if updated.Paid, err = inv.Paid.Add(req.Amount); err != nil {
		return nil, err
	}
	if updated.Balance, err = inv.Balance.Sub(req.Amount); err != nil {
		return nil, err
	}
	updated.Status = domain.InvoicePartial
	if updated.Balance.IsZero() {
		updated.Status = domain.InvoicePaid
	}

	alloc := &domain.PaymentAllocation{
		Payment:      p,
		Invoice:      &updated,
		PreviousPaid: inv.Paid,
	}
	if err := s.payments.Record(ctx, alloc); err != nil {
		return nil, err
	}
	return alloc, nil
}
