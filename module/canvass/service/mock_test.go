package service

import (
	"context"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/sdk/geo"
	"github.com/nandanugg/canvass/sdk/money"
)

type mockCustomerRepo struct {
	getByIDFn func(ctx context.Context, tenantID, id string) (*domain.Customer, error)
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, tenantID, id)
	}
	return nil, domain.ErrNotFound
}

type mockVisitRepo struct {
	insertFn func(ctx context.Context, v *domain.Visit) error
	existsFn func(ctx context.Context, tenantID, clientEventID string) (bool, error)
	listFn   func(ctx context.Context, query *domain.VisitQuery) ([]domain.Visit, error)
	inserted []*domain.Visit
}

func (m *mockVisitRepo) Insert(ctx context.Context, v *domain.Visit) error {
	m.inserted = append(m.inserted, v)
	if m.insertFn != nil {
		return m.insertFn(ctx, v)
	}
	return nil
}

func (m *mockVisitRepo) ExistsByClientEventID(ctx context.Context, tenantID, clientEventID string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, tenantID, clientEventID)
	}
	return false, nil
}

func (m *mockVisitRepo) List(ctx context.Context, query *domain.VisitQuery) ([]domain.Visit, error) {
	if m.listFn != nil {
		return m.listFn(ctx, query)
	}
	return nil, nil
}

type mockInvoiceRepo struct {
	insertFn   func(ctx context.Context, inv *domain.Invoice) error
	getByIDFn  func(ctx context.Context, tenantID, id string) (*domain.Invoice, error)
	listOpenFn func(ctx context.Context, query *domain.OpenInvoiceQuery) ([]domain.OpenInvoice, error)
	inserted   []*domain.Invoice
}

func (m *mockInvoiceRepo) Insert(ctx context.Context, inv *domain.Invoice) error {
	m.inserted = append(m.inserted, inv)
	if m.insertFn != nil {
		return m.insertFn(ctx, inv)
	}
	return nil
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Invoice, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, tenantID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockInvoiceRepo) ListOpen(ctx context.Context, query *domain.OpenInvoiceQuery) ([]domain.OpenInvoice, error) {
	if m.listOpenFn != nil {
		return m.listOpenFn(ctx, query)
	}
	return nil, nil
}

type mockPaymentRepo struct {
	recordFn func(ctx context.Context, alloc *domain.PaymentAllocation) error
	recorded []*domain.PaymentAllocation
}

func (m *mockPaymentRepo) Record(ctx context.Context, alloc *domain.PaymentAllocation) error {
	m.recorded = append(m.recorded, alloc)
	if m.recordFn != nil {
		return m.recordFn(ctx, alloc)
	}
	return nil
}

type mockGeofencePublisher struct {
	publishViolationFn func(ctx context.Context, alert *domain.GeofenceAlert) error
	calls              []*domain.GeofenceAlert
}

func (m *mockGeofencePublisher) PublishViolation(ctx context.Context, alert *domain.GeofenceAlert) error {
	m.calls = append(m.calls, alert)
	if m.publishViolationFn != nil {
		return m.publishViolationFn(ctx, alert)
	}
	return nil
}

// Monas, Jakarta.
var monas = geo.Coordinates{Latitude: -6.1754, Longitude: 106.8272}

func customerAt(loc *geo.Coordinates) *domain.Customer {
	return &domain.Customer{
		ID:             "cust-1",
		TenantID:       "tenant-1",
		Code:           "C-001",
		Name:           "Toko Sumber Rejeki",
		Location:       loc,
		GeofenceMeters: 50,
		CreditLimit:    money.RupiahMinor(5000000),
	}
}

func customerRepoFor(c *domain.Customer) *mockCustomerRepo {
	return &mockCustomerRepo{
		getByIDFn: func(_ context.Context, tenantID, id string) (*domain.Customer, error) {
			if tenantID != c.TenantID || id != c.ID {
				return nil, domain.ErrNotFound
			}
			return c, nil
		},
	}
}
