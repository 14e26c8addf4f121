package database

import (
	"context"

	"github.com/nandanugg/canvass/module/canvass/domain"
)

type CustomerRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error)
}

type VisitRepository interface {
	Insert(ctx context.Context, v *domain.Visit) error
	ExistsByClientEventID(ctx context.Context, tenantID, clientEventID string) (bool, error)
	List(ctx context.Context, query *domain.VisitQuery) ([]domain.Visit, error)
}

type InvoiceRepository interface {
	Insert(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Invoice, error)
	ListOpen(ctx context.Context, query *domain.OpenInvoiceQuery) ([]domain.OpenInvoice, error)
}

type PaymentRepository interface {
	Record(ctx context.Context, alloc *domain.PaymentAllocation) error
}
