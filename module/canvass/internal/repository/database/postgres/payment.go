package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/database"
)

var _ database.PaymentRepository = (*PaymentRepo)(nil)

type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Record inserts the payment and its allocation and moves the invoice's
// paid and balance columns in one transaction. The invoice update only
// applies while paid_minor still equals PreviousPaid; otherwise
// domain.ErrConflict is returned and nothing is written.
func (r *PaymentRepo) Record(ctx context.Context, alloc *domain.PaymentAllocation) (err error) {
	p, inv := alloc.Payment, alloc.Invoice

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	lat, lon := nullCoordinates(p.Location)
	within, distance := nullGeofence(p.Geofence)
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, tenant_id, customer_id, collected_by_user_id, payment_number, payment_date, amount_minor, currency, payment_method, reference_number, latitude, longitude, is_within_geofence, distance_from_customer_meters, status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.TenantID, p.CustomerID, p.CollectedBy, p.Number, p.PaidAt, p.Amount.ToMinor(),
		string(p.Amount.Currency()), string(p.Method), nullString(p.Reference),
		lat, lon, within, distance, string(p.Status),
	); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO payment_allocations (id, payment_id, invoice_id, allocated_minor) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), p.ID, inv.ID, p.Amount.ToMinor(),
	); err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE invoices SET paid_minor = $1, balance_minor = $2, status = $3, updated_at = now() WHERE tenant_id = $4 AND id = $5 AND paid_minor = $6`,
		inv.Paid.ToMinor(), inv.Balance.ToMinor(), string(inv.Status), inv.TenantID, inv.ID, alloc.PreviousPaid.ToMinor(),
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if n == 0 {
		err = fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrConflict)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
