package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/database"
	"github.com/nandanugg/canvass/sdk/money"
)

var _ database.InvoiceRepository = (*InvoiceRepo)(nil)

type InvoiceRepo struct {
	db *sql.DB
}

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

// Insert stores the invoice and its items in one transaction. Amounts are
// written as minor units.
func (r *InvoiceRepo) Insert(ctx context.Context, inv *domain.Invoice) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var dueDate sql.NullTime
	if inv.DueDate != nil {
		dueDate = sql.NullTime{Time: *inv.DueDate, Valid: true}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (id, tenant_id, customer_id, created_by_user_id, invoice_number, invoice_date, due_date, currency, subtotal_minor, discount_minor, tax_minor, total_minor, paid_minor, balance_minor, status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		inv.ID, inv.TenantID, inv.CustomerID, inv.CreatedBy, inv.Number, inv.InvoiceDate, dueDate,
		string(inv.Currency), inv.Subtotal.ToMinor(), inv.Discount.ToMinor(), inv.Tax.ToMinor(),
		inv.Total.ToMinor(), inv.Paid.ToMinor(), inv.Balance.ToMinor(), string(inv.Status),
	); err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	for i, item := range inv.Items {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO invoice_items (id, invoice_id, line_no, description, quantity, unit_price_minor, line_total_minor) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, inv.ID, i+1, item.Description, item.Quantity, item.UnitPrice.ToMinor(), item.LineTotal.ToMinor(),
		); err != nil {
			return fmt.Errorf("insert invoice item %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, customer_id, created_by_user_id, invoice_number, invoice_date, due_date, currency, subtotal_minor, discount_minor, tax_minor, total_minor, paid_minor, balance_minor, status FROM invoices WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)

	var (
		inv                                           domain.Invoice
		dueDate                                       sql.NullTime
		currency, status                              string
		subtotal, discount, tax, total, paid, balance int64
	)
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.CustomerID, &inv.CreatedBy, &inv.Number, &inv.InvoiceDate, &dueDate,
		&currency, &subtotal, &discount, &tax, &total, &paid, &balance, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	c := money.Currency(currency)
	inv.Currency = c
	inv.Status = domain.InvoiceStatus(status)
	inv.Subtotal = money.FromMinor(subtotal, c)
	inv.Discount = money.FromMinor(discount, c)
	inv.Tax = money.FromMinor(tax, c)
	inv.Total = money.FromMinor(total, c)
	inv.Paid = money.FromMinor(paid, c)
	inv.Balance = money.FromMinor(balance, c)
	if dueDate.Valid {
		d := dueDate.Time
		inv.DueDate = &d
	}

	items, err := r.items(ctx, inv.ID, c)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func (r *InvoiceRepo) items(ctx context.Context, invoiceID string, c money.Currency) ([]domain.InvoiceItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, quantity, unit_price_minor, line_total_minor FROM invoice_items WHERE invoice_id = $1 ORDER BY line_no ASC`,
		invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.InvoiceItem
	for rows.Next() {
		var (
			item             domain.InvoiceItem
			unitPrice, total int64
		)
		if err := rows.Scan(&item.ID, &item.Description, &item.Quantity, &unitPrice, &total); err != nil {
			return nil, err
		}
		item.UnitPrice = money.FromMinor(unitPrice, c)
		item.LineTotal = money.FromMinor(total, c)
		results = append(results, item)
	}
	return results, rows.Err()
}

// ListOpen returns invoices in the query currency that still carry a
// balance, oldest due first. An empty CustomerID matches every customer.
func (r *InvoiceRepo) ListOpen(ctx context.Context, query *domain.OpenInvoiceQuery) ([]domain.OpenInvoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_id, invoice_number, invoice_date, due_date, balance_minor FROM invoices WHERE tenant_id = $1 AND currency = $2 AND ($3::text = '' OR customer_id::text = $3::text) AND status IN ('sent', 'partial', 'overdue') AND balance_minor > 0 ORDER BY COALESCE(due_date, invoice_date) ASC`,
		query.TenantID, string(query.Currency), query.CustomerID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.OpenInvoice
	for rows.Next() {
		var (
			o       domain.OpenInvoice
			dueDate sql.NullTime
			balance int64
		)
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Number, &o.InvoiceDate, &dueDate, &balance); err != nil {
			return nil, err
		}
		if dueDate.Valid {
			d := dueDate.Time
			o.DueDate = &d
		}
		o.Balance = money.FromMinor(balance, query.Currency)
		results = append(results, o)
	}
	return results, rows.Err()
}
