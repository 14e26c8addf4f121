package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/database"
	"github.com/nandanugg/canvass/sdk/geo"
	"github.com/nandanugg/canvass/sdk/money"
)

var _ database.CustomerRepository = (*CustomerRepo)(nil)

type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, customer_code, name, latitude, longitude, geofence_meters, credit_limit_minor, currency FROM customers WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, id,
	)

	var (
		c           domain.Customer
		lat, lon    sql.NullFloat64
		creditLimit int64
		currency    string
	)
	err := row.Scan(&c.ID, &c.TenantID, &c.Code, &c.Name, &lat, &lon, &c.GeofenceMeters, &creditLimit, &currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		c.Location = &geo.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	c.CreditLimit = money.FromMinor(creditLimit, money.Currency(currency))
	return &c, nil
}
