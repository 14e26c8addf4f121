package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/database"
)

var _ database.VisitRepository = (*VisitRepo)(nil)

const uniqueViolation pq.ErrorCode = "23505"

type VisitRepo struct {
	db *sql.DB
}

func NewVisitRepo(db *sql.DB) *VisitRepo {
	return &VisitRepo{db: db}
}

func (r *VisitRepo) Insert(ctx context.Context, v *domain.Visit) error {
	within, distance := nullGeofence(v.Geofence)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO visit_events (id, tenant_id, customer_id, user_id, event_type, occurred_at, latitude, longitude, accuracy_meters, is_within_geofence, distance_from_customer_meters, device_id, client_event_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		v.ID, v.TenantID, v.CustomerID, v.UserID, string(v.EventType), v.OccurredAt,
		v.Location.Latitude, v.Location.Longitude, v.AccuracyMeters,
		within, distance, nullString(v.DeviceID), nullString(v.ClientEventID),
	)
	// a replay that raced past ExistsByClientEventID hits the
	// (tenant_id, client_event_id) unique index
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEvent, v.ClientEventID)
	}
	return err
}

func (r *VisitRepo) ExistsByClientEventID(ctx context.Context, tenantID, clientEventID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM visit_events WHERE tenant_id = $1 AND client_event_id = $2)`,
		tenantID, clientEventID,
	).Scan(&exists)
	return exists, err
}

// List returns the tenant's visits in the window ordered by time. An empty
// UserID matches every user.
func (r *VisitRepo) List(ctx context.Context, query *domain.VisitQuery) ([]domain.Visit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tenant_id, customer_id, user_id, event_type, occurred_at, latitude, longitude, accuracy_meters, is_within_geofence, distance_from_customer_meters, device_id, client_event_id FROM visit_events WHERE tenant_id = $1 AND occurred_at >= $2 AND occurred_at <= $3 AND ($4::text = '' OR user_id::text = $4::text) ORDER BY occurred_at ASC`,
		query.TenantID, query.Start, query.End, query.UserID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Visit
	for rows.Next() {
		var (
			v                 domain.Visit
			eventType         string
			within            sql.NullBool
			distance          sql.NullFloat64
			deviceID, eventID sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.TenantID, &v.CustomerID, &v.UserID, &eventType, &v.OccurredAt,
			&v.Location.Latitude, &v.Location.Longitude, &v.AccuracyMeters,
			&within, &distance, &deviceID, &eventID); err != nil {
			return nil, err
		}
		v.EventType = domain.VisitEventType(eventType)
		v.Geofence = scanGeofence(within, distance)
		v.DeviceID = deviceID.String
		v.ClientEventID = eventID.String
		results = append(results, v)
	}
	return results, rows.Err()
}
