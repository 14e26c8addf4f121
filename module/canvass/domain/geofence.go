package domain

import "github.com/nandanugg/canvass/sdk/geo"

type GeofenceEventType string

const (
	GeofenceViolation GeofenceEventType = "geofence_violation"
)

type GeofenceAlert struct {
	TenantID       string            `json:"tenant_id"`
	VisitID        string            `json:"visit_id"`
	CustomerID     string            `json:"customer_id"`
	UserID         string            `json:"user_id"`
	Event          GeofenceEventType `json:"event"`
	Location       geo.Coordinates   `json:"location"`
	DistanceMeters float64           `json:"distance_meters"`
	GeofenceMeters float64           `json:"geofence_meters"`
	Timestamp      int64             `json:"timestamp"`
}
