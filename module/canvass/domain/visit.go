package domain

import (
	"time"

	"github.com/nandanugg/canvass/sdk/geo"
)

type VisitEventType string

const (
	VisitCheckIn          VisitEventType = "check_in"
	VisitCheckOut         VisitEventType = "check_out"
	VisitPaymentCollected VisitEventType = "payment_collected"
	VisitOrderCreated     VisitEventType = "order_created"
)

func (t VisitEventType) Valid() bool {
	switch t {
	case VisitCheckIn, VisitCheckOut, VisitPaymentCollected, VisitOrderCreated:
		return true
	}
	return false
}

type Visit struct {
	ID             string              `json:"id"`
	TenantID       string              `json:"tenant_id"`
	CustomerID     string              `json:"customer_id"`
	UserID         string              `json:"user_id"`
	EventType      VisitEventType      `json:"event_type"`
	Location       geo.Coordinates     `json:"location"`
	AccuracyMeters float64             `json:"accuracy_meters"`
	Geofence       *geo.GeofenceResult `json:"geofence,omitempty"`
	DeviceID       string              `json:"device_id,omitempty"`
	ClientEventID  string              `json:"client_event_id,omitempty"`
	OccurredAt     time.Time           `json:"occurred_at"`
}

// Flagged reports a visit whose location was checked and found outside
// the customer's geofence.
func (v *Visit) Flagged() bool {
	return v.Geofence != nil && !v.Geofence.IsWithinGeofence
}

type CheckInRequest struct {
	TenantID       string
	CustomerID     string
	UserID         string
	EventType      VisitEventType
	Location       geo.Coordinates
	AccuracyMeters float64
	DeviceID       string
	ClientEventID  string
	OccurredAt     time.Time
}

type VisitQuery struct {
	TenantID string
	UserID   string
	Start    time.Time
	End      time.Time
}
