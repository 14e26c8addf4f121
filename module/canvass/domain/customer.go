package domain

import (
	"github.com/nandanugg/canvass/sdk/geo"
	"github.com/nandanugg/canvass/sdk/money"
)

type Customer struct {
	ID             string           `json:"id"`
	TenantID       string           `json:"tenant_id"`
	Code           string           `json:"customer_code"`
	Name           string           `json:"name"`
	Location       *geo.Coordinates `json:"location,omitempty"`
	GeofenceMeters float64          `json:"geofence_meters"`
	CreditLimit    money.Money      `json:"credit_limit"`
}

// GeofenceTarget is false when the customer has no registered location.
func (c *Customer) GeofenceTarget() (geo.GeofenceTarget, bool) {
	if c.Location == nil {
		return geo.GeofenceTarget{}, false
	}
	return geo.GeofenceTarget{Coordinates: *c.Location, GeofenceMeters: c.GeofenceMeters}, true
}
