package service

import (
	"context"
	"log"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/publisher"
	"github.com/nandanugg/canvass/sdk/geo"
)

type GeofenceService struct {
	publisher publisher.ViolationPublisher
	enforce   bool
}

// NewGeofenceService returns a checker that flags readings outside a
// customer's fence, or rejects them when enforce is set.
func NewGeofenceService(pub publisher.ViolationPublisher, enforce bool) *GeofenceService {
	return &GeofenceService{
		publisher: pub,
		enforce:   enforce,
	}
}

// Evaluate checks loc against the customer's fence. The result is nil when
// the customer has no registered location. With enforcement on, a reading
// outside the fence returns a *domain.GeofenceError.
func (s *GeofenceService) Evaluate(c *domain.Customer, loc geo.Coordinates) (*geo.GeofenceResult, error) {
	target, ok := c.GeofenceTarget()
	if !ok {
		return nil, nil
	}
	res := geo.CheckGeofence(loc, target)
	if !res.IsWithinGeofence && s.enforce {
		return nil, &domain.GeofenceError{Result: res, GeofenceMeters: target.GeofenceMeters}
	}
	return &res, nil
}

// AlertVisit publishes a violation for a stored visit. A failed publish is
// logged; the visit is already recorded.
func (s *GeofenceService) AlertVisit(ctx context.Context, v *domain.Visit, c *domain.Customer) {
	if !v.Flagged() {
		return
	}
	alert := &domain.GeofenceAlert{
		TenantID:       v.TenantID,
		VisitID:        v.ID,
		CustomerID:     v.CustomerID,
		UserID:         v.UserID,
		Event:          domain.GeofenceViolation,
		Location:       v.Location,
		DistanceMeters: v.Geofence.DistanceMeters,
		GeofenceMeters: c.GeofenceMeters,
		Timestamp:      v.OccurredAt.Unix(),
	}
	if err := s.publisher.PublishViolation(ctx, alert); err != nil {
		log.Printf("publish geofence alert for visit %s: %v", v.ID, err)
	}
}
