package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/sdk/geo"
)

func TestEvaluate_InsideGeofence(t *testing.T) {
	svc := NewGeofenceService(&mockGeofencePublisher{}, true)

	// ~22m north of the customer
	res, err := svc.Evaluate(customerAt(&monas), geo.Coordinates{Latitude: -6.1752, Longitude: 106.8272})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil || !res.IsWithinGeofence {
		t.Fatalf("expected within geofence, got %+v", res)
	}
	if res.DistanceMeters < 20 || res.DistanceMeters > 25 {
		t.Errorf("expected ~22m, got %f", res.DistanceMeters)
	}
}

func TestEvaluate_OutsideFlagged(t *testing.T) {
	svc := NewGeofenceService(&mockGeofencePublisher{}, false)

	res, err := svc.Evaluate(customerAt(&monas), geo.Coordinates{Latitude: -6.1817, Longitude: 106.8272})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil || res.IsWithinGeofence {
		t.Fatalf("expected outside geofence, got %+v", res)
	}
}

func TestEvaluate_OutsideEnforced(t *testing.T) {
	svc := NewGeofenceService(&mockGeofencePublisher{}, true)

	_, err := svc.Evaluate(customerAt(&monas), geo.Coordinates{Latitude: -6.1817, Longitude: 106.8272})
	if !errors.Is(err, domain.ErrOutsideGeofence) {
		t.Fatalf("expected ErrOutsideGeofence, got %v", err)
	}
	var gerr *domain.GeofenceError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *domain.GeofenceError, got %T", err)
	}
	if gerr.Result.DistanceMeters < 650 || gerr.Result.DistanceMeters > 750 {
		t.Errorf("expected ~700m, got %f", gerr.Result.DistanceMeters)
	}
	if gerr.GeofenceMeters != 50 {
		t.Errorf("expected 50m fence, got %f", gerr.GeofenceMeters)
	}
}

func TestEvaluate_NoCustomerLocation(t *testing.T) {
	svc := NewGeofenceService(&mockGeofencePublisher{}, true)

	res, err := svc.Evaluate(customerAt(nil), geo.Coordinates{Latitude: -7.0, Longitude: 107.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result, got %+v", res)
	}
}

func TestAlertVisit(t *testing.T) {
	pub := &mockGeofencePublisher{}
	svc := NewGeofenceService(pub, false)

	v := &domain.Visit{
		ID:         "visit-1",
		TenantID:   "tenant-1",
		CustomerID: "cust-1",
		UserID:     "user-1",
		Location:   geo.Coordinates{Latitude: -6.1817, Longitude: 106.8272},
		Geofence:   &geo.GeofenceResult{IsWithinGeofence: false, DistanceMeters: 700.52},
		OccurredAt: time.Unix(1715003456, 0),
	}
	svc.AlertVisit(context.Background(), v, customerAt(&monas))

	if len(pub.calls) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(pub.calls))
	}
	alert := pub.calls[0]
	if alert.Event != domain.GeofenceViolation {
		t.Errorf("expected geofence_violation, got %s", alert.Event)
	}
	if alert.VisitID != "visit-1" || alert.DistanceMeters != 700.52 || alert.GeofenceMeters != 50 {
		t.Errorf("unexpected alert %+v", alert)
	}
	if alert.Timestamp != 1715003456 {
		t.Errorf("expected timestamp 1715003456, got %d", alert.Timestamp)
	}
}

func TestAlertVisit_WithinSkipped(t *testing.T) {
	pub := &mockGeofencePublisher{}
	svc := NewGeofenceService(pub, false)

	v := &domain.Visit{ID: "visit-1", Geofence: &geo.GeofenceResult{IsWithinGeofence: true, DistanceMeters: 3}}
	svc.AlertVisit(context.Background(), v, customerAt(&monas))

	v = &domain.Visit{ID: "visit-2"}
	svc.AlertVisit(context.Background(), v, customerAt(nil))

	if len(pub.calls) != 0 {
		t.Fatalf("expected 0 alerts, got %d", len(pub.calls))
	}
}

func TestAlertVisit_PublishErrorSwallowed(t *testing.T) {
	pub := &mockGeofencePublisher{
		publishViolationFn: func(_ context.Context, _ *domain.GeofenceAlert) error {
			return errors.New("rabbitmq down")
		},
	}
	svc := NewGeofenceService(pub, false)

	v := &domain.Visit{ID: "visit-1", Geofence: &geo.GeofenceResult{IsWithinGeofence: false, DistanceMeters: 80}}
	svc.AlertVisit(context.Background(), v, customerAt(&monas))

	if len(pub.calls) != 1 {
		t.Fatalf("expected 1 publish attempt, got %d", len(pub.calls))
	}
}
