package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/sdk/geo"
)

func TestCheckIn_Success(t *testing.T) {
	svc := &mockVisitService{
		checkInFn: func(_ context.Context, req *domain.CheckInRequest) (*domain.Visit, error) {
			if req.TenantID != "tenant-1" {
				t.Fatalf("unexpected tenant: %s", req.TenantID)
			}
			if req.OccurredAt.Unix() != 1715003456 {
				t.Errorf("expected timestamp 1715003456, got %d", req.OccurredAt.Unix())
			}
			return &domain.Visit{
				ID:         "visit-1",
				CustomerID: req.CustomerID,
				UserID:     req.UserID,
				EventType:  domain.VisitCheckIn,
				Location:   req.Location,
				Geofence:   &geo.GeofenceResult{IsWithinGeofence: false, DistanceMeters: 700.52},
				OccurredAt: req.OccurredAt,
			}, nil
		},
	}

	r := setupRouter(NewVisitHandler(svc))
	w := doJSON(r, "POST", "/t/tenant-1/visits/check-in", map[string]any{
		"customer_id": "cust-1",
		"user_id":     "user-1",
		"latitude":    -6.1817,
		"longitude":   106.8272,
		"timestamp":   1715003456,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp visitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Coordinates != "-6.181700, 106.827200" {
		t.Errorf("unexpected coordinates %q", resp.Coordinates)
	}
	if !resp.Flagged || resp.Geofence == nil || resp.Geofence.DistanceMeters != 700.52 {
		t.Errorf("expected flagged visit, got %+v", resp)
	}
}

func TestCheckIn_CoordinatesString(t *testing.T) {
	var got geo.Coordinates
	svc := &mockVisitService{
		checkInFn: func(_ context.Context, req *domain.CheckInRequest) (*domain.Visit, error) {
			got = req.Location
			return &domain.Visit{ID: "visit-1", Location: req.Location, OccurredAt: time.Unix(1715003456, 0)}, nil
		},
	}

	r := setupRouter(NewVisitHandler(svc))
	w := doJSON(r, "POST", "/t/tenant-1/visits/check-in", map[string]any{
		"customer_id": "cust-1",
		"user_id":     "user-1",
		"coordinates": "-6.1754,106.8272",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if got.Latitude != -6.1754 || got.Longitude != 106.8272 {
		t.Errorf("unexpected location %+v", got)
	}
}

func TestCheckIn_BadRequest(t *testing.T) {
	svc := &mockVisitService{
		checkInFn: func(_ context.Context, _ *domain.CheckInRequest) (*domain.Visit, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	r := setupRouter(NewVisitHandler(svc))

	tests := []struct {
		name string
		body any
	}{
		{"malformed coordinates", map[string]any{"customer_id": "c", "user_id": "u", "coordinates": "north of Monas"}},
		{"missing location", map[string]any{"customer_id": "c", "user_id": "u"}},
		{"out of range", map[string]any{"customer_id": "c", "user_id": "u", "latitude": -91, "longitude": 0}},
		{"wrong type", map[string]any{"customer_id": 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, "POST", "/t/tenant-1/visits/check-in", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestCheckIn_Rejected(t *testing.T) {
	svc := &mockVisitService{
		checkInFn: func(_ context.Context, _ *domain.CheckInRequest) (*domain.Visit, error) {
			return nil, &domain.GeofenceError{
				Result:         geo.GeofenceResult{IsWithinGeofence: false, DistanceMeters: 700.52},
				GeofenceMeters: 50,
			}
		},
	}

	r := setupRouter(NewVisitHandler(svc))
	w := doJSON(r, "POST", "/t/tenant-1/visits/check-in", map[string]any{
		"customer_id": "cust-1",
		"user_id":     "user-1",
		"latitude":    -6.1817,
		"longitude":   106.8272,
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	resp := errorBody(w)
	if resp["distance_meters"] != 700.52 || resp["geofence_meters"] != 50.0 {
		t.Errorf("unexpected body %v", resp)
	}
}

func TestCheckIn_Duplicate(t *testing.T) {
	svc := &mockVisitService{
		checkInFn: func(_ context.Context, _ *domain.CheckInRequest) (*domain.Visit, error) {
			return nil, domain.ErrDuplicateEvent
		},
	}

	r := setupRouter(NewVisitHandler(svc))
	w := doJSON(r, "POST", "/t/tenant-1/visits/check-in", map[string]any{
		"customer_id": "cust-1", "user_id": "user-1", "latitude": 0, "longitude": 0, "client_event_id": "evt-1",
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestListVisits_Success(t *testing.T) {
	svc := &mockVisitService{
		listVisitsFn: func(_ context.Context, q *domain.VisitQuery) ([]domain.Visit, error) {
			if q.TenantID != "tenant-1" || q.UserID != "user-1" {
				t.Errorf("unexpected query %+v", q)
			}
			if q.Start.Unix() != 1715000000 || q.End.Unix() != 1715100000 {
				t.Errorf("unexpected range %v - %v", q.Start, q.End)
			}
			return []domain.Visit{
				{ID: "visit-1", Location: geo.Coordinates{Latitude: -6.1754, Longitude: 106.8272}, OccurredAt: time.Unix(1715003456, 0)},
				{ID: "visit-2", Location: geo.Coordinates{Latitude: -6.1752, Longitude: 106.8272}, OccurredAt: time.Unix(1715003556, 0)},
			}, nil
		},
	}

	r := setupRouter(NewVisitHandler(svc))
	w := doJSON(r, "GET", "/t/tenant-1/visits?user_id=user-1&start=1715000000&end=1715100000", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp []visitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp) != 2 || resp[1].Timestamp != 1715003556 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestListVisits_InvalidParams(t *testing.T) {
	r := setupRouter(NewVisitHandler(&mockVisitService{}))

	for _, path := range []string{
		"/t/tenant-1/visits?start=abc&end=1715100000",
		"/t/tenant-1/visits?start=1715000000&end=xyz",
	} {
		w := doJSON(r, "GET", path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestListVisits_ServiceError(t *testing.T) {
	svc := &mockVisitService{
		listVisitsFn: func(_ context.Context, _ *domain.VisitQuery) ([]domain.Visit, error) {
			return nil, errors.New("db error")
		},
	}

	r := setupRouter(NewVisitHandler(svc))
	w := doJSON(r, "GET", "/t/tenant-1/visits?start=1715000000&end=1715100000", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if errorBody(w)["error"] != "internal error" {
		t.Errorf("expected generic error, got %s", w.Body.String())
	}
}
