package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/database"
)

type VisitService struct {
	customers database.CustomerRepository
	visits    database.VisitRepository
	geofence  *GeofenceService
}

func NewVisitService(customers database.CustomerRepository, visits database.VisitRepository, geofence *GeofenceService) *VisitService {
	return &VisitService{
		customers: customers,
		visits:    visits,
		geofence:  geofence,
	}
}

func (s *VisitService) CheckIn(ctx context.Context, req *domain.CheckInRequest) (*domain.Visit, error) {
	if req.CustomerID == "" || req.UserID == "" {
		return nil, fmt.Errorf("%w: customer_id and user_id are required", domain.ErrInvalidRequest)
	}
	eventType := req.EventType
	if eventType == "" {
		eventType = domain.VisitCheckIn
	}
	if !eventType.Valid() {
		return nil, fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidRequest, eventType)
	}
	if err := req.Location.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLocation, err)
	}

	if req.ClientEventID != "" {
		exists, err := s.visits.ExistsByClientEventID(ctx, req.TenantID, req.ClientEventID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEvent, req.ClientEventID)
		}
	}

	customer, err := s.customers.GetByID(ctx, req.TenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	result, err := s.geofence.Evaluate(customer, req.Location)
	if err != nil {
		return nil, err
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	v := &domain.Visit{
		ID:             uuid.NewString(),
		TenantID:       req.TenantID,
		CustomerID:     req.CustomerID,
		UserID:         req.UserID,
		EventType:      eventType,
		Location:       req.Location,
		AccuracyMeters: req.AccuracyMeters,
		Geofence:       result,
		DeviceID:       req.DeviceID,
		ClientEventID:  req.ClientEventID,
		OccurredAt:     occurredAt.UTC(),
	}
	if err := s.visits.Insert(ctx, v); err != nil {
		return nil, err
	}

	s.geofence.AlertVisit(ctx, v, customer)
	return v, nil
}

func (s *VisitService) ListVisits(ctx context.Context, query *domain.VisitQuery) ([]domain.Visit, error) {
	if query.End.Before(query.Start) {
		return nil, fmt.Errorf("%w: end before start", domain.ErrInvalidRequest)
	}
	return s.visits.List(ctx, query)
}
