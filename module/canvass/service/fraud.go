package service

import (
	"context"
	"fmt"
	"math"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/database"
	"github.com/nandanugg/canvass/sdk/geo"
	"github.com/nandanugg/canvass/sdk/numeric"
)

const DefaultMaxSpeedKmh = 120

type FraudService struct {
	visits      database.VisitRepository
	maxSpeedKmh float64
}

func NewFraudService(visits database.VisitRepository, maxSpeedKmh float64) *FraudService {
	if maxSpeedKmh <= 0 {
		maxSpeedKmh = DefaultMaxSpeedKmh
	}
	return &FraudService{visits: visits, maxSpeedKmh: maxSpeedKmh}
}

// Analyze summarises the geofence results recorded in a period and looks
// for consecutive visits of one user that imply travelling faster than the
// configured speed.
func (s *FraudService) Analyze(ctx context.Context, query *domain.FraudQuery) (*domain.FraudReport, error) {
	if query.End.Before(query.Start) {
		return nil, fmt.Errorf("%w: end before start", domain.ErrInvalidRequest)
	}

	visits, err := s.visits.List(ctx, &domain.VisitQuery{
		TenantID: query.TenantID,
		UserID:   query.UserID,
		Start:    query.Start,
		End:      query.End,
	})
	if err != nil {
		return nil, err
	}

	report := &domain.FraudReport{
		TenantID:         query.TenantID,
		UserID:           query.UserID,
		Start:            query.Start,
		End:              query.End,
		TotalVisits:      len(visits),
		ImpossibleTravel: []domain.ImpossibleTravel{},
		FlaggedVisitIDs:  []string{},
		RiskLevel:        domain.RiskLow,
	}

	var sum float64
	for i := range visits {
		v := &visits[i]
		if v.Geofence == nil {
			continue
		}
		report.EvaluatedVisits++
		sum += v.Geofence.DistanceMeters
		report.MaxDistanceMeters = math.Max(report.MaxDistanceMeters, v.Geofence.DistanceMeters)
		if v.Flagged() {
			report.Violations++
			report.FlaggedVisitIDs = append(report.FlaggedVisitIDs, v.ID)
		}
	}
	report.ImpossibleTravel = s.impossibleTravel(visits)

	if report.EvaluatedVisits > 0 {
		n := float64(report.EvaluatedVisits)
		report.ViolationRate = numeric.RoundFloat(float64(report.Violations)/n, 4)
		report.AvgDistanceMeters = numeric.RoundFloat(sum/n, 2)
	}

	// Travel anomalies count even for visits without a registered customer
	// location, so fall back to all visits as the denominator.
	denom := report.EvaluatedVisits
	if denom == 0 {
		denom = report.TotalVisits
	}
	if denom > 0 {
		score := float64(report.Violations+len(report.ImpossibleTravel)) / float64(denom)
		report.RiskScore = numeric.RoundFloat(math.Min(1, score), 4)
	}
	report.RiskLevel = riskLevel(report.RiskScore)
	return report, nil
}

// impossibleTravel expects visits ordered by time.
func (s *FraudService) impossibleTravel(visits []domain.Visit) []domain.ImpossibleTravel {
	out := []domain.ImpossibleTravel{}
	last := make(map[string]*domain.Visit)
	for i := range visits {
		v := &visits[i]
		prev, ok := last[v.UserID]
		last[v.UserID] = v
		if !ok {
			continue
		}
		distance := geo.Distance(prev.Location, v.Location)
		elapsed := math.Max(v.OccurredAt.Sub(prev.OccurredAt).Seconds(), 1)
		speed := distance / elapsed * 3.6
		if speed <= s.maxSpeedKmh {
			continue
		}
		out = append(out, domain.ImpossibleTravel{
			UserID:         v.UserID,
			FromVisitID:    prev.ID,
			ToVisitID:      v.ID,
			DistanceMeters: numeric.RoundFloat(distance, 2),
			ElapsedSeconds: elapsed,
			SpeedKmh:       numeric.RoundFloat(speed, 2),
		})
	}
	return out
}

func riskLevel(score float64) domain.RiskLevel {
	switch {
	case score >= 0.3:
		return domain.RiskHigh
	case score >= 0.1:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
