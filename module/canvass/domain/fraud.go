package domain

import "time"

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type FraudQuery struct {
	TenantID string
	UserID   string
	Start    time.Time
	End      time.Time
}

// ImpossibleTravel is a pair of consecutive visits by one user that would
// require moving faster than the configured speed.
type ImpossibleTravel struct {
	UserID         string  `json:"user_id"`
	FromVisitID    string  `json:"from_visit_id"`
	ToVisitID      string  `json:"to_visit_id"`
	DistanceMeters float64 `json:"distance_meters"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	SpeedKmh       float64 `json:"speed_kmh"`
}

type FraudReport struct {
	TenantID          string             `json:"tenant_id"`
	UserID            string             `json:"user_id,omitempty"`
	Start             time.Time          `json:"start"`
	End               time.Time          `json:"end"`
	TotalVisits       int                `json:"total_visits"`
	EvaluatedVisits   int                `json:"evaluated_visits"`
	Violations        int                `json:"violations"`
	ViolationRate     float64            `json:"violation_rate"`
	AvgDistanceMeters float64            `json:"avg_distance_meters"`
	MaxDistanceMeters float64            `json:"max_distance_meters"`
	ImpossibleTravel  []ImpossibleTravel `json:"impossible_travel"`
	RiskScore         float64            `json:"risk_score"`
	RiskLevel         RiskLevel          `json:"risk_level"`
	FlaggedVisitIDs   []string           `json:"flagged_visit_ids"`
}
