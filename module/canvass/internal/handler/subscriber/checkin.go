package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/sdk/geo"
)

const topicPattern = "/canvass/device/+/checkin"

type visitService interface {
	CheckIn(ctx context.Context, req *domain.CheckInRequest) (*domain.Visit, error)
}

type checkInMessage struct {
	TenantID       string  `json:"tenant_id"`
	CustomerID     string  `json:"customer_id"`
	UserID         string  `json:"user_id"`
	EventType      string  `json:"event_type"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	ClientEventID  string  `json:"client_event_id"`
	Timestamp      int64   `json:"timestamp"`
}

type CheckInSubscriber struct {
	client   mqtt.Client
	visitSvc visitService
}

func NewCheckInSubscriber(client mqtt.Client, visitSvc visitService) *CheckInSubscriber {
	return &CheckInSubscriber{
		client:   client,
		visitSvc: visitSvc,
	}
}

func (s *CheckInSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *CheckInSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw checkInMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("invalid check-in message: %v", err)
		return
	}

	if err := validateCheckInMessage(&raw); err != nil {
		log.Printf("validation error: %v", err)
		return
	}

	req := &domain.CheckInRequest{
		TenantID:       raw.TenantID,
		CustomerID:     raw.CustomerID,
		UserID:         raw.UserID,
		EventType:      domain.VisitEventType(raw.EventType),
		Location:       geo.Coordinates{Latitude: raw.Latitude, Longitude: raw.Longitude},
		AccuracyMeters: raw.AccuracyMeters,
		DeviceID:       deviceFromTopic(msg.Topic()),
		ClientEventID:  raw.ClientEventID,
		OccurredAt:     time.Unix(raw.Timestamp, 0),
	}

	v, err := s.visitSvc.CheckIn(context.Background(), req)
	switch {
	case errors.Is(err, domain.ErrDuplicateEvent):
		// devices resend queued check-ins after reconnecting
		return
	case err != nil:
		log.Printf("check-in %s from %s: %v", raw.ClientEventID, req.DeviceID, err)
		return
	}

	if v.Flagged() {
		log.Printf("visit %s flagged: %.2fm from customer %s at %s", v.ID, v.Geofence.DistanceMeters, v.CustomerID, v.Location)
	}
}

// deviceFromTopic extracts the wildcard segment of /canvass/device/<id>/checkin.
func deviceFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 5 {
		return ""
	}
	return parts[3]
}

func validateCheckInMessage(msg *checkInMessage) error {
	if msg.TenantID == "" {
		return fmt.Errorf("tenant_id: required")
	}
	if msg.CustomerID == "" {
		return fmt.Errorf("customer_id: required")
	}
	if msg.UserID == "" {
		return fmt.Errorf("user_id: required")
	}
	loc := geo.Coordinates{Latitude: msg.Latitude, Longitude: msg.Longitude}
	if err := loc.Validate(); err != nil {
		return err
	}
	if msg.AccuracyMeters < 0 {
		return fmt.Errorf("accuracy_meters: must not be negative")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
