package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/publisher"
	"github.com/nandanugg/canvass/sdk/geo"
)

var _ publisher.ViolationPublisher = (*GeofencePublisher)(nil)

const (
	ExchangeName = "canvass.events"
	QueueName    = "geofence_violations"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type GeofencePublisher struct {
	ch Channel
}

func NewGeofencePublisher(conn *amqp.Connection) (*GeofencePublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := Declare(ch); err != nil {
		return nil, err
	}
	return &GeofencePublisher{ch: ch}, nil
}

// Declare sets up the exchange and the violations queue. The declarations
// match cmd/event_listener so either side can start first.
func Declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// AlertMessage is the wire form of a geofence alert.
type AlertMessage struct {
	TenantID       string                   `json:"tenant_id"`
	VisitID        string                   `json:"visit_id"`
	CustomerID     string                   `json:"customer_id"`
	UserID         string                   `json:"user_id"`
	Event          domain.GeofenceEventType `json:"event"`
	Location       geo.Coordinates          `json:"location"`
	Coordinates    string                   `json:"coordinates"`
	DistanceMeters float64                  `json:"distance_meters"`
	GeofenceMeters float64                  `json:"geofence_meters"`
	Timestamp      int64                    `json:"timestamp"`
}

func newAlertMessage(alert *domain.GeofenceAlert) AlertMessage {
	return AlertMessage{
		TenantID:       alert.TenantID,
		VisitID:        alert.VisitID,
		CustomerID:     alert.CustomerID,
		UserID:         alert.UserID,
		Event:          alert.Event,
		Location:       alert.Location,
		Coordinates:    geo.FormatCoordinates(alert.Location),
		DistanceMeters: alert.DistanceMeters,
		GeofenceMeters: alert.GeofenceMeters,
		Timestamp:      alert.Timestamp,
	}
}

func (p *GeofencePublisher) PublishViolation(ctx context.Context, alert *domain.GeofenceAlert) error {
	body, err := json.Marshal(newAlertMessage(alert))
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	if err := p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         string(alert.Event),
		Body:         body,
	}); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}
