package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nandanugg/canvass/config"
	"github.com/nandanugg/canvass/sdk/geo"
)

const (
	exchangeName = "canvass.events"
	queueName    = "geofence_violations"
)

type violation struct {
	TenantID       string  `json:"tenant_id"`
	VisitID        string  `json:"visit_id"`
	CustomerID     string  `json:"customer_id"`
	UserID         string  `json:"user_id"`
	Event          string  `json:"event"`
	Coordinates    string  `json:"coordinates"`
	DistanceMeters float64 `json:"distance_meters"`
	GeofenceMeters float64 `json:"geofence_meters"`
	Timestamp      int64   `json:"timestamp"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := config.NewRabbitMQ(cfg, "canvass-event-listener")
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbitmq channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		log.Fatalf("declare exchange: %v", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Fatalf("declare queue: %v", err)
	}

	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		log.Fatalf("bind queue: %v", err)
	}

	msgs, err := ch.Consume(queueName, "", true, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	log.Printf("consuming from queue '%s', waiting for geofence violations...", queueName)

	go func() {
		for msg := range msgs {
			var v violation
			if err := json.Unmarshal(msg.Body, &v); err != nil {
				log.Printf("skipping malformed message: %v", err)
				continue
			}
			fmt.Println(describe(&v))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("shutting down")
}

func describe(v *violation) string {
	at := time.Unix(v.Timestamp, 0).Format(time.RFC3339)
	where := v.Coordinates
	if c, ok := geo.ParseCoordinates(v.Coordinates); ok {
		where = fmt.Sprintf("%s (https://maps.google.com/?q=%.6f,%.6f)", c, c.Latitude, c.Longitude)
	}
	return fmt.Sprintf("[%s] %s tenant=%s user=%s customer=%s visit=%s at %s: %.2fm from customer, fence %.2fm",
		v.Event, at, v.TenantID, v.UserID, v.CustomerID, v.VisitID, where, v.DistanceMeters, v.GeofenceMeters)
}
