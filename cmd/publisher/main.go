package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nandanugg/canvass/config"
	"github.com/nandanugg/canvass/sdk/geo"
)

// Mock mobile device: emits check-ins around one customer, sometimes far
// enough away to break the geofence and sometimes resending the previous
// event the way an offline queue does.

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

const metersPerDegree = 111320

// jitter moves c by up to maxMeters in a random direction.
func jitter(c geo.Coordinates, maxMeters float64) geo.Coordinates {
	d := rand.Float64() * maxMeters
	bearing := rand.Float64() * 2 * math.Pi
	dLat := d * math.Cos(bearing) / metersPerDegree
	dLon := d * math.Sin(bearing) / (metersPerDegree * math.Cos(c.Latitude*math.Pi/180))
	return geo.Coordinates{Latitude: c.Latitude + dLat, Longitude: c.Longitude + dLon}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	raw := getEnv("CUSTOMER_LOCATION", "-6.175400, 106.827200")
	customer, ok := geo.ParseCoordinates(raw)
	if !ok {
		log.Fatalf("CUSTOMER_LOCATION: cannot parse %q", raw)
	}
	if err := customer.Validate(); err != nil {
		log.Fatalf("CUSTOMER_LOCATION: %v", err)
	}

	tenantID := getEnv("TENANT_ID", "tenant-1")
	customerID := getEnv("CUSTOMER_ID", "cust-1")
	userID := getEnv("USER_ID", "user-1")
	deviceID := getEnv("DEVICE_ID", "DEV-"+uuid.NewString()[:8])

	client, err := config.NewMQTT(cfg, "canvass-mock-"+deviceID)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer client.Disconnect(250)

	topic := fmt.Sprintf("/canvass/device/%s/checkin", deviceID)
	log.Printf("connected to %s, publishing to %s every %ds around %s", cfg.MQTTBroker, topic, intervalSec, customer)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	var last []byte
	for range ticker.C {
		payload := last
		// 10% chance to replay the previous event
		if last == nil || rand.Float64() >= 0.1 {
			loc := jitter(customer, 30)
			// 25% chance to be well outside a typical 50m fence
			if rand.Float64() < 0.25 {
				loc = jitter(customer, 1500)
			}
			msg := checkInMessage{
				TenantID:       tenantID,
				CustomerID:     customerID,
				UserID:         userID,
				EventType:      "check_in",
				Latitude:       loc.Latitude,
				Longitude:      loc.Longitude,
				AccuracyMeters: 5 + rand.Float64()*15,
				ClientEventID:  uuid.NewString(),
				Timestamp:      time.Now().Unix(),
			}
			payload, _ = json.Marshal(msg)
			last = payload

			log.Printf("check-in at %s, %.2fm from customer", loc, geo.Distance(customer, loc))
		}

		token := client.Publish(topic, 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("publish: %v", err)
			continue
		}

		log.Printf("published to %s: %s", topic, payload)
	}
}
