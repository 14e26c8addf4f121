package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/sdk/geo"
)

type mockVisitSvc struct {
	checkInFn func(ctx context.Context, req *domain.CheckInRequest) (*domain.Visit, error)
}

func (m *mockVisitSvc) CheckIn(ctx context.Context, req *domain.CheckInRequest) (*domain.Visit, error) {
	return m.checkInFn(ctx, req)
}

type fakeMQTTMessage struct {
	payload []byte
}

func (f *fakeMQTTMessage) Duplicate() bool   { return false }
func (f *fakeMQTTMessage) Qos() byte         { return 0 }
func (f *fakeMQTTMessage) Retained() bool    { return false }
func (f *fakeMQTTMessage) Topic() string     { return "/canvass/device/DEV-042/checkin" }
func (f *fakeMQTTMessage) MessageID() uint16 { return 0 }
func (f *fakeMQTTMessage) Payload() []byte   { return f.payload }
func (f *fakeMQTTMessage) Ack()              {}

func validMessage() checkInMessage {
	return checkInMessage{
		TenantID:      "tenant-1",
		CustomerID:    "cust-1",
		UserID:        "user-1",
		Latitude:      -6.1754,
		Longitude:     106.8272,
		ClientEventID: "evt-1",
		Timestamp:     1715003456,
	}
}

func TestHandleMessage_Success(t *testing.T) {
	var got *domain.CheckInRequest
	svc := &mockVisitSvc{
		checkInFn: func(_ context.Context, req *domain.CheckInRequest) (*domain.Visit, error) {
			got = req
			return &domain.Visit{
				ID:       "visit-1",
				Location: req.Location,
				Geofence: &geo.GeofenceResult{IsWithinGeofence: false, DistanceMeters: 700.52},
			}, nil
		},
	}

	sub := &CheckInSubscriber{visitSvc: svc}
	payload, _ := json.Marshal(validMessage())
	sub.handleMessage(nil, &fakeMQTTMessage{payload: payload})

	if got == nil {
		t.Fatal("expected CheckIn to be called")
	}
	if got.DeviceID != "DEV-042" {
		t.Errorf("expected DEV-042, got %s", got.DeviceID)
	}
	if got.Location.Latitude != -6.1754 {
		t.Errorf("expected -6.1754, got %f", got.Location.Latitude)
	}
	expectedTs := time.Unix(1715003456, 0)
	if !got.OccurredAt.Equal(expectedTs) {
		t.Errorf("expected %v, got %v", expectedTs, got.OccurredAt)
	}
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	svc := &mockVisitSvc{
		checkInFn: func(_ context.Context, _ *domain.CheckInRequest) (*domain.Visit, error) {
			t.Fatal("CheckIn should not be called")
			return nil, nil
		},
	}

	sub := &CheckInSubscriber{visitSvc: svc}
	sub.handleMessage(nil, &fakeMQTTMessage{payload: []byte("invalid")})
}

func TestHandleMessage_ValidationError(t *testing.T) {
	svc := &mockVisitSvc{
		checkInFn: func(_ context.Context, _ *domain.CheckInRequest) (*domain.Visit, error) {
			t.Fatal("CheckIn should not be called")
			return nil, nil
		},
	}

	sub := &CheckInSubscriber{visitSvc: svc}

	msg := validMessage()
	msg.Latitude = 123
	payload, _ := json.Marshal(msg)
	sub.handleMessage(nil, &fakeMQTTMessage{payload: payload})
}

func TestHandleMessage_ServiceErrors(t *testing.T) {
	for _, svcErr := range []error{domain.ErrDuplicateEvent, domain.ErrOutsideGeofence, errors.New("db error")} {
		calls := 0
		svc := &mockVisitSvc{
			checkInFn: func(_ context.Context, _ *domain.CheckInRequest) (*domain.Visit, error) {
				calls++
				return nil, svcErr
			},
		}

		sub := &CheckInSubscriber{visitSvc: svc}
		payload, _ := json.Marshal(validMessage())
		sub.handleMessage(nil, &fakeMQTTMessage{payload: payload})

		if calls != 1 {
			t.Errorf("%v: expected 1 call, got %d", svcErr, calls)
		}
	}
}

func TestDeviceFromTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"/canvass/device/DEV-042/checkin", "DEV-042"},
		{"/canvass/device//checkin", ""},
		{"canvass/device/DEV-042/checkin", ""},
		{"/canvass/device/DEV-042/checkin/extra", ""},
	}
	for _, tt := range tests {
		if got := deviceFromTopic(tt.topic); got != tt.want {
			t.Errorf("deviceFromTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

func TestValidateCheckInMessage(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *checkInMessage)
		wantErr bool
	}{
		{"valid", func(m *checkInMessage) {}, false},
		{"empty tenant_id", func(m *checkInMessage) { m.TenantID = "" }, true},
		{"empty customer_id", func(m *checkInMessage) { m.CustomerID = "" }, true},
		{"empty user_id", func(m *checkInMessage) { m.UserID = "" }, true},
		{"lat too low", func(m *checkInMessage) { m.Latitude = -91 }, true},
		{"lat too high", func(m *checkInMessage) { m.Latitude = 91 }, true},
		{"lon too low", func(m *checkInMessage) { m.Longitude = -181 }, true},
		{"lon too high", func(m *checkInMessage) { m.Longitude = 181 }, true},
		{"negative accuracy", func(m *checkInMessage) { m.AccuracyMeters = -1 }, true},
		{"zero timestamp", func(m *checkInMessage) { m.Timestamp = 0 }, true},
		{"negative timestamp", func(m *checkInMessage) { m.Timestamp = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validMessage()
			tt.mutate(&msg)
			err := validateCheckInMessage(&msg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCheckInMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
