package config

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type amqpState interface {
	IsClosed() bool
}

type mqttState interface {
	IsConnected() bool
}

const healthTimeout = 2 * time.Second

type HealthChecker struct {
	db       pinger
	amqpConn amqpState
	mqtt     mqttState
}

// NewHealthChecker takes a *sql.DB, *amqp.Connection and mqtt.Client.
func NewHealthChecker(db pinger, amqpConn amqpState, mqttClient mqttState) *HealthChecker {
	return &HealthChecker{db: db, amqpConn: amqpConn, mqtt: mqttClient}
}

func (h *HealthChecker) Register(r *gin.Engine) {
	r.GET("/healthz", h.Handle)
}

func (h *HealthChecker) Handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	deps := gin.H{}
	healthy := true
	report := func(name string, err string) {
		if err == "" {
			deps[name] = gin.H{"status": "up"}
			return
		}
		deps[name] = gin.H{"status": "down", "error": err}
		healthy = false
	}

	if err := h.db.PingContext(ctx); err != nil {
		report("postgres", err.Error())
	} else {
		report("postgres", "")
	}

	if h.amqpConn.IsClosed() {
		report("rabbitmq", "connection closed")
	} else {
		report("rabbitmq", "")
	}

	if !h.mqtt.IsConnected() {
		report("mqtt", "not connected")
	} else {
		report("mqtt", "")
	}

	status, overall := http.StatusOK, "healthy"
	if !healthy {
		status, overall = http.StatusServiceUnavailable, "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
	})
}
