package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/canvass/config"
	"github.com/nandanugg/canvass/module/canvass"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := config.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg, "canvass-server")
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg, cfg.MQTTClientID)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer mqttClient.Disconnect(250)

	canvassModule, err := canvass.Build(db, amqpConn, mqttClient, canvass.Options{
		EnforceGeofence: cfg.EnforceGeofence,
		DisplayLocale:   cfg.DisplayLocale,
		DefaultCurrency: cfg.DefaultCurrency,
		MaxSpeedKmh:     cfg.ImpossibleSpeedKmh,
	})
	if err != nil {
		log.Fatalf("canvass module: %v", err)
	}

	if err := canvassModule.StartSubscribers(); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	canvassModule.RegisterRoutes(&r.RouterGroup)

	log.Printf("listening on :%s (geofence enforce=%t, locale=%s)", cfg.HTTPPort, cfg.EnforceGeofence, cfg.DisplayLocale)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("server: %v", err)
	}
}
