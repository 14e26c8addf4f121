package canvass

import (
	"database/sql"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	handler "github.com/nandanugg/canvass/module/canvass/internal/handler/http"
	"github.com/nandanugg/canvass/module/canvass/internal/handler/subscriber"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/database/postgres"
	"github.com/nandanugg/canvass/module/canvass/internal/repository/publisher/rabbitmq"
	"github.com/nandanugg/canvass/module/canvass/service"
	"github.com/nandanugg/canvass/sdk/money"
)

type Options struct {
	EnforceGeofence bool
	DisplayLocale   string
	DefaultCurrency money.Currency
	MaxSpeedKmh     float64
}

type Module struct {
	VisitSvc   *service.VisitService
	InvoiceSvc *service.InvoiceService
	PaymentSvc *service.PaymentService
	FraudSvc   *service.FraudService

	visitHandler   *handler.VisitHandler
	invoiceHandler *handler.InvoiceHandler
	paymentHandler *handler.PaymentHandler
	fraudHandler   *handler.FraudHandler
	subscriber     *subscriber.CheckInSubscriber
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, opts Options) (*Module, error) {
	customerRepo := postgres.NewCustomerRepo(db)
	visitRepo := postgres.NewVisitRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)

	geofencePub, err := rabbitmq.NewGeofencePublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("geofence publisher: %w", err)
	}

	geofenceSvc := service.NewGeofenceService(geofencePub, opts.EnforceGeofence)
	visitSvc := service.NewVisitService(customerRepo, visitRepo, geofenceSvc)
	invoiceSvc := service.NewInvoiceService(customerRepo, invoiceRepo, opts.DefaultCurrency)
	paymentSvc := service.NewPaymentService(customerRepo, invoiceRepo, paymentRepo, geofenceSvc)
	fraudSvc := service.NewFraudService(visitRepo, opts.MaxSpeedKmh)

	return &Module{
		VisitSvc:   visitSvc,
		InvoiceSvc: invoiceSvc,
		PaymentSvc: paymentSvc,
		FraudSvc:   fraudSvc,

		visitHandler:   handler.NewVisitHandler(visitSvc),
		invoiceHandler: handler.NewInvoiceHandler(invoiceSvc, opts.DisplayLocale),
		paymentHandler: handler.NewPaymentHandler(paymentSvc, opts.DisplayLocale, opts.DefaultCurrency),
		fraudHandler:   handler.NewFraudHandler(fraudSvc),
		subscriber:     subscriber.NewCheckInSubscriber(mqttClient, visitSvc),
	}, nil
}

// RegisterRoutes mounts the tenant-scoped API under /t/:tenant.
func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	tenant := r.Group("/t/:tenant")
	m.visitHandler.Register(tenant)
	m.invoiceHandler.Register(tenant)
	m.paymentHandler.Register(tenant)
	m.fraudHandler.Register(tenant)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}
