package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/sdk/geo"
	"github.com/nandanugg/canvass/sdk/money"
)

type paymentService interface {
	RecordPayment(ctx context.Context, req *domain.RecordPaymentRequest) (*domain.PaymentAllocation, error)
}

type recordPaymentRequest struct {
	Location    *locationInput `json:"location"`
	InvoiceID   string         `json:"invoice_id"`
	CollectedBy string         `json:"collected_by"`
	AmountMinor int64          `json:"amount_minor"`
	Currency    string         `json:"currency"`
	Method      string         `json:"method"`
	Reference   string         `json:"reference"`
	PaidAt      int64          `json:"paid_at"`
}

type paymentInvoiceResponse struct {
	ID      string        `json:"id"`
	Status  string        `json:"status"`
	Paid    moneyResponse `json:"paid"`
	Balance moneyResponse `json:"balance"`
}

type paymentResponse struct {
	ID          string                 `json:"id"`
	Number      string                 `json:"payment_number"`
	InvoiceID   string                 `json:"invoice_id"`
	CustomerID  string                 `json:"customer_id"`
	Amount      moneyResponse          `json:"amount"`
	Method      string                 `json:"method"`
	Status      string                 `json:"status"`
	Coordinates string                 `json:"coordinates,omitempty"`
	Geofence    *geofenceResponse      `json:"geofence,omitempty"`
	PaidAt      int64                  `json:"paid_at"`
	Invoice     paymentInvoiceResponse `json:"invoice"`
}

type PaymentHandler struct {
	paymentSvc      paymentService
	locale          string
	defaultCurrency money.Currency
}

func NewPaymentHandler(paymentSvc paymentService, locale string, defaultCurrency money.Currency) *PaymentHandler {
	return &PaymentHandler{
		paymentSvc:      paymentSvc,
		locale:          locale,
		defaultCurrency: defaultCurrency,
	}
}

func (h *PaymentHandler) Register(r *gin.RouterGroup) {
	r.POST("/payments", h.RecordPayment)
}

func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var body recordPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	code := body.Currency
	if code == "" {
		code = h.defaultCurrency.String()
	}
	currency, err := money.ParseCurrency(code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := &domain.RecordPaymentRequest{
		TenantID:    c.Param("tenant"),
		InvoiceID:   body.InvoiceID,
		CollectedBy: body.CollectedBy,
		Amount:      money.FromMinor(body.AmountMinor, currency),
		Method:      domain.PaymentMethod(body.Method),
		Reference:   body.Reference,
	}
	if body.Location != nil && body.Location.present() {
		loc, err := body.Location.resolve()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Location = &loc
	}
	if body.PaidAt > 0 {
		req.PaidAt = time.Unix(body.PaidAt, 0)
	}

	alloc, err := h.paymentSvc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toPaymentResponse(alloc))
}

func (h *PaymentHandler) toPaymentResponse(alloc *domain.PaymentAllocation) paymentResponse {
	p, inv := alloc.Payment, alloc.Invoice
	resp := paymentResponse{
		ID:         p.ID,
		Number:     p.Number,
		InvoiceID:  p.InvoiceID,
		CustomerID: p.CustomerID,
		Amount:     toMoneyResponse(p.Amount, h.locale),
		Method:     string(p.Method),
		Status:     string(p.Status),
		Geofence:   toGeofenceResponse(p.Geofence),
		PaidAt:     p.PaidAt.Unix(),
		Invoice: paymentInvoiceResponse{
			ID:      inv.ID,
			Status:  string(inv.Status),
			Paid:    toMoneyResponse(inv.Paid, h.locale),
			Balance: toMoneyResponse(inv.Balance, h.locale),
		},
	}
	if p.Location != nil {
		resp.Coordinates = geo.FormatCoordinates(*p.Location)
	}
	return resp
}
