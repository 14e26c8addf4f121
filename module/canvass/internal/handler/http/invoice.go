package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/sdk/money"
)

type invoiceService interface {
	CreateInvoice(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, tenantID, id string) (*domain.Invoice, error)
	AgingReport(ctx context.Context, query *domain.AgingQuery) (*domain.AgingReport, error)
}

type invoiceItemRequest struct {
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
}

// Rates are decimal strings such as "0.11" so they are never rounded
// through float64.
type createInvoiceRequest struct {
	CustomerID   string               `json:"customer_id"`
	CreatedBy    string               `json:"created_by"`
	Currency     string               `json:"currency"`
	Items        []invoiceItemRequest `json:"items"`
	DiscountRate string               `json:"discount_rate"`
	TaxRate      string               `json:"tax_rate"`
	DueDate      int64                `json:"due_date"`
}

type invoiceItemResponse struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Quantity    int64         `json:"quantity"`
	UnitPrice   moneyResponse `json:"unit_price"`
	LineTotal   moneyResponse `json:"line_total"`
}

type invoiceResponse struct {
	ID          string                `json:"id"`
	Number      string                `json:"invoice_number"`
	CustomerID  string                `json:"customer_id"`
	Currency    string                `json:"currency"`
	Status      string                `json:"status"`
	Items       []invoiceItemResponse `json:"items"`
	Subtotal    moneyResponse         `json:"subtotal"`
	Discount    moneyResponse         `json:"discount"`
	Tax         moneyResponse         `json:"tax"`
	Total       moneyResponse         `json:"total"`
	Paid        moneyResponse         `json:"paid"`
	Balance     moneyResponse         `json:"balance"`
	InvoiceDate int64                 `json:"invoice_date"`
	DueDate     *int64                `json:"due_date,omitempty"`
}

type agingBucketResponse struct {
	Bucket       string        `json:"bucket"`
	Balance      moneyResponse `json:"balance"`
	InvoiceCount int           `json:"invoice_count"`
}

type agingReportResponse struct {
	AsOf     string                `json:"as_of"`
	Currency string                `json:"currency"`
	Buckets  []agingBucketResponse `json:"buckets"`
	Total    moneyResponse         `json:"total"`
}

type InvoiceHandler struct {
	invoiceSvc invoiceService
	locale     string
}

func NewInvoiceHandler(invoiceSvc invoiceService, locale string) *InvoiceHandler {
	return &InvoiceHandler{invoiceSvc: invoiceSvc, locale: locale}
}

func (h *InvoiceHandler) Register(r *gin.RouterGroup) {
	r.POST("/invoices", h.CreateInvoice)
	r.GET("/invoices/:invoice_id", h.GetInvoice)
	r.GET("/reports/aging", h.GetAgingReport)
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var body createInvoiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	discount, err := parseRate(body.DiscountRate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discount_rate"})
		return
	}
	tax, err := parseRate(body.TaxRate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tax_rate"})
		return
	}

	req := &domain.CreateInvoiceRequest{
		TenantID:     c.Param("tenant"),
		CustomerID:   body.CustomerID,
		CreatedBy:    body.CreatedBy,
		Currency:     money.Currency(body.Currency),
		DiscountRate: discount,
		TaxRate:      tax,
	}
	for _, it := range body.Items {
		req.Items = append(req.Items, domain.InvoiceItemInput{
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPriceMinor: it.UnitPriceMinor,
		})
	}
	if body.DueDate > 0 {
		due := time.Unix(body.DueDate, 0).UTC()
		req.DueDate = &due
	}

	inv, err := h.invoiceSvc.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toInvoiceResponse(inv))
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.invoiceSvc.GetInvoice(c.Request.Context(), c.Param("tenant"), c.Param("invoice_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toInvoiceResponse(inv))
}

// GetAgingReport accepts optional customer_id, currency and as_of
// (YYYY-MM-DD) query parameters.
func (h *InvoiceHandler) GetAgingReport(c *gin.Context) {
	query := &domain.AgingQuery{
		TenantID:   c.Param("tenant"),
		CustomerID: c.Query("customer_id"),
		Currency:   money.Currency(c.Query("currency")),
	}
	if s := c.Query("as_of"); s != "" {
		asOf, err := time.Parse(time.DateOnly, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of, expected YYYY-MM-DD"})
			return
		}
		query.AsOf = asOf
	}

	report, err := h.invoiceSvc.AgingReport(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := agingReportResponse{
		AsOf:     report.AsOf.Format(time.DateOnly),
		Currency: report.Currency.String(),
		Buckets:  make([]agingBucketResponse, len(report.Buckets)),
		Total:    toMoneyResponse(report.Total, h.locale),
	}
	for i, b := range report.Buckets {
		resp.Buckets[i] = agingBucketResponse{
			Bucket:       string(b.Bucket),
			Balance:      toMoneyResponse(b.Balance, h.locale),
			InvoiceCount: b.InvoiceCount,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func parseRate(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func (h *InvoiceHandler) toInvoiceResponse(inv *domain.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		CustomerID:  inv.CustomerID,
		Currency:    inv.Currency.String(),
		Status:      string(inv.Status),
		Items:       make([]invoiceItemResponse, len(inv.Items)),
		Subtotal:    toMoneyResponse(inv.Subtotal, h.locale),
		Discount:    toMoneyResponse(inv.Discount, h.locale),
		Tax:         toMoneyResponse(inv.Tax, h.locale),
		Total:       toMoneyResponse(inv.Total, h.locale),
		Paid:        toMoneyResponse(inv.Paid, h.locale),
		Balance:     toMoneyResponse(inv.Balance, h.locale),
		InvoiceDate: inv.InvoiceDate.Unix(),
	}
	for i, it := range inv.Items {
		resp.Items[i] = invoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   toMoneyResponse(it.UnitPrice, h.locale),
			LineTotal:   toMoneyResponse(it.LineTotal, h.locale),
		}
	}
	if inv.DueDate != nil {
		due := inv.DueDate.Unix()
		resp.DueDate = &due
	}
	return resp
}
