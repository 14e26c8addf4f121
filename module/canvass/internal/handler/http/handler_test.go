package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/canvass/module/canvass/domain"
)

type mockVisitService struct {
	checkInFn    func(ctx context.Context, req *domain.CheckInRequest) (*domain.Visit, error)
	listVisitsFn func(ctx context.Context, query *domain.VisitQuery) ([]domain.Visit, error)
}

func (m *mockVisitService) CheckIn(ctx context.Context, req *domain.CheckInRequest) (*domain.Visit, error) {
	return m.checkInFn(ctx, req)
}

func (m *mockVisitService) ListVisits(ctx context.Context, query *domain.VisitQuery) ([]domain.Visit, error) {
	return m.listVisitsFn(ctx, query)
}

type mockInvoiceService struct {
	createInvoiceFn func(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.Invoice, error)
	getInvoiceFn    func(ctx context.Context, tenantID, id string) (*domain.Invoice, error)
	agingReportFn   func(ctx context.Context, query *domain.AgingQuery) (*domain.AgingReport, error)
}

func (m *mockInvoiceService) CreateInvoice(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	return m.createInvoiceFn(ctx, req)
}

func (m *mockInvoiceService) GetInvoice(ctx context.Context, tenantID, id string) (*domain.Invoice, error) {
	return m.getInvoiceFn(ctx, tenantID, id)
}

func (m *mockInvoiceService) AgingReport(ctx context.Context, query *domain.AgingQuery) (*domain.AgingReport, error) {
	return m.agingReportFn(ctx, query)
}

type mockPaymentService struct {
	recordPaymentFn func(ctx context.Context, req *domain.RecordPaymentRequest) (*domain.PaymentAllocation, error)
}

func (m *mockPaymentService) RecordPayment(ctx context.Context, req *domain.RecordPaymentRequest) (*domain.PaymentAllocation, error) {
	return m.recordPaymentFn(ctx, req)
}

type mockFraudService struct {
	analyzeFn func(ctx context.Context, query *domain.FraudQuery) (*domain.FraudReport, error)
}

func (m *mockFraudService) Analyze(ctx context.Context, query *domain.FraudQuery) (*domain.FraudReport, error) {
	return m.analyzeFn(ctx, query)
}

type registrar interface {
	Register(r *gin.RouterGroup)
}

func setupRouter(h registrar) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r.Group("/t/:tenant"))
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func errorBody(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}
