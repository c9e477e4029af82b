package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	reportapp "github.com/spendlens/backend/internal/application/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSpendReporter is a mock implementation of SpendReporter
type MockSpendReporter struct {
	mock.Mock
}

func (m *MockSpendReporter) GetStats(ctx context.Context) (*reportapp.StatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.StatsResponse), args.Error(1)
}

func (m *MockSpendReporter) ListInvoices(ctx context.Context, filter reportapp.InvoiceListFilter) ([]reportapp.InvoiceResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reportapp.InvoiceResponse), args.Error(1)
}

func (m *MockSpendReporter) GetInvoiceTrends(ctx context.Context) ([]reportapp.InvoiceTrendResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reportapp.InvoiceTrendResponse), args.Error(1)
}

func (m *MockSpendReporter) GetTopVendors(ctx context.Context) ([]reportapp.VendorSpendResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reportapp.VendorSpendResponse), args.Error(1)
}

func (m *MockSpendReporter) GetCategorySpend(ctx context.Context) ([]reportapp.CategorySpendResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reportapp.CategorySpendResponse), args.Error(1)
}

func (m *MockSpendReporter) GetCashOutflow(ctx context.Context) ([]reportapp.CashOutflowResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reportapp.CashOutflowResponse), args.Error(1)
}

func newReportRouter(reports SpendReporter) *gin.Engine {
	h := NewReportHandler(reports)
	r := gin.New()
	r.GET("/api/stats", h.GetStats)
	r.GET("/api/invoices", h.ListInvoices)
	r.GET("/api/invoice-trends", h.GetInvoiceTrends)
	r.GET("/api/vendors/top10", h.GetTopVendors)
	r.GET("/api/category-spend", h.GetCategorySpend)
	r.GET("/api/cash-outflow", h.GetCashOutflow)
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestReportHandler_GetStats(t *testing.T) {
	reports := new(MockSpendReporter)
	reports.On("GetStats", mock.Anything).Return(&reportapp.StatsResponse{
		TotalSpendYTD:       1190,
		TotalInvoices:       1,
		DocumentsUploaded:   0,
		AverageInvoiceValue: 1190,
	}, nil)

	w := serve(newReportRouter(reports), http.MethodGet, "/api/stats")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalSpendYTD":1190,"totalInvoices":1,"documentsUploaded":0,"averageInvoiceValue":1190}`, w.Body.String())
	reports.AssertExpectations(t)
}

func TestReportHandler_ListInvoices_PassesFilter(t *testing.T) {
	reports := new(MockSpendReporter)
	filter := reportapp.InvoiceListFilter{Search: "acme corp", Status: "paid"}
	reports.On("ListInvoices", mock.Anything, filter).Return([]reportapp.InvoiceResponse{{
		ID:            "3f1c",
		InvoiceNumber: "INV-1",
		InvoiceDate:   "2025-03-01T00:00:00.000Z",
		Vendor:        "Acme Corp",
		Customer:      "Buyer",
		TotalWithVat:  119.5,
		Status:        "paid",
	}}, nil)

	w := serve(newReportRouter(reports), http.MethodGet, "/api/invoices?search=acme+corp&status=paid")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{
		"id":"3f1c","invoiceNumber":"INV-1","invoiceDate":"2025-03-01T00:00:00.000Z",
		"deliveryDate":null,"vendor":"Acme Corp","customer":"Buyer","totalWithVat":119.5,"status":"paid"
	}]`, w.Body.String())
	reports.AssertExpectations(t)
}

func TestReportHandler_EmptyResultsRenderAsArrays(t *testing.T) {
	reports := new(MockSpendReporter)
	reports.On("ListInvoices", mock.Anything, reportapp.InvoiceListFilter{}).Return([]reportapp.InvoiceResponse{}, nil)
	reports.On("GetInvoiceTrends", mock.Anything).Return([]reportapp.InvoiceTrendResponse{}, nil)
	reports.On("GetTopVendors", mock.Anything).Return([]reportapp.VendorSpendResponse{}, nil)
	reports.On("GetCategorySpend", mock.Anything).Return([]reportapp.CategorySpendResponse{}, nil)
	reports.On("GetCashOutflow", mock.Anything).Return([]reportapp.CashOutflowResponse{}, nil)
	r := newReportRouter(reports)

	for _, path := range []string{"/api/invoices", "/api/invoice-trends", "/api/vendors/top10", "/api/category-spend", "/api/cash-outflow"} {
		t.Run(path, func(t *testing.T) {
			w := serve(r, http.MethodGet, path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "[]", w.Body.String())
		})
	}
}

func TestReportHandler_Failures(t *testing.T) {
	boom := errors.New("connection refused")
	reports := new(MockSpendReporter)
	reports.On("GetStats", mock.Anything).Return(nil, boom)
	reports.On("ListInvoices", mock.Anything, mock.Anything).Return(nil, boom)
	reports.On("GetInvoiceTrends", mock.Anything).Return(nil, boom)
	reports.On("GetTopVendors", mock.Anything).Return(nil, boom)
	reports.On("GetCategorySpend", mock.Anything).Return(nil, boom)
	reports.On("GetCashOutflow", mock.Anything).Return(nil, boom)
	r := newReportRouter(reports)

	tests := []struct {
		path string
		want string
	}{
		{"/api/stats", `{"error":"Failed to fetch stats"}`},
		{"/api/invoices", `{"error":"Failed to fetch invoices"}`},
		{"/api/invoice-trends", `{"error":"Failed to fetch invoice trends"}`},
		{"/api/vendors/top10", `{"error":"Failed to fetch top vendors"}`},
		{"/api/category-spend", `{"error":"Failed to fetch category spend"}`},
		{"/api/cash-outflow", `{"error":"Failed to fetch cash outflow"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(r, http.MethodGet, tt.path)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}
