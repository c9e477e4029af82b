package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	reportapp "github.com/spendlens/backend/internal/application/report"
	"github.com/spendlens/backend/internal/interfaces/http/dto"
)

// SpendReporter is the reporting surface the handler needs
type SpendReporter interface {
	GetStats(ctx context.Context) (*reportapp.StatsResponse, error)
	ListInvoices(ctx context.Context, filter reportapp.InvoiceListFilter) ([]reportapp.InvoiceResponse, error)
	GetInvoiceTrends(ctx context.Context) ([]reportapp.InvoiceTrendResponse, error)
	GetTopVendors(ctx context.Context) ([]reportapp.VendorSpendResponse, error)
	GetCategorySpend(ctx context.Context) ([]reportapp.CategorySpendResponse, error)
	GetCashOutflow(ctx context.Context) ([]reportapp.CashOutflowResponse, error)
}

// ReportHandler serves the dashboard reporting endpoints
type ReportHandler struct {
	BaseHandler
	reports SpendReporter
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports SpendReporter) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetStats handles GET /api/stats
func (h *ReportHandler) GetStats(c *gin.Context) {
	stats, err := h.reports.GetStats(c.Request.Context())
	if err != nil {
		h.InternalError(c, dto.MsgFetchStats, err)
		return
	}
	h.OK(c, stats)
}

// ListInvoices handles GET /api/invoices?search=&status=
func (h *ReportHandler) ListInvoices(c *gin.Context) {
	filter := reportapp.InvoiceListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	invoices, err := h.reports.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.InternalError(c, dto.MsgFetchInvoices, err)
		return
	}
	h.OK(c, invoices)
}

// GetInvoiceTrends handles GET /api/invoice-trends
func (h *ReportHandler) GetInvoiceTrends(c *gin.Context) {
	trends, err := h.reports.GetInvoiceTrends(c.Request.Context())
	if err != nil {
		h.InternalError(c, dto.MsgFetchInvoiceTrends, err)
		return
	}
	h.OK(c, trends)
}

// GetTopVendors handles GET /api/vendors/top10
func (h *ReportHandler) GetTopVendors(c *gin.Context) {
	vendors, err := h.reports.GetTopVendors(c.Request.Context())
	if err != nil {
		h.InternalError(c, dto.MsgFetchTopVendors, err)
		return
	}
	h.OK(c, vendors)
}

// GetCategorySpend handles GET /api/category-spend
func (h *ReportHandler) GetCategorySpend(c *gin.Context) {
	categories, err := h.reports.GetCategorySpend(c.Request.Context())
	if err != nil {
		h.InternalError(c, dto.MsgFetchCategorySpend, err)
		return
	}
	h.OK(c, categories)
}

// GetCashOutflow handles GET /api/cash-outflow
func (h *ReportHandler) GetCashOutflow(c *gin.Context) {
	outflow, err := h.reports.GetCashOutflow(c.Request.Context())
	if err != nil {
		h.InternalError(c, dto.MsgFetchCashOutflow, err)
		return
	}
	h.OK(c, outflow)
}
