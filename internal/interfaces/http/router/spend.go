package router

import (
	"github.com/gin-gonic/gin"
	"github.com/spendlens/backend/internal/interfaces/http/handler"
)

// Handlers are the endpoints served by the spend analytics API
type Handlers struct {
	Reports *handler.ReportHandler
	Chat    *handler.ChatHandler
	Health  *handler.HealthHandler
	// ChatMiddleware runs only in front of POST /api/chat, e.g. rate limiting
	ChatMiddleware []gin.HandlerFunc
}

// RegisterSpendRoutes mounts the health checks at the root and the dashboard API
// under /api.
func RegisterSpendRoutes(engine *gin.Engine, h Handlers) *Router {
	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)

	reports := NewDomainGroup("reports", "")
	reports.GET("/stats", h.Reports.GetStats)
	reports.GET("/invoices", h.Reports.ListInvoices)
	reports.GET("/invoice-trends", h.Reports.GetInvoiceTrends)
	reports.GET("/vendors/top10", h.Reports.GetTopVendors)
	reports.GET("/category-spend", h.Reports.GetCategorySpend)
	reports.GET("/cash-outflow", h.Reports.GetCashOutflow)

	chat := NewDomainGroup("chat", "/chat")
	chat.Use(h.ChatMiddleware...)
	chat.POST("", h.Chat.Ask)

	r := NewRouter(engine).Register(reports).Register(chat)
	r.Setup()
	return r
}
