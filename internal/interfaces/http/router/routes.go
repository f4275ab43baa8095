package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ledgerdesk/backend/internal/interfaces/http/handler"
)

// Handlers are the API handlers mounted by Mount
type Handlers struct {
	Invoices        *handler.InvoiceHandler
	ChartOfAccounts *handler.ChartOfAccountsHandler
	AccountImports  *handler.AccountImportHandler
	Compliance      *handler.ComplianceHandler
	System          *handler.SystemHandler
}

// InvoiceRoutes returns the /invoices route group
func InvoiceRoutes(h *handler.InvoiceHandler) *DomainGroup {
	g := NewDomainGroup("invoices", "/invoices")
	g.POST("", h.Create).
		GET("", h.List).
		GET("/summary", h.Summary).
		GET("/:id", h.Get).
		GET("/:id/transitions", h.AllowedTransitions).
		POST("/:id/status", h.Transition).
		POST("/:id/payments", h.RecordPayment)
	return g
}

// ChartOfAccountsRoutes returns the /chart-of-accounts route group. The
// static segments take precedence over the {level} parameter.
func ChartOfAccountsRoutes(coa *handler.ChartOfAccountsHandler, imports *handler.AccountImportHandler) *DomainGroup {
	g := NewDomainGroup("chart-of-accounts", "/chart-of-accounts")
	g.GET("/tree", coa.Tree).
		GET("/export", coa.Export)

	g.POST("/csv-upload", imports.Upload).
		POST("/csv-import", imports.Import).
		GET("/imports", imports.ListImports).
		GET("/imports/:id", imports.GetImport).
		GET("/imports/:id/errors", imports.ErrorReport)

	g.POST("/:level", coa.Create).
		GET("/:level", coa.List).
		GET("/:level/:id", coa.Get).
		PUT("/:level/:id", coa.Update).
		DELETE("/:level/:id", coa.Delete)
	return g
}

// ComplianceRoutes returns the /compliance route group
func ComplianceRoutes(h *handler.ComplianceHandler) *DomainGroup {
	g := NewDomainGroup("compliance", "/compliance")
	g.GET("/period-label", h.PeriodLabel)
	return g
}

// HealthRoutes returns the /health route group
func HealthRoutes(h *handler.SystemHandler) *DomainGroup {
	g := NewDomainGroup("health", "/health")
	g.GET("", h.Health).
		GET("/ready", h.Ready)
	return g
}

// Mount registers every API route on engine. Health probes are served both
// at the root and under the versioned prefix.
func Mount(engine *gin.Engine, h Handlers, apiMiddleware ...gin.HandlerFunc) {
	HealthRoutes(h.System).RegisterRoutes(&engine.RouterGroup)

	r := NewRouter(engine, WithMiddleware(apiMiddleware...))
	r.Register(HealthRoutes(h.System)).
		Register(InvoiceRoutes(h.Invoices)).
		Register(ChartOfAccountsRoutes(h.ChartOfAccounts, h.AccountImports)).
		Register(ComplianceRoutes(h.Compliance))
	r.Setup()
}
