// Package api exposes the calculators and the filing lifecycle over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxportal/filing-engine/internal/calculation"
	"github.com/taxportal/filing-engine/internal/service"
)

// NewRouter builds the gin engine with every route mounted.
func NewRouter(engine *calculation.Engine, svc *service.FilingService, metrics *Metrics, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(RequestID(), Recovery(logger), RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	v1 := r.Group("/api/v1")

	compute := NewComputeHandler(engine, metrics)
	v1.POST("/tax/income", compute.IncomeTax)
	v1.POST("/tax/gst", compute.GST)

	if svc != nil {
		filings := NewFilingHandler(svc)
		v1.POST("/filings", filings.Create)
		v1.GET("/filings/:id", filings.Get)
		v1.PATCH("/filings/:id/items", filings.UpdateItems)
		v1.POST("/filings/:id/transitions", filings.Transition)
		v1.DELETE("/filings/:id", filings.Delete)
		v1.GET("/filings/:id/sheet", filings.Sheet)
	}
	return r
}
