package api

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/taxportal/filing-engine/internal/calculation"
	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// IncomeTaxRequest is the body of POST /api/v1/tax/income.
type IncomeTaxRequest struct {
	GrossIncome    money.Money `json:"grossIncome"`
	Regime         string      `json:"regime"`
	Deductions     money.Money `json:"deductions"`
	AssessmentYear string      `json:"assessmentYear"`
}

// GSTRequest is the body of POST /api/v1/tax/gst.
type GSTRequest struct {
	Amount      money.Money     `json:"amount"`
	RatePercent decimal.Decimal `json:"ratePercent"`
	Mode        string          `json:"mode"`
}

// ComputeHandler serves the stateless calculators.
type ComputeHandler struct {
	BaseHandler
	engine  *calculation.Engine
	metrics *Metrics
}

// NewComputeHandler creates the handler.
func NewComputeHandler(engine *calculation.Engine, metrics *Metrics) *ComputeHandler {
	return &ComputeHandler{engine: engine, metrics: metrics}
}

// IncomeTax computes the slab-wise income tax.
func (h *ComputeHandler) IncomeTax(c *gin.Context) {
	var req IncomeTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, domain.CodeInvalidInput, err.Error())
		return
	}
	regime := domain.RegimeNew
	if req.Regime != "" {
		r, err := domain.ParseRegime(req.Regime)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		regime = r
	}

	bd, err := h.engine.IncomeTax(req.GrossIncome, regime, req.Deductions, req.AssessmentYear)
	h.observe(domain.KindITR, err)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bd)
}

// GST computes GST in exclusive or inclusive mode.
func (h *ComputeHandler) GST(c *gin.Context) {
	var req GSTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, domain.CodeInvalidInput, err.Error())
		return
	}
	mode := domain.GSTExclusive
	if req.Mode != "" {
		m, err := domain.ParseGSTMode(req.Mode)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		mode = m
	}

	bd, err := h.engine.GST(req.Amount, req.RatePercent, mode)
	h.observe(domain.KindGST, err)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bd)
}

func (h *ComputeHandler) observe(kind domain.Kind, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = domain.Code(err)
	}
	h.metrics.ObserveCalculation(kind, outcome)
}
