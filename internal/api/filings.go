package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/taxportal/filing-engine/internal/domain"
	"github.com/taxportal/filing-engine/internal/lifecycle"
	"github.com/taxportal/filing-engine/internal/service"
)

const roleHeader = "X-Actor-Role"

// CreateFilingRequest is the body of POST /api/v1/filings.
type CreateFilingRequest struct {
	Kind        string           `json:"kind"`
	PeriodKey   string           `json:"periodKey"`
	Identity    domain.Identity  `json:"identity"`
	Regime      string           `json:"regime,omitempty"`
	ReturnType  string           `json:"returnType,omitempty"`
	RatePercent *decimal.Decimal `json:"ratePercent,omitempty"`
	LineItems   domain.LineItems `json:"lineItems,omitempty"`
}

// TransitionRequest is the body of POST /api/v1/filings/:id/transitions.
type TransitionRequest struct {
	Target string `json:"target"`
	lifecycle.TransitionPayload
}

// FilingHandler exposes the filing lifecycle.
type FilingHandler struct {
	BaseHandler
	svc *service.FilingService
}

// NewFilingHandler creates the handler.
func NewFilingHandler(svc *service.FilingService) *FilingHandler {
	return &FilingHandler{svc: svc}
}

// Create stores a new draft.
func (h *FilingHandler) Create(c *gin.Context) {
	var req CreateFilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, domain.CodeInvalidInput, err.Error())
		return
	}
	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	opts := lifecycle.DraftOptions{RatePercent: req.RatePercent, LineItems: req.LineItems}
	if req.Regime != "" {
		if opts.Regime, err = domain.ParseRegime(req.Regime); err != nil {
			h.HandleDomainError(c, err)
			return
		}
	}
	if req.ReturnType != "" {
		if opts.ReturnType, err = domain.ParseReturnType(req.ReturnType); err != nil {
			h.HandleDomainError(c, err)
			return
		}
	}

	rec, err := h.svc.CreateDraft(c.Request.Context(), kind, req.PeriodKey, req.Identity, opts)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, rec)
}

// Get returns one filing.
func (h *FilingHandler) Get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rec)
}

// UpdateItems applies a line-item patch.
func (h *FilingHandler) UpdateItems(c *gin.Context) {
	role, version, ok := h.actor(c)
	if !ok {
		return
	}
	var patch lifecycle.LineItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.Error(c, domain.CodeInvalidInput, err.Error())
		return
	}
	rec, err := h.svc.UpdateLineItems(c.Request.Context(), c.Param("id"), role, patch, version)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rec)
}

// Transition moves a filing to the requested status.
func (h *FilingHandler) Transition(c *gin.Context) {
	role, version, ok := h.actor(c)
	if !ok {
		return
	}
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, domain.CodeInvalidInput, err.Error())
		return
	}
	target, err := domain.ParseStatus(req.Target)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	rec, err := h.svc.Transition(c.Request.Context(), c.Param("id"), target, role, req.TransitionPayload, version)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rec)
}

// Delete removes a draft.
func (h *FilingHandler) Delete(c *gin.Context) {
	role, version, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), role, version); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Sheet streams the computation sheet PDF.
func (h *FilingHandler) Sheet(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Sheet(c.Request.Context(), c.Param("id"), &buf); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+c.Param("id")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// actor reads the caller's role and the optional If-Match version. It writes
// the error response itself and reports false when either is malformed.
func (h *FilingHandler) actor(c *gin.Context) (domain.Role, int64, bool) {
	role, err := domain.ParseRole(c.GetHeader(roleHeader))
	if err != nil {
		h.HandleDomainError(c, err)
		return "", 0, false
	}
	var version int64
	if raw := strings.Trim(c.GetHeader("If-Match"), `"W/ `); raw != "" {
		version, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || version < 0 {
			h.Error(c, domain.CodeInvalidInput, "If-Match must be a filing version")
			return "", 0, false
		}
	}
	return role, version, true
}
