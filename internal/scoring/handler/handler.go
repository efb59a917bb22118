// Package handler provides HTTP handlers for the scoring module.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadscore_backend/internal/scoring/service"
	"leadscore_backend/internal/scoring/transport"
	"leadscore_backend/platform/httpkit"
	"leadscore_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead ID"
	msgInvalidRuleID    = "invalid rule ID"
)

// Handler handles HTTP requests for scoring configuration, rules,
// previews, and rescoring.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new scoring handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterProtected mounts read/preview/rescore routes.
func (h *Handler) RegisterProtected(group *gin.RouterGroup) {
	group.GET("/config", h.GetConfig)
	group.GET("/rules", h.ListRules)
	group.POST("/preview", h.Preview)
	group.POST("/leads/:leadId/rescore", h.RescoreLead)
}

// RegisterAdmin mounts configuration and rule management routes.
func (h *Handler) RegisterAdmin(group *gin.RouterGroup) {
	group.PUT("/config", h.UpdateConfig)
	group.POST("/rules", h.CreateRule)
	group.PUT("/rules/:ruleId", h.UpdateRule)
	group.PATCH("/rules/:ruleId/enabled", h.SetRuleEnabled)
	group.DELETE("/rules/:ruleId", h.DeleteRule)
}

// GetConfig returns the effective scoring configuration.
// GET /api/v1/scoring/config
func (h *Handler) GetConfig(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetConfig(c.Request.Context(), identity.OrgID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateConfig replaces the scoring configuration.
// PUT /api/v1/admin/scoring/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req transport.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdateConfig(c.Request.Context(), identity.OrgID(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListRules returns all scoring rules, ordered, including disabled ones.
// GET /api/v1/scoring/rules
func (h *Handler) ListRules(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListRules(c.Request.Context(), identity.OrgID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateRule adds a scoring rule.
// POST /api/v1/admin/scoring/rules
func (h *Handler) CreateRule(c *gin.Context) {
	var req transport.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.CreateRule(c.Request.Context(), identity.OrgID(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateRule modifies a scoring rule.
// PUT /api/v1/admin/scoring/rules/:ruleId
func (h *Handler) UpdateRule(c *gin.Context) {
	ruleID, err := uuid.Parse(c.Param("ruleId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRuleID, nil)
		return
	}
	var req transport.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdateRule(c.Request.Context(), ruleID, identity.OrgID(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetRuleEnabled toggles a scoring rule.
// PATCH /api/v1/admin/scoring/rules/:ruleId/enabled
func (h *Handler) SetRuleEnabled(c *gin.Context) {
	ruleID, err := uuid.Parse(c.Param("ruleId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRuleID, nil)
		return
	}
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.SetRuleEnabled(c.Request.Context(), ruleID, identity.OrgID(), identity.UserID(), *req.Enabled)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteRule removes a scoring rule.
// DELETE /api/v1/admin/scoring/rules/:ruleId
func (h *Handler) DeleteRule(c *gin.Context) {
	ruleID, err := uuid.Parse(c.Param("ruleId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRuleID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.DeleteRule(c.Request.Context(), ruleID, identity.OrgID(), identity.UserID()); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Preview scores an ad-hoc lead without persisting anything.
// POST /api/v1/scoring/preview
func (h *Handler) Preview(c *gin.Context) {
	var req transport.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Preview(c.Request.Context(), identity.OrgID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RescoreLead re-runs scoring for a stored lead.
// POST /api/v1/scoring/leads/:leadId/rescore
func (h *Handler) RescoreLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.RequestLeadRescore(c.Request.Context(), leadID, identity.OrgID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, result)
}
