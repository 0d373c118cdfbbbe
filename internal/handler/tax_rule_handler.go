package handler

import (
	"errors"
	"net/http"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/middleware"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/service"
	"github.com/lautaromiller11/PayBoard2-sub000/pkg/pagination"
	"github.com/lautaromiller11/PayBoard2-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxRuleHandler struct {
	taxRuleService service.TaxRuleService
}

func NewTaxRuleHandler(taxRuleService service.TaxRuleService) *TaxRuleHandler {
	return &TaxRuleHandler{taxRuleService: taxRuleService}
}

func (h *TaxRuleHandler) RegisterRoutes(router *gin.RouterGroup) {
	rules := router.Group("/api/tax-rules")
	rules.Use(middleware.RequireRole(model.RoleAdmin))
	{
		rules.GET("", h.ListTaxRules)
		rules.POST("", h.CreateTaxRule)
		rules.PUT("/:id", h.UpdateTaxRule)
		rules.DELETE("/:id", h.DeactivateTaxRule)
	}
}

// ListTaxRules returns all configured tax rules
func (h *TaxRuleHandler) ListTaxRules(c *gin.Context) {
	p := pagination.Parse(c)

	rules, total, err := h.taxRuleService.ListTaxRules(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rules, total, p.Page, p.Limit))
}

// CreateTaxRule creates a new tax rule entry
func (h *TaxRuleHandler) CreateTaxRule(c *gin.Context) {
	var req service.CreateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.taxRuleService.CreateTaxRule(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// UpdateTaxRule updates an existing tax rule
func (h *TaxRuleHandler) UpdateTaxRule(c *gin.Context) {
	var req service.UpdateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.taxRuleService.UpdateTaxRule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}

// DeactivateTaxRule marks a rule inactive without deleting its history
func (h *TaxRuleHandler) DeactivateTaxRule(c *gin.Context) {
	if err := h.taxRuleService.DeactivateTaxRule(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deactivated": true}))
}
