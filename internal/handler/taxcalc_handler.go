package handler

import (
	"errors"
	"net/http"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/middleware"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/service"
	"github.com/lautaromiller11/PayBoard2-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxCalculationHandler struct {
	taxCalcService service.TaxCalculationService
}

func NewTaxCalculationHandler(taxCalcService service.TaxCalculationService) *TaxCalculationHandler {
	return &TaxCalculationHandler{taxCalcService: taxCalcService}
}

func (h *TaxCalculationHandler) RegisterRoutes(router *gin.RouterGroup) {
	tc := router.Group("/api/tax-calculation")
	{
		// Public catalog/health endpoints
		tc.GET("/regions", h.Regions)
		tc.GET("/payment-methods", h.PaymentMethods)
		tc.GET("/health", h.Health)

		tc.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleUser), h.Calculate)
		tc.POST("/refresh-rates", middleware.RequireRole(model.RoleAdmin), h.RefreshRates)
	}
}

// Calculate computes the tax-inclusive local-currency price for a purchase
// @Summary      Calculate purchase taxes
// @Description  Converts the price to ARS when needed and itemizes every applicable tax for the given region and payment method
// @Tags         tax-calculation
// @Produce      json
// @Security     BearerAuth
// @Param        price            query     string  true   "Positive decimal price"
// @Param        currency         query     string  true   "ARS or USD"
// @Param        region           query     string  true   "Region code, e.g. CABA"
// @Param        paymentMethod    query     string  true   "Payment method, e.g. credit_card"
// @Param        productCategory  query     string  false  "Free-form category, defaults to 'other'"
// @Success      200  {object}  response.Response{data=service.CalculationResponse}
// @Failure      400  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /api/tax-calculation [get]
func (h *TaxCalculationHandler) Calculate(c *gin.Context) {
	var req service.CalculationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query parameters: "+err.Error()))
		return
	}

	result, err := h.taxCalcService.Calculate(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, verr.Error()))
		case errors.Is(err, service.ErrRateUnavailable):
			c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Regions lists the valid region codes
// @Summary      List regions
// @Tags         tax-calculation
// @Produce      json
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /api/tax-calculation/regions [get]
func (h *TaxCalculationHandler) Regions(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.taxCalcService.Regions()))
}

// PaymentMethods lists the supported payment methods with labels
// @Summary      List payment methods
// @Tags         tax-calculation
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.PaymentMethodOption}
// @Router       /api/tax-calculation/payment-methods [get]
func (h *TaxCalculationHandler) PaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.taxCalcService.PaymentMethods()))
}

// RefreshRates forces a refresh of every mapped rate type
// @Summary      Refresh exchange rates
// @Description  Invalidates the cache and refetches every rate type, reporting per-type status
// @Tags         tax-calculation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RateRefreshResult}
// @Router       /api/tax-calculation/refresh-rates [post]
func (h *TaxCalculationHandler) RefreshRates(c *gin.Context) {
	results := h.taxCalcService.RefreshRates(c.Request.Context())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, results))
}

// Health reports reachability of the store, cache and quote provider
// @Summary      Tax calculation health
// @Tags         tax-calculation
// @Produce      json
// @Success      200  {object}  response.Response{data=service.HealthReport}
// @Failure      503  {object}  response.Response{data=service.HealthReport}
// @Router       /api/tax-calculation/health [get]
func (h *TaxCalculationHandler) Health(c *gin.Context) {
	report := h.taxCalcService.Health(c.Request.Context())

	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response.Success(status, report))
}
