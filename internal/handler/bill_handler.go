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

type BillHandler struct {
	billService service.BillService
}

func NewBillHandler(billService service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

func (h *BillHandler) RegisterRoutes(router *gin.RouterGroup) {
	bills := router.Group("/api/bills")
	bills.Use(middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	{
		bills.GET("", h.ListBills)
		bills.POST("", h.CreateBill)
		bills.GET("/:id", h.GetBill)
		bills.PUT("/:id", h.UpdateBill)
		bills.DELETE("/:id", h.DeleteBill)
		bills.POST("/:id/pay", h.PayBill)
	}
}

// ListBills returns the authenticated user's bills
func (h *BillHandler) ListBills(c *gin.Context) {
	p := pagination.Parse(c)

	bills, total, err := h.billService.ListBills(c.Request.Context(), middleware.UserID(c), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, bills, total, p.Page, p.Limit))
}

// CreateBill registers a new recurring or one-off bill
func (h *BillHandler) CreateBill(c *gin.Context) {
	var req service.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, bill))
}

func (h *BillHandler) GetBill(c *gin.Context) {
	bill, err := h.billService.GetBill(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bill))
}

func (h *BillHandler) UpdateBill(c *gin.Context) {
	var req service.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bill))
}

func (h *BillHandler) DeleteBill(c *gin.Context) {
	if err := h.billService.DeleteBill(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// PayBill records a payment, creating the matching expense transaction
func (h *BillHandler) PayBill(c *gin.Context) {
	var req service.PayBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	transaction, err := h.billService.PayBill(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, transaction))
}

func (h *BillHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
}
