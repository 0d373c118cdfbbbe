package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/middleware"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/service"
	"github.com/lautaromiller11/PayBoard2-sub000/pkg/pagination"
	"github.com/lautaromiller11/PayBoard2-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	transactions := router.Group("/api/transactions")
	transactions.Use(middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	{
		transactions.GET("", h.ListTransactions)
		transactions.GET("/summary", h.MonthlySummary)
		transactions.POST("", h.CreateTransaction)
		transactions.PUT("/:id", h.UpdateTransaction)
		transactions.DELETE("/:id", h.DeleteTransaction)
	}
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	p := pagination.Parse(c)

	transactions, total, err := h.transactionService.ListTransactions(c.Request.Context(), middleware.UserID(c), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, transactions, total, p.Page, p.Limit))
}

// MonthlySummary aggregates income, expenses and per-category totals for one month.
// Defaults to the current month when year/month are omitted.
func (h *TransactionHandler) MonthlySummary(c *gin.Context) {
	now := time.Now()
	year, err := parseIntQuery(c, "year", now.Year())
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "year must be a number"))
		return
	}
	month, err := parseIntQuery(c, "month", int(now.Month()))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "month must be a number"))
		return
	}
	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "month must be between 1 and 12"))
		return
	}

	summary, err := h.transactionService.MonthlySummary(c.Request.Context(), middleware.UserID(c), year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, transaction))
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req service.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, transaction))
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

func (h *TransactionHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
}

func parseIntQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
