package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/dto"
	"github.com/SscSPs/family_finance_agent/internal/middleware"
)

// DefaultKeepAlive is how often an idle change stream sends a comment frame.
const DefaultKeepAlive = 25 * time.Second

// financeHandler serves the dashboard views of the shared household data.
type financeHandler struct {
	finance   portssvc.FinanceSvcFacade
	keepAlive time.Duration
}

func registerFinanceRoutes(rg *gin.RouterGroup, finance portssvc.FinanceSvcFacade, keepAlive time.Duration) {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	h := &financeHandler{finance: finance, keepAlive: keepAlive}

	rg.GET("/transactions", h.listTransactions)
	rg.GET("/goals", h.listGoals)
	rg.GET("/categories", h.listCategories)
	rg.GET("/summary", h.getSummary)
	rg.GET("/summary/categories", h.getCategoryBreakdown)
	rg.GET("/changes", h.streamChanges)
}

func internalError(c *gin.Context, err error, msg string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Error(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Erro interno do servidor"})
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions by date then creation time, newest first.
// @Tags finance
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *financeHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	txns, next, err := h.finance.ListTransactions(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		internalError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns, next))
}

// listGoals godoc
// @Summary List goals
// @Tags finance
// @Produce json
// @Success 200 {array} dto.GoalResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /goals [get]
func (h *financeHandler) listGoals(c *gin.Context) {
	goals, err := h.finance.ListGoals(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to list goals")
		return
	}
	c.JSON(http.StatusOK, dto.ToGoalResponses(goals))
}

// listCategories godoc
// @Summary List categories
// @Tags finance
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *financeHandler) listCategories(c *gin.Context) {
	categories, err := h.finance.ListCategories(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponses(categories))
}

// getSummary godoc
// @Summary Household totals
// @Tags finance
// @Produce json
// @Success 200 {object} dto.SummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /summary [get]
func (h *financeHandler) getSummary(c *gin.Context) {
	summary, err := h.finance.GetSummary(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// getCategoryBreakdown godoc
// @Summary Expenses per category
// @Tags finance
// @Produce json
// @Success 200 {array} dto.CategoryAmountResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /summary/categories [get]
func (h *financeHandler) getCategoryBreakdown(c *gin.Context) {
	breakdown, err := h.finance.GetCategoryBreakdown(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to build category breakdown")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryAmountResponses(breakdown))
}

// streamChanges godoc
// @Summary Stream data changes
// @Description Server-sent "change" events naming the table and row that changed, so
// @Description dashboards know when to re-fetch. Accepts the token as access_token.
// @Tags finance
// @Produce text/event-stream
// @Success 200 {object} domain.ChangeEvent
// @Failure 404 {object} dto.ErrorResponse "No change feed configured"
// @Security BearerAuth
// @Router /changes [get]
func (h *financeHandler) streamChanges(c *gin.Context) {
	events, err := h.finance.SubscribeChanges(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
			return
		}
		internalError(c, err, "Failed to subscribe to changes")
		return
	}

	setEventStreamHeaders(c)
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case evt, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("change", evt)
			return true
		case <-ticker.C:
			_, err := io.WriteString(w, ": ping\n\n")
			return err == nil
		case <-c.Request.Context().Done():
			return false
		}
	})
}
