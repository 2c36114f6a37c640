package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/domain"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/transaction/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/httpx"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/middleware"
)

// Handler exposes the ledger endpoints.
type Handler struct {
	service service.Service
}

// New creates the transaction handler.
func New(service service.Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create a ledger entry
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateTransactionRequest true "Entry payload"
// @Success      201 {object} dto.TransactionResponse
// @Failure      400 {object} httpx.ErrorBody
// @Router       /transactions [post]
func (h *Handler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), middleware.PrincipalID(c), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, entry)
}

// List godoc
// @Summary      List ledger entries
// @Description  Filters: type, category_id, from, to (YYYY-MM-DD).
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "INCOME or EXPENSE"
// @Param        category_id query int false "Category id"
// @Param        from query string false "Start date"
// @Param        to query string false "End date"
// @Success      200 {array} dto.TransactionResponse
// @Router       /transactions [get]
func (h *Handler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	entries, err := h.service.List(c.Request.Context(), middleware.PrincipalID(c), filter)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, entries)
}

// ListByType godoc
// @Summary      List ledger entries of one type
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "INCOME or EXPENSE"
// @Success      200 {array} dto.TransactionResponse
// @Failure      400 {object} httpx.ErrorBody
// @Router       /transactions/type/{type} [get]
func (h *Handler) ListByType(c *gin.Context) {
	t := domain.Type(c.Param("type"))
	if !t.IsValid() {
		httpx.Error(c, apperr.Validationf("invalid transaction type %q", c.Param("type")))
		return
	}
	entries, err := h.service.List(c.Request.Context(), middleware.PrincipalID(c), repository.Filter{Type: t})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, entries)
}

// ListByCategory godoc
// @Summary      List ledger entries in one category
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId path int true "Category id"
// @Success      200 {array} dto.TransactionResponse
// @Failure      400 {object} httpx.ErrorBody
// @Router       /transactions/category/{categoryId} [get]
func (h *Handler) ListByCategory(c *gin.Context) {
	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	entries, err := h.service.List(c.Request.Context(), middleware.PrincipalID(c), repository.Filter{CategoryID: categoryID})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, entries)
}

// ListByRange godoc
// @Summary      List ledger entries inside a date range
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        start query string true "Start date (YYYY-MM-DD)"
// @Param        end query string true "End date (YYYY-MM-DD)"
// @Success      200 {array} dto.TransactionResponse
// @Failure      400 {object} httpx.ErrorBody
// @Router       /transactions/range [get]
func (h *Handler) ListByRange(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		httpx.Error(c, apperr.Validation("invalid start date, expected YYYY-MM-DD"))
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		httpx.Error(c, apperr.Validation("invalid end date, expected YYYY-MM-DD"))
		return
	}
	if end.Before(start) {
		httpx.Error(c, apperr.Validation("end date precedes start date"))
		return
	}
	entries, err := h.service.List(c.Request.Context(), middleware.PrincipalID(c), repository.Filter{From: start, To: end})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, entries)
}

// Get godoc
// @Summary      Get one ledger entry
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Entry id"
// @Success      200 {object} dto.TransactionResponse
// @Failure      404 {object} httpx.ErrorBody
// @Router       /transactions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	entry, err := h.service.Get(c.Request.Context(), middleware.PrincipalID(c), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, entry)
}

// Update godoc
// @Summary      Update a ledger entry
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Entry id"
// @Param        request body dto.UpdateTransactionRequest true "Entry payload"
// @Success      200 {object} dto.TransactionResponse
// @Failure      403 {object} httpx.ErrorBody
// @Router       /transactions/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	entry, err := h.service.Update(c.Request.Context(), middleware.PrincipalID(c), id, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, entry)
}

// Delete godoc
// @Summary      Delete a ledger entry
// @Tags         transactions
// @Security     BearerAuth
// @Param        id path int true "Entry id"
// @Success      204
// @Failure      403 {object} httpx.ErrorBody
// @Router       /transactions/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.PrincipalID(c), id); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.NoContent(c)
}

// Summary godoc
// @Summary      Ledger totals
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SummaryResponse
// @Router       /transactions/summary [get]
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, summary)
}

// Balance godoc
// @Summary      Running balance
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.BalanceResponse
// @Router       /transactions/balance [get]
func (h *Handler) Balance(c *gin.Context) {
	balance, err := h.service.Balance(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, dto.BalanceResponse{Balance: balance})
}

func parseFilter(c *gin.Context) (repository.Filter, error) {
	var filter repository.Filter

	if rawType := c.Query("type"); rawType != "" {
		t := domain.Type(rawType)
		if !t.IsValid() {
			return filter, apperr.Validationf("invalid transaction type %q", rawType)
		}
		filter.Type = t
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, apperr.Validationf("invalid category_id %q", raw)
		}
		filter.CategoryID = uint(id)
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperr.Validation("invalid from date, expected YYYY-MM-DD")
		}
		filter.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperr.Validation("invalid to date, expected YYYY-MM-DD")
		}
		filter.To = to
	}
	return filter, nil
}

func pathID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validationf("invalid %s %q", name, raw)
	}
	return uint(id), nil
}
