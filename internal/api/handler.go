package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/fidpulse/fidpulse/internal/domain/dto"
	"github.com/fidpulse/fidpulse/internal/service"
)

// Handler provides HTTP handlers for the imported-transactions endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Call the service layer
//   - Translate domain results into response DTOs with appropriate
//     HTTP status codes
type Handler struct {
	svc service.TransactionService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.TransactionService) *Handler {
	return &Handler{svc: svc}
}

// GetTransactions handles GET /api/v1/transactions requests.
//
// GetTransactions godoc
// @Summary      List transactions for an account
// @Description  Returns imported transactions for the given source account, optionally bounded by transaction date
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        account     query     string  true   "Sanitized source account" example(Roth-IRA-1234)
// @Param        start_date  query     string  false  "Start date in YYYY-MM-DD" example(2024-01-01)
// @Param        end_date    query     string  false  "End date in YYYY-MM-DD" example(2024-12-31)
// @Success      200         {array}   dto.TransactionResponse  "Success"
// @Failure      400         {object}  dto.ErrorResponse        "Bad Request"
// @Failure      404         {object}  dto.ErrorResponse        "Not Found"
// @Failure      500         {object}  dto.ErrorResponse        "Internal Error"
// @Router       /api/v1/transactions [get]
func (h *Handler) GetTransactions(c *gin.Context) {
	account := strings.TrimSpace(c.Query("account"))
	if account == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("account is required", nil))
		return
	}

	var startDate, endDate *time.Time
	if s := c.Query("start_date"); s != "" {
		parsed, err := time.Parse(time.DateOnly, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid start_date format, expected YYYY-MM-DD", err))
			return
		}
		startDate = &parsed
	}
	if s := c.Query("end_date"); s != "" {
		parsed, err := time.Parse(time.DateOnly, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid end_date format, expected YYYY-MM-DD", err))
			return
		}
		endDate = &parsed
	}

	txns, err := h.svc.ListTransactions(c.Request.Context(), account, startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch transactions", err))
		return
	}
	if len(txns) == 0 {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no transactions found", nil))
		return
	}

	resp := make([]dto.TransactionResponse, 0, len(txns))
	for _, t := range txns {
		resp = append(resp, dto.NewTransactionResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// GetImports handles GET /api/v1/imports requests.
//
// GetImports godoc
// @Summary      List the import log
// @Description  Returns every recorded import, most recent first
// @Tags         imports
// @Accept       json
// @Produce      json
// @Success      200  {array}   dto.ImportResponse  "Success"
// @Failure      500  {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/imports [get]
func (h *Handler) GetImports(c *gin.Context) {
	imports, err := h.svc.ListImports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch import log", err))
		return
	}

	resp := make([]dto.ImportResponse, 0, len(imports))
	for _, rec := range imports {
		resp = append(resp, dto.NewImportResponse(rec))
	}
	c.JSON(http.StatusOK, resp)
}
