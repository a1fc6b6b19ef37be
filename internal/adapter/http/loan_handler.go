package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	loanDomain "lendora-backend/internal/domain/loan"
	"lendora-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	BorrowerID   string  `json:"borrower_id"   validate:"required,hex32"`
	Amount       float64 `json:"amount"        validate:"required,gt=0,dec2"`
	InterestRate float64 `json:"interest_rate" validate:"gte=0,lte=100,dec2"`
	TermMonths   int     `json:"term_months"   validate:"required,gte=1,lte=360"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput(req))
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	f := loanDomain.ListFilter{
		BorrowerID: c.QueryParam("borrower_id"),
		LenderID:   c.QueryParam("lender_id"),
		Status:     loanDomain.Status(c.QueryParam("status")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status filter"})
	}
	dtos, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

type updateStatusReq struct {
	Status   string `json:"status"    validate:"required,loanstatus"`
	LenderID string `json:"lender_id" validate:"omitempty,hex32"`
}

// UpdateLoanStatus drives the lifecycle: approve, reject, fund (which lands
// in repaying and generates the schedule) and close.
func (h *LoanHandler) UpdateLoanStatus(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.UpdateStatus(c.Request().Context(), loan.UpdateStatusInput{
		LoanID:   loanID,
		Status:   loanDomain.Status(req.Status),
		LenderID: req.LenderID,
	})
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type addRepaymentReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *LoanHandler) AddRepayment(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	var req addRepaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.AddRepayment(c.Request().Context(), loanID, req.Amount)
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
