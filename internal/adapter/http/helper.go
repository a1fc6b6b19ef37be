package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	loanDomain "lendora-backend/internal/domain/loan"
	userDomain "lendora-backend/internal/domain/user"
)

// ---- helpers ----

// domainErrJSON maps domain sentinel errors to HTTP codes; anything
// unrecognized is a 500 with a generic message.
func domainErrJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loanDomain.ErrNotFound), errors.Is(err, userDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, loanDomain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loanDomain.ErrNotBorrower), errors.Is(err, loanDomain.ErrNotLender):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, userDomain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
