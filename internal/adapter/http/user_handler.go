package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	userDomain "lendora-backend/internal/domain/user"
	"lendora-backend/internal/usecase/user"
)

type UserHandler struct{ uc *user.Usecase }

func NewUserHandler(uc *user.Usecase) *UserHandler { return &UserHandler{uc: uc} }

type createUserReq struct {
	Name        string `json:"name"         validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	Role        string `json:"role"         validate:"required,role"`
	CreditScore int    `json:"credit_score" validate:"gte=0,lte=850"`
}

// CreateUser returns the generated one-time password in the response body;
// no read endpoint ever shows it again.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), user.CreateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		Role:        userDomain.Role(req.Role),
		CreditScore: req.CreditScore,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	userID := c.Param("user_id")
	if !reHex32.MatchString(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), userID)
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	role := userDomain.Role(c.QueryParam("role"))
	if role != "" && !role.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid role filter"})
	}
	dtos, err := h.uc.List(c.Request().Context(), role)
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
