package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"lendora-backend/internal/adapter/middleware"
	userDomain "lendora-backend/internal/domain/user"
	"lendora-backend/internal/usecase/auth"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userDomain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		}
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context(), middleware.SessionToken(c)); err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	su := middleware.CurrentSessionUser(c)
	if su == nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	return c.JSON(http.StatusOK, su)
}

type selectUserReq struct {
	UserID string `json:"user_id" validate:"required,hex32"`
}

func (h *AuthHandler) SelectedUser(c echo.Context) error {
	su, err := h.uc.SelectedUser(c.Request().Context(), middleware.SessionToken(c))
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, su)
}

func (h *AuthHandler) SelectUser(c echo.Context) error {
	var req selectUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	su, err := h.uc.SelectUser(c.Request().Context(), middleware.SessionToken(c), req.UserID)
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, su)
}
