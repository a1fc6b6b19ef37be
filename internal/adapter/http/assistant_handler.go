package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"lendora-backend/internal/usecase/assistant"
)

type AssistantHandler struct{ uc *assistant.Usecase }

func NewAssistantHandler(uc *assistant.Usecase) *AssistantHandler {
	return &AssistantHandler{uc: uc}
}

type askReq struct {
	Question string `json:"question" validate:"required"`
}

type askResp struct {
	Answer string `json:"answer"`
}

func (h *AssistantHandler) Ask(c echo.Context) error {
	var req askReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	answer, err := h.uc.Ask(c.Request().Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrDisabled):
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "assistant is not configured"})
		case errors.Is(err, assistant.ErrEmptyQuestion):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			return domainErrJSON(c, err)
		}
	}
	return c.JSON(http.StatusOK, askResp{Answer: answer})
}
