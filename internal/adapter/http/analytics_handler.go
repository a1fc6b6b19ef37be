package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"lendora-backend/internal/usecase/analytics"
)

type AnalyticsHandler struct{ uc *analytics.Usecase }

func NewAnalyticsHandler(uc *analytics.Usecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

type summaryResp struct {
	Platform           *analytics.PlatformSummary `json:"platform"`
	AmountBuckets      []analytics.Bucket         `json:"amount_buckets"`
	CreditScoreBuckets []analytics.Bucket         `json:"credit_score_buckets"`
}

// Summary bundles the analyst dashboard numbers into one response.
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	platform, err := h.uc.PlatformSummary(ctx)
	if err != nil {
		return domainErrJSON(c, err)
	}
	amounts, err := h.uc.AmountBuckets(ctx)
	if err != nil {
		return domainErrJSON(c, err)
	}
	scores, err := h.uc.CreditScoreBuckets(ctx)
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, summaryResp{
		Platform:           platform,
		AmountBuckets:      amounts,
		CreditScoreBuckets: scores,
	})
}

func (h *AnalyticsHandler) LenderSummary(c echo.Context) error {
	userID := c.Param("user_id")
	if !reHex32.MatchString(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}
	sum, err := h.uc.LenderSummary(c.Request().Context(), userID)
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *AnalyticsHandler) BorrowerSummary(c echo.Context) error {
	userID := c.Param("user_id")
	if !reHex32.MatchString(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}
	sum, err := h.uc.BorrowerSummary(c.Request().Context(), userID)
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *AnalyticsHandler) StatusChart(c echo.Context) error {
	counts, err := h.uc.StatusDistribution(c.Request().Context())
	if err != nil {
		return domainErrJSON(c, err)
	}
	png, err := analytics.RenderStatusPie(counts)
	return h.servePNG(c, png, err)
}

func (h *AnalyticsHandler) AmountsChart(c echo.Context) error {
	buckets, err := h.uc.AmountBuckets(c.Request().Context())
	if err != nil {
		return domainErrJSON(c, err)
	}
	png, err := analytics.RenderBucketBars("Loan Amount Distribution", buckets)
	return h.servePNG(c, png, err)
}

func (h *AnalyticsHandler) CreditScoresChart(c echo.Context) error {
	buckets, err := h.uc.CreditScoreBuckets(c.Request().Context())
	if err != nil {
		return domainErrJSON(c, err)
	}
	png, err := analytics.RenderBucketBars("Borrower Credit Score Distribution", buckets)
	return h.servePNG(c, png, err)
}

func (h *AnalyticsHandler) servePNG(c echo.Context, png []byte, err error) error {
	if err != nil {
		if errors.Is(err, analytics.ErrNoData) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no data to chart"})
		}
		return domainErrJSON(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
