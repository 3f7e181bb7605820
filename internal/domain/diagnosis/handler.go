package diagnosis

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/diagnose", h.Diagnose)
}

func (h *Handler) Diagnose(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.Diagnose(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUpstreamFormat):
			return echo.NewHTTPError(http.StatusInternalServerError, "AI response format error.")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process your request.")
		}
	}
	return c.JSON(http.StatusOK, result)
}
