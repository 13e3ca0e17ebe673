package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mitraportal/partner-system/internal/core/ports"
)

// RestaurantHandler exposes the partner-owned restaurant resource. Every
// operation except ListAll is scoped to the authenticated user.
type RestaurantHandler struct {
	restaurantService ports.RestaurantService
}

func NewRestaurantHandler(restaurantService ports.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: restaurantService}
}

type createRestaurantRequest struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
	Menu     string `json:"menu" validate:"required"`
}

func (h *RestaurantHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createRestaurantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.restaurantService.Create(c.Request().Context(), ports.CreateRestaurantInput{
		UserID:   claims.UserID,
		Name:     req.Name,
		Location: req.Location,
		Menu:     req.Menu,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, attachRenewedToken(c, map[string]any{
		"message":            "Successfully created restaurant.",
		"created_restaurant": created,
	}))
}

func (h *RestaurantHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	restaurant, err := h.restaurantService.GetByOwner(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, attachRenewedToken(c, map[string]any{
		"restaurant": restaurant,
	}))
}

// ListAll is public: no session required.
func (h *RestaurantHandler) ListAll(c echo.Context) error {
	restaurants, err := h.restaurantService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"restaurants": restaurants,
	})
}

type updateMenuRequest struct {
	Menu string `json:"menu" validate:"required"`
}

func (h *RestaurantHandler) UpdateMenu(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateMenuRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.restaurantService.UpdateMenu(c.Request().Context(), claims.UserID, req.Menu)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, attachRenewedToken(c, map[string]any{
		"message":    "Successfully updated menu.",
		"restaurant": updated,
	}))
}
