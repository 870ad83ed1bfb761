package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
	"github.com/ratemyrecipe/recipe-auth/internal/core/ports"
)

// AdminHandler exposes the admin-only account suspension endpoints.
type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type blockStatusResponse struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	BlockExpiresAt *time.Time `json:"block_expires_at"`
	Message        string     `json:"message"`
}

// Block suspends a user for a number of days.
//
// @Summary      Block a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Param        days    query     int     true  "Suspension length in days (1-36500)"
// @Success      200     {object}  blockStatusResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /api/admin/block/{userId} [post]
func (h *AdminHandler) Block(c echo.Context) error {
	var days int
	if err := echo.QueryParamsBinder(c).MustInt("days", &days).BindError(); err != nil {
		return fmt.Errorf("%w: days must be an integer", domain.ErrInvalidInput)
	}

	user, err := h.adminService.Block(c.Request().Context(), c.Param("userId"), days)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, blockStatusResponse{
		ID:             user.ID,
		Username:       user.Username,
		BlockExpiresAt: user.BlockExpiresAt,
		Message:        fmt.Sprintf("User blocked for %d days", days),
	})
}

// Unblock lifts a user's suspension immediately.
//
// @Summary      Unblock a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  blockStatusResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /api/admin/unblock/{userId} [post]
func (h *AdminHandler) Unblock(c echo.Context) error {
	user, err := h.adminService.Unblock(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, blockStatusResponse{
		ID:       user.ID,
		Username: user.Username,
		Message:  "User unblocked",
	})
}
