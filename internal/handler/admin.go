package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ticketbari/marketplace/internal/repository"
)

// AdminHandler covers moderation of the catalogue and the platform overview
// numbers.
type AdminHandler struct {
	Tickets *repository.TicketRepo
	Stats   *repository.StatsRepo
}

func NewAdminHandler(tickets *repository.TicketRepo, stats *repository.StatsRepo) *AdminHandler {
	return &AdminHandler{Tickets: tickets, Stats: stats}
}

// AllTickets handles GET /tickets/all (admin): every listing in every
// verification state, for the moderation queue.
func (h *AdminHandler) AllTickets(c echo.Context) error {
	tickets, err := h.Tickets.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, tickets)
}

type verificationReq struct {
	Status string `json:"status"`
}

// SetVerification handles PATCH /tickets/status/:id (admin): approve or
// reject a pending listing.
func (h *AdminHandler) SetVerification(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	var req verificationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	n, err := h.Tickets.SetVerification(c.Request().Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidStatus) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"matchedCount": n, "modifiedCount": n})
}

type advertiseReq struct {
	IsAdvertised bool `json:"isAdvertised"`
}

// SetAdvertised handles PATCH /tickets/advertise/:id (admin): toggle the
// homepage banner flag on an approved listing.
func (h *AdminHandler) SetAdvertised(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	var req advertiseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	n, err := h.Tickets.SetAdvertised(c.Request().Context(), id, req.IsAdvertised)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"matchedCount": n, "modifiedCount": n})
}

// Overview handles GET /admin-stats (admin).
func (h *AdminHandler) Overview(c echo.Context) error {
	stats, err := h.Stats.Load(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stats)
}
