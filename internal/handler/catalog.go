package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ticketbari/marketplace/internal/config"
	"github.com/ticketbari/marketplace/internal/repository"
)

// CatalogHandler serves the public, unauthenticated ticket catalogue.  Only
// approved tickets ever leave through these endpoints.
type CatalogHandler struct {
	Cfg     config.Config
	Tickets *repository.TicketRepo
}

func NewCatalogHandler(cfg config.Config, tickets *repository.TicketRepo) *CatalogHandler {
	return &CatalogHandler{Cfg: cfg, Tickets: tickets}
}

// Browse handles GET /tickets: paginated search over the approved catalogue
// with optional keyword, transport filter and price/date sorting.
func (h *CatalogHandler) Browse(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = h.Cfg.DefaultPageSize
	}

	q := repository.SearchQuery{
		Search:   c.QueryParam("search"),
		Filter:   c.QueryParam("filter"),
		Sort:     c.QueryParam("sort"),
		Page:     page,
		PageSize: limit,
	}
	tickets, total, err := h.Tickets.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tickets":      tickets,
		"totalTickets": total,
		"totalPages":   totalPages,
		"currentPage":  page,
		"limit":        limit,
	})
}

// Advertised handles GET /tickets/advertised: approved tickets flagged for
// the homepage banner, capped at five.
func (h *CatalogHandler) Advertised(c echo.Context) error {
	tickets, err := h.Tickets.ListAdvertised(c.Request().Context(), 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, tickets)
}

// Latest handles GET /tickets/latest: the eight most recently added approved
// tickets.
func (h *CatalogHandler) Latest(c echo.Context) error {
	tickets, err := h.Tickets.ListLatest(c.Request().Context(), 8)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, tickets)
}

// Detail handles GET /tickets/:id.  Tickets that exist but are not approved
// look the same as missing ones from the outside.
func (h *CatalogHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	t, err := h.Tickets.GetApprovedByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}
