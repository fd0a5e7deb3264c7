package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ticketbari/marketplace/internal/middleware"
	"github.com/ticketbari/marketplace/internal/model"
	"github.com/ticketbari/marketplace/internal/repository"
)

// VendorHandler covers the vendor surface: submitting listings, reviewing
// their own inventory and working the booking requests that come in.
type VendorHandler struct {
	Tickets  *repository.TicketRepo
	Bookings *repository.BookingRepo
}

func NewVendorHandler(tickets *repository.TicketRepo, bookings *repository.BookingRepo) *VendorHandler {
	return &VendorHandler{Tickets: tickets, Bookings: bookings}
}

type createTicketReq struct {
	Title          string `json:"title"`
	TicketType     string `json:"ticketType"`
	From           string `json:"from"`
	To             string `json:"to"`
	DepartureAt    string `json:"departureAt"`
	Price          string `json:"price"`
	SeatsAvailable int64  `json:"seatsAvailable"`
	ImageURL       string `json:"imageUrl"`
}

func (r *createTicketReq) validate() (model.Ticket, error) {
	var t model.Ticket
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return t, errors.New("title is required")
	}
	switch r.TicketType {
	case "bus", "train", "launch", "plane":
	default:
		return t, errors.New("ticketType must be one of bus, train, launch, plane")
	}
	if strings.TrimSpace(r.From) == "" || strings.TrimSpace(r.To) == "" {
		return t, errors.New("from and to are required")
	}
	dep, err := time.Parse(time.RFC3339, r.DepartureAt)
	if err != nil {
		return t, errors.New("departureAt must be an RFC3339 timestamp")
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return t, errors.New("price must be a non-negative decimal")
	}
	if r.SeatsAvailable < 0 {
		return t, errors.New("seatsAvailable must not be negative")
	}
	t = model.Ticket{
		Title:          r.Title,
		TicketType:     r.TicketType,
		From:           strings.TrimSpace(r.From),
		To:             strings.TrimSpace(r.To),
		DepartureAt:    dep.UTC(),
		Price:          price,
		SeatsAvailable: r.SeatsAvailable,
		ImageURL:       strings.TrimSpace(r.ImageURL),
	}
	return t, nil
}

// CreateTicket handles POST /tickets (vendor).  New listings always start in
// pending verification regardless of what the payload claims.
func (h *VendorHandler) CreateTicket(c echo.Context) error {
	var req createTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, err := req.validate()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	t.VendorEmail = middleware.CallerEmail(c)

	id, err := h.Tickets.Create(c.Request().Context(), t)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"insertedId": id})
}

// MyTickets handles GET /tickets/vendor: every listing owned by the caller,
// in any verification state.
func (h *VendorHandler) MyTickets(c echo.Context) error {
	tickets, err := h.Tickets.ListByVendor(c.Request().Context(), middleware.CallerEmail(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, tickets)
}

// DeleteTicket handles DELETE /tickets/:id (vendor).  Only the owning vendor
// may remove a listing.
func (h *VendorHandler) DeleteTicket(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	err = h.Tickets.DeleteOwned(c.Request().Context(), id, middleware.CallerEmail(c))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ticket"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deletedCount": 1})
}

// RequestedBookings handles GET /bookings/vendor: all bookings placed against
// the caller's tickets, joined with the ticket title.
func (h *VendorHandler) RequestedBookings(c echo.Context) error {
	rows, err := h.Bookings.ListForVendor(c.Request().Context(), middleware.CallerEmail(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rows)
}

type bookingStatusReq struct {
	Status string `json:"status"`
}

// SetBookingStatus handles PATCH /bookings/status/:id (vendor): accept or
// reject a pending booking request.
func (h *VendorHandler) SetBookingStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	var req bookingStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	n, err := h.Bookings.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidStatus) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"matchedCount": n, "modifiedCount": n})
}
