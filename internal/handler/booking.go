package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ticketbari/marketplace/internal/middleware"
	"github.com/ticketbari/marketplace/internal/model"
	"github.com/ticketbari/marketplace/internal/monitoring"
	"github.com/ticketbari/marketplace/internal/repository"
)

// BookingHandler covers the buyer's booking lifecycle: placing a reservation,
// listing own bookings and cancelling unpaid ones.
type BookingHandler struct {
	Tickets  *repository.TicketRepo
	Bookings *repository.BookingRepo
}

func NewBookingHandler(tickets *repository.TicketRepo, bookings *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Tickets: tickets, Bookings: bookings}
}

type createBookingReq struct {
	TicketID uint64 `json:"ticketId"`
	Quantity int64  `json:"quantity"`
}

// Create handles POST /bookings.  The seat decrement and the booking insert
// commit in one transaction: either the buyer holds the seats and a pending
// booking exists, or neither happened.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TicketID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticketId is required"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.GetApprovedByID(ctx, req.TicketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	total := t.Price.Mul(decimal.NewFromInt(req.Quantity))

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	defer tx.Rollback()

	if err := h.Tickets.ReserveSeatsTx(ctx, tx, req.TicketID, req.Quantity); err != nil {
		if errors.Is(err, repository.ErrSoldOut) {
			monitoring.BookingSoldOut()
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "not enough seats available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	id, err := h.Bookings.CreateTx(ctx, tx, model.Booking{
		TicketID:   req.TicketID,
		UserEmail:  middleware.CallerEmail(c),
		Quantity:   req.Quantity,
		TotalPrice: total,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	monitoring.BookingCreated()
	return c.JSON(http.StatusCreated, echo.Map{"insertedId": id})
}

// Mine handles GET /bookings: the caller's own bookings, newest first.
func (h *BookingHandler) Mine(c echo.Context) error {
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), middleware.CallerEmail(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// Cancel handles DELETE /bookings/:id.  Paid bookings can never be cancelled.
// The row delete and the seat restore commit together so cancelled seats go
// straight back on sale.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.UserEmail != middleware.CallerEmail(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}
	if b.Status == model.BookingPaid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "paid bookings cannot be cancelled"})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	defer tx.Rollback()

	n, err := h.Bookings.DeleteTx(ctx, tx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err := h.Tickets.RestoreSeatsTx(ctx, tx, b.TicketID, b.Quantity); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	monitoring.BookingCancelled()
	return c.JSON(http.StatusOK, echo.Map{"deletedCount": n})
}
