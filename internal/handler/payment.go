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
	"github.com/ticketbari/marketplace/internal/payment"
	"github.com/ticketbari/marketplace/internal/queue"
	"github.com/ticketbari/marketplace/internal/repository"
	queuepublisher "github.com/ticketbari/marketplace/internal/service"
)

// PaymentHandler covers the payment flow: creating a card payment intent,
// finalizing a paid booking and listing the caller's payment history.
type PaymentHandler struct {
	Tickets  *repository.TicketRepo
	Bookings *repository.BookingRepo
	Payments *repository.PaymentRepo
	Intents  payment.IntentCreator
}

func NewPaymentHandler(tickets *repository.TicketRepo, bookings *repository.BookingRepo, payments *repository.PaymentRepo, intents payment.IntentCreator) *PaymentHandler {
	return &PaymentHandler{Tickets: tickets, Bookings: bookings, Payments: payments, Intents: intents}
}

type intentReq struct {
	Price string `json:"price"`
}

// CreateIntent handles POST /create-payment-intent: a decimal price in, a
// processor client secret out.  The amount converts to integer cents before
// it reaches the processor.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var req intentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a decimal"})
	}
	cents := price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	secret, err := h.Intents.CreateIntent(c.Request().Context(), cents, "usd")
	if err != nil {
		if errors.Is(err, payment.ErrInvalidAmount) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be at least 0.01"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment intent failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"clientSecret": secret})
}

type finalizeReq struct {
	TransactionID string `json:"transactionId"`
}

// Finalize handles PATCH /bookings/pay/:id.  The payment record insert and
// the booking status flip commit in one transaction; the booking row is
// locked while it runs so a double submit cannot record two payments.  Seats
// were already taken at reservation time, so no inventory change happens
// here.
func (h *PaymentHandler) Finalize(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	var req finalizeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TransactionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transactionId is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	defer tx.Rollback()

	b, err := h.Bookings.GetByIDTx(ctx, tx, id)
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
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is already paid"})
	}

	paidAt := time.Now().UTC()
	paymentID, err := h.Payments.CreateTx(ctx, tx, model.Payment{
		BookingID:     b.ID,
		TicketID:      b.TicketID,
		Email:         b.UserEmail,
		Quantity:      b.Quantity,
		TotalPrice:    b.TotalPrice,
		TransactionID: req.TransactionID,
		Status:        model.BookingPaid,
		PaidAt:        paidAt,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	n, err := h.Bookings.MarkPaidTx(ctx, tx, b.ID, req.TransactionID, paidAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}

	monitoring.PaymentFinalized()

	title := ""
	if t, terr := h.Tickets.GetByID(ctx, b.TicketID); terr == nil {
		title = t.Title
	}
	event := queue.PaymentCompletedEvent{
		PaymentID:     paymentID,
		BookingID:     b.ID,
		TicketID:      b.TicketID,
		TicketTitle:   title,
		PayerEmail:    b.UserEmail,
		Quantity:      b.Quantity,
		TotalPrice:    b.TotalPrice.StringFixed(2),
		TransactionID: req.TransactionID,
		PaidAt:        paidAt.Format(time.RFC3339),
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		_ = queuepublisher.PublishPaymentCompleted(pctx, event)
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"success":             true,
		"insertResult":        echo.Map{"insertedId": paymentID},
		"updateBookingResult": echo.Map{"matchedCount": n, "modifiedCount": n},
	})
}

// Mine handles GET /payments: the caller's payment history, newest first.
func (h *PaymentHandler) Mine(c echo.Context) error {
	payments, err := h.Payments.ListByEmail(c.Request().Context(), middleware.CallerEmail(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, payments)
}
