package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking status values stored in bookings.status.  pending -> approved or
// rejected by the vendor, pending -> paid by the payment finalizer.  A paid
// booking can no longer be deleted by its owner.
const (
	BookingPending  = "pending"
	BookingApproved = "approved"
	BookingRejected = "rejected"
	BookingPaid     = "paid"
)

// Booking records a user's hold on ticket inventory.  It references the
// ticket by identifier only; the inventory decrement happens in the same
// transaction as the insert, so no booking row ever exists without its
// seats having been taken.
//
// Fields:
//
//	ID            – primary key identifier.
//	TicketID      – ticket whose inventory this booking holds.
//	UserEmail     – owner of the booking.
//	Quantity      – number of seats held; always >= 1.
//	TotalPrice    – quantity * unit price at booking time.
//	Status        – pending, approved, rejected or paid.
//	BookingDate   – creation timestamp.
//	TransactionID – processor transaction reference, set when paid.
//	PaymentDate   – when the payment was finalized, set when paid.
type Booking struct {
	ID            uint64          `json:"id"`
	TicketID      uint64          `json:"ticketId"`
	UserEmail     string          `json:"userEmail"`
	Quantity      int64           `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        string          `json:"status"`
	BookingDate   time.Time       `json:"bookingDate"`
	TransactionID *string         `json:"transactionId,omitempty"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
}
