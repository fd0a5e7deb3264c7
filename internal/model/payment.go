package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an append-only record of a completed external payment, as
// stored in the `payments` table.  Exactly one row is written per finalized
// booking, in the same transaction that marks the booking paid.
//
// Fields:
//
//	ID            – primary key identifier.
//	BookingID     – booking this payment settles.
//	TicketID      – ticket the booking refers to (denormalized for reporting).
//	Email         – payer email.
//	Quantity      – seats paid for.
//	TotalPrice    – amount charged; summed into admin revenue.
//	TransactionID – processor transaction reference.
//	Status        – always "paid".
//	PaidAt        – finalization timestamp.
type Payment struct {
	ID            uint64          `json:"id"`
	BookingID     uint64          `json:"bookingId"`
	TicketID      uint64          `json:"ticketId"`
	Email         string          `json:"email"`
	Quantity      int64           `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	TransactionID string          `json:"transactionId"`
	Status        string          `json:"status"`
	PaidAt        time.Time       `json:"date"`
}
