package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Verification status values stored in tickets.verification_status.  Only
// approved listings are publicly visible.  The fraud state is set by the
// vendor-ban cascade and is terminal.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
	VerificationFraud    = "fraud"
)

// Ticket represents a ticket listing as stored in the `tickets` table.
// SeatsAvailable is owned by the booking engine: it only moves through the
// conditional compare-and-decrement at reservation time and the matching
// restore on cancellation, so it can never go negative.
//
// Fields:
//
//	ID                 – primary key identifier.
//	VendorEmail        – email of the vendor who listed the ticket.
//	Title              – listing title shown in the catalog.
//	TicketType         – transport category used by the catalog filter (bus, train, ...).
//	From, To           – route endpoints; the catalog search matches these.
//	DepartureAt        – scheduled departure time.
//	Price              – unit price.
//	SeatsAvailable     – remaining inventory; never negative.
//	VerificationStatus – pending, approved, rejected or fraud.
//	IsAdvertised       – promotional placement flag, admin controlled.
//	ImageURL           – listing image (may be empty).
//	DateAdded          – listing creation time; default catalog sort key.
type Ticket struct {
	ID                 uint64          `json:"id"`
	VendorEmail        string          `json:"vendorEmail"`
	Title              string          `json:"title"`
	TicketType         string          `json:"ticketType"`
	From               string          `json:"from"`
	To                 string          `json:"to"`
	DepartureAt        time.Time       `json:"departureAt"`
	Price              decimal.Decimal `json:"price"`
	SeatsAvailable     int64           `json:"seatsAvailable"`
	VerificationStatus string          `json:"verificationStatus"`
	IsAdvertised       bool            `json:"isAdvertised"`
	ImageURL           string          `json:"image,omitempty"`
	DateAdded          time.Time       `json:"dateAdded"`
}
