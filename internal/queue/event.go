// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentCompletedEvent is published after a payment finalization commits.
// It carries enough information for downstream consumers to log, notify, or
// feed analytics without querying the primary database.  Publication is
// fire-and-forget: it happens strictly after the database transaction and a
// broker failure never fails the request.
type PaymentCompletedEvent struct {
	PaymentID     uint64 `json:"payment_id"`
	BookingID     uint64 `json:"booking_id"`
	TicketID      uint64 `json:"ticket_id"`
	TicketTitle   string `json:"ticket_title"`
	PayerEmail    string `json:"payer_email"`
	Quantity      int64  `json:"quantity"`
	TotalPrice    string `json:"total_price"`
	TransactionID string `json:"transaction_id"`
	PaidAt        string `json:"paid_at"`
}
