package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ticketbari/marketplace/internal/model"
)

// PaymentRepo provides access to the append-only `payments` table.  Rows are
// only ever inserted, inside the finalization transaction; there is no
// update or delete surface.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment record within the finalization transaction and
// returns the generated ID.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p model.Payment) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (booking_id, ticket_id, email, quantity, total_price, transaction_id, status, paid_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		p.BookingID, p.TicketID, strings.ToLower(strings.TrimSpace(p.Email)),
		p.Quantity, p.TotalPrice.StringFixed(2), p.TransactionID,
		model.BookingPaid, p.PaidAt.UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByEmail returns the payer's payment history, newest first.
func (r *PaymentRepo) ListByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, ticket_id, email, quantity, total_price, transaction_id, status, paid_at
		 FROM payments WHERE email = ? ORDER BY paid_at DESC`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		var total string
		if err := rows.Scan(&p.ID, &p.BookingID, &p.TicketID, &p.Email,
			&p.Quantity, &total, &p.TransactionID, &p.Status, &p.PaidAt); err != nil {
			return nil, err
		}
		if p.TotalPrice, err = parseMoney(total); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// TotalRevenue sums total_price across all payments.  With no payments the
// sum is zero, which formats as "0.00" for the admin dashboard.
func (r *PaymentRepo) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var sum sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(total_price) FROM payments").Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return parseMoney(sum.String)
}
