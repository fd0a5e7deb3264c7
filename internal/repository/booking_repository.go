package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ticketbari/marketplace/internal/model"
)

// BookingRepo provides access to the `bookings` table.  Creation and the
// paid transition run inside transactions supplied by the caller so they
// commit together with the inventory decrement and the payment insert
// respectively.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for transactions spanning repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, ticket_id, user_email, quantity, total_price, status,
	booking_date, transaction_id, payment_date`

func scanBooking(s interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	var total string
	var txID sql.NullString
	var paidAt sql.NullTime
	err := s.Scan(&b.ID, &b.TicketID, &b.UserEmail, &b.Quantity, &total,
		&b.Status, &b.BookingDate, &txID, &paidAt)
	if err != nil {
		return b, err
	}
	if b.TotalPrice, err = parseMoney(total); err != nil {
		return b, err
	}
	if txID.Valid {
		v := txID.String
		b.TransactionID = &v
	}
	if paidAt.Valid {
		v := paidAt.Time
		b.PaymentDate = &v
	}
	return b, nil
}

// CreateTx inserts a pending booking within the reservation transaction and
// returns the generated ID.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b model.Booking) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (ticket_id, user_email, quantity, total_price, status)
		 VALUES (?,?,?,?,?)`,
		b.TicketID, strings.ToLower(strings.TrimSpace(b.UserEmail)),
		b.Quantity, b.TotalPrice.StringFixed(2), model.BookingPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return b, ErrNotFound
	}
	return b, err
}

// GetByIDTx is GetByID inside an existing transaction, with FOR UPDATE so
// the row cannot transition underneath a payment finalization.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	b, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ? FOR UPDATE", id))
	if err == sql.ErrNoRows {
		return b, ErrNotFound
	}
	return b, err
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, email string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_email = ? ORDER BY booking_date DESC",
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteTx removes a booking row within the cancellation transaction.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) (int64, error) {
	res, err := tx.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// VendorBookingRow is the flattened summary shown to a vendor: one row per
// booking against any of the vendor's listings, with the listing title
// joined in.
type VendorBookingRow struct {
	ID          uint64        `json:"id"`
	UserEmail   string        `json:"userEmail"`
	BookingDate time.Time     `json:"bookingDate"`
	Quantity    int64         `json:"quantity"`
	TotalPrice  decimalString `json:"totalPrice"`
	Status      string        `json:"status"`
	Title       string        `json:"title"`
}

// decimalString keeps the two-decimal rendering of DECIMAL columns without
// converting through float.
type decimalString string

func (d decimalString) MarshalJSON() ([]byte, error) { return []byte(`"` + string(d) + `"`), nil }

// ListForVendor joins bookings to tickets and filters by the listing owner,
// projecting the flattened summary.
func (r *BookingRepo) ListForVendor(ctx context.Context, vendorEmail string) ([]VendorBookingRow, error) {
	const q = `SELECT b.id, b.user_email, b.booking_date, b.quantity, b.total_price, b.status, t.title
		FROM bookings b
		JOIN tickets t ON t.id = b.ticket_id
		WHERE t.vendor_email = ?
		ORDER BY b.booking_date DESC`
	rows, err := r.db.QueryContext(ctx, q, strings.ToLower(strings.TrimSpace(vendorEmail)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]VendorBookingRow, 0)
	for rows.Next() {
		var row VendorBookingRow
		var total string
		if err := rows.Scan(&row.ID, &row.UserEmail, &row.BookingDate,
			&row.Quantity, &total, &row.Status, &row.Title); err != nil {
			return nil, err
		}
		row.TotalPrice = decimalString(total)
		out = append(out, row)
	}
	return out, rows.Err()
}

// SetStatus applies the vendor approve/reject transition.  Any other target
// status is rejected; paid is reachable only through MarkPaidTx.
func (r *BookingRepo) SetStatus(ctx context.Context, id uint64, status string) (int64, error) {
	if status != model.BookingApproved && status != model.BookingRejected {
		return 0, ErrInvalidStatus
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkPaidTx transitions a booking to paid and attaches the processor
// transaction reference, within the payment finalization transaction.
func (r *BookingRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, id uint64, transactionID string, paidAt time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status = ?, transaction_id = ?, payment_date = ? WHERE id = ?",
		model.BookingPaid, transactionID, paidAt.UTC(), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
