package repository

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"github.com/ticketbari/marketplace/internal/model"
)

// TicketRepo provides access to the `tickets` table: the public catalog
// queries, vendor listing management, the admin verification transitions and
// the inventory primitives used by the booking engine.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span tickets and bookings.
func (r *TicketRepo) DB() *sql.DB { return r.db }

const ticketColumns = `id, vendor_email, title, ticket_type, route_from, route_to,
	departure_at, price, seats_available, verification_status, is_advertised,
	image_url, date_added`

func scanTicket(s interface{ Scan(...any) error }) (model.Ticket, error) {
	var t model.Ticket
	var price string
	err := s.Scan(&t.ID, &t.VendorEmail, &t.Title, &t.TicketType, &t.From, &t.To,
		&t.DepartureAt, &price, &t.SeatsAvailable, &t.VerificationStatus,
		&t.IsAdvertised, &t.ImageURL, &t.DateAdded)
	if err != nil {
		return t, err
	}
	t.Price, err = parseMoney(price)
	return t, err
}

// SearchQuery defines filters and pagination for the public catalog.
// Page is 1-indexed; PageSize falls back to the configured default upstream.
type SearchQuery struct {
	Search   string // free-text keywords matched against the route fields
	Filter   string // exact ticket_type match
	Sort     string // "price_asc" | "price_desc" | "" (newest first)
	Page     int
	PageSize int
}

var searchCleaner = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// keywords normalizes the free-text search input: punctuation is stripped
// and the remainder split on whitespace.
func keywords(s string) []string {
	cleaned := strings.TrimSpace(searchCleaner.ReplaceAllString(s, " "))
	if cleaned == "" {
		return nil
	}
	return strings.Fields(cleaned)
}

// Search returns approved listings matching the query plus the total match
// count for pagination.  The approved-only condition is unconditional: no
// combination of parameters can surface a pending, rejected or fraud
// listing.  Each search keyword may match either route endpoint,
// case-insensitively.
func (r *TicketRepo) Search(ctx context.Context, q SearchQuery) ([]model.Ticket, int64, error) {
	where := []string{"verification_status = ?"}
	args := []any{model.VerificationApproved}

	if q.Filter != "" {
		where = append(where, "ticket_type = ?")
		args = append(args, q.Filter)
	}
	for _, kw := range keywords(q.Search) {
		where = append(where, "(LOWER(route_from) LIKE ? OR LOWER(route_to) LIKE ?)")
		pat := "%" + strings.ToLower(kw) + "%"
		args = append(args, pat, pat)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tickets WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "date_added DESC"
	switch q.Sort {
	case "price_asc":
		order = "price ASC"
	case "price_desc":
		order = "price DESC"
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := "SELECT " + ticketColumns + " FROM tickets WHERE " + cond +
		" ORDER BY " + order + " LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Ticket, 0, limit)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Create inserts a new listing for a vendor.  The verification status,
// advertised flag and creation time are forced server-side regardless of
// the request payload.
func (r *TicketRepo) Create(ctx context.Context, t model.Ticket) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (vendor_email, title, ticket_type, route_from, route_to,
			departure_at, price, seats_available, verification_status, is_advertised, image_url)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		strings.ToLower(strings.TrimSpace(t.VendorEmail)), t.Title, t.TicketType,
		t.From, t.To, t.DepartureAt.UTC(), t.Price.StringFixed(2), t.SeatsAvailable,
		model.VerificationPending, false, t.ImageURL)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a ticket regardless of verification status.  Callers on
// the public surface must use GetApprovedByID instead.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

// GetApprovedByID fetches a ticket for public display.  Non-approved
// listings are reported as missing rather than forbidden so their existence
// does not leak.
func (r *TicketRepo) GetApprovedByID(ctx context.Context, id uint64) (model.Ticket, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return t, err
	}
	if t.VerificationStatus != model.VerificationApproved {
		return model.Ticket{}, ErrNotFound
	}
	return t, nil
}

// ListAdvertised returns up to limit approved listings flagged for
// promotional placement.
func (r *TicketRepo) ListAdvertised(ctx context.Context, limit int) ([]model.Ticket, error) {
	return r.list(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE verification_status = ? AND is_advertised = TRUE ORDER BY date_added DESC LIMIT ?",
		model.VerificationApproved, limit)
}

// ListLatest returns the newest approved listings.
func (r *TicketRepo) ListLatest(ctx context.Context, limit int) ([]model.Ticket, error) {
	return r.list(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE verification_status = ? ORDER BY date_added DESC LIMIT ?",
		model.VerificationApproved, limit)
}

// ListByVendor returns all of a vendor's listings, any status.
func (r *TicketRepo) ListByVendor(ctx context.Context, vendorEmail string) ([]model.Ticket, error) {
	return r.list(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE vendor_email = ? ORDER BY date_added DESC",
		strings.ToLower(strings.TrimSpace(vendorEmail)))
}

// ListAll returns every ticket.  Admin surface only.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return r.list(ctx, "SELECT "+ticketColumns+" FROM tickets ORDER BY date_added DESC")
}

func (r *TicketRepo) list(ctx context.Context, query string, args ...any) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetVerification moves a listing through the admin verification lifecycle.
// Only the defined status values are accepted.
func (r *TicketRepo) SetVerification(ctx context.Context, id uint64, status string) (int64, error) {
	switch status {
	case model.VerificationPending, model.VerificationApproved,
		model.VerificationRejected, model.VerificationFraud:
	default:
		return 0, ErrInvalidStatus
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE tickets SET verification_status = ? WHERE id = ?", status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetAdvertised flips the promotional placement flag.
func (r *TicketRepo) SetAdvertised(ctx context.Context, id uint64, advertised bool) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tickets SET is_advertised = ? WHERE id = ?", advertised, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteOwned removes a listing after verifying it belongs to the caller.
// Returns ErrNotFound for a missing ticket and ErrForbidden when the listing
// belongs to another vendor.
func (r *TicketRepo) DeleteOwned(ctx context.Context, id uint64, vendorEmail string) error {
	var owner string
	err := r.db.QueryRowContext(ctx,
		"SELECT vendor_email FROM tickets WHERE id = ?", id).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != strings.ToLower(strings.TrimSpace(vendorEmail)) {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM tickets WHERE id = ?", id)
	return err
}

// MarkFraudByVendor cascades a vendor ban: every listing owned by the email
// is flagged fraud, removing it from the public catalog.  Returns the number
// of listings affected.
func (r *TicketRepo) MarkFraudByVendor(ctx context.Context, vendorEmail string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tickets SET verification_status = ? WHERE vendor_email = ?",
		model.VerificationFraud, strings.ToLower(strings.TrimSpace(vendorEmail)))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReserveSeatsTx is the single authoritative inventory decrement: one
// conditional compare-and-decrement that only matches while enough seats
// remain.  Zero affected rows means the caller lost the race (or the ticket
// does not exist) and no booking may be created.  Runs inside the caller's
// transaction so the decrement and the booking insert commit together.
func (r *TicketRepo) ReserveSeatsTx(ctx context.Context, tx *sql.Tx, ticketID uint64, quantity int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE tickets SET seats_available = seats_available - ? WHERE id = ? AND seats_available >= ?",
		quantity, ticketID, quantity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSoldOut
	}
	return nil
}

// RestoreSeatsTx returns a cancelled pending booking's quantity to the
// ticket.  A missing ticket is not an error: the listing may have been
// deleted after the booking was made.
func (r *TicketRepo) RestoreSeatsTx(ctx context.Context, tx *sql.Tx, ticketID uint64, quantity int64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE tickets SET seats_available = seats_available + ? WHERE id = ?",
		quantity, ticketID)
	return err
}

// UnitPrice returns the listing price for computing a booking total.
func (r *TicketRepo) UnitPrice(ctx context.Context, ticketID uint64) (string, error) {
	var price string
	err := r.db.QueryRowContext(ctx,
		"SELECT price FROM tickets WHERE id = ?", ticketID).Scan(&price)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return price, err
}
