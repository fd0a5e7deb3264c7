package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ticketbari/marketplace/internal/model"
)

func newTicketMock(t *testing.T) (*TicketRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return NewTicketRepo(db), mock, func() { db.Close() }
}

func ticketRow(status string, seats int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "vendor_email", "title", "ticket_type", "route_from", "route_to",
		"departure_at", "price", "seats_available", "verification_status",
		"is_advertised", "image_url", "date_added",
	}).AddRow(1, "vendor@example.com", "Dhaka Express", "bus", "Dhaka", "Khulna",
		time.Now(), "450.00", seats, status, false, "", time.Now())
}

func TestReserveSeatsDecrementsWhenEnoughRemain(t *testing.T) {
	repo, mock, done := newTicketMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE tickets SET seats_available = seats_available - ").
		WithArgs(int64(2), uint64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := repo.ReserveSeatsTx(context.Background(), tx, 1, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveSeatsFailsWhenRaceIsLost(t *testing.T) {
	repo, mock, done := newTicketMock(t)
	defer done()

	mock.ExpectBegin()
	// Zero affected rows: the guard condition did not match.
	mock.ExpectExec("UPDATE tickets SET seats_available = seats_available - ").
		WithArgs(int64(5), uint64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := repo.DB().Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	err = repo.ReserveSeatsTx(context.Background(), tx, 1, 5)
	if !errors.Is(err, ErrSoldOut) {
		t.Fatalf("expected ErrSoldOut, got %v", err)
	}
	_ = tx.Rollback()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchAlwaysFiltersToApproved(t *testing.T) {
	repo, mock, done := newTicketMock(t)
	defer done()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets WHERE verification_status = \?`).
		WithArgs(model.VerificationApproved).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM tickets WHERE verification_status = \?`).
		WithArgs(model.VerificationApproved, 6, 0).
		WillReturnRows(ticketRow(model.VerificationApproved, 10))

	out, total, err := repo.Search(context.Background(), SearchQuery{Page: 1, PageSize: 6})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(out) != 1 {
		t.Fatalf("expected 1 result, got total=%d len=%d", total, len(out))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchKeywordsMatchEitherRouteEndpoint(t *testing.T) {
	repo, mock, done := newTicketMock(t)
	defer done()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets`).
		WithArgs(model.VerificationApproved, "bus", "%dhaka%", "%dhaka%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`LOWER\(route_from\) LIKE \? OR LOWER\(route_to\) LIKE \?`).
		WithArgs(model.VerificationApproved, "bus", "%dhaka%", "%dhaka%", 6, 0).
		WillReturnRows(ticketRow(model.VerificationApproved, 10))

	_, total, err := repo.Search(context.Background(), SearchQuery{
		Search:   "Dhaka!",
		Filter:   "bus",
		Page:     1,
		PageSize: 6,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected total 1, got %d", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestKeywordsStripsPunctuation(t *testing.T) {
	got := keywords("  Dhaka -> Khulna!  ")
	if len(got) != 2 || got[0] != "Dhaka" || got[1] != "Khulna" {
		t.Fatalf("unexpected keywords: %v", got)
	}
	if kw := keywords("?!*"); kw != nil {
		t.Fatalf("expected nil for punctuation-only input, got %v", kw)
	}
}

func TestGetApprovedByIDHidesUnverifiedListings(t *testing.T) {
	repo, mock, done := newTicketMock(t)
	defer done()

	mock.ExpectQuery("SELECT .+ FROM tickets WHERE id = ?").
		WithArgs(uint64(1)).
		WillReturnRows(ticketRow(model.VerificationPending, 10))

	_, err := repo.GetApprovedByID(context.Background(), 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for pending listing, got %v", err)
	}
}

func TestSetVerificationRejectsUnknownStatus(t *testing.T) {
	repo, _, done := newTicketMock(t)
	defer done()

	_, err := repo.SetVerification(context.Background(), 1, "shipped")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDeleteOwnedRefusesOtherVendors(t *testing.T) {
	repo, mock, done := newTicketMock(t)
	defer done()

	mock.ExpectQuery("SELECT vendor_email FROM tickets WHERE id = ?").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"vendor_email"}).AddRow("owner@example.com"))

	err := repo.DeleteOwned(context.Background(), 1, "intruder@example.com")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestMarkFraudByVendorFlagsAllListings(t *testing.T) {
	repo, mock, done := newTicketMock(t)
	defer done()

	mock.ExpectExec("UPDATE tickets SET verification_status = ").
		WithArgs(model.VerificationFraud, "banned@example.com").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkFraudByVendor(context.Background(), "Banned@Example.com")
	if err != nil {
		t.Fatalf("mark fraud: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 listings flagged, got %d", n)
	}
}
