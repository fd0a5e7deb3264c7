package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/ticketbari/marketplace/internal/model"
)

func newPaymentMock(t *testing.T) (*PaymentRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return NewPaymentRepo(db), mock, func() { db.Close() }
}

func TestTotalRevenueZeroWhenNoPayments(t *testing.T) {
	repo, mock, done := newPaymentMock(t)
	defer done()

	// SUM over an empty table yields NULL, not zero.
	mock.ExpectQuery(`SELECT SUM\(total_price\) FROM payments`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(nil))

	sum, err := repo.TotalRevenue(context.Background())
	if err != nil {
		t.Fatalf("total revenue: %v", err)
	}
	if got := sum.StringFixed(2); got != "0.00" {
		t.Fatalf("expected 0.00, got %q", got)
	}
}

func TestTotalRevenueSumsPayments(t *testing.T) {
	repo, mock, done := newPaymentMock(t)
	defer done()

	mock.ExpectQuery(`SELECT SUM\(total_price\) FROM payments`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("1350.50"))

	sum, err := repo.TotalRevenue(context.Background())
	if err != nil {
		t.Fatalf("total revenue: %v", err)
	}
	if got := sum.StringFixed(2); got != "1350.50" {
		t.Fatalf("expected 1350.50, got %q", got)
	}
}

func TestCreatePaymentRecordsNormalizedEmail(t *testing.T) {
	repo, mock, done := newPaymentMock(t)
	defer done()

	paidAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(uint64(9), uint64(3), "buyer@example.com", int64(2), "900.00",
			"txn_123", model.BookingPaid, paidAt).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	id, err := repo.CreateTx(context.Background(), tx, model.Payment{
		BookingID:     9,
		TicketID:      3,
		Email:         " Buyer@Example.com ",
		Quantity:      2,
		TotalPrice:    decimal.RequireFromString("900"),
		TransactionID: "txn_123",
		PaidAt:        paidAt,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 11 {
		t.Fatalf("expected inserted id 11, got %d", id)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListByEmailParsesHistory(t *testing.T) {
	repo, mock, done := newPaymentMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"id", "booking_id", "ticket_id", "email", "quantity",
		"total_price", "transaction_id", "status", "paid_at"}).
		AddRow(11, 9, 3, "buyer@example.com", 2, "900.00", "txn_123", model.BookingPaid, time.Now())
	mock.ExpectQuery("FROM payments WHERE email = ?").
		WithArgs("buyer@example.com").
		WillReturnRows(rows)

	out, err := repo.ListByEmail(context.Background(), "buyer@example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(out))
	}
	if out[0].TotalPrice.StringFixed(2) != "900.00" {
		t.Fatalf("unexpected total: %s", out[0].TotalPrice)
	}
}
