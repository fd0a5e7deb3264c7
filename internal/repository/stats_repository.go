package repository

import (
	"context"
	"database/sql"
)

// StatsRepo computes the admin dashboard aggregates.  Pure reads; counts
// come from the three entity tables and revenue from PaymentRepo.
type StatsRepo struct {
	db       *sql.DB
	payments *PaymentRepo
}

// NewStatsRepo returns a StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB, payments *PaymentRepo) *StatsRepo {
	return &StatsRepo{db: db, payments: payments}
}

// Overview holds the marketplace-wide totals shown on the admin dashboard.
// TotalRevenue is pre-formatted to two decimal places.
type Overview struct {
	TotalUsers    int64  `json:"totalUsers"`
	TotalTickets  int64  `json:"totalTickets"`
	TotalBookings int64  `json:"totalBookings"`
	TotalRevenue  string `json:"totalRevenue"`
}

// Load gathers the overview counts and the payment revenue sum.
func (r *StatsRepo) Load(ctx context.Context) (Overview, error) {
	var o Overview
	for _, c := range []struct {
		query string
		dst   *int64
	}{
		{"SELECT COUNT(*) FROM users", &o.TotalUsers},
		{"SELECT COUNT(*) FROM tickets", &o.TotalTickets},
		{"SELECT COUNT(*) FROM bookings", &o.TotalBookings},
	} {
		if err := r.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return Overview{}, err
		}
	}
	revenue, err := r.payments.TotalRevenue(ctx)
	if err != nil {
		return Overview{}, err
	}
	o.TotalRevenue = revenue.StringFixed(2)
	return o, nil
}
