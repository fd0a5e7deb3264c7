// Package monitoring exposes Prometheus counters for the booking and
// payment flows.  The /metrics endpoint is registered in the router via
// promhttp.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_bookings_created_total",
		Help: "Bookings created (inventory successfully reserved)",
	})

	bookingsSoldOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_bookings_sold_out_total",
		Help: "Reservation attempts rejected because the inventory race was lost",
	})

	bookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_bookings_cancelled_total",
		Help: "Bookings cancelled by their owner before payment",
	})

	paymentsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_payments_finalized_total",
		Help: "Payments recorded and bookings marked paid",
	})
)

// BookingCreated increments the successful-reservation counter.
func BookingCreated() { bookingsCreated.Inc() }

// BookingSoldOut increments the lost-inventory-race counter.
func BookingSoldOut() { bookingsSoldOut.Inc() }

// BookingCancelled increments the cancellation counter.
func BookingCancelled() { bookingsCancelled.Inc() }

// PaymentFinalized increments the finalized-payment counter.
func PaymentFinalized() { paymentsFinalized.Inc() }
