package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ticketbari/marketplace/internal/config"
	"github.com/ticketbari/marketplace/internal/database"
	"github.com/ticketbari/marketplace/internal/handler"
	"github.com/ticketbari/marketplace/internal/payment"
	"github.com/ticketbari/marketplace/internal/queue"
	"github.com/ticketbari/marketplace/internal/repository"
	"github.com/ticketbari/marketplace/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tickets := repository.NewTicketRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	stats := repository.NewStatsRepo(db, payments)

	// Stale refresh tokens accumulate between restarts; sweep them once on
	// boot.
	if n, err := tokens.PurgeExpired(context.Background()); err != nil {
		log.Printf("token purge: %v", err)
	} else if n > 0 {
		log.Printf("purged %d expired refresh tokens", n)
	}

	intents := payment.NewClient(cfg.PaymentAPIBase, cfg.PaymentAPIKey)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	catalogH := handler.NewCatalogHandler(cfg, tickets)
	userH := handler.NewUserHandler(users, tickets, tokens, cfg.BcryptCost)
	vendorH := handler.NewVendorHandler(tickets, bookings)
	adminH := handler.NewAdminHandler(tickets, stats)
	bookingH := handler.NewBookingHandler(tickets, bookings)
	paymentH := handler.NewPaymentHandler(tickets, bookings, payments, intents)

	rdb := config.NewRedisClient()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	if cfg.AMQPUrl != "" {
		go func() {
			if err := queue.StartPaymentConsumer(); err != nil {
				log.Printf("payment consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, catalogH, userH, cacheCfg, rdb)
	router.RegisterUser(e, bookingH, paymentH, userH, cfg.JWTSecret, rlCfg, rdb)
	router.RegisterVendor(e, vendorH, users, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, userH, users, cfg.JWTSecret)

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
