// Package router wires handlers, auth middleware and the role gates onto an
// Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ticketbari/marketplace/internal/config"
	"github.com/ticketbari/marketplace/internal/handler"
	"github.com/ticketbari/marketplace/internal/middleware"
	"github.com/ticketbari/marketplace/internal/model"
	"github.com/ticketbari/marketplace/internal/repository"
)

// RegisterRoutes registers the operational endpoints that need neither
// authentication nor rate limiting: the health check and the Prometheus
// scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the token endpoints.  Register, login, refresh and
// logout are open; /auth/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/auth")
	me.Use(middleware.Auth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterPublic registers the guest-facing catalogue and the first-sign-in
// user upsert.  Responses for the read endpoints flow through the Redis
// cache when one is configured; with no Redis the middleware passes through.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, u *handler.UserHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("")
	g.Use(middleware.NewRedisCache(cacheCfg, rdb))
	g.GET("/tickets", cat.Browse)
	g.GET("/tickets/advertised", cat.Advertised)
	g.GET("/tickets/latest", cat.Latest)
	g.GET("/tickets/:id", cat.Detail)

	e.POST("/users", u.CreateUser)
}

// RegisterUser registers the buyer surface.  Every route requires a valid
// access token; the mutating booking and payment routes additionally pass
// the token bucket limiter keyed by caller email.
func RegisterUser(e *echo.Echo, b *handler.BookingHandler, p *handler.PaymentHandler, u *handler.UserHandler,
	jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	auth := e.Group("")
	auth.Use(middleware.Auth(jwtSecret))
	auth.GET("/bookings", b.Mine)
	auth.DELETE("/bookings/:id", b.Cancel)
	auth.GET("/payments", p.Mine)
	auth.GET("/users/role/:email", u.RoleByEmail)
	auth.GET("/users/profile/:email", u.Profile)

	limited := e.Group("")
	limited.Use(middleware.Auth(jwtSecret))
	limited.Use(middleware.NewTokenBucket(rlCfg, rdb))
	limited.POST("/bookings", b.Create)
	limited.POST("/create-payment-intent", p.CreateIntent)
	limited.PATCH("/bookings/pay/:id", p.Finalize)
}

// RegisterVendor registers the vendor surface behind the vendor role gate.
// The gate re-reads the stored role on every request, so a vendor banned
// mid-session loses access immediately.
func RegisterVendor(e *echo.Echo, v *handler.VendorHandler, users *repository.UserRepo, jwtSecret string) {
	g := e.Group("")
	g.Use(middleware.Auth(jwtSecret))
	g.Use(middleware.RequireRole(users, model.RoleVendor))
	g.POST("/tickets", v.CreateTicket)
	g.GET("/tickets/vendor", v.MyTickets)
	g.DELETE("/tickets/:id", v.DeleteTicket)
	g.GET("/bookings/vendor", v.RequestedBookings)
	g.PATCH("/bookings/status/:id", v.SetBookingStatus)
}

// RegisterAdmin registers moderation, user management and platform stats
// behind the admin role gate.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, u *handler.UserHandler, users *repository.UserRepo, jwtSecret string) {
	g := e.Group("")
	g.Use(middleware.Auth(jwtSecret))
	g.Use(middleware.RequireRole(users, model.RoleAdmin))
	g.GET("/users", u.ListUsers)
	g.PATCH("/users/admin/:id", u.PromoteAdmin)
	g.PATCH("/users/vendor/:id", u.PromoteVendor)
	g.PATCH("/users/fraud/:id", u.BanVendor)
	g.DELETE("/users/:id", u.DeleteUser)
	g.GET("/tickets/all", a.AllTickets)
	g.PATCH("/tickets/status/:id", a.SetVerification)
	g.PATCH("/tickets/advertise/:id", a.SetAdvertised)
	g.GET("/admin-stats", a.Overview)
}
