package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ticketbari/marketplace/internal/middleware"
	"github.com/ticketbari/marketplace/internal/model"
	"github.com/ticketbari/marketplace/internal/repository"
)

// UserHandler covers the user management surface: the public first-sign-in
// upsert, profile/role lookups and the admin role mutations including the
// vendor ban cascade.
type UserHandler struct {
	Users   *repository.UserRepo
	Tickets *repository.TicketRepo
	Tokens  *repository.TokenRepo
	Cost    int // bcrypt cost for passwords supplied at first sign-in
}

func NewUserHandler(users *repository.UserRepo, tickets *repository.TicketRepo, tokens *repository.TokenRepo, bcryptCost int) *UserHandler {
	return &UserHandler{Users: users, Tickets: tickets, Tokens: tokens, Cost: bcryptCost}
}

type createUserReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Photo    string `json:"photo"`
	Password string `json:"password"`
}

// CreateUser handles POST /users, the first-sign-in upsert.  An existing
// email is not an error: the caller gets the "already exists" message with
// a null inserted id, matching what sign-in flows expect.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx := c.Request().Context()
	id, err := h.Users.Create(ctx, req.Email, req.Name, req.Photo, req.Password, h.Cost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusOK, echo.Map{"message": "user already exists", "insertedId": nil})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"insertedId": id})
}

// ListUsers handles GET /users (admin).
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, users)
}

// RoleByEmail handles GET /users/role/:email.  Unknown emails report the
// base role so fresh identities are usable before their record lands.
func (h *UserHandler) RoleByEmail(c echo.Context) error {
	role, err := h.Users.RoleByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"role": role})
}

// Profile handles GET /users/profile/:email.  Only the owner may read their
// profile.
func (h *UserHandler) Profile(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	if middleware.CallerEmail(c) != email {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	u, err := h.Users.GetByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// PromoteAdmin handles PATCH /users/admin/:id (admin).
func (h *UserHandler) PromoteAdmin(c echo.Context) error {
	return h.setRole(c, model.RoleAdmin)
}

// PromoteVendor handles PATCH /users/vendor/:id (admin).
func (h *UserHandler) PromoteVendor(c echo.Context) error {
	return h.setRole(c, model.RoleVendor)
}

func (h *UserHandler) setRole(c echo.Context, role string) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	n, err := h.Users.SetRole(c.Request().Context(), id, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"matchedCount": n, "modifiedCount": n})
}

// BanVendor handles PATCH /users/fraud/:id (admin).  The user flip and the
// ticket cascade are two separate writes and both results are returned;
// callers must not assume all-or-nothing.  Active sessions of the banned
// account are revoked as a best effort.
func (h *UserHandler) BanVendor(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	ctx := c.Request().Context()

	userN, email, err := h.Users.Ban(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ban failed"})
	}
	_ = h.Tokens.RevokeAllForUser(ctx, id)

	ticketN, err := h.Tickets.MarkFraudByVendor(ctx, email)
	if err != nil {
		// Partial success: the user is banned but the cascade failed.
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"userUpdateResult": echo.Map{"matchedCount": userN, "modifiedCount": userN},
			"error":            "ticket cascade failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"userUpdateResult":   echo.Map{"matchedCount": userN, "modifiedCount": userN},
		"ticketUpdateResult": echo.Map{"matchedCount": ticketN, "modifiedCount": ticketN},
	})
}

// DeleteUser handles DELETE /users/:id (admin).
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	n, err := h.Users.Delete(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deletedCount": n})
}
