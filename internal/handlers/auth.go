package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/repo"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Messages of the auth endpoints.
const (
	MsgUserRegistered     = "User registered"
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserNotFound       = "User not found"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Tokens   *auth.TokenIssuer
}

type signupInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ==========================
// Signup
// ==========================

// Signup registers a new identity. A taken email is reported with 200 and
// success:false, which is what the browser client expects.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input signupInput
	if !readBody(w, r, &input) {
		return
	}
	fields := structFields(input)
	// bcrypt ignores anything past 72 bytes.
	if _, ok := fields["password"]; !ok && len(input.Password) > 72 {
		fields["password"] = "must be at most 72 bytes"
	}
	if len(fields) > 0 {
		JSONValidationError(w, MsgValidationFailed, fields, http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.Register(r.Context(), input.Username, input.Email, input.Password)
	if errors.Is(err, repo.ErrDuplicateIdentity) {
		JSONError(w, MsgUserExists, http.StatusOK)
		return
	}
	if err != nil {
		serverError(w, r, ErrMessageInternal, err)
		return
	}

	slog.Info("user registered", "request_id", chimw.GetReqID(r.Context()), "user_id", user.ID)
	JSON(w, map[string]any{"message": MsgUserRegistered}, http.StatusOK)
}

// ==========================
// Login
// ==========================

// Login checks credentials and returns a session token. Unknown email and wrong
// password give the same 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if !readBody(w, r, &input) {
		return
	}
	if fields := structFields(input); len(fields) > 0 {
		JSONValidationError(w, MsgValidationFailed, fields, http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.Authenticate(r.Context(), input.Email, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		metrics.IncLogin("failure")
		JSONError(w, MsgInvalidCredentials, http.StatusUnauthorized)
		return
	}
	if err != nil {
		serverError(w, r, ErrMessageInternal, err)
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		serverError(w, r, ErrMessageInternal, err)
		return
	}

	metrics.IncLogin("success")
	JSON(w, map[string]any{
		"token": token,
		"user": map[string]string{
			"username": user.Username,
			"email":    user.Email,
		},
	}, http.StatusOK)
}

// ==========================
// Current User
// ==========================

// User returns the caller's public profile.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}

	user, err := h.UserRepo.FindByID(r.Context(), userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		JSONError(w, MsgUserNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to fetch user", err)
		return
	}

	JSON(w, map[string]any{
		"user": map[string]string{
			"id":       user.ID,
			"username": user.Username,
		},
	}, http.StatusOK)
}
