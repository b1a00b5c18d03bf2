package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/authwave/apiserver/internal/auth"
	"github.com/authwave/apiserver/internal/services"
	"github.com/authwave/apiserver/internal/store"
	"github.com/authwave/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// AuthHandler provides signup and login endpoints.
type AuthHandler struct {
	userService *services.UserService
	tokens      *auth.TokenIssuer
	log         *slog.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, tokens *auth.TokenIssuer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
		log:         log,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, tokens *auth.TokenIssuer, log *slog.Logger) {
	handler := NewAuthHandler(userService, tokens, log)

	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
}

// RequireAuth verifies the bearer token and injects the verified email
// into the request context for downstream handlers.
func RequireAuth(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
				return
			}

			email, err := tokens.Verify(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), contextEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Signup creates a new user account. It does not log the user in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	err := h.userService.Signup(r.Context(), services.SignupInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Phone:      req.Phone,
		Address:    req.Address,
		Occupation: req.Occupation,
	})
	switch {
	case errors.Is(err, services.ErrMissingField):
		writeError(w, http.StatusBadRequest, "Please provide name, email, and password.")
	case errors.Is(err, store.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "Email already exists.")
	case err != nil:
		h.log.Error("signup failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	default:
		writeJSON(w, http.StatusCreated, MessageResponse{Message: "User registered successfully!"})
	}
}

// Login verifies credentials and returns a bearer token alongside the
// public projection of the user record.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error("login failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		h.log.Error("token issue failed", "email", user.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful!",
		Token:   token,
		User:    user,
	})
}

type SignupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Occupation string `json:"occupation"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    types.User `json:"user"`
}
