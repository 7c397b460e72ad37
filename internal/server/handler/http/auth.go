// Package http provides the HTTP handlers for the authentication endpoints:
// registration, login, logout, session loading and the password-reset stub.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sessionworks/authgate/internal/service"
)

// SessionCookieName is the name of the cookie carrying the session id.
const SessionCookieName = "cfw_session"

// sessionMaxAge is the session cookie lifetime in seconds (30 minutes).
const sessionMaxAge = 1800

// AuthService defines the operations required by the HTTP handlers.
type AuthService interface {
	// Register creates a user record with a salted password hash.
	Register(ctx context.Context, username, password, firstName, lastName string) error
	// Login verifies credentials and returns an opaque session id.
	Login(ctx context.Context, username, password string) (string, error)
	// Logout deletes the session best-effort; it never fails.
	Logout(ctx context.Context, sessionID string)
	// LoadSession returns the JSON payload stored for the session id.
	LoadSession(ctx context.Context, sessionID string) (json.RawMessage, error)
}

// AuthHandler handles HTTP requests for the authentication workflow.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ForgotPasswordRequest represents the JSON payload for a reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Register handles user registration requests.
// It expects a JSON body with non-empty "username" and "password" fields,
// hashes the password and creates the record in the user store.
// Responses: 201 created, 400 missing fields or malformed JSON,
// 409 username taken, 500 anything else (generic body, no internals leaked).
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	err := h.AuthService.Register(r.Context(), req.Username, req.Password, req.FirstName, req.LastName)
	switch {
	case err == nil:
		writeMessage(w, http.StatusCreated, "user registered")
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "username and password are required")
	case errors.Is(err, service.ErrUserExists):
		writeError(w, http.StatusConflict, "user already exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Login handles login requests. On success it sets the session cookie and
// returns 200. Bad credentials yield 401 "invalid credentials"; any other
// failure is reported fail-closed as 401 "login failed" with no cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnauthorized, "login failed")
		return
	}

	sessionID, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		} else {
			writeError(w, http.StatusUnauthorized, "login failed")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	writeMessage(w, http.StatusOK, "login successful")
}

// Logout handles logout requests. If the request carries a session cookie
// the session is deleted best-effort; the clearing cookie and a 200 are
// returned in every case, so logout is idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := sessionIDFromRequest(r); sessionID != "" {
		h.AuthService.Logout(r.Context(), sessionID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	writeMessage(w, http.StatusOK, "logout successful")
}

// LoadUser returns the session payload for the request's session cookie
// verbatim. A missing cookie, an unknown session id or an unreachable
// session service all yield 401.
func (h *AuthHandler) LoadUser(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromRequest(r)
	if sessionID == "" {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	payload, err := h.AuthService.LoadSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

// ForgotPassword acknowledges a password-reset request. Reset delivery is
// not implemented; the endpoint only keeps the contract stable.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeMessage(w, http.StatusOK, "password reset initiated")
}

// sessionIDFromRequest extracts the session id from the request cookie.
// A missing cookie yields an empty id, not an error.
func sessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
