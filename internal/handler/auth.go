package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vahub-dev/marketplace/backend/internal/domain"
	"github.com/vahub-dev/marketplace/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const TokenCookieName = "__vahub_token"

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// issueToken signs a session token for the user and sets it as an http-only cookie.
func (h *Handler) issueToken(w http.ResponseWriter, user *domain.User) (string, error) {
	now := time.Now()
	expiration := now.Add(time.Duration(h.config.JWT.Expiration) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		return "", err
	}

	cookie := &http.Cookie{
		Name:     TokenCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)
	return ss, nil
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string      `json:"name" validate:"required"`
		Email    string      `json:"email" validate:"required"`
		Password string      `json:"password" validate:"required"`
		Role     domain.Role `json:"role" validate:"required,oneof=employer va"`
	}

	if !h.decode(w, r, &req) {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Role:         req.Role,
		Name:         req.Name,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hashedPassword),
	}

	if err := h.repository.CreateUserWithProfile(r.Context(), user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key":
			h.errorResponse(w, r, http.StatusBadRequest, "Email already exists")
		default:
			slog.Error("registration failed", "email", user.Email, "error", err)
			h.errorResponse(w, r, http.StatusBadRequest, "Registration failed")
		}
		return
	}

	token, err := h.issueToken(w, user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.enqueueMail(r, domain.MailMessage{
		Type: domain.MailTypeWelcome,
		To:   user.Email,
		Data: domain.WelcomeMailData{Name: user.Name, Role: user.Role},
	})

	h.writeJSON(w, r, http.StatusOK, AuthResponse{User: user, Token: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if !h.decode(w, r, &req) {
		return
	}

	slog.Info("login attempt", "email", req.Email)

	user, err := h.repository.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.unauthorized(w, r, "Invalid credentials")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.unauthorized(w, r, "Invalid credentials")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	token, err := h.issueToken(w, user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, AuthResponse{User: user, Token: token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:    TokenCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.success(w, r)
}

func resetPasswordKey(email string) string {
	return fmt.Sprintf("otp_%s_reset_password", strings.ToLower(email))
}

type MessageResponse struct {
	Message string `json:"message"`
}

const resetPasswordSent = "If the account exists, a verification code has been sent"

func (h *Handler) RequireResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required"`
	}

	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.repository.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// same answer either way so the endpoint cannot probe accounts
			h.writeJSON(w, r, http.StatusOK, MessageResponse{Message: resetPasswordSent})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	otp := utils.GenerateRandomOTP()
	ttl := time.Duration(h.config.OTP.Expiration) * time.Second

	if err := h.otpStore.Set(r.Context(), resetPasswordKey(user.Email), otp, ttl); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.enqueueMail(r, domain.MailMessage{
		Type: domain.MailTypeResetPassword,
		To:   user.Email,
		Data: domain.ResetPasswordMailData{
			Name:       user.Name,
			OTP:        otp,
			Expiration: h.config.OTP.Expiration / 60, // minutes in the mail, seconds in config
		},
	})

	h.writeJSON(w, r, http.StatusOK, MessageResponse{Message: resetPasswordSent})
}

func (h *Handler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required"`
		OTP      string `json:"otp" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if !h.decode(w, r, &req) {
		return
	}

	key := resetPasswordKey(strings.TrimSpace(req.Email))

	otp, err := h.otpStore.Get(r.Context(), key)
	if err != nil || otp != req.OTP {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid verification code")
		return
	}

	user, err := h.repository.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusBadRequest, "Invalid verification code")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.UpdateUserPassword(r.Context(), user.ID, string(hashedPassword)); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.otpStore.Del(r.Context(), key); err != nil {
		slog.Warn("failed to delete otp", "email", user.Email, "error", err)
	}

	h.success(w, r)
}

// enqueueMail publishes a mail job. Delivery is best effort and never fails the request.
func (h *Handler) enqueueMail(r *http.Request, msg domain.MailMessage) {
	if h.mailer == nil {
		return
	}
	if err := h.mailer.Publish(r.Context(), msg); err != nil {
		slog.Error("failed to publish mail", "type", msg.Type, "to", msg.To, "error", err)
	}
}
