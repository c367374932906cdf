// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler "ince" (thin) kalmalı:
// 1. Request body'yi parse et (JSON → struct)
// 2. Service katmanını çağır
// 3. Sonucu HTTP response olarak döndür
//
// Handler ASLA iş mantığı içermez, ASLA doğrudan DB'ye erişmez.
// Tüm akıl service'de, handler sadece köprü.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/akinalp/kulup/models"
	"github.com/akinalp/kulup/pkg"
	"github.com/akinalp/kulup/pkg/ratelimit"
	"github.com/akinalp/kulup/services"
)

// MemberIDContextKey, auth middleware'ın context'e koyduğu üye id'sinin
// key'i. Kapı kriptografiktir — context'te tam üye satırı değil yalnızca
// token'dan gelen id taşınır.
const MemberIDContextKey contextKey = "member_id"

type contextKey string

// MemberIDFromContext, middleware'ın eklediği üye id'sini döner.
func MemberIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(MemberIDContextKey).(int64)
	return id, ok
}

// AuthHandler, auth endpoint'lerini yöneten struct.
type AuthHandler struct {
	authService  services.AuthService
	loginLimiter *ratelimit.LoginRateLimiter
}

// NewAuthHandler, constructor.
// loginLimiter nil ise login rate limiting devre dışı kalır.
func NewAuthHandler(authService services.AuthService, loginLimiter *ratelimit.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
	}
}

// Register godoc
// POST /api/auth/register
// Üye unverified oluşturulur, doğrulama linki email ile gönderilir.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.Register(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "Email link sent for verification"})
}

// VerifyEmail godoc
// GET /api/auth/verify-email?token=...
// Email'deki doğrulama linkinin hedefi. Idempotent — linke ikinci kez
// tıklamak da başarılı döner.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := h.authService.VerifyEmail(r.Context(), token); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully. You can now log in."})
}

// Login godoc
// POST /api/auth/login
//
// Rate limiting: IP bazlı brute-force koruması. Limit aşılınca 429 +
// Retry-After döner; başarılı login sayacı sıfırlar.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ExtractIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, please try again in %s",
				ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	// Login cevabında access token "auth_token" adıyla döner —
	// mobil client bu alan adlarını bekler.
	pkg.JSON(w, http.StatusOK, map[string]string{
		"auth_token":    pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Refresh godoc
// POST /api/auth/refresh
// Body: { "email": "...", "refresh_token": "..." }
//
// Sunulan refresh token tek kullanımlıktır: cevapla birlikte yeni çift
// döner, eski token geçersizleşir.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := h.authService.Refresh(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// ResendVerification godoc
// POST /api/auth/resend-verification
// Body: { "email": "..." }
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req models.ResendVerificationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ResendVerification(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "A new verification link has been sent to your email."})
}
