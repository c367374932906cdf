// Package middleware, HTTP request pipeline'ına eklenen ara katmanları
// barındırır.
//
// Go'da middleware bir fonksiyondur: func(next http.Handler) http.Handler.
// Middleware kendi işini yapar (token doğrula), sonra next'i çağırır;
// hata varsa next çağrılmaz, request burada durur.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/akinalp/kulup/handlers"
	"github.com/akinalp/kulup/pkg"
	"github.com/akinalp/kulup/services"
)

// AuthMiddleware, JWT access token doğrulama middleware'ı.
//
// Kapı tamamen kriptografiktir: imza + süre kontrolü yeterlidir, üye
// satırı okunmaz. Token ömrü boyunca (1 saat) silinen bir hesabın
// token'ı çalışmaya devam eder — bilinçli trade-off, her istekte DB
// yolculuğu yerine.
type AuthMiddleware struct {
	authService services.AuthService
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Require, geçerli access token zorunlu kılan middleware.
// Token yoksa veya geçersizse 401; geçerliyse üye id'si context'e
// eklenir ve zincir devam eder.
//
// Header formatı: Authorization: Bearer <token>
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := m.authService.ValidateAccessToken(tokenString)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), handlers.MemberIDContextKey, claims.MemberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
