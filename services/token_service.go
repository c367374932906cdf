// Package services, business logic katmanını barındırır.
//
// Handler (HTTP/WS) ile Repository (DB) arasında oturan katmandır;
// tüm iş kuralları burada yaşar: şifre hash'leme, token üretimi ve
// doğrulaması, email doğrulama akışı, chat persist + broadcast sırası.
//
// Service ASLA http.Request/Response bilmez — sadece domain modelleri
// alır/verir. Service ASLA doğrudan SQL çalıştırmaz — repository
// interface'leri üzerinden çalışır.
package services

import (
	"fmt"
	"time"

	"github.com/akinalp/kulup/models"
	"github.com/akinalp/kulup/pkg"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService, JWT üretimi ve doğrulaması için interface.
//
// İki ayrı secret kullanılır: access (ve verification) token'ları
// accessSecret ile, refresh token'ları refreshSecret ile imzalanır.
// Böylece bir access token asla refresh endpoint'inde, bir refresh
// token asla yetki kapısında geçerli sayılamaz — süre farkından
// bağımsız, kriptografik bir ayrım.
type TokenService interface {
	// NewAccessToken, API istekleri için kısa ömürlü (1 saat) token üretir.
	NewAccessToken(memberID int64) (string, error)
	// NewRefreshToken, uzun ömürlü (7 gün) refresh token üretir.
	NewRefreshToken(memberID int64) (string, error)
	// NewVerificationToken, email doğrulama linki için üye id + email
	// taşıyan 1 saatlik token üretir. Access sınıfındadır — accessSecret
	// ile imzalanır ama yalnızca verify-email akışında kullanılır.
	NewVerificationToken(memberID int64, email string) (string, error)
	// VerifyAccess, access/verification token'ı doğrular, claims döner.
	VerifyAccess(tokenString string) (*models.TokenClaims, error)
	// VerifyRefresh, refresh token'ı doğrular, claims döner.
	VerifyRefresh(tokenString string) (*models.TokenClaims, error)
}

// tokenService, TokenService implementasyonu.
type tokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExp     time.Duration
	refreshExp    time.Duration
}

// NewTokenService, constructor.
func NewTokenService(accessSecret, refreshSecret string, accessExpMinutes, refreshExpDays int) TokenService {
	return &tokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExp:     time.Duration(accessExpMinutes) * time.Minute,
		refreshExp:    time.Duration(refreshExpDays) * 24 * time.Hour,
	}
}

func (s *tokenService) NewAccessToken(memberID int64) (string, error) {
	return s.sign(&models.TokenClaims{MemberID: memberID}, s.accessSecret, s.accessExp)
}

func (s *tokenService) NewRefreshToken(memberID int64) (string, error) {
	return s.sign(&models.TokenClaims{MemberID: memberID}, s.refreshSecret, s.refreshExp)
}

func (s *tokenService) NewVerificationToken(memberID int64, email string) (string, error) {
	// Email claim'e gömülür; verify-email handler'ı token'dan başka
	// hiçbir girdi almaz — link kendi başına yeterlidir.
	return s.sign(&models.TokenClaims{MemberID: memberID, Email: email}, s.accessSecret, s.accessExp)
}

func (s *tokenService) VerifyAccess(tokenString string) (*models.TokenClaims, error) {
	return s.verify(tokenString, s.accessSecret)
}

func (s *tokenService) VerifyRefresh(tokenString string) (*models.TokenClaims, error) {
	return s.verify(tokenString, s.refreshSecret)
}

func (s *tokenService) sign(claims *models.TokenClaims, secret []byte, exp time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(exp)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "kulup",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) verify(tokenString string, secret []byte) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		// alg confusion engeli: yalnızca HMAC ailesine izin verilir.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	return claims, nil
}
