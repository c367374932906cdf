package services

import (
	"errors"
	"testing"

	"github.com/akinalp/kulup/pkg"
)

func newTestTokenService() TokenService {
	return NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", 60, 7)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.NewAccessToken(42)
	if err != nil {
		t.Fatalf("NewAccessToken() error: %v", err)
	}

	claims, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess() error: %v", err)
	}
	if claims.MemberID != 42 {
		t.Errorf("MemberID = %d, want 42", claims.MemberID)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken() error: %v", err)
	}

	claims, err := svc.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh() error: %v", err)
	}
	if claims.MemberID != 7 {
		t.Errorf("MemberID = %d, want 7", claims.MemberID)
	}
}

// Access ve refresh secret'ları farklıdır — bir sınıfın token'ı diğer
// sınıfın doğrulamasından asla geçmez.
func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	svc := newTestTokenService()

	access, _ := svc.NewAccessToken(1)
	refresh, _ := svc.NewRefreshToken(1)

	if _, err := svc.VerifyRefresh(access); err == nil {
		t.Error("VerifyRefresh() accepted an access token")
	}
	if _, err := svc.VerifyAccess(refresh); err == nil {
		t.Error("VerifyAccess() accepted a refresh token")
	}
}

func TestVerificationTokenCarriesEmail(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.NewVerificationToken(5, "jane@example.com")
	if err != nil {
		t.Fatalf("NewVerificationToken() error: %v", err)
	}

	claims, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess() error: %v", err)
	}
	if claims.MemberID != 5 || claims.Email != "jane@example.com" {
		t.Errorf("claims = {%d %q}, want {5 jane@example.com}", claims.MemberID, claims.Email)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	// Süresi anında dolan token üret (0 dakika expiry).
	svc := NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", 0, 7)

	token, err := svc.NewAccessToken(1)
	if err != nil {
		t.Fatalf("NewAccessToken() error: %v", err)
	}

	_, err = svc.VerifyAccess(token)
	if err == nil {
		t.Fatal("VerifyAccess() accepted an expired token")
	}
	if !errors.Is(err, pkg.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestGarbageTokenIsRejected(t *testing.T) {
	svc := newTestTokenService()

	if _, err := svc.VerifyAccess("not.a.jwt"); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestDifferentSecretCannotVerify(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService("a-completely-different-secret", "another-different-secret", 60, 7)

	token, _ := svc.NewAccessToken(1)
	if _, err := other.VerifyAccess(token); err == nil {
		t.Error("VerifyAccess() accepted a token signed with a different secret")
	}
}
