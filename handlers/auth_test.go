package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akinalp/kulup/models"
	"github.com/akinalp/kulup/pkg"
	"github.com/akinalp/kulup/pkg/ratelimit"
	"github.com/akinalp/kulup/services"
)

// stubAuthService, her metodun dönüşü test başına ayarlanabilen fake.
type stubAuthService struct {
	registerErr error
	verifyErr   error
	loginPair   *models.TokenPair
	loginErr    error
	refreshPair *models.TokenPair
	refreshErr  error
	resendErr   error
}

var _ services.AuthService = (*stubAuthService)(nil)

func (s *stubAuthService) Register(ctx context.Context, req *models.RegisterRequest) error {
	return s.registerErr
}
func (s *stubAuthService) VerifyEmail(ctx context.Context, token string) error { return s.verifyErr }
func (s *stubAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error) {
	return s.loginPair, s.loginErr
}
func (s *stubAuthService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenPair, error) {
	return s.refreshPair, s.refreshErr
}
func (s *stubAuthService) ResendVerification(ctx context.Context, req *models.ResendVerificationRequest) error {
	return s.resendErr
}
func (s *stubAuthService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) pkg.APIResponse {
	t.Helper()
	var resp pkg.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		body       string
		wantStatus int
	}{
		{"success", nil, `{"name":"Jane","email":"j@x.com","contact_number":"5551234567","password":"secret1"}`, http.StatusOK},
		{"malformed body", nil, `{not json`, http.StatusBadRequest},
		{"duplicate", fmt.Errorf("%w: taken", pkg.ErrAlreadyExists), `{}`, http.StatusBadRequest},
		{"email failure", fmt.Errorf("%w: send failed", pkg.ErrInternal), `{}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuthService{registerErr: tt.svcErr}, nil)
			rec := postJSON(t, h.Register, "/api/auth/register", tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestVerifyEmailHandler(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-email?token=abc", nil)
	rec := httptest.NewRecorder()
	h.VerifyEmail(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("expected success response")
	}

	// Geçersiz token 400 döner
	h = NewAuthHandler(&stubAuthService{verifyErr: fmt.Errorf("%w: bad token", pkg.ErrBadRequest)}, nil)
	rec = httptest.NewRecorder()
	h.VerifyEmail(rec, httptest.NewRequest(http.MethodGet, "/api/auth/verify-email?token=bad", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLoginHandlerResponseShape(t *testing.T) {
	pair := &models.TokenPair{AccessToken: "acc", RefreshToken: "ref"}
	h := NewAuthHandler(&stubAuthService{loginPair: pair}, nil)

	rec := postJSON(t, h.Login, "/api/auth/login", `{"email":"j@x.com","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is %T, want object", resp.Data)
	}
	// Login cevabı access token'ı "auth_token" adıyla taşır.
	if data["auth_token"] != "acc" || data["refresh_token"] != "ref" {
		t.Errorf("unexpected payload: %v", data)
	}
}

func TestLoginHandlerErrorCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown email", fmt.Errorf("%w: no account", pkg.ErrNotFound), http.StatusNotFound},
		{"not verified", fmt.Errorf("%w: verify first", pkg.ErrNotVerified), http.StatusBadRequest},
		{"wrong password", fmt.Errorf("%w: invalid credentials", pkg.ErrBadRequest), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuthService{loginErr: tt.err}, nil)
			rec := postJSON(t, h.Login, "/api/auth/login", `{"email":"j@x.com","password":"p"}`)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestLoginHandlerRateLimit(t *testing.T) {
	limiter := ratelimit.NewLoginRateLimiter(2, time.Minute)
	defer limiter.Stop()

	h := NewAuthHandler(&stubAuthService{loginErr: fmt.Errorf("%w: invalid credentials", pkg.ErrBadRequest)}, limiter)

	body := `{"email":"j@x.com","password":"wrong"}`
	for i := 0; i < 2; i++ {
		rec := postJSON(t, h.Login, "/api/auth/login", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("attempt %d: status = %d, want 400", i+1, rec.Code)
		}
	}

	rec := postJSON(t, h.Login, "/api/auth/login", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response must carry Retry-After header")
	}
}

func TestRefreshHandler(t *testing.T) {
	pair := &models.TokenPair{AccessToken: "new-acc", RefreshToken: "new-ref"}
	h := NewAuthHandler(&stubAuthService{refreshPair: pair}, nil)

	rec := postJSON(t, h.Refresh, "/api/auth/refresh", `{"email":"j@x.com","refresh_token":"old"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	if data["access_token"] != "new-acc" || data["refresh_token"] != "new-ref" {
		t.Errorf("unexpected payload: %v", data)
	}

	// Tek kullanımlık token'ın tekrar kullanımı 403
	h = NewAuthHandler(&stubAuthService{refreshErr: fmt.Errorf("%w: already used", pkg.ErrForbidden)}, nil)
	rec = postJSON(t, h.Refresh, "/api/auth/refresh", `{"email":"j@x.com","refresh_token":"old"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestResendVerificationHandler(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil)
	rec := postJSON(t, h.ResendVerification, "/api/auth/resend-verification", `{"email":"j@x.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("expected success response")
	}
}
