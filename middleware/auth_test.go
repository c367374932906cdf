package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akinalp/kulup/handlers"
	"github.com/akinalp/kulup/models"
	"github.com/akinalp/kulup/pkg"
	"github.com/akinalp/kulup/services"
)

// fakeAuthService, yalnızca ValidateAccessToken'ı anlamlı implemente
// eder — middleware başka metod çağırmaz.
type fakeAuthService struct {
	validToken string
	memberID   int64
}

var _ services.AuthService = (*fakeAuthService)(nil)

func (f *fakeAuthService) Register(ctx context.Context, req *models.RegisterRequest) error {
	return nil
}
func (f *fakeAuthService) VerifyEmail(ctx context.Context, token string) error { return nil }
func (f *fakeAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error) {
	return nil, nil
}
func (f *fakeAuthService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenPair, error) {
	return nil, nil
}
func (f *fakeAuthService) ResendVerification(ctx context.Context, req *models.ResendVerificationRequest) error {
	return nil
}
func (f *fakeAuthService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	if tokenString != f.validToken {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}
	return &models.TokenClaims{MemberID: f.memberID}, nil
}

func TestRequire(t *testing.T) {
	mw := NewAuthMiddleware(&fakeAuthService{validToken: "good-token", memberID: 42})

	var gotMemberID int64
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotMemberID, _ = handlers.MemberIDFromContext(r.Context())
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, false},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized, false},
		{"valid token", "Bearer good-token", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			gotMemberID = 0

			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw.Require(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("next called = %v, want %v", called, tt.wantCalled)
			}
			if tt.wantCalled && gotMemberID != 42 {
				t.Errorf("context member id = %d, want 42", gotMemberID)
			}
		})
	}
}
