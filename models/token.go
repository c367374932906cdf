package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, JWT token'ın içindeki veriler (payload).
//
// Üç token sınıfı da aynı claims yapısını kullanır:
//   - access: MemberID (access secret, kısa ömürlü)
//   - refresh: MemberID (refresh secret, uzun ömürlü)
//   - verification: MemberID + Email (access secret, kısa ömürlü)
//
// Bu struct models paketinde tanımlanır çünkü birden fazla katman
// (services, ws, middleware) tarafından kullanılır — her katman models'e
// bağımlı olabilir, circular dependency oluşmaz.
type TokenClaims struct {
	MemberID int64  `json:"member_id"`
	Email    string `json:"email,omitempty"` // Sadece verification token'larda dolu
	jwt.RegisteredClaims
}

// TokenPair, login/refresh sonrası dönen access + refresh token çifti.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
