// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz — repository interface'i üzerinden
// çalışır. Interface sayesinde testlerde in-memory fake kullanılır ve
// store implementasyonu service kodunu etkilemeden değişebilir.
package repository

import (
	"context"

	"github.com/akinalp/kulup/models"
)

// MemberRepository, üye (credential store) işlemleri için interface.
//
// Auth core'un tek mutable paylaşılan kaynağı üye satırıdır; refresh
// token rotation'ı bu yüzden RotateRefreshToken ile store seviyesinde
// koşullu yapılır — read-compare-write yarışı uygulama katmanına taşınmaz.
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	// GetByEmailOrContact, duplicate kontrolü için: email VEYA contact
	// number eşleşen ilk kaydı döner, yoksa pkg.ErrNotFound.
	GetByEmailOrContact(ctx context.Context, email, contact string) (*models.Member, error)
	// SetEmailVerified, üyeyi doğrulanmış işaretler. Idempotent —
	// zaten doğrulanmış üyede sessizce başarılı olur.
	SetEmailVerified(ctx context.Context, id int64) error
	// UpdateRefreshToken, aktif refresh token'ı koşulsuz değiştirir
	// (login yolu — önceki tüm token'lar o anda geçersizleşir).
	UpdateRefreshToken(ctx context.Context, id int64, token string) error
	// RotateRefreshToken, token'ı SADECE mevcut değer oldToken ile
	// birebir eşleşiyorsa değiştirir (refresh yolu). false dönerse
	// başka bir refresh yarışı kazanmış demektir — caller 403 dönmeli.
	RotateRefreshToken(ctx context.Context, id int64, oldToken, newToken string) (bool, error)
}
