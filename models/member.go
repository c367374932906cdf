// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model, veritabanındaki bir tablonun Go karşılığıdır; aynı zamanda
// API'den gelen/giden verilerin şeklini belirler. Request struct'ları
// Validate() metodlarıyla boundary'de doğrulanır — service katmanına
// yalnızca geçerli veri ulaşır.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// nameRegex: harfle başlar; harf, boşluk ve nokta içerebilir.
var nameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z\s.]*$`)

// emailRegex, basit sözdizimi kontrolü — tam RFC parse etmeye çalışmaz.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// contactRegex: tam 10 rakam.
var contactRegex = regexp.MustCompile(`^[0-9]{10}$`)

// Member, bir platform üyesini temsil eder.
// DB'deki "member" tablosunun Go karşılığı.
type Member struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	ContactNumber string  `json:"contact_number"`
	PasswordHash  string  `json:"-"` // json:"-" → API response'a DAHİL ETME
	EmailVerified bool    `json:"email_verified"`
	RefreshToken  *string `json:"-"` // Aktif refresh token — asla dışarı sızmaz
	CreatedAt     string  `json:"created_at"`
}

// RegisterRequest, kayıt olurken gelen veri.
// PasswordHash yerine Password alırız — hash'leme service katmanında yapılır.
type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	Password      string `json:"password"`
}

// Validate, RegisterRequest'i doğrular ve input'u normalize eder.
// Kurallar:
//   - Name: harfle başlar, harf/boşluk/nokta, 1-60 karakter
//   - Email: geçerli sözdizimi, lower-case + trim normalize, 1-60 karakter
//   - ContactNumber: tam 10 rakam
//   - Password: 6-64 karakter
//
// Email burada normalize EDİLİR — store'a ve tüm lookup'lara hep aynı
// biçim gider, "JANE@X.com" ile "jane@x.com" aynı hesaptır.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.ContactNumber = strings.TrimSpace(r.ContactNumber)
	r.Password = strings.TrimSpace(r.Password)

	nameLen := utf8.RuneCountInString(r.Name)
	if nameLen < 1 || nameLen > 60 || !nameRegex.MatchString(r.Name) {
		return fmt.Errorf("invalid name")
	}

	emailLen := utf8.RuneCountInString(r.Email)
	if emailLen < 1 || emailLen > 60 || !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("invalid email address")
	}

	if !contactRegex.MatchString(r.ContactNumber) {
		return fmt.Errorf("invalid contact number")
	}

	passLen := utf8.RuneCountInString(r.Password)
	if passLen < 6 || passLen > 64 {
		return fmt.Errorf("password must be 6-64 characters long")
	}

	return nil
}

// LoginRequest, giriş yaparken gelen veri.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, LoginRequest'i doğrular; email'i normalize eder.
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	r.Password = strings.TrimSpace(r.Password)

	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// RefreshRequest, access token yenileme isteği.
// Sunulan refresh token, üyenin store'daki aktif token'ı ile birebir
// eşleşmek zorundadır — eşleşmezse rotation sonrası tekrar kullanım
// (veya sahtecilik) var demektir.
type RefreshRequest struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
}

// Validate, RefreshRequest'i doğrular; email'i normalize eder.
func (r *RefreshRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)

	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.RefreshToken == "" {
		return fmt.Errorf("refresh_token is required")
	}
	return nil
}

// ResendVerificationRequest, doğrulama linkini yeniden isteme.
type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// Validate, ResendVerificationRequest'i doğrular; email'i normalize eder.
func (r *ResendVerificationRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	return nil
}

// NormalizeEmail, email'i kanonik biçime getirir: trim + lower-case.
// Kayıttan login'e tüm akışlar aynı normalizasyonu kullanır.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
