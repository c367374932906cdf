// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// errors.New() ile sabit error değişkenleri tanımlarız — karşılaştırma
// string yerine errors.Is() ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

// Domain-level error'lar.
// Service katmanı bunları döner, handler katmanı HTTP status'a map'ler.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	// ErrNotVerified, email doğrulanmadan login denemesinde döner.
	// Login'in sert ön koşuludur — uyarı değil, engel.
	ErrNotVerified = errors.New("email not verified")
	ErrInternal    = errors.New("internal error")
)
