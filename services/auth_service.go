package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/akinalp/kulup/models"
	"github.com/akinalp/kulup/pkg"
	"github.com/akinalp/kulup/pkg/email"
	"github.com/akinalp/kulup/repository"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost — mevcut hash'lerle uyum için sabit tutulur; değiştirmek
// eski şifre hash'lerini geçersiz kılmaz ama yeni kayıtları etkiler.
const bcryptCost = 10

// AuthService, üye yaşam döngüsünün iş kuralları: kayıt, email
// doğrulama, login, refresh token rotation, doğrulama linki yenileme.
type AuthService interface {
	// Register, yeni üye kaydı oluşturur ve doğrulama emaili gönderir.
	// Email gönderimi başarısız olursa hata döner ama üye satırı kalır —
	// kurtarma yolu ResendVerification'dır.
	Register(ctx context.Context, req *models.RegisterRequest) error
	// VerifyEmail, doğrulama linkindeki token ile üyeyi verified işaretler.
	// Idempotent: zaten doğrulanmış üyede de başarılı döner.
	VerifyEmail(ctx context.Context, token string) error
	// Login, kimlik doğrular ve yeni bir token çifti üretir. Üretilen
	// refresh token üye satırına koşulsuz yazılır — önceki oturumun
	// refresh token'ı o anda geçersizleşir.
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error)
	// Refresh, sunulan refresh token'ı tek kullanımlık olarak tüketir ve
	// yeni bir çift üretir. Token saklanan değerle birebir eşleşmiyorsa,
	// imza/süre doğrulaması geçemiyorsa veya rotation yarışı kaybedilmişse
	// ErrForbidden döner.
	Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenPair, error)
	// ResendVerification, doğrulanmamış üyeye yeni doğrulama linki gönderir.
	ResendVerification(ctx context.Context, req *models.ResendVerificationRequest) error
	// ValidateAccessToken, access token'ı doğrular — middleware ve ws
	// upgrade kapısı tarafından kullanılır. DB'ye DOKUNMAZ: kapı tamamen
	// kriptografiktir, her istekte üye satırı okunmaz.
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// authService, AuthService implementasyonu.
type authService struct {
	memberRepo  repository.MemberRepository
	tokens      TokenService
	emailSender email.EmailSender // nil olabilir — email yapılandırılmamışsa
	appURL      string            // doğrulama linkinin taban URL'i
}

// NewAuthService, constructor.
//
// emailSender nil geçilirse doğrulama emaili gönderilemez ve Register /
// ResendVerification hata döner; sunucu yine de ayağa kalkar (local
// geliştirme senaryosu — main.go log'lar).
func NewAuthService(
	memberRepo repository.MemberRepository,
	tokens TokenService,
	emailSender email.EmailSender,
	appURL string,
) AuthService {
	return &authService{
		memberRepo:  memberRepo,
		tokens:      tokens,
		emailSender: emailSender,
		appURL:      appURL,
	}
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) error {
	// 1. Validation — email burada normalize edilir (trim + lowercase)
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// 2. Duplicate kontrolü: email VEYA contact number kayıtlıysa reddet.
	// Son nokta yine de unique index'tir — iki eşzamanlı kayıt arasındaki
	// yarışı repository'deki constraint hatası yakalar.
	existing, err := s.memberRepo.GetByEmailOrContact(ctx, req.Email, req.ContactNumber)
	if err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return fmt.Errorf("failed to check existing member: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: email or contact number already registered", pkg.ErrAlreadyExists)
	}

	// 3. Bcrypt hash
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// 4. Üyeyi unverified olarak yaz
	member := &models.Member{
		Name:          req.Name,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		PasswordHash:  string(hash),
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return err
	}

	// 5. Doğrulama linki gönder. Başarısızlık kaydı GERİ ALMAZ: üye
	// satırı unverified olarak kalır, kullanıcı resend-verification ile
	// yeni link isteyebilir.
	if err := s.sendVerificationLink(ctx, member.ID, member.Email); err != nil {
		log.Printf("[auth] verification email failed for member %d: %v", member.ID, err)
		return fmt.Errorf("%w: registered but failed to send verification email", pkg.ErrInternal)
	}

	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: missing verification token", pkg.ErrBadRequest)
	}

	claims, err := s.tokens.VerifyAccess(token)
	if err != nil {
		// Süresi dolmuş, bozuk veya yanlış imzalı token — hepsi aynı
		// cevap, client'a ayrım sızdırılmaz.
		return fmt.Errorf("%w: invalid or expired verification token", pkg.ErrBadRequest)
	}

	// Plain UPDATE — üye zaten verified ise no-op. Link'e iki kez
	// tıklamak hata değildir.
	if err := s.memberRepo.SetEmailVerified(ctx, claims.MemberID); err != nil {
		return err
	}

	return nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	member, err := s.memberRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account with this email", pkg.ErrNotFound)
		}
		return nil, err
	}

	// Doğrulanmamış hesap login olamaz — önce email linki.
	if !member.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified", pkg.ErrNotVerified)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", pkg.ErrBadRequest)
	}

	pair, err := s.newTokenPair(member.ID)
	if err != nil {
		return nil, err
	}

	// Login koşulsuz yazar: üyenin aktif refresh token'ı her zaman en
	// son login'in token'ıdır. Eski cihazın token'ı sessizce düşer.
	if err := s.memberRepo.UpdateRefreshToken(ctx, member.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return pair, nil
}

func (s *authService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	member, err := s.memberRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account with this email", pkg.ErrNotFound)
		}
		return nil, err
	}

	// Sunulan token, saklanan aktif token ile BİREBİR aynı olmalı.
	// Eski (rotate edilmiş) bir token kriptografik olarak hâlâ geçerli
	// olabilir — eşitlik kontrolü tek kullanımlıklığı sağlayan şeydir.
	if member.RefreshToken == nil || *member.RefreshToken != req.RefreshToken {
		return nil, fmt.Errorf("%w: refresh token mismatch", pkg.ErrForbidden)
	}

	if _, err := s.tokens.VerifyRefresh(req.RefreshToken); err != nil {
		return nil, fmt.Errorf("%w: invalid or expired refresh token", pkg.ErrForbidden)
	}

	pair, err := s.newTokenPair(member.ID)
	if err != nil {
		return nil, err
	}

	// Koşullu rotation: satır yalnızca saklanan token hâlâ sunulan
	// token'sa yazılır. İki eşzamanlı refresh'ten biri burada kaybeder
	// ve 403 alır — aynı token asla iki çift üretmez.
	rotated, err := s.memberRepo.RotateRefreshToken(ctx, member.ID, req.RefreshToken, pair.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, fmt.Errorf("%w: refresh token already used", pkg.ErrForbidden)
	}

	return pair, nil
}

func (s *authService) ResendVerification(ctx context.Context, req *models.ResendVerificationRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	member, err := s.memberRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: no account with this email", pkg.ErrNotFound)
		}
		return err
	}

	if member.EmailVerified {
		return fmt.Errorf("%w: email already verified", pkg.ErrBadRequest)
	}

	if err := s.sendVerificationLink(ctx, member.ID, member.Email); err != nil {
		log.Printf("[auth] resend verification failed for member %d: %v", member.ID, err)
		return fmt.Errorf("%w: failed to send verification email", pkg.ErrInternal)
	}

	return nil
}

func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	return s.tokens.VerifyAccess(tokenString)
}

// ─── Private Helpers ───

func (s *authService) newTokenPair(memberID int64) (*models.TokenPair, error) {
	access, err := s.tokens.NewAccessToken(memberID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.NewRefreshToken(memberID)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) sendVerificationLink(ctx context.Context, memberID int64, toEmail string) error {
	if s.emailSender == nil {
		return errors.New("email sender not configured")
	}

	token, err := s.tokens.NewVerificationToken(memberID, toEmail)
	if err != nil {
		return err
	}

	link := s.appURL + "/api/auth/verify-email?token=" + url.QueryEscape(token)
	if err := s.emailSender.SendVerification(ctx, toEmail, link); err != nil {
		return err
	}

	log.Printf("[auth] verification email sent to member %d", memberID)
	return nil
}
