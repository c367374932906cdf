// Package email, uygulama genelinde email gönderimi için soyutlama katmanı sağlar.
//
// EmailSender interface'i ile gönderim detayları soyutlanır (Dependency
// Inversion). Şu anki implementasyon Resend API kullanır; farklı bir
// sağlayıcıya geçmek için yeni bir implementasyon yazıp main.go'daki
// constructor'ı değiştirmek yeterlidir.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// EmailSender, email gönderimi için interface.
// Service katmanı bu interface'e bağımlıdır, concrete Resend
// implementasyonuna değil — testlerde fake sender kullanılır.
type EmailSender interface {
	// SendVerification, üyeye email doğrulama linki gönderir.
	// toEmail: alıcı adres, verificationLink: token'lı tam URL.
	SendVerification(ctx context.Context, toEmail, verificationLink string) error
}

// resendSender, Resend API ile email gönderen EmailSender implementasyonu.
type resendSender struct {
	client    *resend.Client
	fromEmail string // Gönderici adresi (ör: noreply@kulup.app)
}

// NewResendSender, Resend API client'ı ile yeni bir EmailSender oluşturur.
//
// apiKey: Resend dashboard'dan alınan API key (re_xxxxxxxx formatında).
// fromEmail: Resend'de doğrulanmış domain altında bir gönderici adresi.
func NewResendSender(apiKey, fromEmail string) EmailSender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

// SendVerification, doğrulama email'i gönderir.
//
// Link 1 saat geçerli bir verification token taşır. Kullanıcı linke
// tıkladığında GET /api/auth/verify-email token'ı doğrular ve üyeyi
// verified işaretler. Link süresi dolarsa kurtarma yolu
// POST /api/auth/resend-verification'dır.
func (s *resendSender) SendVerification(ctx context.Context, toEmail, verificationLink string) error {
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f4f4f7;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f4f4f7;padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
          <tr>
            <td>
              <h1 style="color:#1f2937;font-size:24px;margin:0 0 8px 0;">kulup</h1>
              <h2 style="color:#1f2937;font-size:18px;margin:0 0 24px 0;">Verify Your Email</h2>
              <p style="color:#6b7280;font-size:15px;line-height:1.6;margin:0 0 24px 0;">
                Thanks for signing up. Click the button below to verify your email address and activate your account.
              </p>
              <table cellpadding="0" cellspacing="0" style="margin:0 0 24px 0;">
                <tr>
                  <td style="background-color:#16a34a;border-radius:6px;padding:12px 32px;">
                    <a href="%s" style="color:#ffffff;text-decoration:none;font-size:15px;font-weight:600;">
                      Verify Email
                    </a>
                  </td>
                </tr>
              </table>
              <p style="color:#9ca3af;font-size:13px;line-height:1.6;margin:0 0 16px 0;">
                This link will expire in 1 hour. If it expires, request a new one from the app.
              </p>
              <p style="color:#9ca3af;font-size:13px;line-height:1.6;margin:0;word-break:break-all;">
                If the button doesn't work, copy and paste this link:<br>
                <a href="%s" style="color:#16a34a;">%s</a>
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, verificationLink, verificationLink, verificationLink)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("kulup <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: "Email Verification Link",
		Html:    html,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}
