// Package main, kulup backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (embedded migration'lar ile)
//  3. Repository'leri oluştur
//  4. WebSocket Hub'ı başlat
//  5. Service'leri oluştur ve Hub callback'ini bağla
//  6. Handler'ları ve middleware'ı oluştur
//  7. HTTP router'ı kur, CORS yapılandır
//  8. HTTP Server'ı başlat, graceful shutdown
//
// Global değişken YOK — her şey burada oluşturulup birbirine bağlanır.
package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akinalp/kulup/config"
	"github.com/akinalp/kulup/database"
	"github.com/akinalp/kulup/handlers"
	"github.com/akinalp/kulup/middleware"
	"github.com/akinalp/kulup/pkg/email"
	"github.com/akinalp/kulup/pkg/ratelimit"
	"github.com/akinalp/kulup/repository"
	"github.com/akinalp/kulup/services"
	"github.com/akinalp/kulup/ws"
	"github.com/rs/cors"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] kulup server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	memberRepo := repository.NewSQLiteMemberRepo(db.Conn)
	chatRepo := repository.NewSQLiteChatRepo(db.Conn)

	// ─── 4. WebSocket Hub ───
	// `go hub.Run()` register/unregister event loop'unu başlatır.
	// ChatService, RoomBroadcaster interface'i üzerinden hub'a erişir.
	hub := ws.NewHub()

	// ─── 5. Service Layer ───
	tokenService := services.NewTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiryMinutes,
		cfg.JWT.RefreshExpiryDays,
	)

	// Email sender — API key yoksa nil kalır; Register çalışır ama
	// doğrulama emaili gönderilemez (local geliştirme).
	var emailSender email.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		emailSender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail)
	} else {
		log.Println("[main] RESEND_API_KEY not set — verification emails disabled")
	}

	authService := services.NewAuthService(memberRepo, tokenService, emailSender, cfg.Email.AppURL)
	chatService := services.NewChatService(chatRepo, memberRepo, hub)

	// Hub callback'i — ws paketi services'i import etmez (cycle olurdu),
	// send-message event'leri bu bağlama üzerinden ChatService'e akar.
	// Broadcast'i Send kendisi yapar; persist başarısızsa hata ws
	// katmanına döner ve yalnızca gönderen error event'i alır.
	hub.OnChatMessage = func(memberID, clubID int64, messageText string) error {
		_, err := chatService.Send(context.Background(), memberID, clubID, messageText)
		return err
	}

	go hub.Run()

	// ─── 6. Handlers + Middleware ───
	// Login brute-force koruması: IP başına 2 dakikada 5 deneme.
	loginLimiter := ratelimit.NewLoginRateLimiter(5, 2*time.Minute)
	defer loginLimiter.Stop()

	authHandler := handlers.NewAuthHandler(authService, loginLimiter)
	chatHandler := handlers.NewChatHandler(chatService)
	memberHandler := handlers.NewMemberHandler(memberRepo)
	wsHandler := ws.NewHandler(hub, authService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// ─── 7. Router ───
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth — public endpoint'ler
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/auth/verify-email", authHandler.VerifyEmail)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/auth/resend-verification", authHandler.ResendVerification)

	// Üye profili — auth gerektirir
	mux.Handle("GET /api/users/me", authMiddleware.Require(http.HandlerFunc(memberHandler.Me)))
	mux.Handle("GET /api/users/{id}", authMiddleware.Require(http.HandlerFunc(memberHandler.Get)))

	// Chat — auth gerektirir
	mux.Handle("POST /api/chat/get-history", authMiddleware.Require(http.HandlerFunc(chatHandler.GetHistory)))
	mux.Handle("POST /api/chat/send-message", authMiddleware.Require(http.HandlerFunc(chatHandler.SendMessage)))

	// WebSocket — tarayıcılar upgrade isteğinde custom header gönderemez,
	// token query parameter ile gelir: ws://server/ws?token=JWT
	mux.HandleFunc("GET /ws", wsHandler.HandleConnection)

	// ─── CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := corsHandler.Handler(mux)

	// ─── 8. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce WebSocket bağlantıları kapatılır, sonra HTTP server yeni
	// istek almayı durdurur ve mevcut isteklerin bitmesini bekler.
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
