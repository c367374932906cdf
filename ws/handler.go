package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/akinalp/kulup/models"
)

// TokenValidator, WebSocket handler'ın JWT doğrulaması için kullandığı
// dar interface.
//
// services.AuthService doğrudan kullanılsaydı ws → services → ws
// import döngüsü oluşurdu (services broadcast için ws'e bağımlı).
// Handler'ın tek ihtiyacı ValidateAccessToken — main.go'daki
// authService bu interface'i implicit olarak karşılar.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// upgrader, HTTP bağlantısını WebSocket'e yükseltir.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin: production'da domain kontrolü yapılmalı.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
}

// NewHandler, yeni bir WebSocket handler oluşturur.
func NewHandler(hub *Hub, tokenValidator TokenValidator) *Handler {
	return &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
	}
}

// HandleConnection, bağlantıyı doğrular, WebSocket'e yükseltir ve
// client'ı Hub'a kaydeder.
//
// Token Authorization header yerine query parameter ile gelir —
// tarayıcı WebSocket API'si custom header göndermeye izin vermez:
//
//	ws://server/ws?token=JWT
//
// Upgrade yalnızca geçerli access token ile yapılır; doğrulanamayan
// istek WebSocket'e hiç dönüşmez, 401 alır.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokenValidator.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for member %d: %v", claims.MemberID, err)
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		memberID: claims.MemberID,
		rooms:    make(map[int64]bool),
		send:     make(chan []byte, sendBufferSize),
	}

	h.hub.register <- client

	// WritePump ayrı goroutine'de; ReadPump bu goroutine'de bağlantı
	// kapanana kadar bloklar — handler erken dönmez.
	go client.WritePump()
	client.ReadPump()
}
