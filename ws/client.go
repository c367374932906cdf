package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/akinalp/kulup/pkg"
	"github.com/gorilla/websocket"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: bir mesajı yazmak için maksimum bekleme süresi.
	// Aşılırsa bağlantı kapatılır (ağ sorunu olabilir).
	writeWait = 10 * time.Second

	// pongWait: client'ın heartbeat göndermesi için beklenen maksimum
	// süre. 3 heartbeat kaçırma = 30s × 3 = 90s. Bu sürede heartbeat
	// gelmezse bağlantı kopmuş sayılır.
	pongWait = 90 * time.Second

	// maxMessageSize: client'ın gönderebileceği maksimum frame boyutu.
	maxMessageSize = 4096

	// sendBufferSize: her client'ın send channel buffer boyutu.
	// Buffer doluysa client yavaş demektir — bağlantı kapatılır.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısını temsil eder.
//
// Her bağlantı için iki goroutine çalışır:
// - ReadPump: client'tan gelen event'leri okur ve işler
// - WritePump: send channel'ındaki mesajları socket'e yazar
//
// gorilla/websocket aynı anda tek okuma + tek yazma destekler; iki
// ayrı goroutine ile okuma ve yazma birbirini bloklamaz.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	memberID int64

	// rooms: bu bağlantının abone olduğu kulüp odaları. Yalnızca hub
	// goroutine'leri h.mu altında erişir — kendi mutex'i yoktur.
	rooms map[int64]bool

	// send: client'a gidecek marshal edilmiş event'lerin buffer'ı.
	// Hub yazar, WritePump okur.
	send chan []byte
	mu   sync.Mutex // conn.WriteMessage çağrılarını korur
}

// ReadPump, bağlantıdan gelen event'leri okur ve işler. Bağlantı
// kapanana kadar bloklar; kapanınca client Hub'dan çıkarılır.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	// Her heartbeat'te deadline yenilenir; gelmezse Read hata verir.
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for member %d: %v", c.memberID, err)
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for member %d: %v", c.memberID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			log.Printf("[ws] invalid message from member %d: %v", c.memberID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent, client'tan gelen event'leri türüne göre işler.
func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for member %d: %v", c.memberID, err)
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	case OpOpenClubChat:
		c.handleOpenClubChat(event)

	case OpCloseClubChat:
		c.handleCloseClubChat(event)

	case OpSendMessage:
		c.handleSendMessage(event)

	default:
		log.Printf("[ws] unknown op from member %d: %s", c.memberID, event.Op)
	}
}

// handleOpenClubChat, client'ı kulüp odasına abone yapar.
func (c *Client) handleOpenClubChat(event Event) {
	data, ok := decodeData[OpenClubChatData](event)
	if !ok || data.ClubID <= 0 {
		c.sendEvent(Event{Op: OpError, Data: ErrorData{Message: "invalid clubId"}})
		return
	}

	c.hub.joinRoom(c, data.ClubID)
}

// handleCloseClubChat, oda aboneliğini kaldırır.
func (c *Client) handleCloseClubChat(event Event) {
	data, ok := decodeData[OpenClubChatData](event)
	if !ok || data.ClubID <= 0 {
		c.sendEvent(Event{Op: OpError, Data: ErrorData{Message: "invalid clubId"}})
		return
	}

	c.hub.leaveRoom(c, data.ClubID)
}

// handleSendMessage, send-message event'ini işler.
//
// Payload'daki memberId bağlantının kimliğiyle eşleşmek zorunda —
// token'ı doğrulanan üye yalnızca kendi adına konuşabilir. Persist +
// broadcast sorumluluğu main.go'da bağlanan OnChatMessage callback'ine
// aittir (ws → services import cycle'ı bu şekilde kırılır).
func (c *Client) handleSendMessage(event Event) {
	data, ok := decodeData[SendMessageData](event)
	if !ok {
		c.sendEvent(Event{Op: OpError, Data: ErrorData{Message: "invalid send-message payload"}})
		return
	}

	if data.MemberID != c.memberID {
		log.Printf("[ws] member %d attempted to send as member %d", c.memberID, data.MemberID)
		c.sendEvent(Event{Op: OpError, Data: ErrorData{Message: "memberId does not match connection identity"}})
		return
	}

	if c.hub.OnChatMessage == nil {
		return
	}

	// Callback goroutine'de çağrılır — DB yazması read loop'u bloklamaz
	// ve broadcast sırasında hub mutex deadlock'u oluşmaz.
	go func() {
		if err := c.hub.OnChatMessage(data.MemberID, data.ClubID, data.MessageText); err != nil {
			// Hata yalnızca gönderene gider; oda etkilenmez.
			c.sendEvent(Event{Op: OpError, Data: ErrorData{Message: userFacingError(err)}})
		}
	}()
}

// sendEvent, client'a tek bir event gönderir.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for member %d: %v", c.memberID, err)
		return
	}

	select {
	case c.send <- data:
	default:
		// Buffer dolu — client muhtemelen donmuş, bağlantıyı kapat.
		log.Printf("[ws] send buffer full for member %d, dropping connection", c.memberID)
		c.hub.unregister <- c
	}
}

// WritePump, send channel'ından gelen mesajları socket'e yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			// Channel kapatıldı — Hub client'ı çıkardı.
			c.writeMessage(websocket.CloseMessage, nil)
			return
		}

		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// writeMessage — gorilla/websocket conn'a eşzamanlı yazma yasaktır,
// mutex ile serialize edilir.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

// decodeData, event.Data'yı (any) hedef payload tipine çevirir.
// Doğrudan cast mümkün değildir — marshal + unmarshal en güvenli yol.
func decodeData[T any](event Event) (T, bool) {
	var out T

	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(dataBytes, &out); err != nil {
		return out, false
	}
	return out, true
}

// userFacingError, callback hatasından client'a gösterilecek mesajı
// çıkarır. Beklenen hatalar (validation, bilinmeyen üye) olduğu gibi
// gider; iç hata detayı (DB vb.) sızdırılmaz.
func userFacingError(err error) string {
	if errors.Is(err, pkg.ErrBadRequest) || errors.Is(err, pkg.ErrNotFound) {
		return err.Error()
	}
	return "failed to send message"
}
