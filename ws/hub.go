package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// RoomBroadcaster, service katmanının kulüp odalarına event yayınlamak
// için kullandığı interface.
//
// Dependency Inversion: ChatService, Hub'ın concrete struct'ına değil
// bu interface'e bağımlıdır — testlerde fake broadcaster kullanılır.
type RoomBroadcaster interface {
	BroadcastToRoom(clubID int64, event Event)
}

// ChatMessageFunc, ws katmanından gelen send-message event'ini işleyen
// callback. main.go'da ChatService.Send'e bağlanır — ws paketi services
// paketini import etmez, cycle oluşmaz.
type ChatMessageFunc func(memberID, clubID int64, messageText string) error

// Hub, tüm WebSocket bağlantılarını ve kulüp odalarını yöneten merkezi
// yapı.
//
// İki index tutulur:
// - clients: memberID → Client set (bir üyenin birden fazla tab'ı olabilir)
// - rooms:   clubID  → Client set (odaya o an abone bağlantılar)
//
// Oda üyeliği bağlantı bazlıdır, üye bazlı değil: aynı üyenin iki
// tab'ından yalnızca odayı açan tab mesajları alır.
type Hub struct {
	clients map[int64]map[*Client]bool
	rooms   map[int64]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client

	// seq: her outbound event'e verilen artan sayaç. atomic.Int64 —
	// broadcast birden fazla goroutine'den çağrılabilir.
	seq atomic.Int64

	// OnChatMessage, send-message event'lerinin işleyicisi.
	// main.go'da hub.Run()'dan önce set edilir, sonra değiştirilmez.
	OnChatMessage ChatMessageFunc
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		rooms:      make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run, Hub'ın ana event loop'u. main.go'da `go hub.Run()` ile başlatılır.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// addClient, yeni bağlantıyı Hub'a ekler.
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.memberID]; !ok {
		h.clients[client.memberID] = make(map[*Client]bool)
	}
	h.clients[client.memberID][client] = true

	log.Printf("[ws] client connected: member=%d (connections: %d)",
		client.memberID, len(h.clients[client.memberID]))
}

// removeClient, bağlantıyı Hub'dan çıkarır: abone olduğu tüm odalardan
// düşer ve send channel'ı kapatılır.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.memberID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	// Bağlantı kopunca oda üyelikleri de biter — client'ın takip ettiği
	// oda set'i üzerinden temizlenir, tüm odaların taranması gerekmez.
	for clubID := range client.rooms {
		h.leaveRoomLocked(client, clubID)
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.clients, client.memberID)
		log.Printf("[ws] member fully disconnected: %d", client.memberID)
	} else {
		log.Printf("[ws] client disconnected: member=%d (remaining: %d)",
			client.memberID, len(clients))
	}
}

// joinRoom, client'ı kulüp odasına abone yapar. Idempotent.
func (h *Hub) joinRoom(client *Client, clubID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[clubID]; !ok {
		h.rooms[clubID] = make(map[*Client]bool)
	}
	h.rooms[clubID][client] = true
	client.rooms[clubID] = true

	log.Printf("[ws] member %d opened club chat %d", client.memberID, clubID)
}

// leaveRoom, client'ın oda aboneliğini kaldırır. Abone olmayan client
// için no-op.
func (h *Hub) leaveRoom(client *Client, clubID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveRoomLocked(client, clubID)
}

// leaveRoomLocked — caller h.mu'yu tutuyor olmalı.
func (h *Hub) leaveRoomLocked(client *Client, clubID int64) {
	if room, ok := h.rooms[clubID]; ok {
		delete(room, client)
		// Boş oda map'te tutulmaz — oda kavramı tamamen dinamiktir.
		if len(room) == 0 {
			delete(h.rooms, clubID)
		}
	}
	delete(client.rooms, clubID)
}

// BroadcastToRoom, kulüp odasına abone tüm client'lara event gönderir.
//
// Yavaş client (send buffer dolu) broadcast'i BLOKLAMAZ: event o
// client için düşer ve bağlantı kapatılmak üzere unregister'a verilir.
// Bir okuyamayan bağlantı odadaki herkesi bekletemez.
func (h *Hub) BroadcastToRoom(clubID int64, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal room event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[clubID] {
		select {
		case client.send <- data:
		default:
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// Shutdown, tüm bağlantıları kapatır (graceful shutdown).
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
	h.rooms = make(map[int64]map[*Client]bool)
	log.Println("[ws] hub shut down, all connections closed")
}
