// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı chat
// dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları ve kulüp odalarını yöneten merkezi yapı
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Mesaj akışı:
// 1. Client "send-message" event'i gönderir (veya HTTP POST kullanır)
// 2. ChatService mesajı DB'ye yazar — persist broadcast'ten önce biter
// 3. Service, Hub'ın BroadcastToRoom metodunu çağırır
// 4. Hub, event'i o kulüp odasına abone tüm client'lara iletir
// 5. Her client'ın WritePump'ı event'i socket'e yazar
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op: event türü — "send-message", "heartbeat" vb.
// Data: event'e özgü payload.
// Seq: her outbound event'e verilen artan sayı. Client eksik event
// tespiti için takip edebilir (seq 5'ten sonra 7 geldiyse 6 kayıp).
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat     = "heartbeat"       // periyodik "hâlâ bağlıyım" sinyali
	OpOpenClubChat  = "open-club-chat"  // kulüp odasına abone ol
	OpCloseClubChat = "close-club-chat" // kulüp odasından ayrıl
	OpSendMessage   = "send-message"    // odaya mesaj gönder
)

// Server → Client operasyonları
const (
	OpHeartbeatAck   = "heartbeat_ack"   // heartbeat yanıtı
	OpReceiveMessage = "receive-message" // odaya yeni mesaj düştü
	OpError          = "error"           // yalnızca ilgili client'a giden hata
)

// OpenClubChatData, open-club-chat / close-club-chat payload'ı.
type OpenClubChatData struct {
	ClubID int64 `json:"clubId"`
}

// SendMessageData, send-message payload'ı.
//
// memberId alanı bağlantının kimliğiyle eşleşmek ZORUNDA — client
// başka bir üye adına mesaj gönderemez, handleEvent reddeder.
type SendMessageData struct {
	MemberID    int64  `json:"memberId"`
	ClubID      int64  `json:"clubId"`
	MessageText string `json:"messageText"`
}

// ErrorData, error event payload'ı.
type ErrorData struct {
	Message string `json:"message"`
}
