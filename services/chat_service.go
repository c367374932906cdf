package services

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/kulup/models"
	"github.com/akinalp/kulup/pkg"
	"github.com/akinalp/kulup/repository"
	"github.com/akinalp/kulup/ws"
)

// ChatService, kulüp chat iş kuralları: mesaj persist + broadcast, tarihçe.
type ChatService interface {
	// Send, mesajı kalıcı yazar ve kulüp odasına yayınlar. Persist
	// broadcast'ten ÖNCE tamamlanır — yazma başarısızsa hiçbir client
	// mesajı görmez ve gönderen hata alır.
	Send(ctx context.Context, memberID, clubID int64, messageText string) (*models.ChatMessage, error)
	// History, kulübün sentBefore'dan geriye 7 günlük penceresindeki
	// mesajlarını en yeniden eskiye sıralı döner.
	History(ctx context.Context, req *models.HistoryRequest) ([]models.ChatMessage, error)
}

// chatService, ChatService implementasyonu.
type chatService struct {
	chatRepo   repository.ChatRepository
	memberRepo repository.MemberRepository
	hub        ws.RoomBroadcaster
}

// NewChatService, constructor.
func NewChatService(
	chatRepo repository.ChatRepository,
	memberRepo repository.MemberRepository,
	hub ws.RoomBroadcaster,
) ChatService {
	return &chatService{
		chatRepo:   chatRepo,
		memberRepo: memberRepo,
		hub:        hub,
	}
}

func (s *chatService) Send(ctx context.Context, memberID, clubID int64, messageText string) (*models.ChatMessage, error) {
	// Timestamp sunucuda atanır, saniyeye yuvarlanır — client saatine
	// güvenilmez ve history penceresi saniye çözünürlüğünde çalışır.
	msg := &models.SentMessage{
		MemberID:    memberID,
		ClubID:      clubID,
		MessageText: messageText,
		SentAt:      time.Now().Unix(),
	}
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// Gönderen adı broadcast satırına eklenir — alıcılar ayrıca üye
	// sorgulamaz.
	member, err := s.memberRepo.GetByID(ctx, msg.MemberID)
	if err != nil {
		return nil, err
	}

	id, err := s.chatRepo.Insert(ctx, msg)
	if err != nil {
		return nil, err
	}

	out := &models.ChatMessage{
		MessageID:   id,
		MemberID:    member.ID,
		MemberName:  member.Name,
		MessageText: msg.MessageText,
		SentAt:      msg.SentAt,
	}

	// Broadcast best-effort'tur: persist başarılıysa mesaj artık kalıcı
	// gerçektir, o anda odada kimse olmasa bile history'den okunur.
	s.hub.BroadcastToRoom(clubID, ws.Event{Op: ws.OpReceiveMessage, Data: out})

	return out, nil
}

func (s *chatService) History(ctx context.Context, req *models.HistoryRequest) ([]models.ChatMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	return s.chatRepo.History(ctx, req.ClubID, req.SentBefore, req.SentAfter())
}
