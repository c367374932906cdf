package repository

import (
	"context"

	"github.com/akinalp/kulup/models"
)

// ChatRepository, chat persistence işlemleri için interface.
//
// Chat tablosu append-only'dir: mesajlar persist edildikten sonra asla
// değiştirilmez veya silinmez. History her zaman (sentAfter, sentBefore)
// penceresiyle sorgulanır — iki sınır da exclusive.
type ChatRepository interface {
	// Insert, mesajı kalıcı olarak yazar ve store'un atadığı mesaj
	// id'sini döner. Broadcast'ten ÖNCE tamamlanmak zorundadır.
	Insert(ctx context.Context, msg *models.SentMessage) (int64, error)
	// History, kulübün sent_at < sentBefore AND sent_at > sentAfter
	// aralığındaki mesajlarını gönderen adıyla birlikte, en yeniden
	// eskiye sıralı döner.
	History(ctx context.Context, clubID, sentBefore, sentAfter int64) ([]models.ChatMessage, error)
}
