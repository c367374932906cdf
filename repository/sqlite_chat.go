package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akinalp/kulup/models"
)

// sqliteChatRepo, ChatRepository interface'inin SQLite implementasyonu.
type sqliteChatRepo struct {
	db *sql.DB
}

// NewSQLiteChatRepo, constructor — interface döner.
func NewSQLiteChatRepo(db *sql.DB) ChatRepository {
	return &sqliteChatRepo{db: db}
}

func (r *sqliteChatRepo) Insert(ctx context.Context, msg *models.SentMessage) (int64, error) {
	query := `
		INSERT INTO chat (member_id, club_id, message_text, sent_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		msg.MemberID, msg.ClubID, msg.MessageText, msg.SentAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert chat message: %w", err)
	}

	return id, nil
}

// History — INNER JOIN ile gönderen adı satıra eklenir; frontend tek
// istekle mesaj + isim alır. İki sınır da strict inequality: tam
// sentBefore veya tam sentAfter anındaki mesajlar pencereye girmez.
func (r *sqliteChatRepo) History(ctx context.Context, clubID, sentBefore, sentAfter int64) ([]models.ChatMessage, error) {
	query := `
		SELECT c.id, c.member_id, m.name, c.message_text, c.sent_at
		FROM chat c
		INNER JOIN member m ON c.member_id = m.id
		WHERE c.club_id = ? AND c.sent_at < ? AND c.sent_at > ?
		ORDER BY c.sent_at DESC`

	rows, err := r.db.QueryContext(ctx, query, clubID, sentBefore, sentAfter)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(
			&msg.MessageID, &msg.MemberID, &msg.MemberName, &msg.MessageText, &msg.SentAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}

	return messages, nil
}
