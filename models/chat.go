package models

import (
	"fmt"
	"strings"
)

// historyWindowSeconds: history sorgusu her zaman sentBefore'dan geriye
// 7 günlük bir pencereyle sınırlıdır — chat büyüdükçe sınırsız tablo
// taramasını ve sınırsız payload'u engeller.
const historyWindowSeconds = 7 * 24 * 60 * 60

// SentMessage, bir üyenin kulüp odasına gönderdiği mesaj.
// SentAt sunucuda hesaplanır (saniyeye yuvarlanmış Unix time) —
// client'ın sıralamayı manipüle etmesine izin verilmez.
type SentMessage struct {
	MemberID    int64  `json:"memberId"`
	ClubID      int64  `json:"clubId"`
	MessageText string `json:"messageText"`
	SentAt      int64  `json:"sentAt"`
}

// Validate, mesajın tüm alanlarının dolu olduğunu kontrol eder
// (construction-time check — store'a eksik satır gitmez).
func (m *SentMessage) Validate() error {
	m.MessageText = strings.TrimSpace(m.MessageText)
	if m.MemberID <= 0 || m.ClubID <= 0 || m.MessageText == "" || m.SentAt <= 0 {
		return fmt.Errorf("all fields are required")
	}
	return nil
}

// ChatMessage, history satırı ve broadcast payload'unun ortak biçimi:
// persist edilmiş mesaj + gönderenin görünen adı (member JOIN sonucu).
type ChatMessage struct {
	MessageID   int64  `json:"message_id"`
	MemberID    int64  `json:"member_id"`
	MemberName  string `json:"name"`
	MessageText string `json:"message_text"`
	SentAt      int64  `json:"sent_at"`
}

// HistoryRequest, kulüp chat geçmişi sorgusu.
// SentBefore exclusive üst sınırdır; alt sınır her zaman
// SentBefore - 7 gün (exclusive) olarak türetilir.
type HistoryRequest struct {
	ClubID     int64 `json:"clubId"`
	SentBefore int64 `json:"sentBefore"`
}

// Validate, HistoryRequest'i doğrular.
func (r *HistoryRequest) Validate() error {
	if r.ClubID <= 0 || r.SentBefore <= 0 {
		return fmt.Errorf("clubId and sentBefore are required")
	}
	return nil
}

// SentAfter, pencerenin exclusive alt sınırını döner.
// Aralık iki uçta da strict'tir: sent_at < SentBefore AND sent_at > SentAfter().
func (r *HistoryRequest) SentAfter() int64 {
	return r.SentBefore - historyWindowSeconds
}
