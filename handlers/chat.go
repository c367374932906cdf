package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/kulup/models"
	"github.com/akinalp/kulup/pkg"
	"github.com/akinalp/kulup/services"
)

// ChatHandler, chat endpoint'lerini yöneten struct.
type ChatHandler struct {
	chatService services.ChatService
}

// NewChatHandler, constructor.
func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GetHistory godoc
// POST /api/chat/get-history
// Body: { "clubId": 1, "sentBefore": 1724900000 }
// Auth middleware gerektirir. sentBefore'dan geriye 7 günlük pencere
// döner, en yeni mesaj önce.
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	var req models.HistoryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	messages, err := h.chatService.History(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	// Boş pencere null değil boş liste döner.
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	pkg.JSON(w, http.StatusOK, messages)
}

// SendMessage godoc
// POST /api/chat/send-message
// Body: { "clubId": 1, "messageText": "..." }
//
// WebSocket send-message event'inin HTTP karşılığı — gönderen kimliği
// body'den değil access token'dan gelir, client başkası adına yazamaz.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	memberID, ok := MemberIDFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "member not found in context")
		return
	}

	var req struct {
		ClubID      int64  `json:"clubId"`
		MessageText string `json:"messageText"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.chatService.Send(r.Context(), memberID, req.ClubID, req.MessageText)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, msg)
}
