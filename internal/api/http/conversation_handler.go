package http

import (
	"net/http"

	"usethis-backend/internal/domain"
)

type startConversationRequest struct {
	CounterpartID int32  `json:"counterpart_id"`
	ItemID        *int32 `json:"item_id,omitempty"`
	Message       string `json:"message"`
}

type sendMessageRequest struct {
	Content string             `json:"content"`
	Type    domain.MessageType `json:"type"`
}

func (h *handler) listConversations(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	convs, err := h.svc.Conversations.ListConversations(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if convs == nil {
		convs = []domain.Conversation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

func (h *handler) startConversation(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req startConversationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := h.svc.Conversations.StartConversation(r.Context(), sess.UserID, req.CounterpartID, req.ItemID, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"conversation_id": id})
}

func (h *handler) openConversation(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt32(r, "limit", 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt32(r, "offset", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	msgs, err := h.svc.Conversations.OpenConversation(r.Context(), sess.UserID, id, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (h *handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.svc.Conversations.SendMessage(r.Context(), sess.UserID, id, req.Content, req.Type)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
