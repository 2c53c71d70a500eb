package handler

import (
	"net/http"

	"github.com/arcagent/arcagent/internal/api/request"
	"github.com/arcagent/arcagent/internal/api/response"
	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/messaging"
)

type Message struct {
	chat *core.ChatService
}

func NewMessage(chat *core.ChatService) *Message {
	return &Message{chat: chat}
}

type SendMessageResponse struct {
	To         string `json:"to"`
	MessageSID string `json:"message_sid"`
}

// Send godoc
//
//	@Summary		Send a message
//	@Description	Sends a free-form chat message to a phone number and logs it as outbound.
//	@Tags			Messages
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			body body request.SendMessage true "Recipient and text"
//	@Success		200 {object} SendMessageResponse
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/messages [post]
func (h *Message) Send(w http.ResponseWriter, r *http.Request) {
	var req request.SendMessage
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	phone := messaging.PhoneFromAddress(req.To)
	sid, err := h.chat.Send(r.Context(), phone, req.Message)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, SendMessageResponse{To: phone, MessageSID: sid})
}
