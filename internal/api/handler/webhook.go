package handler

import (
	"encoding/xml"
	"net/http"

	"github.com/rs/zerolog"

	mw "github.com/arcagent/arcagent/internal/api/middleware"
	"github.com/arcagent/arcagent/internal/api/response"
	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/messaging"
	"github.com/arcagent/arcagent/internal/model"
)

// WebhookOptions configures signature checking. Signatures are verified
// only when both fields are set; PublicURL is the exact URL the provider
// posts to.
type WebhookOptions struct {
	AuthToken string
	PublicURL string
}

// Webhook receives inbound chat messages from Twilio.
type Webhook struct {
	chat    *core.ChatService
	limiter *mw.RateLimiter
	catalog *messaging.Catalog
	opts    WebhookOptions
}

func NewWebhook(chat *core.ChatService, limiter *mw.RateLimiter, catalog *messaging.Catalog, opts WebhookOptions) *Webhook {
	return &Webhook{chat: chat, limiter: limiter, catalog: catalog, opts: opts}
}

type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(twiml{Message: message})
}

// Incoming godoc
//
//	@Summary		Receive an inbound chat message
//	@Description	Twilio webhook. Replies are sent through the messaging API, so the TwiML answer is empty unless the sender is rate limited or the message could not be handled. Authenticated by X-Twilio-Signature, not the API key.
//	@Tags			Webhooks
//	@Accept			x-www-form-urlencoded
//	@Produce		xml
//	@Param			X-Twilio-Signature header string false "Request signature"
//	@Param			From formData string true "Sender address, e.g. whatsapp:+14155550100"
//	@Param			Body formData string false "Message text"
//	@Param			MessageSid formData string false "Provider message SID"
//	@Success		200 {string} string "TwiML response"
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/webhooks/twilio/incoming [post]
func (h *Webhook) Incoming(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	if h.opts.AuthToken != "" && h.opts.PublicURL != "" {
		sig := r.Header.Get("X-Twilio-Signature")
		if !messaging.ValidateSignature(h.opts.AuthToken, h.opts.PublicURL, r.PostForm, sig) {
			response.WriteError(w, http.StatusForbidden, "invalid signature")
			return
		}
	}

	msg := core.InboundMessage{
		From:       r.PostForm.Get("From"),
		Body:       r.PostForm.Get("Body"),
		MessageSID: r.PostForm.Get("MessageSid"),
	}
	if msg.From == "" {
		response.WriteError(w, http.StatusBadRequest, "missing From")
		return
	}
	phone := messaging.PhoneFromAddress(msg.From)
	if err := core.CheckPhone(phone); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	allowed, err := h.limiter.Allow(r.Context(), phone)
	if err != nil {
		logger.Warn().Err(err).Msg("rate limiter unavailable")
	}
	if !allowed {
		text, err := h.catalog.Render(model.NoticeError, model.NoticeData{ErrorKind: model.ErrorRateLimit})
		if err != nil {
			logger.Error().Err(err).Msg("render rate limit notice")
		}
		writeTwiML(w, text)
		return
	}

	if _, err := h.chat.HandleInbound(r.Context(), msg); err != nil {
		logger.Error().Err(err).Str("message_sid", msg.MessageSID).Msg("handle inbound message")
		text, _ := h.catalog.Render(model.NoticeError, model.NoticeData{ErrorKind: model.ErrorGeneral})
		writeTwiML(w, text)
		return
	}
	writeTwiML(w, "")
}
