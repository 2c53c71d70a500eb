package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/intent"
	"github.com/arcagent/arcagent/internal/messaging"
	"github.com/arcagent/arcagent/internal/metrics"
	"github.com/arcagent/arcagent/internal/model"
)

const historyLimit = 5

const (
	replyAlreadyRegistered   = "✅ You're already registered. Type \"help\" to see what you can do."
	replyRegistrationPending = "⏳ Your registration is in progress. Follow the last message we sent you."
	replyNoVerification      = "There is no verification in progress. Say \"hi\" to get started."
	replyNoPendingConfirm    = "You have no pending payment to confirm."
	replyNoPendingCancel     = "You have no pending payment to cancel."
	replyProcessing          = "⏳ Processing your payment..."
	replyNoTransactions      = "📊 No transactions yet."
	replyUnknown             = "🤔 I didn't understand that. Type \"help\" to see what I can do."
	replyHelp                = `ArcAgent commands:

💸 "Send $20 to +14155550101" or "Pay john 20"
✅ "Confirm" / ❌ "Cancel" a pending payment
💰 "Balance"
📊 "History"
👋 "Hi" to register`
)

// InboundMessage is one chat message received from the provider.
type InboundMessage struct {
	From       string
	Body       string
	MessageSID string
}

// ChatService turns inbound chat messages into router calls and replies
// through the messaging provider. Workflow progress (codes, links,
// confirmations, receipts) is sent by the workflows themselves; the chat
// service only answers what the workflows do not.
type ChatService struct {
	store        Store
	registration *RegistrationService
	payment      *PaymentService
	account      *AccountService
	sender       messaging.Sender
	catalog      *messaging.Catalog
}

func NewChatService(
	store Store,
	registration *RegistrationService,
	payment *PaymentService,
	account *AccountService,
	sender messaging.Sender,
	catalog *messaging.Catalog,
) *ChatService {
	return &ChatService{
		store:        store,
		registration: registration,
		payment:      payment,
		account:      account,
		sender:       sender,
		catalog:      catalog,
	}
}

// HandleInbound processes one inbound message and returns the reply that
// was sent, if any. A message SID seen before is ignored. A sender that
// is not an E.164 number yields ErrInvalidInput before anything is logged.
func (s *ChatService) HandleInbound(ctx context.Context, msg InboundMessage) (string, error) {
	phone := messaging.PhoneFromAddress(msg.From)
	if err := CheckPhone(phone); err != nil {
		return "", err
	}
	in := intent.Parse(msg.Body)
	metrics.InboundMessagesTotal.WithLabelValues(string(in.Kind)).Inc()

	id, err := s.store.LogMessage(ctx, activity.LogMessageParams{
		UserID:     phone,
		Direction:  model.DirectionInbound,
		Body:       msg.Body,
		MessageSID: msg.MessageSID,
		Intent:     string(in.Kind),
	})
	if err != nil {
		return "", fmt.Errorf("log inbound message: %w", err)
	}
	if id == 0 && msg.MessageSID != "" {
		return "", nil
	}

	reply, err := s.route(ctx, phone, in)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", nil
	}

	if _, err := s.deliver(ctx, phone, reply, string(in.Kind)); err != nil {
		return "", err
	}
	return reply, nil
}

// Send delivers an operator message to a phone outside any conversation
// and returns the provider message SID.
func (s *ChatService) Send(ctx context.Context, phone, body string) (string, error) {
	if err := CheckPhone(phone); err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("%w: empty message", ErrInvalidInput)
	}
	return s.deliver(ctx, phone, body, "")
}

func (s *ChatService) deliver(ctx context.Context, phone, body, intentKind string) (string, error) {
	sid, err := s.sender.Send(ctx, messaging.WhatsAppAddress(phone), body)
	if err != nil {
		return "", fmt.Errorf("send message to %s: %w", phone, err)
	}
	// Best effort: the message is already delivered.
	_, _ = s.store.LogMessage(ctx, activity.LogMessageParams{
		UserID:     phone,
		Direction:  model.DirectionOutbound,
		Body:       body,
		MessageSID: sid,
		Intent:     intentKind,
	})
	return sid, nil
}

func (s *ChatService) route(ctx context.Context, phone string, in intent.Intent) (string, error) {
	switch in.Kind {
	case intent.Register:
		u, err := s.store.GetUser(ctx, phone)
		if err != nil {
			return "", err
		}
		if u.Registered() {
			return s.text(replyAlreadyRegistered)
		}
		res, err := s.registration.Start(ctx, phone)
		if err != nil {
			return "", err
		}
		if res.AlreadyStarted {
			return s.text(replyRegistrationPending)
		}
		return "", nil

	case intent.VerifyCode:
		err := s.registration.VerifyCode(ctx, phone, in.Code)
		if errors.Is(err, ErrNothingPending) {
			return s.text(replyNoVerification)
		}
		return "", err

	case intent.SendMoney:
		_, err := s.payment.Start(ctx, StartPaymentParams{
			Phone:       phone,
			AmountCents: in.AmountCents,
			Recipient:   in.Recipient,
		})
		if errors.Is(err, ErrInvalidInput) {
			return s.errorText(model.ErrorInvalidAmount)
		}
		return "", err

	case intent.Confirm:
		_, err := s.payment.ConfirmLatest(ctx, phone)
		if errors.Is(err, ErrNothingPending) {
			return s.text(replyNoPendingConfirm)
		}
		if err != nil {
			return "", err
		}
		return s.text(replyProcessing)

	case intent.Cancel:
		_, err := s.payment.CancelLatest(ctx, phone)
		if errors.Is(err, ErrNothingPending) {
			return s.text(replyNoPendingCancel)
		}
		return "", err

	case intent.CheckBalance:
		b, err := s.account.Balance(ctx, phone)
		if errors.Is(err, ErrNotRegistered) {
			return s.errorText(model.ErrorNotRegistered)
		}
		if err != nil {
			return "", err
		}
		return s.text(fmt.Sprintf("💰 Your balance is $%s", b.Balance))

	case intent.History:
		txs, err := s.account.Transactions(ctx, phone, historyLimit)
		if errors.Is(err, ErrNotRegistered) {
			return s.errorText(model.ErrorNotRegistered)
		}
		if err != nil {
			return "", err
		}
		return s.text(formatHistory(txs))

	case intent.Help:
		return s.text(replyHelp)
	}
	return s.text(replyUnknown)
}

func (s *ChatService) text(body string) (string, error) {
	return s.catalog.Render(model.NoticeReply, model.NoticeData{Text: body})
}

func (s *ChatService) errorText(kind string) (string, error) {
	return s.catalog.Render(model.NoticeError, model.NoticeData{ErrorKind: kind})
}

func formatHistory(txs []model.Transaction) string {
	if len(txs) == 0 {
		return replyNoTransactions
	}
	var b strings.Builder
	b.WriteString("📊 Recent transactions:\n")
	for _, tx := range txs {
		fmt.Fprintf(&b, "\n%s  $%s to %s (%s)", tx.CreatedAt.Format("Jan 02"),
			model.FormatCents(tx.AmountCents), tx.Recipient, tx.Status)
	}
	return b.String()
}
