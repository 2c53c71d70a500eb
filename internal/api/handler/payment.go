package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/arcagent/arcagent/internal/api/request"
	"github.com/arcagent/arcagent/internal/api/response"
	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/model"
)

const defaultWatchInterval = time.Second

// Referenced in swag annotations.
var _ *model.PaymentStatus

type Payment struct {
	svc           *core.PaymentService
	watchInterval time.Duration
}

func NewPayment(svc *core.PaymentService) *Payment {
	return &Payment{svc: svc, watchInterval: defaultWatchInterval}
}

// Start godoc
//
//	@Summary		Start payment
//	@Description	Starts a payment workflow. Each request gets a fresh instance unless the optional Idempotency-Key header repeats one seen before.
//	@Tags			Payments
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key header string false "Maps repeated requests onto the same instance"
//	@Param			body body request.StartPayment true "Payment"
//	@Success		202 {object} core.StartResult
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/payments [post]
func (h *Payment) Start(w http.ResponseWriter, r *http.Request) {
	var req request.StartPayment
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	cents, err := req.AmountCents()
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Start(r.Context(), core.StartPaymentParams{
		Phone:          req.PhoneNumber,
		AmountCents:    cents,
		Recipient:      req.Recipient,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusAccepted, res)
}

// Status godoc
//
//	@Summary		Get payment status
//	@Description	Queries the live state of a payment workflow.
//	@Tags			Payments
//	@Security		ApiKeyAuth
//	@Produce		json
//	@Param			workflowID path string true "Payment workflow ID"
//	@Success		200 {object} model.PaymentStatus
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/payments/{workflowID} [get]
func (h *Payment) Status(w http.ResponseWriter, r *http.Request) {
	wfID, err := request.RequireID(chi.URLParam(r, "workflowID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.svc.Status(r.Context(), wfID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, st)
}

// Confirm godoc
//
//	@Summary		Confirm payment
//	@Description	Signals confirmation to a payment. delivered is false when the instance has already finished.
//	@Tags			Payments
//	@Security		ApiKeyAuth
//	@Produce		json
//	@Param			workflowID path string true "Payment workflow ID"
//	@Success		200 {object} response.Delivered
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/payments/{workflowID}/confirm [post]
func (h *Payment) Confirm(w http.ResponseWriter, r *http.Request) {
	wfID, err := request.RequireID(chi.URLParam(r, "workflowID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	response.WriteSignalResult(w, wfID, h.svc.Confirm(r.Context(), wfID))
}

// Cancel godoc
//
//	@Summary		Cancel payment
//	@Description	Signals cancellation to a payment. Cancel wins over a confirmation that has not been acted on yet.
//	@Tags			Payments
//	@Security		ApiKeyAuth
//	@Produce		json
//	@Param			workflowID path string true "Payment workflow ID"
//	@Success		200 {object} response.Delivered
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/payments/{workflowID}/cancel [post]
func (h *Payment) Cancel(w http.ResponseWriter, r *http.Request) {
	wfID, err := request.RequireID(chi.URLParam(r, "workflowID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	response.WriteSignalResult(w, wfID, h.svc.Cancel(r.Context(), wfID))
}

// Watch godoc
//
//	@Summary		Watch payment status
//	@Description	Upgrades to a WebSocket and pushes a model.PaymentStatus snapshot each time it changes. The server closes the socket once the payment is terminal.
//	@Tags			Payments
//	@Security		ApiKeyAuth
//	@Param			workflowID path string true "Payment workflow ID"
//	@Success		101
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/api/v1/payments/{workflowID}/watch [get]
func (h *Payment) Watch(w http.ResponseWriter, r *http.Request) {
	wfID, err := request.RequireID(chi.URLParam(r, "workflowID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.svc.Status(r.Context(), wfID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.CloseNow()

	logger := zerolog.Ctx(r.Context()).With().Str("workflow_id", wfID).Logger()
	ctx := conn.CloseRead(r.Context())

	if err := wsjson.Write(ctx, conn, st); err != nil {
		return
	}

	ticker := time.NewTicker(h.watchInterval)
	defer ticker.Stop()

	last := *st
	for !last.State.Terminal() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		st, err := h.svc.Status(ctx, wfID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				conn.Close(websocket.StatusPolicyViolation, "payment not found")
				return
			}
			logger.Warn().Err(err).Msg("watch status query failed")
			continue
		}
		if *st == last {
			continue
		}
		if err := wsjson.Write(ctx, conn, st); err != nil {
			return
		}
		last = *st
	}

	conn.Close(websocket.StatusNormalClosure, string(last.State))
}
