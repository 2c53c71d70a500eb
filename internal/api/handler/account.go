package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/api/request"
	"github.com/arcagent/arcagent/internal/api/response"
	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/model"
)

const (
	defaultTransactionLimit = 10
	maxTransactionLimit     = 100
)

// Referenced in swag annotations.
var (
	_ *model.Transaction
	_ *activity.VerifyUserPINResult
)

type Account struct {
	svc *core.AccountService
}

func NewAccount(svc *core.AccountService) *Account {
	return &Account{svc: svc}
}

// Balance godoc
//
//	@Summary		Get wallet balance
//	@Description	Reads the live balance of a registered user's wallet from the custody provider.
//	@Tags			Users
//	@Security		ApiKeyAuth
//	@Produce		json
//	@Param			phone path string true "E.164 phone number"
//	@Success		200 {object} core.Balance
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/users/{phone}/balance [get]
func (h *Account) Balance(w http.ResponseWriter, r *http.Request) {
	phone, err := request.RequirePhone(chi.URLParam(r, "phone"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.svc.Balance(r.Context(), phone)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, b)
}

// Transactions godoc
//
//	@Summary		List transactions
//	@Description	Returns the most recent transactions of a registered user, newest first.
//	@Tags			Users
//	@Security		ApiKeyAuth
//	@Produce		json
//	@Param			phone path string true "E.164 phone number"
//	@Param			limit query int false "Maximum number of items" default(10) maximum(100)
//	@Success		200 {object} response.Items{items=[]model.Transaction}
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/users/{phone}/transactions [get]
func (h *Account) Transactions(w http.ResponseWriter, r *http.Request) {
	phone, err := request.RequirePhone(chi.URLParam(r, "phone"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := request.Limit(r, defaultTransactionLimit, maxTransactionLimit)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := h.svc.Transactions(r.Context(), phone, limit)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, response.Items{Items: txs})
}

// Summary godoc
//
//	@Summary		Get account summary
//	@Description	Returns the balance together with the most recent transactions. Both are read concurrently.
//	@Tags			Users
//	@Security		ApiKeyAuth
//	@Produce		json
//	@Param			phone path string true "E.164 phone number"
//	@Param			limit query int false "Maximum number of transactions" default(10) maximum(100)
//	@Success		200 {object} core.Summary
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/users/{phone}/summary [get]
func (h *Account) Summary(w http.ResponseWriter, r *http.Request) {
	phone, err := request.RequirePhone(chi.URLParam(r, "phone"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := request.Limit(r, defaultTransactionLimit, maxTransactionLimit)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := h.svc.Summary(r.Context(), phone, limit)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, sum)
}

// VerifyPIN godoc
//
//	@Summary		Verify a user's PIN
//	@Description	Checks a 6-digit PIN against the stored hash. A failed check is a 200 with verified=false and a reason.
//	@Tags			Users
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			phone path string true "E.164 phone number"
//	@Param			body body request.VerifyPIN true "PIN"
//	@Success		200 {object} activity.VerifyUserPINResult
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/users/{phone}/pin/verify [post]
func (h *Account) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	phone, err := request.RequirePhone(chi.URLParam(r, "phone"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req request.VerifyPIN
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.VerifyPIN(r.Context(), phone, req.PIN)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, res)
}
