package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arcagent/arcagent/internal/api/request"
	"github.com/arcagent/arcagent/internal/api/response"
	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/model"
)

type Registration struct {
	svc *core.RegistrationService
}

func NewRegistration(svc *core.RegistrationService) *Registration {
	return &Registration{svc: svc}
}

// Start godoc
//
//	@Summary		Start registration
//	@Description	Starts the registration workflow for a phone number. A repeated call while one is running returns the same workflow ID with already_started set.
//	@Tags			Registrations
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			body body request.StartRegistration true "Phone number"
//	@Success		202 {object} core.StartResult
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/registrations [post]
func (h *Registration) Start(w http.ResponseWriter, r *http.Request) {
	var req request.StartRegistration
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Start(r.Context(), req.PhoneNumber)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusAccepted, res)
}

// Status godoc
//
//	@Summary		Get registration status
//	@Description	Queries the live state and progress flags of a phone's registration workflow.
//	@Tags			Registrations
//	@Security		ApiKeyAuth
//	@Produce		json
//	@Param			phone path string true "E.164 phone number"
//	@Success		200 {object} model.RegistrationStatus
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/registrations/{phone} [get]
func (h *Registration) Status(w http.ResponseWriter, r *http.Request) {
	phone, err := request.RequirePhone(chi.URLParam(r, "phone"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.svc.Status(r.Context(), phone)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, st)
}

// VerifyCode godoc
//
//	@Summary		Submit verification code
//	@Description	Forwards a 6-digit code to the running registration. delivered is false when no registration is waiting.
//	@Tags			Registrations
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			phone path string true "E.164 phone number"
//	@Param			body body request.VerifyCode true "Verification code"
//	@Success		200 {object} response.Delivered
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/registrations/{phone}/verify-code [post]
func (h *Registration) VerifyCode(w http.ResponseWriter, r *http.Request) {
	phone, err := request.RequirePhone(chi.URLParam(r, "phone"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req request.VerifyCode
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.svc.VerifyCode(r.Context(), phone, req.Code)
	response.WriteSignalResult(w, model.RegistrationWorkflowID(phone), err)
}

// SetPIN godoc
//
//	@Summary		Set PIN
//	@Description	Hashes the PIN and forwards it with the setup token to the running registration. The token from the PIN setup link authorizes the call, so the PIN setup page posts here without an API key.
//	@Tags			Registrations
//	@Accept			json
//	@Produce		json
//	@Param			phone path string true "E.164 phone number"
//	@Param			body body request.SetPIN true "PIN and setup token"
//	@Success		200 {object} response.Delivered
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/registrations/{phone}/pin [post]
//	@Router			/registrations/{phone}/pin [post]
func (h *Registration) SetPIN(w http.ResponseWriter, r *http.Request) {
	phone, err := request.RequirePhone(chi.URLParam(r, "phone"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req request.SetPIN
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.svc.SetPIN(r.Context(), phone, req.PIN, req.Token)
	response.WriteSignalResult(w, model.RegistrationWorkflowID(phone), err)
}
