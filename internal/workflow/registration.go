package workflow

import (
	"fmt"
	"net/url"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/crypto"
	"github.com/arcagent/arcagent/internal/model"
	"github.com/arcagent/arcagent/internal/platform"
)

const (
	VerificationTimeout = 10 * time.Minute
	PINSetupTimeout     = 15 * time.Minute
)

type registrationEvent string

const (
	regEvCodeSent            registrationEvent = "code_sent"
	regEvCodeVerified        registrationEvent = "code_verified"
	regEvPINLinkSent         registrationEvent = "pin_link_sent"
	regEvPINSet              registrationEvent = "pin_set"
	regEvWalletProvisioned   registrationEvent = "wallet_provisioned"
	regEvCompleted           registrationEvent = "completed"
	regEvAlreadyRegistered   registrationEvent = "already_registered"
	regEvVerificationTimeout registrationEvent = "verification_timeout"
	regEvPINTimeout          registrationEvent = "pin_timeout"
	regEvProvisionFailed     registrationEvent = "provision_failed"
)

var registrationTransitions = map[model.RegistrationState]map[registrationEvent]model.RegistrationState{
	model.RegCreated: {
		regEvCodeSent:          model.RegCodeSent,
		regEvCodeVerified:      model.RegCodeVerified,
		regEvAlreadyRegistered: model.RegCompleted,
	},
	model.RegCodeSent: {
		regEvCodeVerified:        model.RegCodeVerified,
		regEvVerificationTimeout: model.RegVerificationTimeout,
	},
	model.RegCodeVerified: {
		regEvPINLinkSent: model.RegPINLinkSent,
	},
	model.RegPINLinkSent: {
		regEvPINSet:     model.RegPINSet,
		regEvPINTimeout: model.RegPINTimeout,
	},
	model.RegPINSet: {
		regEvWalletProvisioned: model.RegWalletProvisioned,
		regEvProvisionFailed:   model.RegProvisionFailed,
	},
	model.RegWalletProvisioned: {
		regEvCompleted: model.RegCompleted,
	},
}

// registrationMachine holds the single authoritative registration state.
// The progress flags are derived from transitions, so wallet creation can
// only be recorded after both the code and the PIN were accepted.
type registrationMachine struct {
	state         model.RegistrationState
	codeVerified  bool
	pinSet        bool
	walletCreated bool
}

func newRegistrationMachine() *registrationMachine {
	return &registrationMachine{state: model.RegCreated}
}

func (m *registrationMachine) apply(ev registrationEvent) error {
	next, ok := registrationTransitions[m.state][ev]
	if !ok {
		return fmt.Errorf("registration: event %s not allowed in state %s", ev, m.state)
	}
	switch ev {
	case regEvCodeVerified:
		m.codeVerified = true
	case regEvPINSet:
		m.pinSet = true
	case regEvWalletProvisioned:
		m.walletCreated = true
	case regEvAlreadyRegistered:
		m.codeVerified, m.pinSet, m.walletCreated = true, true, true
	}
	m.state = next
	return nil
}

func (m *registrationMachine) status() model.RegistrationStatus {
	return model.RegistrationStatus{
		State:         m.state,
		CodeVerified:  m.codeVerified,
		PINSet:        m.pinSet,
		WalletCreated: m.walletCreated,
	}
}

// RegistrationWorkflow onboards a phone number: it verifies ownership with a
// one-time code, collects a PIN through an out-of-band link, provisions a
// custody wallet and welcomes the user. Only one instance runs per phone.
//
// Timeouts end the workflow with an unsuccessful result rather than an
// error. A wallet provisioning failure fails the workflow with a
// non-retryable PROVISION_FAILED error.
func RegistrationWorkflow(ctx workflow.Context, params model.RegistrationParams) (*model.RegistrationResult, error) {
	logger := workflow.GetLogger(ctx)
	phone := params.PhoneNumber
	wfID := workflow.GetInfo(ctx).WorkflowExecution.ID

	m := newRegistrationMachine()
	err := workflow.SetQueryHandler(ctx, model.QueryStatus, func() (model.RegistrationStatus, error) {
		return m.status(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("register status query: %w", err)
	}

	var user activity.CreateUserResult
	err = workflow.ExecuteActivity(dbCtx(ctx), "CreateUser", activity.CreateUserParams{
		PhoneNumber: phone,
		AutoVerify:  params.AutoVerify,
	}).Get(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if user.RegistrationCompleted {
		logger.Info("user already registered", "phone", phone)
		if err := m.apply(regEvAlreadyRegistered); err != nil {
			return nil, err
		}
		return &model.RegistrationResult{
			Success:       true,
			PhoneNumber:   phone,
			WalletID:      user.WalletID,
			WalletAddress: user.WalletAddress,
		}, nil
	}

	if user.IsVerified {
		if err := m.apply(regEvCodeVerified); err != nil {
			return nil, err
		}
	} else {
		sendNotice(ctx, phone, model.NoticeVerificationCode, model.NoticeData{Code: user.VerificationCode})
		if err := m.apply(regEvCodeSent); err != nil {
			return nil, err
		}

		verified, err := awaitVerificationCode(ctx, phone, user.VerificationCode)
		if err != nil {
			return nil, err
		}
		if !verified {
			return failRegistration(ctx, m, regEvVerificationTimeout, model.ErrorVerificationTimeout, model.ErrCodeVerificationTimeout, phone)
		}
		if err := m.apply(regEvCodeVerified); err != nil {
			return nil, err
		}
	}

	var token string
	encoded := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
		return platform.NewID()
	})
	if err := encoded.Get(&token); err != nil {
		return nil, err
	}

	sendNotice(ctx, phone, model.NoticePINSetupLink, model.NoticeData{Link: pinSetupLink(params.PINSetupBaseURL, phone, token)})
	if err := m.apply(regEvPINLinkSent); err != nil {
		return nil, err
	}

	pinHash, ok := awaitPIN(ctx, token)
	if !ok {
		return failRegistration(ctx, m, regEvPINTimeout, model.ErrorPINTimeout, model.ErrCodePINSetupTimeout, phone)
	}
	err = workflow.ExecuteActivity(dbCtx(ctx), "UpdateUserPIN", activity.UpdateUserPINParams{
		PhoneNumber: phone,
		PINHash:     pinHash,
	}).Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store pin: %w", err)
	}
	if err := m.apply(regEvPINSet); err != nil {
		return nil, err
	}

	var w activity.WalletResult
	err = workflow.ExecuteActivity(walletWriteCtx(ctx), "CreateWallet", activity.CreateWalletParams{
		UserID:         phone,
		IdempotencyKey: wfID,
	}).Get(ctx, &w)
	if err == nil {
		err = workflow.ExecuteActivity(dbCtx(ctx), "UpdateUserWallet", activity.UpdateUserWalletParams{
			PhoneNumber:   phone,
			WalletID:      w.WalletID,
			WalletAddress: w.Address,
		}).Get(ctx, nil)
	}
	if err != nil {
		logger.Error("wallet provisioning failed", "phone", phone, "error", err)
		if applyErr := m.apply(regEvProvisionFailed); applyErr != nil {
			return nil, applyErr
		}
		sendError(ctx, phone, model.ErrorProvisionFailed)
		publishEvent(ctx, model.EventRegistrationFailed, phone, map[string]string{"reason": string(model.RegProvisionFailed)})
		return nil, temporal.NewNonRetryableApplicationError("wallet provisioning failed", model.ErrTypeProvisionFailed, err)
	}
	if err := m.apply(regEvWalletProvisioned); err != nil {
		return nil, err
	}

	sendNotice(ctx, phone, model.NoticeWelcome, model.NoticeData{WalletAddress: w.Address})
	publishEvent(ctx, model.EventRegistrationCompleted, phone, map[string]string{
		"wallet_id":      w.WalletID,
		"wallet_address": w.Address,
	})
	if err := m.apply(regEvCompleted); err != nil {
		return nil, err
	}

	return &model.RegistrationResult{
		Success:       true,
		PhoneNumber:   phone,
		WalletID:      w.WalletID,
		WalletAddress: w.Address,
	}, nil
}

func failRegistration(
	ctx workflow.Context,
	m *registrationMachine,
	ev registrationEvent,
	noticeKind, code, phone string,
) (*model.RegistrationResult, error) {
	if err := m.apply(ev); err != nil {
		return nil, err
	}
	sendError(ctx, phone, noticeKind)
	publishEvent(ctx, model.EventRegistrationFailed, phone, map[string]string{"reason": code})
	return &model.RegistrationResult{PhoneNumber: phone, Error: code}, nil
}

// awaitVerificationCode waits for a verify_code signal carrying the issued
// code. Mismatched codes are ignored; the deadline is fixed when the wait
// starts. Returns false on timeout.
func awaitVerificationCode(ctx workflow.Context, phone, expected string) (bool, error) {
	logger := workflow.GetLogger(ctx)
	ch := workflow.GetSignalChannel(ctx, model.SignalVerifyCode)
	timer, cancel := newTimerCtx(ctx, VerificationTimeout)
	defer cancel()

	for {
		var sig model.VerifyCodeSignal
		timedOut := false

		selector := workflow.NewSelector(ctx)
		selector.AddReceive(ch, func(c workflow.ReceiveChannel, _ bool) {
			c.Receive(ctx, &sig)
		})
		selector.AddFuture(timer, func(workflow.Future) { timedOut = true })
		selector.Select(ctx)

		if timedOut {
			return false, nil
		}
		if expected == "" || !crypto.Equal(sig.Code, expected) {
			logger.Warn("verification code mismatch", "phone", phone)
			continue
		}

		var ok bool
		err := workflow.ExecuteActivity(dbCtx(ctx), "VerifyUserCode", activity.VerifyUserCodeParams{
			PhoneNumber: phone,
			Code:        sig.Code,
		}).Get(ctx, &ok)
		if err != nil {
			return false, fmt.Errorf("verify code: %w", err)
		}
		if ok {
			return true, nil
		}
		logger.Warn("verification code rejected by store", "phone", phone)
	}
}

// awaitPIN waits for a set_pin signal carrying the link token. Returns the
// PIN hash of the first matching signal, or false on timeout.
func awaitPIN(ctx workflow.Context, token string) (string, bool) {
	logger := workflow.GetLogger(ctx)
	ch := workflow.GetSignalChannel(ctx, model.SignalSetPIN)
	timer, cancel := newTimerCtx(ctx, PINSetupTimeout)
	defer cancel()

	for {
		var sig model.SetPINSignal
		timedOut := false

		selector := workflow.NewSelector(ctx)
		selector.AddReceive(ch, func(c workflow.ReceiveChannel, _ bool) {
			c.Receive(ctx, &sig)
		})
		selector.AddFuture(timer, func(workflow.Future) { timedOut = true })
		selector.Select(ctx)

		if timedOut {
			return "", false
		}
		if !crypto.Equal(sig.Token, token) || sig.PINHash == "" {
			logger.Warn("set_pin signal with invalid token ignored")
			continue
		}
		return sig.PINHash, true
	}
}

// pinSetupLink adds the phone and the single-use token to the setup page URL.
func pinSetupLink(base, phone, token string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return base + "?phone=" + url.QueryEscape(phone) + "&token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("phone", phone)
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
