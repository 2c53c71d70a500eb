package core

import (
	"context"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/arcagent/arcagent/internal/crypto"
	"github.com/arcagent/arcagent/internal/model"
)

type RegistrationService struct {
	tc   temporalclient.Client
	opts Options
}

func NewRegistrationService(tc temporalclient.Client, opts Options) *RegistrationService {
	return &RegistrationService{tc: tc, opts: opts}
}

// Start begins registration for a phone number. At most one instance runs
// per phone; a repeated start while one is running is a no-op that returns
// the same workflow ID.
func (s *RegistrationService) Start(ctx context.Context, phone string) (*StartResult, error) {
	if err := CheckPhone(phone); err != nil {
		return nil, err
	}
	return startWorkflow(ctx, s.tc, temporalclient.StartWorkflowOptions{
		ID:                    model.RegistrationWorkflowID(phone),
		TaskQueue:             s.opts.TaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, model.RegistrationWorkflowName, model.RegistrationParams{
		PhoneNumber:     phone,
		AutoVerify:      s.opts.AutoVerify,
		PINSetupBaseURL: s.opts.PINSetupBaseURL,
	})
}

// VerifyCode forwards a verification code to the phone's registration.
func (s *RegistrationService) VerifyCode(ctx context.Context, phone, code string) error {
	if err := CheckPhone(phone); err != nil {
		return err
	}
	return signalWorkflow(ctx, s.tc, model.RegistrationWorkflowID(phone), model.SignalVerifyCode,
		model.VerifyCodeSignal{Code: code})
}

// SetPIN validates and hashes a PIN and forwards the hash with the setup
// token. The plain PIN never reaches workflow history.
func (s *RegistrationService) SetPIN(ctx context.Context, phone, pin, token string) error {
	if err := CheckPhone(phone); err != nil {
		return err
	}
	if err := crypto.ValidatePIN(pin); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if token == "" {
		return fmt.Errorf("%w: missing token", ErrInvalidInput)
	}
	hash, err := crypto.HashPIN(pin)
	if err != nil {
		return err
	}
	return signalWorkflow(ctx, s.tc, model.RegistrationWorkflowID(phone), model.SignalSetPIN,
		model.SetPINSignal{PINHash: hash, Token: token})
}

func (s *RegistrationService) Status(ctx context.Context, phone string) (*model.RegistrationStatus, error) {
	if err := CheckPhone(phone); err != nil {
		return nil, err
	}
	var st model.RegistrationStatus
	if err := queryWorkflow(ctx, s.tc, model.RegistrationWorkflowID(phone), model.QueryStatus, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
