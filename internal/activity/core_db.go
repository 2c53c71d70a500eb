package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/arcagent/arcagent/internal/crypto"
	"github.com/arcagent/arcagent/internal/model"
)

// DB defines the database operations used by activity structs.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const verificationCodeTTL = 10 * time.Minute

// CoreDB contains activities that read from and update the core database.
type CoreDB struct {
	db      DB
	newCode func() (string, error)
}

// NewCoreDB creates a new CoreDB activity struct.
func NewCoreDB(db DB) *CoreDB {
	return &CoreDB{db: db, newCode: crypto.NewVerificationCode}
}

// CreateUser upserts the user row for a phone number. A fresh code is issued
// unless the number is already verified; AutoVerify marks it verified.
func (a *CoreDB) CreateUser(ctx context.Context, params CreateUserParams) (*CreateUserResult, error) {
	var code *string
	var expires *time.Time
	if !params.AutoVerify {
		c, err := a.newCode()
		if err != nil {
			return nil, err
		}
		exp := time.Now().Add(verificationCodeTTL)
		code, expires = &c, &exp
	}

	var res CreateUserResult
	var storedCode, walletID, walletAddr *string
	err := a.db.QueryRow(ctx,
		`INSERT INTO users (id, whatsapp_number, verification_code, verification_code_expires, is_verified)
		 VALUES ($1, $1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		   verification_code = CASE WHEN users.is_verified THEN NULL ELSE EXCLUDED.verification_code END,
		   verification_code_expires = CASE WHEN users.is_verified THEN NULL ELSE EXCLUDED.verification_code_expires END,
		   is_verified = users.is_verified OR EXCLUDED.is_verified,
		   updated_at = now()
		 RETURNING verification_code, is_verified, registration_completed, circle_wallet_id, circle_wallet_address`,
		params.PhoneNumber, code, expires, params.AutoVerify,
	).Scan(&storedCode, &res.IsVerified, &res.RegistrationCompleted, &walletID, &walletAddr)
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", params.PhoneNumber, err)
	}

	res.VerificationCode = deref(storedCode)
	res.WalletID = deref(walletID)
	res.WalletAddress = deref(walletAddr)
	return &res, nil
}

// VerifyUserCode marks the user verified if the code matches and has not
// expired. Returns true when the user is verified afterwards.
func (a *CoreDB) VerifyUserCode(ctx context.Context, params VerifyUserCodeParams) (bool, error) {
	tag, err := a.db.Exec(ctx,
		`UPDATE users SET is_verified = TRUE, verification_code = NULL, verification_code_expires = NULL, updated_at = now()
		 WHERE id = $1 AND (is_verified OR (verification_code = $2 AND verification_code_expires > now()))`,
		params.PhoneNumber, params.Code,
	)
	if err != nil {
		return false, fmt.Errorf("verify user code %s: %w", params.PhoneNumber, err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetUser returns the user for a phone number, or nil if none exists.
func (a *CoreDB) GetUser(ctx context.Context, phone string) (*model.User, error) {
	var u model.User
	var pinHash, walletID, walletAddr *string
	err := a.db.QueryRow(ctx,
		`SELECT id, whatsapp_number, is_verified, pin_hash, circle_wallet_id, circle_wallet_address,
		        registration_completed, is_active, created_at, updated_at
		 FROM users WHERE id = $1`, phone,
	).Scan(&u.ID, &u.WhatsAppNumber, &u.IsVerified, &pinHash, &walletID, &walletAddr,
		&u.RegistrationCompleted, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", phone, err)
	}
	u.PINHash = deref(pinHash)
	u.WalletID = deref(walletID)
	u.WalletAddress = deref(walletAddr)
	return &u, nil
}

// WalletAddressByPhone returns the wallet address of a registered user, or
// "" if the phone has no completed registration.
func (a *CoreDB) WalletAddressByPhone(ctx context.Context, phone string) (string, error) {
	var addr *string
	err := a.db.QueryRow(ctx,
		`SELECT circle_wallet_address FROM users
		 WHERE id = $1 AND registration_completed AND is_active`, phone,
	).Scan(&addr)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("wallet address of %s: %w", phone, err)
	}
	return deref(addr), nil
}

func (a *CoreDB) UpdateUserPIN(ctx context.Context, params UpdateUserPINParams) error {
	tag, err := a.db.Exec(ctx,
		`UPDATE users SET pin_hash = $2, updated_at = now() WHERE id = $1`,
		params.PhoneNumber, params.PINHash,
	)
	if err != nil {
		return fmt.Errorf("update pin %s: %w", params.PhoneNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update pin %s: user not found", params.PhoneNumber)
	}
	return nil
}

// VerifyUserPIN checks a plain PIN against the stored hash. A stored hash
// that does not parse is an error; a missing user or PIN is a failed check.
func (a *CoreDB) VerifyUserPIN(ctx context.Context, params VerifyUserPINParams) (*VerifyUserPINResult, error) {
	var pinHash *string
	err := a.db.QueryRow(ctx, `SELECT pin_hash FROM users WHERE id = $1`, params.PhoneNumber).Scan(&pinHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return &VerifyUserPINResult{Reason: PINReasonUserNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pin of %s: %w", params.PhoneNumber, err)
	}
	if deref(pinHash) == "" {
		return &VerifyUserPINResult{Reason: PINReasonNotSet}, nil
	}

	ok, err := crypto.VerifyPIN(params.PIN, *pinHash)
	if err != nil {
		return nil, fmt.Errorf("verify pin of %s: %w", params.PhoneNumber, err)
	}
	if !ok {
		return &VerifyUserPINResult{Reason: PINReasonMismatch}, nil
	}
	return &VerifyUserPINResult{Verified: true}, nil
}

// UpdateUserWallet stores the provisioned wallet and completes registration.
func (a *CoreDB) UpdateUserWallet(ctx context.Context, params UpdateUserWalletParams) error {
	tag, err := a.db.Exec(ctx,
		`UPDATE users SET circle_wallet_id = $2, circle_wallet_address = $3,
		        registration_completed = TRUE, updated_at = now()
		 WHERE id = $1`,
		params.PhoneNumber, params.WalletID, params.WalletAddress,
	)
	if err != nil {
		return fmt.Errorf("update wallet %s: %w", params.PhoneNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update wallet %s: user not found", params.PhoneNumber)
	}
	return nil
}

// CreateTransaction inserts a pending transaction. Re-inserting the same ID
// is a no-op.
func (a *CoreDB) CreateTransaction(ctx context.Context, params CreateTransactionParams) error {
	_, err := a.db.Exec(ctx,
		`INSERT INTO transactions (id, user_id, workflow_id, transaction_type, amount_cents, recipient,
		                           recipient_address, status, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO NOTHING`,
		params.ID, params.UserID, params.WorkflowID, model.TransactionTypeSend, params.AmountCents,
		params.Recipient, nullIfEmpty(params.RecipientAddress), model.TxPending, nullIfEmpty(params.Description),
	)
	if err != nil {
		return fmt.Errorf("create transaction %s: %w", params.ID, err)
	}
	return nil
}

// RecordTransfer attaches the provider transfer ID to a pending transaction.
func (a *CoreDB) RecordTransfer(ctx context.Context, params RecordTransferParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE transactions SET transfer_id = $2, updated_at = now()
		 WHERE id = $1 AND status = $3`,
		params.TransactionID, params.TransferID, model.TxPending,
	)
	if err != nil {
		return fmt.Errorf("record transfer for %s: %w", params.TransactionID, err)
	}
	return nil
}

// UpdateTransactionStatus writes a terminal status. Only a pending row is
// updated, so the terminal status is written exactly once; the return value
// reports whether this call applied it.
func (a *CoreDB) UpdateTransactionStatus(ctx context.Context, params UpdateTransactionStatusParams) (bool, error) {
	if !model.IsTerminalTxStatus(params.Status) {
		return false, fmt.Errorf("update transaction %s: %q is not a terminal status", params.ID, params.Status)
	}
	tag, err := a.db.Exec(ctx,
		`UPDATE transactions SET status = $2, tx_hash = COALESCE($3, tx_hash),
		        confirmed_at = CASE WHEN $2 = 'confirmed' THEN now() ELSE confirmed_at END,
		        updated_at = now()
		 WHERE id = $1 AND status = 'pending'`,
		params.ID, params.Status, nullIfEmpty(params.TxHash),
	)
	if err != nil {
		return false, fmt.Errorf("update transaction %s: %w", params.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// LogMessage records a chat message. A repeated provider message SID is
// ignored and returns 0.
func (a *CoreDB) LogMessage(ctx context.Context, params LogMessageParams) (int64, error) {
	var id int64
	err := a.db.QueryRow(ctx,
		`INSERT INTO messages (user_id, direction, message_body, message_sid, intent, workflow_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (message_sid) DO NOTHING
		 RETURNING id`,
		params.UserID, params.Direction, params.Body, nullIfEmpty(params.MessageSID),
		nullIfEmpty(params.Intent), nullIfEmpty(params.WorkflowID),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("log message for %s: %w", params.UserID, err)
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

const maxListLimit = 100

// ListTransactions returns the most recent transactions of a user, newest first.
func (a *CoreDB) ListTransactions(ctx context.Context, phone string, limit int) ([]model.Transaction, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	rows, err := a.db.Query(ctx,
		`SELECT id, user_id, workflow_id, transaction_type, amount_cents, recipient, recipient_address,
		        status, transfer_id, tx_hash, description, created_at, confirmed_at
		 FROM transactions WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`, phone, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions of %s: %w", phone, err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var recipientAddr, transferID, txHash, desc *string
		if err := rows.Scan(&t.ID, &t.UserID, &t.WorkflowID, &t.TransactionType, &t.AmountCents,
			&t.Recipient, &recipientAddr, &t.Status, &transferID, &txHash, &desc,
			&t.CreatedAt, &t.ConfirmedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.RecipientAddress = deref(recipientAddr)
		t.TransferID = deref(transferID)
		t.TxHash = deref(txHash)
		t.Description = deref(desc)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}
