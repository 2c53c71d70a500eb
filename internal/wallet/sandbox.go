package wallet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/arcagent/arcagent/internal/platform"
)

const sandboxChain = "SANDBOX"

// Sandbox is a Redis-backed simulated custody provider. Wallets start with a
// faucet balance; transfers debit atomically and settle after a fixed number
// of status polls.
type Sandbox struct {
	rdb         redis.UniversalClient
	faucetCents int64
	settleAfter int
}

func NewSandbox(rdb redis.UniversalClient, faucetCents int64, settleAfter int) *Sandbox {
	if settleAfter < 1 {
		settleAfter = 1
	}
	return &Sandbox{rdb: rdb, faucetCents: faucetCents, settleAfter: settleAfter}
}

func walletKey(id string) string      { return "sandbox:wallet:" + id }
func addressKey(addr string) string   { return "sandbox:address:" + strings.ToLower(addr) }
func labelKey(label string) string    { return "sandbox:label:" + strings.ToLower(label) }
func transferKey(id string) string    { return "sandbox:transfer:" + id }
func walletIdemKey(key string) string { return "sandbox:idem:wallet:" + key }
func transferIdemKey(k string) string { return "sandbox:idem:transfer:" + k }

func deriveAddress(walletID string) string {
	sum := sha256.Sum256([]byte("address:" + walletID))
	return "0x" + hex.EncodeToString(sum[:20])
}

func deriveTxHash(transferID string) string {
	sum := sha256.Sum256([]byte("tx:" + transferID))
	return "0x" + hex.EncodeToString(sum[:])
}

var createWalletScript = redis.NewScript(`
if redis.call('SETNX', KEYS[1], ARGV[1]) == 0 then
  return redis.call('GET', KEYS[1])
end
redis.call('HSET', KEYS[2], 'id', ARGV[1], 'address', ARGV[2], 'user_id', ARGV[3], 'balance', ARGV[4])
redis.call('SET', KEYS[3], ARGV[1])
return ARGV[1]
`)

func (s *Sandbox) CreateWallet(ctx context.Context, userID, idempotencyKey string) (*Wallet, error) {
	id := "sbx-" + platform.DeriveKey("wallet/"+idempotencyKey)
	addr := deriveAddress(id)

	got, err := createWalletScript.Run(ctx, s.rdb,
		[]string{walletIdemKey(idempotencyKey), walletKey(id), addressKey(addr)},
		id, addr, userID, s.faucetCents,
	).Text()
	if err != nil {
		return nil, fmt.Errorf("create sandbox wallet: %w", err)
	}

	fields, err := s.rdb.HMGet(ctx, walletKey(got), "id", "address").Result()
	if err != nil {
		return nil, fmt.Errorf("load sandbox wallet %s: %w", got, err)
	}
	if fields[0] == nil {
		return nil, fmt.Errorf("load sandbox wallet %s: %w", got, ErrNotFound)
	}
	return &Wallet{ID: fields[0].(string), Address: fields[1].(string), Blockchain: sandboxChain}, nil
}

func (s *Sandbox) Balance(ctx context.Context, walletID string) (int64, error) {
	bal, err := s.rdb.HGet(ctx, walletKey(walletID), "balance").Int64()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("balance of %s: %w", walletID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("balance of %s: %w", walletID, err)
	}
	return bal, nil
}

// RegisterLabel makes a human label (a merchant name, say) resolvable to an address.
func (s *Sandbox) RegisterLabel(ctx context.Context, label, address string) error {
	if err := s.rdb.Set(ctx, labelKey(label), address, 0).Err(); err != nil {
		return fmt.Errorf("register label %s: %w", label, err)
	}
	return nil
}

func (s *Sandbox) ResolveLabel(ctx context.Context, label string) (string, error) {
	if IsAddress(label) {
		return label, nil
	}
	addr, err := s.rdb.Get(ctx, labelKey(label)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("resolve %q: %w", label, ErrUnknownRecipient)
	}
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", label, err)
	}
	return addr, nil
}

// transferScript debits the source wallet and records the transfer in one
// step. A repeated idempotency key returns the existing transfer id.
var transferScript = redis.NewScript(`
local existing = redis.call('GET', KEYS[1])
if existing then
  return {'existing', existing}
end
if redis.call('EXISTS', KEYS[2]) == 0 then
  return {'error', 'not_found'}
end
local balance = tonumber(redis.call('HGET', KEYS[2], 'balance'))
local amount = tonumber(ARGV[2])
if balance < amount then
  return {'error', 'insufficient'}
end
redis.call('HINCRBY', KEYS[2], 'balance', -amount)
redis.call('HSET', KEYS[3], 'id', ARGV[1], 'status', 'pending', 'to', ARGV[3], 'amount', ARGV[2], 'tx_hash', ARGV[4], 'polls', 0)
redis.call('SET', KEYS[1], ARGV[1])
return {'created', ARGV[1]}
`)

func (s *Sandbox) Transfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("transfer amount %d: %w", req.AmountCents, ErrRejected)
	}
	if !IsAddress(req.Destination) {
		return nil, fmt.Errorf("destination %q: %w", req.Destination, ErrUnknownRecipient)
	}

	id := "sbx-tr-" + platform.DeriveKey("transfer/"+req.IdempotencyKey)
	res, err := transferScript.Run(ctx, s.rdb,
		[]string{transferIdemKey(req.IdempotencyKey), walletKey(req.WalletID), transferKey(id)},
		id, req.AmountCents, strings.ToLower(req.Destination), deriveTxHash(id),
	).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("sandbox transfer: %w", err)
	}

	switch {
	case res[0] == "error" && res[1] == "not_found":
		return nil, fmt.Errorf("source wallet %s: %w", req.WalletID, ErrNotFound)
	case res[0] == "error" && res[1] == "insufficient":
		return nil, fmt.Errorf("transfer of %d from %s: %w", req.AmountCents, req.WalletID, ErrInsufficientFunds)
	}

	return s.loadTransfer(ctx, res[1])
}

// settleScript moves a pending transfer to complete once it has been polled
// enough times and credits the destination wallet if it is a sandbox wallet.
var settleScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'status') ~= 'pending' then
  return 0
end
local polls = redis.call('HINCRBY', KEYS[1], 'polls', 1)
if polls < tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'status', 'complete')
if KEYS[2] ~= '' and redis.call('EXISTS', KEYS[2]) == 1 then
  redis.call('HINCRBY', KEYS[2], 'balance', tonumber(redis.call('HGET', KEYS[1], 'amount')))
end
return 1
`)

func (s *Sandbox) TransferStatus(ctx context.Context, transferID string) (*Transfer, error) {
	to, err := s.rdb.HGet(ctx, transferKey(transferID), "to").Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("transfer %s: %w", transferID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("transfer %s: %w", transferID, err)
	}

	destKey := ""
	if destID, err := s.rdb.Get(ctx, addressKey(to)).Result(); err == nil {
		destKey = walletKey(destID)
	}

	if err := settleScript.Run(ctx, s.rdb, []string{transferKey(transferID), destKey}, s.settleAfter).Err(); err != nil {
		return nil, fmt.Errorf("settle transfer %s: %w", transferID, err)
	}
	return s.loadTransfer(ctx, transferID)
}

func (s *Sandbox) loadTransfer(ctx context.Context, id string) (*Transfer, error) {
	fields, err := s.rdb.HGetAll(ctx, transferKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load transfer %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("load transfer %s: %w", id, ErrNotFound)
	}

	t := &Transfer{ID: id, Status: fields["status"]}
	if t.Status == StatusComplete {
		t.TxHash = fields["tx_hash"]
	}
	return t, nil
}

// Credit adds funds to a sandbox wallet. Used to top up test accounts.
func (s *Sandbox) Credit(ctx context.Context, walletID string, cents int64) (int64, error) {
	exists, err := s.rdb.Exists(ctx, walletKey(walletID)).Result()
	if err != nil {
		return 0, fmt.Errorf("credit %s: %w", walletID, err)
	}
	if exists == 0 {
		return 0, fmt.Errorf("credit %s: %w", walletID, ErrNotFound)
	}
	bal, err := s.rdb.HIncrBy(ctx, walletKey(walletID), "balance", cents).Result()
	if err != nil {
		return 0, fmt.Errorf("credit %s: %w", walletID, err)
	}
	return bal, nil
}

var _ Provider = (*Sandbox)(nil)
