package wallet

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arcagent/arcagent/internal/config"
)

// sandboxSettlePolls is how many status polls a sandbox transfer stays
// pending before it settles.
const sandboxSettlePolls = 2

// NewFromConfig builds the custody provider selected by WALLET_PROVIDER.
func NewFromConfig(cfg *config.Config, rdb redis.UniversalClient) (Provider, error) {
	switch cfg.WalletProvider {
	case "sandbox":
		if rdb == nil {
			return nil, fmt.Errorf("sandbox wallet provider requires REDIS_URL")
		}
		return NewSandbox(rdb, cfg.SandboxFaucetCents, sandboxSettlePolls), nil
	case "circle":
		return NewCircle(CircleOptions{
			BaseURL:      cfg.CircleBaseURL,
			APIKey:       cfg.CircleAPIKey,
			EntitySecret: cfg.CircleEntitySecret,
			Blockchain:   cfg.CircleBlockchain,
		}), nil
	default:
		return nil, fmt.Errorf("unknown wallet provider %q", cfg.WalletProvider)
	}
}
