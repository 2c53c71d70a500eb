package wallet

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcagent/arcagent/internal/config"
)

func TestNewFromConfig(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	p, err := NewFromConfig(&config.Config{WalletProvider: "sandbox", SandboxFaucetCents: 500}, rdb)
	require.NoError(t, err)
	assert.IsType(t, &Sandbox{}, p)

	p, err = NewFromConfig(&config.Config{WalletProvider: "circle", CircleAPIKey: "k", CircleEntitySecret: "s"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Circle{}, p)

	_, err = NewFromConfig(&config.Config{WalletProvider: "sandbox"}, nil)
	assert.Error(t, err)

	_, err = NewFromConfig(&config.Config{WalletProvider: "paper"}, nil)
	assert.Error(t, err)
}
