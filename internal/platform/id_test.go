package platform

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_ReturnsValidUUIDString(t *testing.T) {
	id := NewID()
	assert.NotEmpty(t, id)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id)
}

func TestNewShortID_Format(t *testing.T) {
	for _, prefix := range []string{"tx_", "evt_", "w_"} {
		assert.Regexp(t, regexp.MustCompile(`^`+prefix+`[a-z0-9]{12}$`), NewShortID(prefix))
	}
	assert.Regexp(t, `^tx_[a-z0-9]{12}$`, NewTransactionID())
}

func TestNewShortID_ReturnsUniqueValues(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		id := NewTransactionID()
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestDeriveKey_Stable(t *testing.T) {
	a := DeriveKey("payment-+15550001111-3/transfer")
	b := DeriveKey("payment-+15550001111-3/transfer")
	c := DeriveKey("payment-+15550001111-4/transfer")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-5[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, a)
}
