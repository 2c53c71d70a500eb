package platform

import (
	"crypto/rand"

	"github.com/google/uuid"
)

const shortIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const shortIDLength = 12

// NewID returns a random UUIDv4 string.
func NewID() string {
	return uuid.New().String()
}

// NewShortID returns prefix followed by a random lowercase alphanumeric suffix.
func NewShortID(prefix string) string {
	b := make([]byte, shortIDLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	for i := range b {
		b[i] = shortIDAlphabet[b[i]%byte(len(shortIDAlphabet))]
	}
	return prefix + string(b)
}

// NewTransactionID returns an ID for a transactions row.
func NewTransactionID() string {
	return NewShortID("tx_")
}

// DeriveKey maps an arbitrary idempotency key onto a stable UUIDv5, for
// providers that only accept UUID-shaped keys.
func DeriveKey(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("arcagent:"+key)).String()
}
