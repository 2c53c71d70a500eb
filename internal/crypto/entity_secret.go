package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
)

// EncryptEntitySecret encrypts a hex-encoded entity secret with the custody
// provider's RSA public key (RSA-OAEP, SHA-256) and returns it base64 encoded.
// A fresh ciphertext is produced on every call.
func EncryptEntitySecret(hexSecret, publicKeyPEM string) (string, error) {
	secret, err := hex.DecodeString(hexSecret)
	if err != nil {
		return "", fmt.Errorf("decode entity secret: %w", err)
	}

	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return "", fmt.Errorf("decode public key: no PEM block")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("parse public key: %w", err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return "", fmt.Errorf("public key is %T, want RSA", parsed)
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, secret, nil)
	if err != nil {
		return "", fmt.Errorf("encrypt entity secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
