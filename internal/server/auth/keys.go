// Package auth holds the server's credential primitives: confirmation codes
// mailed at signup and the bearer tokens they are exchanged for.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32

// Keys are independent subkeys derived from the configured secret, so a
// confirmation-code MAC can never be replayed as a token signature.
type Keys struct {
	Code  []byte
	Token []byte
}

// DeriveKeys expands secret into Keys with HKDF-SHA256.
func DeriveKeys(secret string) (Keys, error) {
	if secret == "" {
		return Keys{}, errors.New("empty secret")
	}

	code, err := expand(secret, "yamdb confirmation code")
	if err != nil {
		return Keys{}, err
	}
	token, err := expand(secret, "yamdb access token")
	if err != nil {
		return Keys{}, err
	}
	return Keys{Code: code, Token: token}, nil
}

func expand(secret, info string) ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive %q: %w", info, err)
	}
	return key, nil
}
