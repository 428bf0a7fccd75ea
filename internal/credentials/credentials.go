// Package credentials reads and writes the session credential from the
// operating system keyring. The notification core only observes the
// credential; it is written by the auth command and the login flow.
package credentials

import (
	"errors"
	"fmt"
	"time"

	"github.com/99designs/keyring"
	"github.com/golang-jwt/jwt/v5"
)

const (
	serviceName = "storefront-notify"

	// AccessTokenKey is the persisted key-value entry holding the API token.
	AccessTokenKey = "access_token"
)

// Store wraps a keyring for credential lookups. The zero value is not
// usable; construct with Open or NewStore.
type Store struct {
	ring keyring.Keyring
}

// Open opens the system keyring, falling back to an encrypted file
// backend where no native keychain is available.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/storefront-notify/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("storefront-notify-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// NewStore wraps an existing keyring. Tests pass keyring.NewArrayKeyring.
func NewStore(ring keyring.Keyring) *Store {
	if ring == nil {
		panic("credentials.NewStore: ring cannot be nil")
	}
	return &Store{ring: ring}
}

// AccessToken returns the stored token, or the empty string when no
// credential is present. Absence is not an error: the core treats it as
// "stay idle".
func (s *Store) AccessToken() (string, error) {
	item, err := s.ring.Get(AccessTokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("getting credential %q: %w", AccessTokenKey, err)
	}
	return string(item.Data), nil
}

// SetAccessToken stores the token.
func (s *Store) SetAccessToken(token string) error {
	if token == "" {
		return errors.New("refusing to store an empty access token")
	}
	if err := s.ring.Set(keyring.Item{Key: AccessTokenKey, Data: []byte(token)}); err != nil {
		return fmt.Errorf("setting credential %q: %w", AccessTokenKey, err)
	}
	return nil
}

// ClearAccessToken removes the token. Clearing an absent token is a no-op.
func (s *Store) ClearAccessToken() error {
	err := s.ring.Remove(AccessTokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", AccessTokenKey, err)
	}
	return nil
}

// UsableToken returns the stored token only if it is present and not an
// expired JWT. Opaque (non-JWT) tokens are passed through untouched; the
// server is the authority on their validity.
func (s *Store) UsableToken() (string, error) {
	token, err := s.AccessToken()
	if err != nil {
		return "", err
	}
	if token == "" || isExpiredJWT(token, time.Now()) {
		return "", nil
	}
	return token, nil
}

// isExpiredJWT reports whether the token parses as a JWT carrying an exp
// claim in the past. The signature is deliberately not verified; this is
// a client-side short-circuit, not an auth decision.
func isExpiredJWT(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
