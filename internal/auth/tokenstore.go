package auth

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/topiq/internal/store"
)

// Key-value store keys for the persisted session triple.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
)

// TokenStore is the persistent cell holding the session triple. It performs
// no validation of token contents; writers always write the full triple so
// the pairing invariant holds across readers.
type TokenStore struct {
	kv store.KV
}

// NewTokenStore creates a TokenStore backed by kv.
func NewTokenStore(kv store.KV) *TokenStore {
	return &TokenStore{kv: kv}
}

// Get returns the current session. A missing triple yields a guest session,
// not an error.
func (t *TokenStore) Get() (Session, error) {
	values, err := t.kv.GetMany(keyAccessToken, keyRefreshToken, keyUser)
	if err != nil {
		return Session{}, err
	}

	s := Session{
		AccessToken:  values[0],
		RefreshToken: values[1],
	}
	if values[2] != "" {
		var u User
		if err := json.Unmarshal([]byte(values[2]), &u); err != nil {
			return Session{}, fmt.Errorf("decode stored user: %w", err)
		}
		s.User = &u
	}
	return s, nil
}

// Set overwrites the full triple in one transaction.
func (t *TokenStore) Set(s Session) error {
	var user string
	if s.User != nil {
		b, err := json.Marshal(s.User)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		user = string(b)
	}
	return t.kv.PutMany(map[string]string{
		keyAccessToken:  s.AccessToken,
		keyRefreshToken: s.RefreshToken,
		keyUser:         user,
	})
}

// Clear removes the full triple in one transaction.
func (t *TokenStore) Clear() error {
	return t.kv.DeleteMany(keyAccessToken, keyRefreshToken, keyUser)
}

// AccessToken returns the current access token, empty for guests. It
// satisfies the api client's TokenReader so every request sees the latest
// write.
func (t *TokenStore) AccessToken() (string, error) {
	token, err := t.kv.Get(keyAccessToken)
	if err != nil {
		return "", err
	}
	return token, nil
}
