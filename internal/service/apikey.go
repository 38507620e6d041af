package service

import "golang.org/x/crypto/bcrypt"

// APIKeyAuthenticator verifies a shared service API key against its bcrypt
// hash, the same hashing primitive the teacher's auth_service.go uses for
// user passwords (bcrypt.GenerateFromPassword/CompareHashAndPassword),
// repurposed here for a single static service credential instead of
// per-user ones.
type APIKeyAuthenticator struct {
	hash []byte
}

// NewAPIKeyAuthenticator wraps a bcrypt hash read from configuration. An
// empty hash means API-key auth is disabled and Verify always fails closed.
func NewAPIKeyAuthenticator(bcryptHash string) *APIKeyAuthenticator {
	return &APIKeyAuthenticator{hash: []byte(bcryptHash)}
}

// Enabled reports whether an API key hash was configured at all.
func (a *APIKeyAuthenticator) Enabled() bool {
	return len(a.hash) > 0
}

// Verify reports whether key matches the configured hash.
func (a *APIKeyAuthenticator) Verify(key string) bool {
	if !a.Enabled() {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.hash, []byte(key)) == nil
}

// HashAPIKey produces the bcrypt hash an operator stores as API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
