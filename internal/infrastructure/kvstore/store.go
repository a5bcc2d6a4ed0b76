package kvstore

import (
	"context"
	"fmt"
)

// Store is the key-value persistence collaborator behind the session
// repository. Get returns apperrors.ErrNotFound for a missing or expired key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// AddFields sets every field of the hash at key that is not set yet and
	// returns all fields the hash now holds. Existing fields keep their value.
	// With no fields it only reads; a missing key yields an empty map.
	AddFields(ctx context.Context, key string, fields map[string]string) (map[string]string, error)
}

const (
	keyDraft           = "draft"
	keySavingsPlan     = "savingsPlan"
	keyLoanData        = "loanData"
	keyKYCData         = "kycData"
	keyUserData        = "userData"
	keyIsAuthenticated = "isAuthenticated"
)

// SessionKey namespaces a session value under its owner.
func SessionKey(owner, name string) string {
	return fmt.Sprintf("session:%s:%s", owner, name)
}
