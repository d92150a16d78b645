package ports

import (
	"context"
)

// SecretsRepository reads key/value secrets from a secrets storage backend.
type SecretsRepository interface {
	// SetToken sets the authentication token for the secrets repository.
	SetToken(v string)

	// LoginAppRole exchanges an AppRole pair for a client token and keeps it.
	LoginAppRole(ctx context.Context, roleID, secretID string) error

	// ReadString returns the string stored under key at path of the KV mount.
	ReadString(ctx context.Context, mount, path, key string) (string, error)
}
