package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/vault/api"
)

var (
	ErrSecretNotFound  = errors.New("secret not found")
	ErrSecretNotString = errors.New("secret value is not a string")
	ErrNoAuthInfo      = errors.New("no auth info returned from Vault")
)

// VaultRepository reads KV version 2 secrets.
type VaultRepository struct {
	client *api.Client
}

func NewVaultRepository(client *api.Client) *VaultRepository {
	return &VaultRepository{client: client}
}

func (r *VaultRepository) SetToken(v string) {
	r.client.SetToken(v)
}

func (r *VaultRepository) LoginAppRole(ctx context.Context, roleID, secretID string) error {
	resp, err := r.client.Logical().WriteWithContext(ctx, "auth/approle/login", map[string]any{
		"role_id":   roleID,
		"secret_id": secretID,
	})
	if err != nil {
		return fmt.Errorf("failed to authenticate via approle: %w", err)
	}

	if resp == nil || resp.Auth == nil {
		return ErrNoAuthInfo
	}

	r.client.SetToken(resp.Auth.ClientToken)

	return nil
}

func (r *VaultRepository) ReadString(ctx context.Context, mount, path, key string) (string, error) {
	secret, err := r.client.KVv2(mount).Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("reading %s/%s: %w", mount, path, err)
	}

	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s#%s", ErrSecretNotFound, mount, path, key)
	}

	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s/%s#%s", ErrSecretNotString, mount, path, key)
	}

	return str, nil
}
