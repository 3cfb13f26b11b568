package config

import (
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"

	"github.com/MonkeyKingDev/git-peek/internal/logging"
)

const (
	// KeyringService is the service name in the OS keychain
	KeyringService = "GitPeek"

	// KeyringClientSecretItem is the key for the GitHub OAuth client secret
	KeyringClientSecretItem = "github-client-secret"
)

// KeyringManager handles secure credential storage in the OS keychain
type KeyringManager struct {
	logger *slog.Logger
}

// NewKeyringManager creates a new keyring manager
func NewKeyringManager() *KeyringManager {
	return &KeyringManager{
		logger: logging.Component("keyring"),
	}
}

// SaveClientSecret stores the OAuth client secret in the OS keychain.
// macOS: Keychain Access; Windows: Credential Manager; Linux: Secret
// Service (requires libsecret).
func (km *KeyringManager) SaveClientSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("client secret cannot be empty")
	}

	if err := keyring.Set(KeyringService, KeyringClientSecretItem, secret); err != nil {
		km.logger.Error("failed to save client secret to keychain", "error", err)
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}

	km.logger.Info("client secret saved to keychain", "service", KeyringService)
	return nil
}

// GetClientSecret retrieves the OAuth client secret from the OS keychain.
// A missing entry is not an error.
func (km *KeyringManager) GetClientSecret() (string, error) {
	secret, err := keyring.Get(KeyringService, KeyringClientSecretItem)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}
	return secret, nil
}

// DeleteClientSecret removes the stored client secret.
func (km *KeyringManager) DeleteClientSecret() error {
	err := keyring.Delete(KeyringService, KeyringClientSecretItem)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}
	return nil
}
