package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/pkg/config"
)

// SecretManager reads backend credentials from a Vault KV v2 mount
type SecretManager struct {
	client    *api.Client
	mountPath string
	path      string
	log       *zap.Logger
}

func NewSecretManager(cfg config.VaultConfig, log *zap.Logger) (*SecretManager, error) {
	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)

	return &SecretManager{
		client:    client,
		mountPath: cfg.MountPath,
		path:      cfg.Path,
		log:       log,
	}, nil
}

// Secrets returns the string values stored at the configured path
func (sm *SecretManager) Secrets(ctx context.Context) (map[string]string, error) {
	secret, err := sm.client.KVv2(sm.mountPath).Get(ctx, sm.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", sm.mountPath, sm.path, err)
	}

	values := make(map[string]string, len(secret.Data))
	for k, v := range secret.Data {
		if s, ok := v.(string); ok {
			values[k] = s
		}
	}
	return values, nil
}

// Apply overrides credentials in cfg with any values present in Vault
func (sm *SecretManager) Apply(ctx context.Context, cfg *config.Config) error {
	values, err := sm.Secrets(ctx)
	if err != nil {
		return err
	}

	targets := map[string]*string{
		"database_url":     &cfg.Database.URL,
		"redis_url":        &cfg.Redis.URL,
		"jwt_secret":       &cfg.JWT.Secret,
		"ors_api_key":      &cfg.Routing.APIKey,
		"sendgrid_api_key": &cfg.Email.APIKey,
	}

	applied := 0
	for key, target := range targets {
		if v := values[key]; v != "" {
			*target = v
			applied++
		}
	}

	sm.log.Info("Loaded secrets from vault",
		zap.String("path", sm.mountPath+"/"+sm.path),
		zap.Int("applied", applied),
	)
	return nil
}
