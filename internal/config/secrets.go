package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

var errNoSecretData = errors.New("no secret data found in AWS Secrets Manager")

// SecretsOverlay is the JSON document stored in AWS Secrets Manager
type SecretsOverlay struct {
	DatabasePassword string `json:"database_password"`
	OddsAPIKey       string `json:"odds_api_key"`
}

// SecretsClient is the subset of the Secrets Manager client used here
type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// NewSecretsClient builds a Secrets Manager client for the region
func NewSecretsClient(ctx context.Context, region string) (SecretsClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return secretsmanager.NewFromConfig(awsCfg), nil
}

// FetchSecrets retrieves and decodes the named secret
func FetchSecrets(ctx context.Context, client SecretsClient, secretName string) (*SecretsOverlay, error) {
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret from AWS Secrets Manager: %w", err)
	}
	return parseSecretData(result)
}

func parseSecretData(result *secretsmanager.GetSecretValueOutput) (*SecretsOverlay, error) {
	var raw []byte
	switch {
	case result.SecretString != nil:
		raw = []byte(*result.SecretString)
	case result.SecretBinary != nil:
		raw = result.SecretBinary
	default:
		return nil, errNoSecretData
	}

	var secrets SecretsOverlay
	if err := json.Unmarshal(raw, &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}
	return &secrets, nil
}

// Apply overlays non-empty secrets onto the configuration
func (s *SecretsOverlay) Apply(cfg *Config) {
	if s.DatabasePassword != "" {
		cfg.Database.Password = s.DatabasePassword
	}
	if s.OddsAPIKey != "" {
		cfg.API.APIKey = s.OddsAPIKey
	}
}

// ApplySecrets loads the overlay when secrets are enabled; a no-op otherwise
func ApplySecrets(ctx context.Context, cfg *Config, client SecretsClient) error {
	if !cfg.Secrets.Enabled {
		return nil
	}
	if client == nil {
		var err error
		client, err = NewSecretsClient(ctx, cfg.Secrets.Region)
		if err != nil {
			return err
		}
	}

	secrets, err := FetchSecrets(ctx, client, cfg.Secrets.SecretName)
	if err != nil {
		return err
	}
	secrets.Apply(cfg)
	return nil
}
