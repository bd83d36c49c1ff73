package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/hnthread/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct{}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	Config     *domain.Config // Effective configuration
	GlobalPath string         // Global config file path
	LocalPath  string         // Local config file path
}

// ShowConfig displays the effective configuration and where it comes from.
type ShowConfig struct {
	configLoader  domain.ConfigLoader
	configManager domain.ConfigManager
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configLoader domain.ConfigLoader, configManager domain.ConfigManager) *ShowConfig {
	return &ShowConfig{
		configLoader:  configLoader,
		configManager: configManager,
	}
}

// Execute loads the merged configuration.
func (uc *ShowConfig) Execute(_ context.Context, _ ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &ShowConfigOutput{
		Config:     cfg,
		GlobalPath: uc.configManager.GlobalConfigPath(),
		LocalPath:  uc.configManager.LocalConfigPath(),
	}, nil
}
