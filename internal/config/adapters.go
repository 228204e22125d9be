package config

import (
	"github.com/garyjia/benefit-reimbursement/internal/application/submission"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/engine"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/external/lark"
	"github.com/garyjia/benefit-reimbursement/pkg/database"
	"github.com/garyjia/benefit-reimbursement/pkg/utils"
)

// DatabaseConfig converts the journal section for pkg/database
func (c *Config) DatabaseConfig() database.Config {
	return database.Config{
		Path:            c.Journal.Path,
		MaxOpenConns:    c.Journal.MaxOpenConns,
		MaxIdleConns:    c.Journal.MaxIdleConns,
		ConnMaxLifetime: c.Journal.ConnMaxLifetime,
	}
}

// EngineConfig converts the engine section for the engine client
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		BaseURL: c.Engine.BaseURL,
		Timeout: c.Engine.Timeout,
	}
}

// LarkClientConfig converts the lark section for the messenger
func (c *Config) LarkClientConfig() lark.Config {
	return lark.Config{
		AppID:         c.Lark.AppID,
		AppSecret:     c.Lark.AppSecret,
		ReceiveIDType: lark.ReceiveIDChat,
	}
}

// RegistryConfig converts the session section for the session registry
func (c *Config) RegistryConfig() submission.RegistryConfig {
	return submission.RegistryConfig{
		TTL:           c.Session.TTL,
		SweepInterval: c.Session.SweepInterval,
	}
}

// LoggerConfig converts the logger section for pkg/utils
func (c *Config) LoggerConfig() utils.LoggerConfig {
	return utils.LoggerConfig{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
	}
}
