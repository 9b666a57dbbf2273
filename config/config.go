// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ChainSafe/anoma-go/internal/log"
	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/gossip"
	"github.com/ChainSafe/anoma-go/lib/token"
	"github.com/ChainSafe/anoma-go/lib/transaction"
	"github.com/ChainSafe/anoma-go/lib/utils"
	"github.com/ChainSafe/anoma-go/lib/wallet"

	"github.com/go-playground/validator/v10"
	"github.com/naoina/toml"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "config"))

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Config is a collection of configurations of the client
type Config struct {
	Global  GlobalConfig  `toml:"global"`
	Signing SigningConfig `toml:"signing,omitempty"`
	Wallet  WalletConfig  `toml:"wallet"`
	Fee     FeeConfig     `toml:"fee"`
	Gossip  GossipConfig  `toml:"gossip"`
}

// GlobalConfig is to marshal/unmarshal toml global config vars
type GlobalConfig struct {
	BasePath  string `toml:"basepath" validate:"required"`
	LogLvl    string `toml:"log" validate:"required"`
	// LogCaller lists the caller fields logged: file, line and func.
	LogCaller string `toml:"log-caller,omitempty"`
}

// SigningConfig is to marshal/unmarshal toml signing config vars
type SigningConfig struct {
	// DefaultSigner is a wallet alias or a bech32 address.
	DefaultSigner string `toml:"default-signer,omitempty"`
}

// WalletConfig is to marshal/unmarshal toml wallet config vars
type WalletConfig struct {
	// DataDir defaults to <basepath>/wallet when empty.
	DataDir string `toml:"data-dir,omitempty"`
}

// FeeConfig is to marshal/unmarshal toml fee config vars
type FeeConfig struct {
	// Token is a token symbol or a bech32 address.
	Token    string `toml:"token" validate:"required"`
	Amount   uint64 `toml:"amount" validate:"gt=0"`
	GasLimit uint64 `toml:"gas-limit" validate:"gt=0"`
}

// GossipConfig is to marshal/unmarshal toml gossip config vars
type GossipConfig struct {
	CacheTTLSeconds uint64 `toml:"cache-ttl" validate:"gt=0"`
	BloomSizeKiB    uint64 `toml:"bloom-size" validate:"gt=0"`
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		Global: GlobalConfig{
			BasePath: "~/.anoma",
			LogLvl:   log.Info.String(),
		},
		Fee: FeeConfig{
			Token:    "XAN",
			Amount:   token.Scale,
			GasLimit: transaction.GasLimitResolution,
		},
		Gossip: GossipConfig{
			CacheTTLSeconds: uint64(gossip.DefaultCacheTTL / time.Second),
			BloomSizeKiB:    gossip.DefaultBloomSizeKiB,
		},
	}
}

// Validate checks the required fields and the log settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	if _, err := log.ParseLevel(c.Global.LogLvl); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	if _, err := log.ParseCaller(c.Global.LogCaller); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	if _, err := c.Fee.Fee(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel returns the parsed global log level.
func (c *Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Global.LogLvl)
}

// LogCaller returns the parsed caller fields to log.
func (c *Config) LogCaller() (log.Caller, error) {
	return log.ParseCaller(c.Global.LogCaller)
}

// WalletConfig returns the wallet store configuration.
func (c *Config) WalletConfig() wallet.Config {
	dataDir := c.Wallet.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(c.Global.BasePath, "wallet")
	}
	return wallet.Config{DataDir: utils.ExpandDir(dataDir)}
}

// Fee resolves the fee token.
func (f FeeConfig) Fee() (transaction.Fee, error) {
	tokenAddress, ok := address.TokenBySymbol(f.Token)
	if !ok {
		var err error
		tokenAddress, err = address.Decode(f.Token)
		if err != nil {
			return transaction.Fee{}, fmt.Errorf("fee token %q: %w", f.Token, err)
		}
	}
	return transaction.Fee{
		Amount: token.Amount(f.Amount),
		Token:  tokenAddress,
	}, nil
}

// IntakeConfig returns the gossip intake configuration.
func (g GossipConfig) IntakeConfig() gossip.Config {
	return gossip.Config{
		CacheTTL:     time.Duration(g.CacheTTLSeconds) * time.Second,
		BloomSizeKiB: g.BloomSizeKiB,
	}
}

// LoadConfig loads the toml configuration file at path over the
// defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	fp, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	logger.Info("loading toml configuration from " + fp + "...")
	data, err := os.ReadFile(filepath.Clean(fp))
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	if err = toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: decoding toml: %s", ErrInvalidConfig, err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ExportConfig writes the configuration to a toml configuration file
func ExportConfig(cfg *Config, fp string) error {
	raw, err := toml.Marshal(*cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(fp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
