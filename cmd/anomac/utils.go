// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChainSafe/anoma-go/config"
	"github.com/ChainSafe/anoma-go/internal/log"
	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/wallet"

	"github.com/urfave/cli"
	terminal "golang.org/x/term"
)

// setupLogger sets up the global logger from the configuration and
// the log flags overriding it.
func setupLogger(ctx *cli.Context) (level log.Level, err error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return 0, err
	}

	lvl := cfg.Global.LogLvl
	if s := ctx.GlobalString(LogFlag.Name); s != "" {
		lvl = s
	}
	level, err = log.ParseLevel(lvl)
	if err != nil {
		return 0, err
	}

	callerFields := cfg.Global.LogCaller
	if s := ctx.GlobalString(LogCallerFlag.Name); s != "" {
		callerFields = s
	}
	caller, err := log.ParseCaller(callerFields)
	if err != nil {
		return 0, err
	}

	format := log.FormatConsole
	if terminal.IsTerminal(int(os.Stderr.Fd())) {
		format = log.FormatColour
	}
	if s := ctx.GlobalString(LogFormatFlag.Name); s != "" {
		if format, err = log.ParseFormat(s); err != nil {
			return 0, err
		}
	}

	log.Patch(
		log.SetWriter(os.Stderr),
		log.SetFormat(format),
		log.SetLevel(level),
		log.SetCaller(caller),
	)

	return level, nil
}

// loadConfig loads the configuration file given by the config flag, or
// the defaults, and applies the global flags over it.
func loadConfig(ctx *cli.Context) (cfg *config.Config, err error) {
	if path := ctx.GlobalString(ConfigFlag.Name); path != "" {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if basepath := ctx.GlobalString(BasePathFlag.Name); basepath != "" {
		cfg.Global.BasePath = basepath
	}
	return cfg, nil
}

// openWallet opens the wallet of the configuration.
func openWallet(cfg *config.Config) (*wallet.Wallet, error) {
	walletCfg := cfg.WalletConfig()
	if err := os.MkdirAll(walletCfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create wallet directory: %w", err)
	}
	return wallet.Open(walletCfg)
}

// closeWallet closes the wallet and logs failures.
func closeWallet(w *wallet.Wallet) {
	if err := w.Close(); err != nil {
		logger.Warnf("failed to close wallet: %s", err)
	}
}

// getPassword returns the password flag or prompts the user for one.
func getPassword(ctx *cli.Context, msg string) ([]byte, error) {
	if password := ctx.GlobalString(PasswordFlag.Name); password != "" {
		return []byte(password), nil
	}

	fmt.Fprintln(ctx.App.Writer, msg)
	fmt.Fprint(ctx.App.Writer, "> ")
	password, err := terminal.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(ctx.App.Writer)
	if err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return password, nil
}

// getLine returns the value of the flag or reads one line from stdin.
func getLine(ctx *cli.Context, flag cli.StringFlag, msg string) (string, error) {
	if value := ctx.String(flag.Name); value != "" {
		return value, nil
	}

	fmt.Fprintln(ctx.App.Writer, msg)
	fmt.Fprint(ctx.App.Writer, "> ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readOptionalFile returns the content of the file given by the flag,
// or nil when the flag is not set.
func readOptionalFile(ctx *cli.Context, flag cli.StringFlag) ([]byte, error) {
	path := ctx.String(flag.Name)
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(filepath.Clean(path))
}

// addressResolver resolves aliases into addresses.
type addressResolver interface {
	Lookup(alias string) (address.Address, error)
}

// resolveAddress decodes a bech32 address or looks up an alias.
func resolveAddress(r addressResolver, s string) (address.Address, error) {
	if addr, err := address.Decode(s); err == nil {
		return addr, nil
	}
	return r.Lookup(s)
}
