// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"github.com/ChainSafe/anoma-go/lib/crypto"

	"github.com/urfave/cli"
)

// Global flags
var (
	// ConfigFlag toml configuration file
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	// BasePathFlag data directory
	BasePathFlag = cli.StringFlag{
		Name:  "basepath",
		Usage: "Data directory of the client, overrides the configuration",
	}
	// LogFlag cli service settings
	LogFlag = cli.StringFlag{
		Name:  "log",
		Usage: "Global log level, overrides the configuration. Supports levels crit (silent), eror, warn, info, dbug and trce (trace)",
	}
	// LogFormatFlag log output format
	LogFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format: console, colour or json. Defaults to colour on a terminal",
	}
	// LogCallerFlag caller fields
	LogCallerFlag = cli.StringFlag{
		Name:  "log-caller",
		Usage: "Caller fields logged, a comma separated list of file, line and func, overrides the configuration",
	}
	// PasswordFlag wallet password
	PasswordFlag = cli.StringFlag{
		Name:  "password",
		Usage: "Password of the wallet keys, prompted for when not given",
	}
)

// Key flags
var (
	// AliasFlag wallet alias
	AliasFlag = cli.StringFlag{
		Name:  "alias",
		Usage: "Wallet alias of the key or address",
	}
	// KeyTypeFlag signature scheme
	KeyTypeFlag = cli.StringFlag{
		Name:  "type",
		Usage: "Key type: ed25519, sr25519 or secp256k1",
		Value: crypto.Ed25519Type,
	}
	// MnemonicFlag mnemonic of a restored key
	MnemonicFlag = cli.StringFlag{
		Name:  "mnemonic",
		Usage: "Mnemonic of the key, prompted for when not given",
	}
	// AddressFlag bech32 address
	AddressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "Bech32 encoded address",
	}
	// FileFlag encrypted key file
	FileFlag = cli.StringFlag{
		Name:  "file",
		Usage: "Encrypted key file",
	}
)

// Transaction flags
var (
	// SignerFlag signing address or alias
	SignerFlag = cli.StringFlag{
		Name:  "signer",
		Usage: "Alias or address of the signer, defaults to the configured default signer",
	}
	// TestKeyFlag specifies a test keyring account to use
	TestKeyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "Sign with a test keyring account: eg --key=albert",
	}
	// CodeFlag transaction code
	CodeFlag = cli.StringFlag{
		Name:  "code",
		Usage: "File holding the transaction code",
	}
	// DataFlag transaction data
	DataFlag = cli.StringFlag{
		Name:  "data",
		Usage: "File holding the transaction data",
	}
	// InputFlag hex encoded transaction
	InputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "File holding a 0x prefixed hex encoded transaction",
	}
	// OutputFlag output file
	OutputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "Write the hex encoded transaction to the file instead of stdout",
	}
	// EpochFlag wrapper epoch
	EpochFlag = cli.Uint64Flag{
		Name:  "epoch",
		Usage: "Epoch of the wrapper",
	}
	// EncryptFlag encrypts the inner transaction
	EncryptFlag = cli.BoolFlag{
		Name:  "encrypt",
		Usage: "Encrypt the inner transaction with a fresh key",
	}
	// EncryptionKeyFlag decrypts the inner transaction
	EncryptionKeyFlag = cli.StringFlag{
		Name:  "encryption-key",
		Usage: "0x prefixed hex key of an encrypted inner transaction",
	}
)

var globalFlags = []cli.Flag{
	ConfigFlag,
	BasePathFlag,
	LogFlag,
	LogFormatFlag,
	LogCallerFlag,
	PasswordFlag,
}
