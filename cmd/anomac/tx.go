// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChainSafe/anoma-go/config"
	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/keystore"
	"github.com/ChainSafe/anoma-go/lib/proto"
	"github.com/ChainSafe/anoma-go/lib/signing"
	"github.com/ChainSafe/anoma-go/lib/storage"
	"github.com/ChainSafe/anoma-go/lib/transaction"

	"github.com/urfave/cli"
)

// errUnknownTestKey is returned when the test key flag names no keyring account.
var errUnknownTestKey = errors.New("unknown test keyring account")

var (
	signTxCommand = cli.Command{
		Name:   "sign-tx",
		Usage:  "Create and sign a raw transaction",
		Flags:  []cli.Flag{CodeFlag, DataFlag, SignerFlag, TestKeyFlag, OutputFlag},
		Action: signTxAction,
	}
	wrapTxCommand = cli.Command{
		Name:   "wrap-tx",
		Usage:  "Create a raw transaction and sign the fee paying wrapper around it",
		Flags:  []cli.Flag{CodeFlag, DataFlag, SignerFlag, TestKeyFlag, EpochFlag, EncryptFlag, OutputFlag},
		Action: wrapTxAction,
	}
	decodeTxCommand = cli.Command{
		Name:   "decode-tx",
		Usage:  "Decode and verify a hex encoded transaction",
		Flags:  []cli.Flag{InputFlag, EncryptionKeyFlag},
		Action: decodeTxAction,
	}
)

// signingKeys is the key material the commands sign with.
type signingKeys interface {
	signing.KeyStore
	addressResolver
}

// loadSigningKeys returns the test keyring when the test key flag is set,
// and the unlocked wallet otherwise. The returned address is the signer
// selected by the flags, if any.
func loadSigningKeys(ctx *cli.Context, cfg *config.Config) (signingKeys, *address.Address, error) {
	if name := ctx.String(TestKeyFlag.Name); name != "" {
		kr, err := keystore.NewKeyring(crypto.Ed25519Type)
		if err != nil {
			return nil, nil, err
		}
		addr, ok := kr.Address(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", errUnknownTestKey, name)
		}
		ks, err := kr.Keystore()
		if err != nil {
			return nil, nil, err
		}
		return ks, &addr, nil
	}

	w, err := openWallet(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer closeWallet(w)

	password, err := getPassword(ctx, "Enter the wallet password:")
	if err != nil {
		return nil, nil, err
	}
	ks, err := w.Unlock(password)
	if err != nil {
		return nil, nil, err
	}

	signer := ctx.String(SignerFlag.Name)
	if signer == "" {
		return ks, nil, nil
	}
	addr, err := resolveAddress(ks, signer)
	if err != nil {
		return nil, nil, fmt.Errorf("signer: %w", err)
	}
	return ks, &addr, nil
}

// newSigningService creates the signing service of the command and the
// signing key selected by its flags.
func newSigningService(ctx *cli.Context, cfg *config.Config) (*signing.Service, signing.TxSigningKey, error) {
	ks, signer, err := loadSigningKeys(ctx, cfg)
	if err != nil {
		return nil, signing.TxSigningKey{}, err
	}

	var serviceCfg signing.Config
	if cfg.Signing.DefaultSigner != "" {
		addr, err := resolveAddress(ks, cfg.Signing.DefaultSigner)
		if err != nil {
			return nil, signing.TxSigningKey{}, fmt.Errorf("default signer: %w", err)
		}
		serviceCfg.DefaultSigner = &addr
	}

	return signing.NewService(ks, serviceCfg), signing.TxSigningKey{Signer: signer}, nil
}

// newRawTx creates the raw transaction from the code and data flags.
func newRawTx(ctx *cli.Context) (*proto.Tx, error) {
	code, err := readOptionalFile(ctx, CodeFlag)
	if err != nil {
		return nil, fmt.Errorf("reading code: %w", err)
	}
	data, err := readOptionalFile(ctx, DataFlag)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	return transaction.NewRawTx(code, data), nil
}

// writeTx writes the hex encoded transaction to the output flag file
// or to the app writer.
func writeTx(ctx *cli.Context, tx *proto.Tx) error {
	encoded := common.BytesToHex(tx.Encode())
	if path := ctx.String(OutputFlag.Name); path != "" {
		return os.WriteFile(filepath.Clean(path), []byte(encoded), 0600)
	}
	fmt.Fprintf(ctx.App.Writer, "tx: %s\n", encoded)
	return nil
}

func signTxAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	svc, signer, err := newSigningService(ctx, cfg)
	if err != nil {
		return err
	}

	tx, err := newRawTx(ctx)
	if err != nil {
		return err
	}
	if tx, err = svc.SignTx(tx, signer); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "hash: %s\n", tx.Hash())
	return writeTx(ctx, tx)
}

func wrapTxAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	fee, err := cfg.Fee.Fee()
	if err != nil {
		return err
	}
	svc, signer, err := newSigningService(ctx, cfg)
	if err != nil {
		return err
	}

	inner, err := newRawTx(ctx)
	if err != nil {
		return err
	}

	args := signing.WrapperArgs{
		Fee:      fee,
		Epoch:    storage.Epoch(ctx.Uint64(EpochFlag.Name)),
		GasLimit: transaction.NewGasLimit(cfg.Fee.GasLimit),
	}
	if ctx.Bool(EncryptFlag.Name) {
		key, err := transaction.NewEncryptionKey()
		if err != nil {
			return err
		}
		args.EncryptionKey = &key
	}

	wrapped, err := svc.SignWrapper(inner, args, signer)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "wrapper hash: %s\n", wrapped.WrapperHash)
	fmt.Fprintf(ctx.App.Writer, "payload hash: %s\n", wrapped.PayloadHash)
	if args.EncryptionKey != nil {
		fmt.Fprintf(ctx.App.Writer, "encryption key: %s\n", common.BytesToHex(args.EncryptionKey[:]))
	}
	return writeTx(ctx, wrapped.Tx)
}

func decodeTxAction(ctx *cli.Context) error {
	raw, err := os.ReadFile(filepath.Clean(ctx.String(InputFlag.Name)))
	if err != nil {
		return err
	}
	b, err := common.HexToBytes(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("%w: %s", proto.ErrDecode, err)
	}

	var key *transaction.EncryptionKey
	if s := ctx.String(EncryptionKeyFlag.Name); s != "" {
		keyBytes, err := common.HexToBytes(s)
		if err != nil {
			return fmt.Errorf("encryption key: %w", err)
		}
		var k transaction.EncryptionKey
		if len(keyBytes) != len(k) {
			return fmt.Errorf("encryption key: %w", common.ErrLengthMismatch)
		}
		copy(k[:], keyBytes)
		key = &k
	}

	tx, err := proto.DecodeTx(b)
	if err != nil {
		return err
	}
	if err = tx.VerifySignatures(); err != nil {
		return err
	}
	txType, err := transaction.TxTypeFromTx(tx)
	if err != nil {
		return err
	}

	out := ctx.App.Writer
	fmt.Fprintf(out, "kind: %s\n", txType.Kind())
	fmt.Fprintf(out, "hash: %s\n", tx.Hash())
	for _, sig := range tx.Signatures {
		fmt.Fprintf(out, "signed by: %s %s\n", sig.KeyType, common.BytesToHex(sig.PublicKey))
	}

	w, ok := txType.(*transaction.WrapperTx)
	if !ok {
		return nil
	}
	fmt.Fprintf(out, "fee: %s %s\n", w.Fee.Amount.Decimal(), w.Fee.Token)
	fmt.Fprintf(out, "epoch: %d\n", w.Epoch)
	fmt.Fprintf(out, "gas limit: %s\n", w.GasLimit)
	fmt.Fprintf(out, "payload hash: %s\n", w.TxHash)
	fmt.Fprintf(out, "encrypted: %t\n", w.Inner.IsEncrypted())
	return transaction.ValidateWrapper(w, key)
}
