// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChainSafe/anoma-go/config"
	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/keystore"
	"github.com/ChainSafe/anoma-go/lib/utils"

	"github.com/urfave/cli"
)

var (
	initCommand = cli.Command{
		Name:   "init",
		Usage:  "Write the default configuration to a file",
		Flags:  []cli.Flag{OutputFlag},
		Action: initAction,
	}
	keygenCommand = cli.Command{
		Name:   "keygen",
		Usage:  "Generate a new key and store it encrypted in the wallet",
		Flags:  []cli.Flag{AliasFlag, KeyTypeFlag},
		Action: keygenAction,
	}
	restoreCommand = cli.Command{
		Name:   "restore",
		Usage:  "Restore a key from its mnemonic",
		Flags:  []cli.Flag{AliasFlag, KeyTypeFlag, MnemonicFlag},
		Action: restoreAction,
	}
	addAddressCommand = cli.Command{
		Name:   "add-address",
		Usage:  "Store an address under an alias",
		Flags:  []cli.Flag{AliasFlag, AddressFlag},
		Action: addAddressAction,
	}
	listCommand = cli.Command{
		Name:   "list",
		Usage:  "List the wallet aliases and their addresses",
		Action: listAction,
	}
	exportKeyCommand = cli.Command{
		Name:   "export-key",
		Usage:  "Write a wallet key to an encrypted key file in the keystore directory",
		Flags:  []cli.Flag{AliasFlag},
		Action: exportKeyAction,
	}
	importKeyCommand = cli.Command{
		Name:   "import-key",
		Usage:  "Import an encrypted key file into the wallet",
		Flags:  []cli.Flag{AliasFlag, FileFlag},
		Action: importKeyAction,
	}
)

func initAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	path := ctx.String(OutputFlag.Name)
	if path == "" {
		path = filepath.Join(utils.ExpandDir(cfg.Global.BasePath), "config.toml")
	}
	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	if err = config.ExportConfig(cfg, path); err != nil {
		return err
	}

	logger.Infof("configuration written to %s", path)
	return nil
}

func keygenAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	w, err := openWallet(cfg)
	if err != nil {
		return err
	}
	defer closeWallet(w)

	password, err := getPassword(ctx, "Enter a password to encrypt the key:")
	if err != nil {
		return err
	}

	addr, mnemonic, err := w.GenerateKey(ctx.String(AliasFlag.Name), ctx.String(KeyTypeFlag.Name), password)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "address: %s\n", addr)
	fmt.Fprintf(ctx.App.Writer, "mnemonic: %s\n", mnemonic)
	return nil
}

func restoreAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	w, err := openWallet(cfg)
	if err != nil {
		return err
	}
	defer closeWallet(w)

	mnemonic, err := getLine(ctx, MnemonicFlag, "Enter the mnemonic of the key:")
	if err != nil {
		return err
	}
	password, err := getPassword(ctx, "Enter a password to encrypt the key:")
	if err != nil {
		return err
	}

	addr, err := w.RestoreKey(ctx.String(AliasFlag.Name), ctx.String(KeyTypeFlag.Name), mnemonic, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "address: %s\n", addr)
	return nil
}

func addAddressAction(ctx *cli.Context) error {
	addr, err := address.Decode(ctx.String(AddressFlag.Name))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	w, err := openWallet(cfg)
	if err != nil {
		return err
	}
	defer closeWallet(w)

	return w.AddAddress(ctx.String(AliasFlag.Name), addr)
}

func listAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	w, err := openWallet(cfg)
	if err != nil {
		return err
	}
	defer closeWallet(w)

	aliases, err := w.Aliases()
	if err != nil {
		return err
	}
	for _, alias := range aliases {
		addr, err := w.Lookup(alias)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "%s: %s\n", alias, addr)
	}
	return nil
}

func exportKeyAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	w, err := openWallet(cfg)
	if err != nil {
		return err
	}
	defer closeWallet(w)

	alias := ctx.String(AliasFlag.Name)
	addr, err := w.Lookup(alias)
	if err != nil {
		return err
	}

	password, err := getPassword(ctx, "Enter the wallet password:")
	if err != nil {
		return err
	}
	ks, err := w.Unlock(password)
	if err != nil {
		return err
	}
	kp, err := ks.FindKeypair(addr)
	if err != nil {
		return err
	}

	keystorepath, err := utils.KeystoreDir(cfg.Global.BasePath)
	if err != nil {
		return err
	}
	fp := filepath.Join(keystorepath, alias+utils.KeyFileExtension)

	file, err := os.OpenFile(filepath.Clean(fp), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create key file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warnf("failed to close key file: %s", err)
		}
	}()

	if err = keystore.EncryptAndWriteToFile(file, kp, password); err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, fp)
	return nil
}

func importKeyAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	password, err := getPassword(ctx, "Enter the key file password:")
	if err != nil {
		return err
	}
	kp, err := keystore.ReadFromFileAndDecrypt(ctx.String(FileFlag.Name), password)
	if err != nil {
		return err
	}

	w, err := openWallet(cfg)
	if err != nil {
		return err
	}
	defer closeWallet(w)

	addr, err := w.ImportKeypair(ctx.String(AliasFlag.Name), kp, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "address: %s\n", addr)
	return nil
}
