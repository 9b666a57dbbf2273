// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChainSafe/anoma-go/config"
	"github.com/ChainSafe/anoma-go/internal/log"
	"github.com/ChainSafe/anoma-go/lib/signing"
	"github.com/ChainSafe/anoma-go/lib/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runApp runs the client with the arguments and returns its output.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := newApp()
	out := bytes.NewBuffer(nil)
	app.Writer = out
	app.ErrWriter = out

	err := app.Run(append([]string{"anomac", "--log", "eror"}, args...))
	return out.String(), err
}

// outputValue returns the value of the first "name: value" output line.
func outputValue(t *testing.T, output, name string) string {
	t.Helper()

	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, name+": ") {
			return strings.TrimPrefix(line, name+": ")
		}
	}
	t.Fatalf("no %q in output %q", name, output)
	return ""
}

func Test_initCommand(t *testing.T) {
	basepath := t.TempDir()
	path := filepath.Join(basepath, "anomac.toml")

	_, err := runApp(t, "--basepath", basepath, "init", "--output", path)
	require.NoError(t, err)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, basepath, cfg.Global.BasePath)

	_, err = runApp(t, "--config", path, "list")
	require.NoError(t, err)
}

func Test_signTx_decodeTx(t *testing.T) {
	dir := t.TempDir()
	codePath := filepath.Join(dir, "tx.wasm")
	require.NoError(t, os.WriteFile(codePath, []byte("code"), 0600))
	txPath := filepath.Join(dir, "tx.hex")

	output, err := runApp(t, "--basepath", dir,
		"sign-tx", "--code", codePath, "--key", "albert", "--output", txPath)
	require.NoError(t, err)
	hash := outputValue(t, output, "hash")

	output, err = runApp(t, "decode-tx", "--input", txPath)
	require.NoError(t, err)
	assert.Equal(t, "raw", outputValue(t, output, "kind"))
	assert.Equal(t, hash, outputValue(t, output, "hash"))
	assert.Contains(t, outputValue(t, output, "signed by"), "ed25519")
}

func Test_wrapTx_decodeTx(t *testing.T) {
	dir := t.TempDir()
	txPath := filepath.Join(dir, "wrapper.hex")

	output, err := runApp(t, "--basepath", dir,
		"wrap-tx", "--key", "bertha", "--epoch", "7", "--encrypt", "--output", txPath)
	require.NoError(t, err)
	key := outputValue(t, output, "encryption key")
	payloadHash := outputValue(t, output, "payload hash")

	output, err = runApp(t, "decode-tx", "--input", txPath, "--encryption-key", key)
	require.NoError(t, err)
	assert.Equal(t, "wrapper", outputValue(t, output, "kind"))
	assert.Equal(t, outputValue(t, output, "payload hash"), payloadHash)
	assert.Equal(t, "7", outputValue(t, output, "epoch"))
	assert.Equal(t, "true", outputValue(t, output, "encrypted"))

	_, err = runApp(t, "decode-tx", "--input", txPath,
		"--encryption-key", "0x"+strings.Repeat("00", 32))
	assert.Error(t, err)
}

func Test_walletSigning(t *testing.T) {
	basepath := t.TempDir()
	global := []string{"--basepath", basepath, "--password", "hunter2"}

	output, err := runApp(t, append(global, "keygen", "--alias", "Daewon")...)
	require.NoError(t, err)
	addr := outputValue(t, output, "address")
	assert.NotEmpty(t, outputValue(t, output, "mnemonic"))

	output, err = runApp(t, append(global, "list")...)
	require.NoError(t, err)
	assert.Equal(t, addr, outputValue(t, output, "daewon"))

	_, err = runApp(t, append(global, "sign-tx", "--signer", "daewon")...)
	require.NoError(t, err)

	_, err = runApp(t, append(global, "sign-tx", "--signer", "nobody")...)
	assert.Error(t, err)
	assert.False(t, signing.IsFatal(err))

	_, err = runApp(t, append(global, "sign-tx")...)
	assert.ErrorIs(t, err, signing.ErrNoDefaultSigner)
	assert.True(t, signing.IsFatal(err))

	output, err = runApp(t, append(global, "export-key", "--alias", "daewon")...)
	require.NoError(t, err)
	keyFile := strings.TrimSpace(output)
	keystoreDir, err := utils.KeystoreDir(basepath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(keystoreDir, "daewon.key"), keyFile)

	other := []string{"--basepath", t.TempDir(), "--password", "hunter2"}
	output, err = runApp(t, append(other, "import-key", "--alias", "imported", "--file", keyFile)...)
	require.NoError(t, err)
	assert.Equal(t, addr, outputValue(t, output, "address"))
}

func Test_signTx_unknownTestKey(t *testing.T) {
	_, err := runApp(t, "--basepath", t.TempDir(), "sign-tx", "--key", "nobody")
	assert.ErrorIs(t, err, errUnknownTestKey)
}

func Test_setupLogger_errors(t *testing.T) {
	_, err := runApp(t, "--log-format", "xml", "list")
	assert.ErrorIs(t, err, log.ErrFormatNotRecognised)

	_, err = runApp(t, "--log-caller", "stack", "list")
	assert.ErrorIs(t, err, log.ErrCallerNotRecognised)

	// the configuration file is read before the logger is set up
	app := newApp()
	app.Writer = bytes.NewBuffer(nil)
	app.ErrWriter = app.Writer
	missing := filepath.Join(t.TempDir(), "missing.toml")
	err = app.Run([]string{"anomac", "--config", missing, "list"})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
