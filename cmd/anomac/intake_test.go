// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/datetime"
	"github.com/ChainSafe/anoma-go/lib/intent"
	"github.com/ChainSafe/anoma-go/lib/proto"
	"github.com/ChainSafe/anoma-go/lib/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGossipLine(t *testing.T, owners ...string) string {
	t.Helper()

	rate, err := intent.NewDecimalWrapper(token.Scale)
	require.NoError(t, err)

	message := &proto.IntentGossipMessage{}
	for _, owner := range owners {
		i := intent.Intent{
			Addr:      address.NewEstablished([]byte(owner)),
			TokenSell: address.XAN,
			MaxSell:   10 * token.Scale,
			TokenBuy:  address.BTC,
			MinBuy:    token.Scale,
			RateMin:   rate,
			Timestamp: datetime.MustNew(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)),
		}
		message.Intents = append(message.Intents, i.ToProto())
	}
	b, err := message.Encode()
	require.NoError(t, err)
	return common.BytesToHex(b)
}

func Test_intakeCommand(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "config.toml")
	err := os.WriteFile(configPath, []byte("[gossip]\ncache-ttl = 60\nbloom-size = 8\n"), 0600)
	require.NoError(t, err)

	lines := []string{
		newGossipLine(t, "alice"),
		"",
		"0xzz",
		newGossipLine(t, "alice", "bob"),
		"0x00",
	}
	inputPath := filepath.Join(dir, "gossip.txt")
	err = os.WriteFile(inputPath, []byte(strings.Join(lines, "\n")+"\n"), 0600)
	require.NoError(t, err)

	out, err := runApp(t, "--config", configPath, "intake", "--input", inputPath)
	require.NoError(t, err)

	assert.Equal(t, "2", outputValue(t, out, "accepted"))
	assert.Equal(t, "2", outputValue(t, out, "rejected"))
	assert.Equal(t, 2, strings.Count(out, "intent: "))
	assert.Contains(t, outputValue(t, out, "invalid"), "line 3: ")
	assert.Contains(t, out, address.NewEstablished([]byte("bob")).String())
}

func Test_intakeCommand_missingInput(t *testing.T) {
	_, err := runApp(t, "intake", "--input", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
