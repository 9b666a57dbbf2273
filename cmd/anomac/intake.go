// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/gossip"

	"github.com/urfave/cli"
)

var intakeCommand = cli.Command{
	Name:  "intake",
	Usage: "Decode gossiped intent messages and list the intents not seen before",
	Description: "The input file holds one 0x prefixed hex encoded intent gossip message per line.\n" +
		"\tMalformed messages are reported and skipped.",
	Flags:  []cli.Flag{InputFlag},
	Action: intakeAction,
}

func intakeAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	file, err := os.Open(filepath.Clean(ctx.String(InputFlag.Name)))
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warnf("failed to close %s: %s", file.Name(), err)
		}
	}()

	in, err := gossip.NewIntake(cfg.Gossip.IntakeConfig())
	if err != nil {
		return err
	}
	defer in.Close()

	out := ctx.App.Writer
	var accepted, rejected int
	scanner := bufio.NewScanner(file)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		from := fmt.Sprintf("line %d", lineNumber)
		b, err := common.HexToBytes(line)
		if err != nil {
			rejected++
			fmt.Fprintf(out, "invalid: %s: %s\n", from, err)
			continue
		}

		intents, err := in.HandleMessage(from, b)
		if err != nil {
			rejected++
			fmt.Fprintf(out, "invalid: %s: %s\n", from, err)
			continue
		}

		for _, i := range intents {
			hash, err := i.Hash()
			if err != nil {
				return err
			}
			accepted++
			fmt.Fprintf(out, "intent: %s %s sells %s %s for %s %s\n",
				hash, i.Addr, i.MaxSell, i.TokenSell, i.MinBuy, i.TokenBuy)
		}
	}
	if err = scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", file.Name(), err)
	}

	fmt.Fprintf(out, "accepted: %d\n", accepted)
	fmt.Fprintf(out, "rejected: %d\n", rejected)
	return nil
}
