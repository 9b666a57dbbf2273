// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"os"

	"github.com/ChainSafe/anoma-go/internal/log"
	"github.com/ChainSafe/anoma-go/lib/signing"

	"github.com/urfave/cli"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "anomac"))

func main() {
	if err := newApp().Run(os.Args); err != nil {
		if signing.IsFatal(err) {
			logger.Critical(err.Error())
			os.Exit(2)
		}
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "anomac"
	app.Usage = "ledger client for keys and transactions"
	app.Version = "0.1.0"
	app.Flags = globalFlags
	app.Before = func(ctx *cli.Context) error {
		_, err := setupLogger(ctx)
		return err
	}
	app.Commands = []cli.Command{
		initCommand,
		keygenCommand,
		restoreCommand,
		addAddressCommand,
		listCommand,
		exportKeyCommand,
		importKeyCommand,
		signTxCommand,
		wrapTxCommand,
		decodeTxCommand,
		intakeCommand,
	}
	return app
}
