// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-mive/evmcache/cmd/utils"
	"github.com/ethereum-mive/evmcache/internal/flags"
	"github.com/ethereum-mive/evmcache/internal/version"
	"github.com/ethereum-mive/evmcache/monitor"
	"github.com/ethereum-mive/evmcache/params"
)

const clientIdentifier = "evmcache"

var (
	app = flags.NewApp("the evmcache command line interface")

	appFlags = []cli.Flag{
		utils.ConfigFileFlag,
		utils.BlockchainIDFlag,
		utils.EthRpcURLFlag,
		utils.StartBlockFlag,
		utils.EndBlockFlag,
		utils.ReviewBlockLimitFlag,
		utils.ComprehensiveReviewBlockLimitFlag,
		utils.ComprehensiveReviewCountModFlag,
		utils.DatabaseDSNFlag,
		utils.DatabaseMaxConnsFlag,
		utils.ABIConfigFlag,
		utils.VerbosityFlag,
		utils.LogFileFlag,
		utils.LogJSONFlag,
	}
)

func init() {
	app.Name = clientIdentifier
	app.Flags = appFlags
	app.Action = run
	app.Before = func(ctx *cli.Context) error {
		return utils.SetupLogger(ctx)
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads configuration, starts the Cache Monitor, and blocks until an
// interrupt signal or the pipeline terminates on its own (a Fatal outcome,
// or reaching endBlockOverride).
func run(ctx *cli.Context) error {
	gitInfo, _ := version.VCS()
	log.Info("Starting evmcache", "version", params.VersionWithCommit(gitInfo.Commit, gitInfo.Date))

	cfg := makeMonitorConfig(ctx)

	bgCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m, err := monitor.New(bgCtx, cfg)
	if err != nil {
		utils.Fatalf("Failed to start cache monitor: %v", err)
	}
	if err := m.Start(bgCtx); err != nil {
		utils.Fatalf("Failed to start cache monitor: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info("Got interrupt, shutting down...")
	case <-m.Done():
		log.Info("Cache monitor pipeline exited")
	}

	if err := m.Stop(); err != nil {
		log.Error("Error during shutdown", "err", err)
	}
	os.Exit(m.ExitCode())
	return nil
}
