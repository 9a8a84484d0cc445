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

// Package utils contains internal helper functions for evmcache commands.
package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ethereum-mive/evmcache/internal/flags"
	"github.com/ethereum-mive/evmcache/monitorconfig"
	"github.com/ethereum-mive/evmcache/params"
)

// These are all the command line flags evmcache supports. If you add to
// this list, please remember to include the flag in the appropriate
// command definition.
//
// The flags are defined here so their names and help texts are the same
// for every command.
var (
	BlockchainIDFlag = &cli.StringFlag{
		Name:     "chain",
		Usage:    "Identifier recorded alongside every stored row, distinguishing this instance's chain from others sharing the database",
		Category: flags.MonitorCategory,
	}
	EthRpcURLFlag = &cli.StringSliceFlag{
		Name:     "rpc.url",
		Usage:    "Execution node JSON-RPC endpoint (repeatable; the monitor fails over across endpoints in the order given)",
		Category: flags.NodeCategory,
	}
	StartBlockFlag = &cli.Int64Flag{
		Name:     "block.start",
		Usage:    "Override the resumption height instead of resuming from the database's stored maximum (-1 = no override)",
		Value:    -1,
		Category: flags.MonitorCategory,
	}
	EndBlockFlag = &cli.Int64Flag{
		Name:     "block.end",
		Usage:    "Terminate once the cursor reaches this height (-1 = run forever)",
		Value:    -1,
		Category: flags.MonitorCategory,
	}
	ReviewBlockLimitFlag = &cli.Uint64Flag{
		Name:     "review.limit",
		Usage:    "Trailing window, in blocks, revisited on every idle head-poll",
		Value:    params.DefaultReviewBlockLimit,
		Category: flags.MonitorCategory,
	}
	ComprehensiveReviewBlockLimitFlag = &cli.Uint64Flag{
		Name:     "review.comprehensive-limit",
		Usage:    "Longer trailing window revisited every --review.comprehensive-mod'th idle poll",
		Value:    params.DefaultComprehensiveReviewBlockLimit,
		Category: flags.MonitorCategory,
	}
	ComprehensiveReviewCountModFlag = &cli.Uint64Flag{
		Name:     "review.comprehensive-mod",
		Usage:    "Selects which idle polls trigger the comprehensive review window",
		Value:    params.DefaultComprehensiveReviewCountMod,
		Category: flags.MonitorCategory,
	}

	// Database settings
	DatabaseDSNFlag = &cli.StringFlag{
		Name:     "db.dsn",
		Usage:    "PostgreSQL connection string (libpq keyword/value or URL form)",
		Category: flags.DatabaseCategory,
	}
	DatabaseMaxConnsFlag = &cli.IntFlag{
		Name:     "db.maxconns",
		Usage:    "Maximum number of pooled database connections (0 = pgxpool default)",
		Category: flags.DatabaseCategory,
	}

	// Bootstrap settings
	ConfigFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MonitorCategory,
	}
	ABIConfigFlag = &flags.DirectoryFlag{
		Name:     "abi.config",
		Usage:    "JSON file describing contract addresses and ABI files for log decoding (omit to skip log decoding); supports ~ and $VAR expansion",
		Category: flags.MonitorCategory,
	}

	// Logging settings, grounded on the teacher's go-ethereum-family
	// terminal/file log setup (github.com/ethereum/go-ethereum/log,
	// github.com/mattn/go-isatty, github.com/mattn/go-colorable), with log
	// rotation via gopkg.in/natefinch/lumberjack.v2 when --log.file is set.
	VerbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=crit,1=error,2=warn,3=info,4=debug,5=trace",
		Value:    3,
		Category: flags.LoggingCategory,
	}
	LogFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Write log lines to this file (with rotation) instead of stderr",
		Category: flags.LoggingCategory,
	}
	LogJSONFlag = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Emit logs as newline-delimited JSON instead of the human-readable terminal format",
		Category: flags.LoggingCategory,
	}
)

// Fatalf formats a message to stderr and exits with status 1, the same
// "give up cleanly at the CLI boundary" idiom the teacher's gethutils
// package uses.
func Fatalf(format string, args ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// SetupLogger configures the default logger from VerbosityFlag/LogFileFlag/
// LogJSONFlag.
func SetupLogger(ctx *cli.Context) error {
	var writer = os.Stderr
	var handler = log.NewTerminalHandler(writer, isatty.IsTerminal(writer.Fd()))

	if path := ctx.String(LogFileFlag.Name); path != "" {
		rotating := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    100, // megabytes
			MaxBackups: 10,
			MaxAge:     30, // days
		}
		if ctx.Bool(LogJSONFlag.Name) {
			handler = log.JSONHandler(rotating)
		} else {
			handler = log.NewTerminalHandler(colorable.NewNonColorable(rotating), false)
		}
	} else if ctx.Bool(LogJSONFlag.Name) {
		handler = log.JSONHandler(writer)
	}

	glogger := log.NewGlogHandler(handler)
	glogger.Verbosity(log.FromLegacyLevel(ctx.Int(VerbosityFlag.Name)))
	log.SetDefault(log.NewLogger(glogger))
	return nil
}

// SetMonitorConfig applies command-line flags on top of a loaded
// monitorconfig.Config, the same "flags win over file" precedence the
// teacher's SetNodeConfig enforces.
func SetMonitorConfig(ctx *cli.Context, cfg *monitorconfig.Config) {
	if ctx.IsSet(BlockchainIDFlag.Name) {
		cfg.BlockchainID = ctx.String(BlockchainIDFlag.Name)
	}
	if ctx.IsSet(EthRpcURLFlag.Name) {
		cfg.EthRpcURLs = ctx.StringSlice(EthRpcURLFlag.Name)
	}
	if ctx.IsSet(StartBlockFlag.Name) {
		if n := ctx.Int64(StartBlockFlag.Name); n >= 0 {
			u := uint64(n)
			cfg.StartBlockOverride = &u
		}
	}
	if ctx.IsSet(EndBlockFlag.Name) {
		if n := ctx.Int64(EndBlockFlag.Name); n >= 0 {
			u := uint64(n)
			cfg.EndBlockOverride = &u
		}
	}
	if ctx.IsSet(ReviewBlockLimitFlag.Name) {
		cfg.ReviewBlockLimit = ctx.Uint64(ReviewBlockLimitFlag.Name)
	}
	if ctx.IsSet(ComprehensiveReviewBlockLimitFlag.Name) {
		cfg.ComprehensiveReviewBlockLimit = ctx.Uint64(ComprehensiveReviewBlockLimitFlag.Name)
	}
	if ctx.IsSet(ComprehensiveReviewCountModFlag.Name) {
		cfg.ComprehensiveReviewCountMod = ctx.Uint64(ComprehensiveReviewCountModFlag.Name)
	}
	if ctx.IsSet(DatabaseDSNFlag.Name) {
		cfg.DatabaseDSN = ctx.String(DatabaseDSNFlag.Name)
	}
	if ctx.IsSet(DatabaseMaxConnsFlag.Name) {
		cfg.DatabaseMaxConns = int32(ctx.Int(DatabaseMaxConnsFlag.Name))
	}
	if ctx.IsSet(ABIConfigFlag.Name) {
		cfg.ABIConfigPath = ctx.String(ABIConfigFlag.Name)
	}

	if cfg.BlockchainID == "" {
		Fatalf("--%s (or its TOML equivalent) is required", BlockchainIDFlag.Name)
	}
	if len(cfg.EthRpcURLs) == 0 {
		Fatalf("at least one --%s (or its TOML equivalent) is required", EthRpcURLFlag.Name)
	}
	if cfg.DatabaseDSN == "" {
		Fatalf("--%s (or its TOML equivalent) is required", DatabaseDSNFlag.Name)
	}
}
