// studyhall TUI - An AI study companion for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		// Bare words before an unknown command become a direct question.
		if args.Query == "" && len(args.Raw) > 0 {
			args.Query = strings.Join(args.Raw, " ")
			cli.Run(&args, cli.HandleAsk)
			return
		}
		cli.Run(&args, cli.HandleTUI)
	case cli.CmdAsk:
		cli.Run(&args, cli.HandleAsk)
	case cli.CmdChat:
		cli.Run(&args, cli.HandleChat)
	case cli.CmdSolve:
		cli.Run(&args, cli.HandleSolve)
	case cli.CmdCheck:
		cli.Run(&args, cli.HandleCheck)
	case cli.CmdMark:
		cli.Run(&args, cli.HandleMark)
	case cli.CmdSummarize:
		cli.Run(&args, cli.HandleSummarize)
	case cli.CmdCite:
		cli.Run(&args, cli.HandleCite)
	case cli.CmdWrite:
		cli.Run(&args, cli.HandleWrite)
	case cli.CmdSessions:
		cli.Run(&args, cli.HandleSessions)
	case cli.CmdConfig:
		cli.Run(&args, cli.HandleConfig)
	case cli.CmdSetup:
		cli.Run(&args, cli.HandleSetup)
	case cli.CmdVersion:
		cli.HandleVersionWithJSON(&args)
	case cli.CmdHelp:
		cli.HandleHelp()
	}
}
