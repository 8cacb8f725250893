// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// solve.go - Step-by-step homework solving.

package cli

import (
	"fmt"

	"github.com/jeranaias/studyhall-tui/internal/study"
)

// solveResult is the JSON payload for the solve command.
type solveResult struct {
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
	Model    string `json:"model"`
}

// HandleSolve processes the solve command: worked solution for a homework
// problem given as an argument, a file, or piped stdin.
func HandleSolve(args *Args) error {
	problem, err := gatherInputText(args, `studyhall solve "2x + 3 = 11" or studyhall solve --file problem.txt`)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newClient(cfg, args)
	solver := study.NewSolver(client)

	ctx, cancel := commandContext(cfg)
	defer cancel()

	if args.JSON {
		solution, err := solver.Solve(ctx, problem, nil)
		if err != nil {
			return NewCommandError("solve", "query", "request failed", err)
		}
		return NewJSONResponse("solve", solveResult{
			Problem:  problem,
			Solution: solution,
			Model:    client.Model(),
		}).Print()
	}

	if IsStdoutTTY() {
		progressf(args, "%s\n", DimStyle.Render("Working the problem..."))
		solution, err := solver.Solve(ctx, problem, nil)
		if err != nil {
			return NewCommandError("solve", "query", "request failed", err)
		}
		displayResponse(solution)
		return nil
	}

	printer := &streamPrinter{}
	solution, err := solver.Solve(ctx, problem, printer.Tick)
	if err != nil {
		fmt.Println()
		return NewCommandError("solve", "query", "request failed", err)
	}
	printer.Finish(solution)
	return nil
}
