// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package study

import (
	"context"
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/provider"
	"github.com/jeranaias/studyhall-tui/internal/stream"
)

// NoSolutionMessage is shown when the solver produced nothing usable.
const NoSolutionMessage = "No solution could be generated for this problem."

// Solver answers one-shot homework problems.
type Solver struct {
	client Completer
}

// NewSolver creates a homework solver.
func NewSolver(client Completer) *Solver {
	return &Solver{client: client}
}

// Solve streams a worked solution for the problem, republishing the full
// accumulated text through onTick. An empty result is replaced with
// NoSolutionMessage rather than surfacing an error result to render.
func (s *Solver) Solve(ctx context.Context, problem string, onTick func(partial string)) (string, error) {
	acc := stream.NewAccumulator(onTick)
	err := s.client.ChatStream(ctx, []provider.ChatMessage{
		provider.NewSystemMessage(solverSystemPrompt),
		provider.NewUserMessage(problem),
	}, acc.ApplyFrame)

	solution := strings.TrimSpace(acc.Text())
	if solution == "" {
		return NoSolutionMessage, err
	}
	return solution, err
}
