// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// check.go - Mistake checking for typed text and photographed worksheets.

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/study"
	"github.com/jeranaias/studyhall-tui/internal/ui/components"
	uistyles "github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// checkResult is the JSON payload for the check command.
type checkResult struct {
	Mistakes      []model.Mistake `json:"mistakes"`
	Count         int             `json:"count"`
	ExtractedText string          `json:"extracted_text,omitempty"`
}

// HandleCheck processes the check command. With --image the worksheet photo
// is transcribed first and the transcription is checked; otherwise the text
// comes from the argument, --file, or piped stdin.
func HandleCheck(args *Args) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newClient(cfg, args)
	checker := study.NewChecker(client)

	ctx, cancel := commandContext(cfg)
	defer cancel()

	if imagePath := args.Options["image"]; imagePath != "" {
		dataURL, err := imageDataURL(imagePath)
		if err != nil {
			return err
		}

		progressf(args, "Transcribing worksheet...\n")
		result, err := checker.CheckWorksheet(ctx, dataURL, nil)
		if err != nil {
			return NewCommandError("check", "worksheet", "request failed", err)
		}

		if args.JSON {
			return NewJSONResponse("check", checkResult{
				Mistakes:      result.Mistakes,
				Count:         len(result.Mistakes),
				ExtractedText: result.ExtractedText,
			}).Print()
		}

		if IsStdoutTTY() {
			fmt.Println(SectionStyle.Render("Extracted text"))
			fmt.Println(WrapText(result.ExtractedText, GetTerminalWidth()))
			fmt.Println()
		} else {
			fmt.Println(result.ExtractedText)
			fmt.Println()
		}
		displayMistakes(result.Mistakes)
		return nil
	}

	text, err := gatherInputText(args, `studyhall check "Their going to the libary" or studyhall check --file essay.txt`)
	if err != nil {
		return err
	}

	progressf(args, "Checking for mistakes...\n")
	mistakes, err := checker.Check(ctx, text, nil)
	if err != nil {
		return NewCommandError("check", "text", "request failed", err)
	}

	if args.JSON {
		return NewJSONResponse("check", checkResult{
			Mistakes: mistakes,
			Count:    len(mistakes),
		}).Print()
	}

	displayMistakes(mistakes)
	return nil
}

// displayMistakes prints a mistake list, styled on a TTY and plain otherwise.
func displayMistakes(mistakes []model.Mistake) {
	if IsStdoutTTY() {
		list := components.NewMistakeList(mistakes, uistyles.NewTheme())
		fmt.Println(list.View())
		return
	}
	fmt.Print(formatMistakesPlain(mistakes))
}

// formatMistakesPlain renders mistakes one per line for piped output.
func formatMistakesPlain(mistakes []model.Mistake) string {
	if len(mistakes) == 0 {
		return "No mistakes found.\n"
	}

	var b strings.Builder
	for i, m := range mistakes {
		fmt.Fprintf(&b, "%d. %s -> %s (%s)", i+1, m.Incorrect, m.Correct, m.Type)
		if m.Explanation != "" {
			b.WriteString(": ")
			b.WriteString(m.Explanation)
		}
		b.WriteString("\n")
	}
	return b.String()
}
