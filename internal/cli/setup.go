// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - Interactive first-run configuration wizard.
//
// SECURITY: The API key is read without echo and stored with 0600 perms.

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/studyhall-tui/internal/cite"
	"github.com/jeranaias/studyhall-tui/internal/config"
	"github.com/jeranaias/studyhall-tui/internal/provider"
)

// HandleSetup runs the interactive first-run wizard.
func HandleSetup(args *Args) error {
	if err := RequiresTTY("run setup"); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		// A broken config file should not block re-running setup.
		cfg = config.Default()
	}

	fmt.Println(TitleStyle.Render("studyhall setup"))
	fmt.Println(ValueStyle.Render("Press Enter to keep the value shown in brackets."))
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	apiKey, err := promptAPIKey(cfg)
	if err != nil {
		return err
	}
	if apiKey != "" {
		cfg.Provider.APIKey = apiKey
	}

	baseURL := promptString(reader, "Provider base URL", cfg.Provider.BaseURL)
	if baseURL != "" {
		cfg.Provider.BaseURL = baseURL
	}

	model := promptString(reader, "Model", cfg.Provider.Model)
	if model != "" {
		cfg.Provider.Model = model
	}

	style := promptString(reader, "Citation style (apa/mla/harvard/chicago)", cfg.Study.CitationStyle)
	if style != "" {
		if _, err := cite.ParseStyle(style); err != nil {
			return NewValidationErrorWithExample("citation style", style,
				"unsupported citation style", "supported: apa, mla, harvard, chicago")
		}
		cfg.Study.CitationStyle = strings.ToLower(strings.TrimSpace(style))
	}

	standard := promptString(reader, "Marking standard", cfg.Study.MarkingStandard)
	if standard != "" {
		cfg.Study.MarkingStandard = standard
	}

	theme := promptString(reader, "Theme (dark/light/auto)", cfg.UI.Theme)
	if theme != "" {
		cfg.UI.Theme = strings.ToLower(strings.TrimSpace(theme))
	}

	if err := cfg.Validate(); err != nil {
		return NewCommandError("setup", "validate", "configuration is invalid", err)
	}
	if err := cfg.Save(); err != nil {
		return NewCommandError("setup", "save", "failed to save configuration", err)
	}

	path, _ := config.ConfigPathTOML()
	fmt.Println()
	fmt.Printf("%s Configuration written to %s\n", SuccessStyle.Render("Done."), path)
	fmt.Println(DimStyle.Render("Run 'studyhall' to start the TUI, or 'studyhall ask \"...\"' for a quick question."))
	return nil
}

// promptAPIKey reads the API key without terminal echo.
func promptAPIKey(cfg *config.Config) (string, error) {
	current := "(not set)"
	if cfg.Provider.APIKey != "" {
		current = provider.NewClient(cfg.Provider.APIKey).KeyFingerprint()
	}

	fmt.Printf("%s [%s]: ", "API key", current)
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", WrapError(err, "failed to read API key")
	}
	return strings.TrimSpace(string(keyBytes)), nil
}

// promptString reads one line, returning empty when the user keeps the
// current value.
func promptString(reader *bufio.Reader, label, current string) string {
	if current == "" {
		current = "(not set)"
	}
	fmt.Printf("%s [%s]: ", label, current)

	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
