// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration inspection and editing.
//
// SECURITY: API keys are never printed in full, only a fingerprint.

package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/config"
	"github.com/jeranaias/studyhall-tui/internal/provider"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args *Args) error {
	sub := args.Subcommand
	if sub == "" {
		sub = "show"
	}

	switch sub {
	case "show":
		return configShow(args)
	case "path":
		return configPath(args)
	case "set":
		return configSet(args)
	default:
		return NewValidationErrorWithExample("subcommand", sub,
			"unknown config subcommand", "supported: show, path, set")
	}
}

func configShow(args *Args) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	keyDisplay := "(not set)"
	if cfg.Provider.APIKey != "" {
		keyDisplay = provider.NewClient(cfg.Provider.APIKey).KeyFingerprint()
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{
			"provider": map[string]interface{}{
				"api_key_fingerprint": keyDisplay,
				"base_url":            cfg.Provider.BaseURL,
				"model":               cfg.Provider.Model,
				"max_retries":         cfg.Provider.MaxRetries,
				"timeout_secs":        cfg.Provider.TimeoutSecs,
			},
			"study":   cfg.Study,
			"history": cfg.History,
			"ui":      cfg.UI,
		}).Print()
	}

	fmt.Println(TitleStyle.Render("studyhall configuration"))

	fmt.Println(SectionStyle.Render("Provider"))
	fmt.Printf("%s %s\n", RenderLabel("API key:"), keyDisplay)
	fmt.Printf("%s %s\n", RenderLabel("Base URL:"), cfg.Provider.BaseURL)
	fmt.Printf("%s %s\n", RenderLabel("Model:"), cfg.Provider.Model)
	fmt.Printf("%s %d\n", RenderLabel("Max retries:"), cfg.Provider.MaxRetries)
	fmt.Printf("%s %ds\n", RenderLabel("Timeout:"), cfg.Provider.TimeoutSecs)

	fmt.Println(SectionStyle.Render("Study"))
	fmt.Printf("%s %s\n", RenderLabel("Citation style:"), cfg.Study.CitationStyle)
	fmt.Printf("%s %s\n", RenderLabel("Marking standard:"), cfg.Study.MarkingStandard)
	fmt.Printf("%s %d\n", RenderLabel("Page concurrency:"), cfg.Study.PageConcurrency)

	fmt.Println(SectionStyle.Render("History"))
	dir := cfg.History.Dir
	if dir == "" {
		dir = "~/.studyhall/history"
	}
	fmt.Printf("%s %s\n", RenderLabel("Directory:"), dir)
	fmt.Printf("%s %d\n", RenderLabel("Max sessions:"), cfg.History.MaxSessions)
	fmt.Printf("%s %t\n", RenderLabel("Search index:"), cfg.History.IndexEnabled)

	fmt.Println(SectionStyle.Render("UI"))
	fmt.Printf("%s %s\n", RenderLabel("Theme:"), cfg.UI.Theme)
	fmt.Printf("%s %t\n", RenderLabel("Compact mode:"), cfg.UI.CompactMode)
	fmt.Printf("%s %t\n", RenderLabel("Timestamps:"), cfg.UI.ShowTimestamps)

	return nil
}

func configPath(args *Args) error {
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return WrapError(err, "failed to resolve configuration path")
	}

	exists := false
	if _, statErr := os.Stat(tomlPath); statErr == nil {
		exists = true
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{
			"path":   tomlPath,
			"exists": exists,
		}).Print()
	}

	fmt.Println(tomlPath)
	if !exists && !args.Quiet {
		StderrPrintln("(file does not exist yet; run 'studyhall setup' or 'studyhall config set')")
	}
	return nil
}

func configSet(args *Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key/value", "studyhall config set provider.model studyhall-tutor")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := setConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return NewCommandError("config", "set", "resulting configuration is invalid", err)
	}

	if err := cfg.Save(); err != nil {
		return NewCommandError("config", "set", "failed to save configuration", err)
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]string{
			"key":   args.ConfigKey,
			"value": displayValue(args.ConfigKey, args.ConfigVal),
		}).Print()
	}
	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("Saved:"), args.ConfigKey, displayValue(args.ConfigKey, args.ConfigVal))
	return nil
}

// setConfigValue applies a dotted-key assignment to the config.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "provider.api_key":
		cfg.Provider.APIKey = value
	case "provider.base_url":
		cfg.Provider.BaseURL = value
	case "provider.model":
		cfg.Provider.Model = value
	case "provider.max_retries":
		return setIntField(&cfg.Provider.MaxRetries, key, value)
	case "provider.timeout_secs":
		return setIntField(&cfg.Provider.TimeoutSecs, key, value)
	case "study.citation_style":
		cfg.Study.CitationStyle = strings.ToLower(value)
	case "study.marking_standard":
		cfg.Study.MarkingStandard = value
	case "study.page_concurrency":
		return setIntField(&cfg.Study.PageConcurrency, key, value)
	case "history.dir":
		cfg.History.Dir = value
	case "history.max_sessions":
		return setIntField(&cfg.History.MaxSessions, key, value)
	case "history.index_enabled":
		return setBoolField(&cfg.History.IndexEnabled, key, value)
	case "ui.theme":
		cfg.UI.Theme = strings.ToLower(value)
	case "ui.compact_mode":
		return setBoolField(&cfg.UI.CompactMode, key, value)
	case "ui.show_timestamps":
		return setBoolField(&cfg.UI.ShowTimestamps, key, value)
	default:
		return NewValidationErrorWithExample("key", key,
			"unknown configuration key", "e.g. provider.model, study.citation_style, ui.theme")
	}
	return nil
}

func setIntField(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return NewValidationError(key, value, "must be an integer")
	}
	*dst = n
	return nil
}

func setBoolField(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return NewValidationError(key, value, "must be true or false")
	}
	*dst = b
	return nil
}

// displayValue masks secrets when echoing a set back to the user.
func displayValue(key, value string) string {
	if strings.HasSuffix(strings.ToLower(key), "api_key") {
		return "(hidden)"
	}
	return value
}
