// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for studyhall.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSolve
	CmdCheck
	CmdMark
	CmdSummarize
	CmdCite
	CmdWrite
	CmdSessions
	CmdConfig
	CmdSetup
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Model   string

	// Command-specific
	Query      string
	File       string
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g., --style, --format)
	Options map[string]string
}

const usageText = `studyhall - AI study companion for the terminal

Studyhall streams tutoring, homework help, and document analysis straight
to your terminal, with full session history and search.

Usage:
  studyhall                       Start the TUI (default)
  studyhall ask "question"        Ask a one-shot question
  studyhall chat                  Interactive chat (plain REPL)
  studyhall solve "problem"       Solve a homework problem
  studyhall check [text]          Check text for mistakes
  studyhall mark FILE             Mark a submission against a standard
  studyhall summarize FILE        Summarize a document per page
  studyhall cite [text]           Generate formatted citations
  studyhall write "topic"         Write study content
  studyhall sessions [subcommand] Session history management
  studyhall config [show|set]     Configuration
  studyhall setup                 First-run wizard

Ask / Solve / Write:
  studyhall ask "What is osmosis?"
  studyhall ask "Review this:" --file notes.md
  studyhall solve "Integrate x^2 from 0 to 3"
  studyhall write "The water cycle" --kind essay
    --kind KIND                   essay, outline, flashcards, notes (default: essay)

Check:
  studyhall check "Their going to the libary tomorow"
  studyhall check --file essay.txt
  studyhall check --image worksheet.png   Transcribe and check a photographed worksheet
  cat draft.txt | studyhall check         Read text from stdin

Mark:
  studyhall mark homework.txt
    --standard NAME               Marking standard (default from config)
    --pages N                     Override page splitting, N chars per page

Summarize:
  studyhall summarize chapter.txt
    --mindmap                     Also print a topic mindmap
    --title TITLE                 Mindmap root title

Cite:
  studyhall cite "Smith, J. (2020). Climate futures..."
  studyhall cite --file bibliography.txt --style mla
    --style STYLE                 apa, mla, harvard, chicago (default from config)

Session Management:
  studyhall sessions list         List all saved sessions
  studyhall sessions show <id>    Show a session transcript
  studyhall sessions search TEXT  Full-text search across history
  studyhall sessions export <id>  Export a session transcript
    --format json|md|txt          Export format (default: txt)
  studyhall sessions delete <id>  Delete a session
    --confirm                     Required confirmation flag
  studyhall sessions stats        Show history statistics

Configuration:
  studyhall config show           Show current configuration
  studyhall config path           Show config file location
  studyhall config set KEY VALUE  Set a value (e.g. provider.model)
  studyhall setup                 Interactive first-run wizard

Global Flags:
  -q, --quiet     Minimal output
  -v, --verbose   Debug output
  --model NAME    Override the configured model
  --json          Output results as JSON

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("studyhall version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// No remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseQueryArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		parseChatArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "solve":
		parseQueryArgs(&parsedArgs, remaining)
		return CmdSolve, parsedArgs

	case "check":
		parseCheckArgs(&parsedArgs, remaining)
		return CmdCheck, parsedArgs

	case "mark":
		parseMarkArgs(&parsedArgs, remaining)
		return CmdMark, parsedArgs

	case "summarize", "summary":
		parseSummarizeArgs(&parsedArgs, remaining)
		return CmdSummarize, parsedArgs

	case "cite", "citations":
		parseCiteArgs(&parsedArgs, remaining)
		return CmdCite, parsedArgs

	case "write":
		parseWriteArgs(&parsedArgs, remaining)
		return CmdWrite, parsedArgs

	case "session", "sessions":
		parseSessionsArgs(&parsedArgs, remaining)
		return CmdSessions, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "setup":
		return CmdSetup, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command - treat as a direct question for the TUI
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdTUI, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{
		Options: make(map[string]string),
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--model":
			if i+1 < len(args) {
				i++
				parsedArgs.Model = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				parsedArgs.Model = strings.TrimPrefix(arg, "--model=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseQueryArgs parses commands whose arguments are a free-text query plus
// an optional --file.
func parseQueryArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--file=") {
				args.File = strings.TrimPrefix(arg, "--file=")
			} else if strings.HasPrefix(arg, "--model=") {
				args.Model = strings.TrimPrefix(arg, "--model=")
			} else if !strings.HasPrefix(arg, "-") {
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				args.Model = strings.TrimPrefix(arg, "--model=")
			}
		}
	}
}

// parseCheckArgs parses check command specific arguments.
func parseCheckArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case "--image":
			if i+1 < len(remaining) {
				i++
				args.Options["image"] = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--file="):
				args.File = strings.TrimPrefix(arg, "--file=")
			case strings.HasPrefix(arg, "--image="):
				args.Options["image"] = strings.TrimPrefix(arg, "--image=")
			case !strings.HasPrefix(arg, "-"):
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseMarkArgs parses mark command specific arguments.
func parseMarkArgs(args *Args, remaining []string) {
	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "--standard":
			if i+1 < len(remaining) {
				i++
				args.Options["standard"] = remaining[i]
			}
		case "--pages":
			if i+1 < len(remaining) {
				i++
				args.Options["pages"] = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--standard="):
				args.Options["standard"] = strings.TrimPrefix(arg, "--standard=")
			case strings.HasPrefix(arg, "--pages="):
				args.Options["pages"] = strings.TrimPrefix(arg, "--pages=")
			case !strings.HasPrefix(arg, "-") && args.File == "":
				args.File = arg
			}
		}
		i++
	}
}

// parseSummarizeArgs parses summarize command specific arguments.
func parseSummarizeArgs(args *Args, remaining []string) {
	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "--mindmap":
			args.Options["mindmap"] = "true"
		case "--title":
			if i+1 < len(remaining) {
				i++
				args.Options["title"] = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--title="):
				args.Options["title"] = strings.TrimPrefix(arg, "--title=")
			case !strings.HasPrefix(arg, "-") && args.File == "":
				args.File = arg
			}
		}
		i++
	}
}

// parseCiteArgs parses cite command specific arguments.
func parseCiteArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case "--style":
			if i+1 < len(remaining) {
				i++
				args.Options["style"] = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--file="):
				args.File = strings.TrimPrefix(arg, "--file=")
			case strings.HasPrefix(arg, "--style="):
				args.Options["style"] = strings.TrimPrefix(arg, "--style=")
			case !strings.HasPrefix(arg, "-"):
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseWriteArgs parses write command specific arguments.
func parseWriteArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "--kind", "-k":
			if i+1 < len(remaining) {
				i++
				args.Options["kind"] = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--kind="):
				args.Options["kind"] = strings.TrimPrefix(arg, "--kind=")
			case !strings.HasPrefix(arg, "-"):
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseSessionsArgs parses sessions command specific arguments.
func parseSessionsArgs(args *Args, remaining []string) {
	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "--format":
			if i+1 < len(remaining) {
				i++
				args.Options["format"] = remaining[i]
			}
		case "--confirm":
			args.Options["confirm"] = "true"
		case "--limit":
			if i+1 < len(remaining) {
				i++
				args.Options["limit"] = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--format="):
				args.Options["format"] = strings.TrimPrefix(arg, "--format=")
			case strings.HasPrefix(arg, "--limit="):
				args.Options["limit"] = strings.TrimPrefix(arg, "--limit=")
			case strings.HasPrefix(arg, "-"):
				// unknown flag, ignore
			case args.Subcommand == "":
				args.Subcommand = strings.ToLower(arg)
			case args.Query == "":
				args.Query = arg
			default:
				args.Query += " " + arg
			}
		}
		i++
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// ERROR HANDLING: Errors must not be silently ignored

// Run dispatches a parsed command to its handler and exits with the
// appropriate code on failure.
func Run(args *Args, handler func(*Args) error) {
	if err := handler(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleVersionWithJSON handles the "version" command with JSON output support.
func HandleVersionWithJSON(args *Args) {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		resp := NewJSONResponse("version", data)
		resp.Print()
		return
	}
	PrintVersion()
}

// VersionData is the JSON payload for the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
