// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/studyhall-tui/internal/config"
	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/study"
)

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

func TestParseArgsDefaultsToTUI(t *testing.T) {
	cmd, _ := ParseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
}

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		args []string
		want Command
	}{
		{[]string{"ask", "why"}, CmdAsk},
		{[]string{"chat"}, CmdChat},
		{[]string{"solve", "2x=4"}, CmdSolve},
		{[]string{"check", "text"}, CmdCheck},
		{[]string{"mark", "hw.txt"}, CmdMark},
		{[]string{"summarize", "ch.txt"}, CmdSummarize},
		{[]string{"summary", "ch.txt"}, CmdSummarize},
		{[]string{"cite", "text"}, CmdCite},
		{[]string{"write", "topic"}, CmdWrite},
		{[]string{"sessions", "list"}, CmdSessions},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"setup"}, CmdSetup},
		{[]string{"version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
	}

	for _, tt := range tests {
		cmd, _ := ParseArgs(tt.args)
		if cmd != tt.want {
			t.Errorf("ParseArgs(%v) = %v, want %v", tt.args, cmd, tt.want)
		}
	}
}

func TestParseArgsGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--json", "-q", "--model", "fast-model", "ask", "why is the sky blue"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if !args.JSON || !args.Quiet {
		t.Errorf("JSON = %v, Quiet = %v, want both true", args.JSON, args.Quiet)
	}
	if args.Model != "fast-model" {
		t.Errorf("Model = %q, want fast-model", args.Model)
	}
	if args.Query != "why is the sky blue" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsModelEqualsForm(t *testing.T) {
	_, args := ParseArgs([]string{"--model=quick", "ask", "q"})
	if args.Model != "quick" {
		t.Errorf("Model = %q, want quick", args.Model)
	}
}

func TestParseArgsQueryWithFile(t *testing.T) {
	_, args := ParseArgs([]string{"ask", "review", "this", "--file", "notes.md"})
	if args.Query != "review this" {
		t.Errorf("Query = %q, want 'review this'", args.Query)
	}
	if args.File != "notes.md" {
		t.Errorf("File = %q, want notes.md", args.File)
	}
}

func TestParseArgsCheckImage(t *testing.T) {
	_, args := ParseArgs([]string{"check", "--image", "worksheet.png"})
	if args.Options["image"] != "worksheet.png" {
		t.Errorf("image = %q, want worksheet.png", args.Options["image"])
	}
}

func TestParseArgsMark(t *testing.T) {
	_, args := ParseArgs([]string{"mark", "hw.txt", "--standard", "ib", "--pages", "2000"})
	if args.File != "hw.txt" {
		t.Errorf("File = %q, want hw.txt", args.File)
	}
	if args.Options["standard"] != "ib" || args.Options["pages"] != "2000" {
		t.Errorf("Options = %v", args.Options)
	}
}

func TestParseArgsSummarizeMindmap(t *testing.T) {
	_, args := ParseArgs([]string{"summarize", "ch.txt", "--mindmap", "--title", "Biology"})
	if args.Options["mindmap"] != "true" {
		t.Errorf("mindmap not set: %v", args.Options)
	}
	if args.Options["title"] != "Biology" {
		t.Errorf("title = %q", args.Options["title"])
	}
}

func TestParseArgsSessionsSubcommand(t *testing.T) {
	_, args := ParseArgs([]string{"sessions", "search", "photosynthesis", "energy", "--limit", "5"})
	if args.Subcommand != "search" {
		t.Errorf("Subcommand = %q, want search", args.Subcommand)
	}
	if args.Query != "photosynthesis energy" {
		t.Errorf("Query = %q", args.Query)
	}
	if args.Options["limit"] != "5" {
		t.Errorf("limit = %q", args.Options["limit"])
	}
}

func TestParseArgsConfigSet(t *testing.T) {
	_, args := ParseArgs([]string{"config", "set", "provider.model", "tutor-large"})
	if args.Subcommand != "set" || args.ConfigKey != "provider.model" || args.ConfigVal != "tutor-large" {
		t.Errorf("parsed = %q %q %q", args.Subcommand, args.ConfigKey, args.ConfigVal)
	}
}

func TestParseArgsUnknownCommandFallsBackToTUI(t *testing.T) {
	cmd, args := ParseArgs([]string{"what", "is", "osmosis"})
	if cmd != CmdTUI {
		t.Fatalf("cmd = %v, want CmdTUI", cmd)
	}
	if got := strings.Join(args.Raw, " "); got != "what is osmosis" {
		t.Errorf("Raw = %q", got)
	}
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneralError},
		{"validation", NewValidationError("field", "x", "bad"), ExitUsageError},
		{"not found", NewNotFoundError("session", "abc"), ExitNotFoundError},
		{"config", errors.New("invalid configuration value"), ExitConfigError},
		{"auth", errors.New("api key rejected"), ExitAuthError},
		{"deadline", errors.New("context deadline exceeded"), ExitTimeoutError},
		{"network", errors.New("dial tcp: connection refused"), ExitNetworkError},
		{"wrapped validation", WrapError(NewValidationError("f", "", "bad"), "outer"), ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewCommandError("mark", "export", "failed", inner)
	if !errors.Is(err, inner) {
		t.Error("CommandError does not unwrap to inner error")
	}
}

// =============================================================================
// PAGE SPLITTING
// =============================================================================

func TestSplitPagesFormFeed(t *testing.T) {
	pages := splitPages("page one\fpage two\f\fpage three")
	if len(pages) != 3 {
		t.Fatalf("len = %d, want 3: %q", len(pages), pages)
	}
	if pages[1] != "page two" {
		t.Errorf("pages[1] = %q", pages[1])
	}
}

func TestSplitPagesMarkers(t *testing.T) {
	text := "intro text\n--- Page 2 ---\nsecond page\n=== Page 3 ===\nthird page"
	pages := splitPages(text)
	if len(pages) != 3 {
		t.Fatalf("len = %d, want 3: %q", len(pages), pages)
	}
	if pages[2] != "third page" {
		t.Errorf("pages[2] = %q", pages[2])
	}
}

func TestSplitPagesSingle(t *testing.T) {
	pages := splitPages("just one page\nwith two lines")
	if len(pages) != 1 {
		t.Fatalf("len = %d, want 1", len(pages))
	}
}

func TestSplitPagesEmpty(t *testing.T) {
	if pages := splitPages("   \n\n  "); len(pages) != 0 {
		t.Errorf("len = %d, want 0", len(pages))
	}
}

func TestIsPageMarker(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"--- Page 2 ---", true},
		{"=== page ===", true},
		{"--- File: x ---", false},
		{"---", false},
		{"regular text", false},
	}
	for _, tt := range tests {
		if got := isPageMarker(tt.line); got != tt.want {
			t.Errorf("isPageMarker(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestSplitPagesBySize(t *testing.T) {
	text := strings.Repeat("line of text\n", 20)
	pages := splitPagesBySize(text, 60)
	if len(pages) < 3 {
		t.Fatalf("len = %d, want at least 3", len(pages))
	}
	for i, p := range pages {
		if len(p) > 80 {
			t.Errorf("page %d too large: %d chars", i, len(p))
		}
	}
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func TestFormatMistakesPlain(t *testing.T) {
	mistakes := []model.Mistake{
		{Incorrect: "definately", Correct: "definitely", Type: model.MistakeSpelling, Explanation: "common misspelling"},
		{Incorrect: "their", Correct: "there", Type: model.MistakeGrammar},
	}
	out := formatMistakesPlain(mistakes)
	if !strings.Contains(out, "1. definately -> definitely (spelling): common misspelling") {
		t.Errorf("missing first mistake:\n%s", out)
	}
	if !strings.Contains(out, "2. their -> there (grammar)") {
		t.Errorf("missing second mistake:\n%s", out)
	}
}

func TestFormatMistakesPlainEmpty(t *testing.T) {
	if out := formatMistakesPlain(nil); out != "No mistakes found.\n" {
		t.Errorf("out = %q", out)
	}
}

func TestFormatReportPlain(t *testing.T) {
	report := &study.MarkingReport{
		Questions: []model.QuestionMark{
			{QuestionNumber: 1, AwardedMarks: 8, MaxMarks: 10, Feedback: "solid work"},
		},
		TotalMarks:  8,
		MaxMarks:    10,
		FailedPages: []int{3},
	}
	out := formatReportPlain(report, "general")
	for _, want := range []string{"Question 1: 8/10 - solid work", "Pages not marked: 3", "Total: 8/10 (80.0%)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestStreamPrinterMonotonic(t *testing.T) {
	p := &streamPrinter{}
	p.Tick("Hel")
	if p.written != 3 {
		t.Errorf("written = %d, want 3", p.written)
	}
	p.Tick("He") // stale shorter partial
	if p.written != 3 {
		t.Errorf("written after stale tick = %d, want 3", p.written)
	}
	p.Tick("Hello")
	if p.written != 5 {
		t.Errorf("written = %d, want 5", p.written)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abcd" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}

// =============================================================================
// CONFIG SET
// =============================================================================

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "provider.model", "tutor-large"); err != nil {
		t.Fatalf("set model: %v", err)
	}
	if cfg.Provider.Model != "tutor-large" {
		t.Errorf("Model = %q", cfg.Provider.Model)
	}

	if err := setConfigValue(cfg, "study.page_concurrency", "8"); err != nil {
		t.Fatalf("set concurrency: %v", err)
	}
	if cfg.Study.PageConcurrency != 8 {
		t.Errorf("PageConcurrency = %d", cfg.Study.PageConcurrency)
	}

	if err := setConfigValue(cfg, "history.index_enabled", "false"); err != nil {
		t.Fatalf("set index_enabled: %v", err)
	}
	if cfg.History.IndexEnabled {
		t.Error("IndexEnabled still true")
	}
}

func TestSetConfigValueRejectsBadInput(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "provider.max_retries", "lots"); err == nil {
		t.Error("expected error for non-integer")
	}
	if err := setConfigValue(cfg, "no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestDisplayValueHidesSecrets(t *testing.T) {
	if got := displayValue("provider.api_key", "sk-secret"); got != "(hidden)" {
		t.Errorf("displayValue = %q", got)
	}
	if got := displayValue("provider.model", "tutor"); got != "tutor" {
		t.Errorf("displayValue = %q", got)
	}
}

// =============================================================================
// SESSION EXPORT
// =============================================================================

func TestExportFormats(t *testing.T) {
	sess := model.NewChatSession("Biology Review")
	sess.AddMessage(model.NewUserMessage("What is a cell?"))
	sess.AddMessage(model.NewMessage(model.RoleAssistant, "The basic unit of life."))

	md := exportMarkdown(sess)
	if !strings.Contains(md, "# Biology Review") || !strings.Contains(md, "## You") {
		t.Errorf("markdown export missing sections:\n%s", md)
	}

	txt := exportText(sess)
	if !strings.Contains(txt, "What is a cell?") || !strings.Contains(txt, "The basic unit of life.") {
		t.Errorf("text export missing content:\n%s", txt)
	}
}

// =============================================================================
// TEXT WRAPPING
// =============================================================================

func TestWrapTextRespectsWidth(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog and keeps on running"
	wrapped := WrapText(text, 20)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 20 {
			t.Errorf("line too long (%d): %q", len(line), line)
		}
	}
}

func TestWrapTextPreservesNewlines(t *testing.T) {
	wrapped := WrapText("one\ntwo", 40)
	if wrapped != "one\ntwo" {
		t.Errorf("wrapped = %q", wrapped)
	}
}
