// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared plumbing for the study command handlers.
//
// Covers config loading, provider client construction, input gathering
// (argument, file, piped stdin), page splitting for multi-page documents,
// and markdown rendering of responses.

package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/studyhall-tui/internal/config"
	"github.com/jeranaias/studyhall-tui/internal/provider"
)

// MaxFileSize is the maximum size for files read as question context (50KB).
// PERFORMANCE: Prevents accidentally sending huge files to the provider.
const MaxFileSize = 50 * 1024

// =============================================================================
// CONFIG AND CLIENT CONSTRUCTION
// =============================================================================

// loadConfig loads the studyhall configuration with environment overrides
// applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapError(err, "failed to load configuration")
	}
	return cfg, nil
}

// newClient builds a provider client from config, honoring a --model
// override from the command line.
func newClient(cfg *config.Config, args *Args) *provider.Client {
	model := cfg.Provider.Model
	if args != nil && args.Model != "" {
		model = args.Model
	}

	return provider.NewClient(cfg.Provider.APIKey).
		WithBaseURL(cfg.Provider.BaseURL).
		WithModel(model).
		WithMaxRetries(cfg.Provider.MaxRetries)
}

// commandContext returns a context bounded by the configured provider
// timeout. Callers must invoke cancel when the command finishes.
func commandContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.Provider.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// =============================================================================
// INPUT GATHERING
// =============================================================================

// readFileForContext reads a file to include as context, with a size cap.
func readFileForContext(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", NewNotFoundError("file", path)
		}
		return "", WrapError(err, "failed to stat file")
	}

	if info.Size() > MaxFileSize {
		return "", NewValidationError(
			"file",
			path,
			fmt.Sprintf("file too large (%d bytes, max %d)", info.Size(), MaxFileSize),
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", WrapError(err, "failed to read file")
	}

	return fmt.Sprintf("--- File: %s ---\n%s\n--- End of file ---", filepath.Base(path), string(data)), nil
}

// stdinIsPiped reports whether stdin has piped or redirected data.
func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdinIfPiped reads all piped stdin, or returns empty when stdin is a
// terminal.
func readStdinIfPiped() (string, error) {
	if !stdinIsPiped() {
		return "", nil
	}
	data, err := io.ReadAll(io.LimitReader(os.Stdin, MaxFileSize+1))
	if err != nil {
		return "", WrapError(err, "failed to read stdin")
	}
	if len(data) > MaxFileSize {
		return "", NewValidationError("stdin", "",
			fmt.Sprintf("piped input too large (max %d bytes)", MaxFileSize))
	}
	return strings.TrimSpace(string(data)), nil
}

// gatherInputText resolves the text input for a command from, in order of
// precedence: the positional query, --file, then piped stdin.
func gatherInputText(args *Args, usage string) (string, error) {
	if args.Query != "" {
		return args.Query, nil
	}

	if args.File != "" {
		data, err := os.ReadFile(args.File)
		if err != nil {
			if os.IsNotExist(err) {
				return "", NewNotFoundError("file", args.File)
			}
			return "", WrapError(err, "failed to read file")
		}
		if len(data) > MaxFileSize {
			return "", NewValidationError("file", args.File,
				fmt.Sprintf("file too large (max %d bytes)", MaxFileSize))
		}
		return strings.TrimSpace(string(data)), nil
	}

	piped, err := readStdinIfPiped()
	if err != nil {
		return "", err
	}
	if piped != "" {
		return piped, nil
	}

	return "", ErrMissingArgument("input", usage)
}

// MaxDocumentSize is the maximum size for page-oriented documents (512KB).
const MaxDocumentSize = 512 * 1024

// readDocumentText resolves the document for page-oriented commands from
// --file / the positional path, or piped stdin.
func readDocumentText(args *Args, usage string) (string, error) {
	if args.File != "" {
		info, err := os.Stat(args.File)
		if err != nil {
			if os.IsNotExist(err) {
				return "", NewNotFoundError("file", args.File)
			}
			return "", WrapError(err, "failed to stat file")
		}
		if info.Size() > MaxDocumentSize {
			return "", NewValidationError("file", args.File,
				fmt.Sprintf("document too large (%d bytes, max %d)", info.Size(), MaxDocumentSize))
		}
		data, err := os.ReadFile(args.File)
		if err != nil {
			return "", WrapError(err, "failed to read file")
		}
		return string(data), nil
	}

	if !stdinIsPiped() {
		return "", ErrMissingArgument("file", usage)
	}
	data, err := io.ReadAll(io.LimitReader(os.Stdin, MaxDocumentSize+1))
	if err != nil {
		return "", WrapError(err, "failed to read stdin")
	}
	if len(data) > MaxDocumentSize {
		return "", NewValidationError("stdin", "",
			fmt.Sprintf("piped document too large (max %d bytes)", MaxDocumentSize))
	}
	return string(data), nil
}

// =============================================================================
// PAGE SPLITTING
// =============================================================================

// splitPages splits a document into pages for page-oriented commands.
//
// Form feed characters take precedence. Failing that, lines consisting of a
// "--- Page N ---" marker (or "===" variants) start a new page. A document
// with neither is a single page. Blank pages are dropped.
func splitPages(text string) []string {
	var raw []string

	if strings.ContainsRune(text, '\f') {
		raw = strings.Split(text, "\f")
	} else {
		raw = splitOnPageMarkers(text)
	}

	pages := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			pages = append(pages, p)
		}
	}
	return pages
}

func splitOnPageMarkers(text string) []string {
	var pages []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		if isPageMarker(line) {
			pages = append(pages, current.String())
			current.Reset()
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	pages = append(pages, current.String())
	return pages
}

// splitPagesBySize chops a document into pages of roughly size characters,
// breaking at line boundaries. Used when --pages overrides marker detection.
func splitPagesBySize(text string, size int) []string {
	if size <= 0 {
		return splitPages(text)
	}

	var pages []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		if current.Len() > 0 && current.Len()+len(line) > size {
			pages = append(pages, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
		pages = append(pages, trimmed)
	}
	return pages
}

// isPageMarker matches separator lines like "--- Page 2 ---" or "=== page ===".
func isPageMarker(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 8 {
		return false
	}
	if !strings.HasPrefix(trimmed, "---") && !strings.HasPrefix(trimmed, "===") {
		return false
	}
	lower := strings.ToLower(trimmed)
	return strings.Contains(lower, "page")
}

// =============================================================================
// IMAGE HANDLING
// =============================================================================

// MaxImageSize is the maximum worksheet image size (8MB).
const MaxImageSize = 8 * 1024 * 1024

// imageDataURL reads an image file and encodes it as a base64 data URL for
// the vision endpoint.
func imageDataURL(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", NewNotFoundError("image", path)
		}
		return "", WrapError(err, "failed to stat image")
	}
	if info.Size() > MaxImageSize {
		return "", NewValidationError("image", path,
			fmt.Sprintf("image too large (%d bytes, max %d)", info.Size(), MaxImageSize))
	}

	var mime string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".gif":
		mime = "image/gif"
	case ".webp":
		mime = "image/webp"
	default:
		return "", NewValidationErrorWithExample("image", path,
			"unsupported image format", "supported: .png, .jpg, .jpeg, .gif, .webp")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", WrapError(err, "failed to read image")
	}

	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var markdownRenderer *glamour.TermRenderer

func init() {
	// Renderer creation can fail in odd terminal environments; fall back to
	// plain text rendering in that case.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(DefaultTerminalWidth),
	)
	if err == nil {
		markdownRenderer = renderer
	}
}

// renderMarkdown renders markdown for terminal display, falling back to the
// raw text on any rendering error.
func renderMarkdown(text string) string {
	if markdownRenderer == nil {
		return text
	}
	rendered, err := markdownRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}

// displayResponse prints a completed response, with markdown rendering when
// stdout is a terminal.
func displayResponse(text string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(text))
	} else {
		fmt.Println(text)
	}
	if !strings.HasSuffix(text, "\n") && IsStdoutTTY() {
		fmt.Println()
	}
}

// =============================================================================
// STREAMING OUTPUT
// =============================================================================

// streamPrinter writes growing partial responses to stdout incrementally.
// The study helpers report the full accumulated text on each tick, so the
// printer tracks how much has already been written and emits only the tail.
type streamPrinter struct {
	written int
}

// Tick writes the unprinted suffix of partial to stdout.
func (p *streamPrinter) Tick(partial string) {
	if len(partial) <= p.written {
		return
	}
	fmt.Print(partial[p.written:])
	p.written = len(partial)
}

// Finish ensures the final text is fully printed and terminated by a newline.
func (p *streamPrinter) Finish(final string) {
	p.Tick(final)
	if !strings.HasSuffix(final, "\n") {
		fmt.Println()
	}
}

// progressf prints a progress message to stderr unless quiet mode is on.
func progressf(args *Args, format string, a ...interface{}) {
	if args != nil && args.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, a...)
}
