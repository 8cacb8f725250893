// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions_cmd.go - Session history management: list, show, search, export,
// delete, stats.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/config"
	"github.com/jeranaias/studyhall-tui/internal/index"
	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/session"
	"github.com/jeranaias/studyhall-tui/internal/storage"
)

// sessionSummary is the JSON list entry for sessions list.
type sessionSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Messages    int    `json:"messages"`
	CreatedAt   string `json:"created_at"`
	LastUpdated string `json:"last_updated"`
}

// HandleSessions dispatches the sessions subcommands.
func HandleSessions(args *Args) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	histStore, store, err := openHistory(cfg)
	if err != nil {
		return err
	}

	sub := args.Subcommand
	if sub == "" {
		sub = "list"
	}

	switch sub {
	case "list", "ls":
		return sessionsList(store, args)
	case "show":
		return sessionsShow(store, args)
	case "search":
		return sessionsSearch(cfg, histStore, args)
	case "export":
		return sessionsExport(store, args)
	case "delete", "rm":
		return sessionsDelete(store, args)
	case "stats":
		return sessionsStats(cfg, histStore, args)
	default:
		return NewValidationErrorWithExample("subcommand", sub,
			"unknown sessions subcommand", "supported: list, show, search, export, delete, stats")
	}
}

// openHistory builds the history store and loads the session store over it.
func openHistory(cfg *config.Config) (*storage.HistoryStore, *session.Store, error) {
	var histStore *storage.HistoryStore
	var err error

	if cfg.History.Dir != "" {
		histStore, err = storage.NewHistoryStoreWithDir(cfg.History.Dir)
	} else {
		histStore, err = storage.NewHistoryStore()
	}
	if err != nil {
		return nil, nil, WrapError(err, "failed to open history")
	}
	if cfg.History.MaxSessions > 0 {
		histStore.MaxSessions = cfg.History.MaxSessions
	}

	store := session.NewStore(histStore)
	if err := store.Load(); err != nil {
		return nil, nil, WrapError(err, "failed to load sessions")
	}
	return histStore, store, nil
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

func sessionsList(store *session.Store, args *Args) error {
	sessions := store.Sessions()

	if args.JSON {
		summaries := make([]sessionSummary, 0, len(sessions))
		for _, s := range sessions {
			summaries = append(summaries, summarizeSession(s))
		}
		return NewJSONResponse("sessions", summaries).Print()
	}

	if len(sessions) == 0 {
		fmt.Println("No saved sessions.")
		return nil
	}

	fmt.Printf("%-14s %-30s %8s  %s\n", "ID", "TITLE", "MESSAGES", "LAST UPDATED")
	for _, s := range sessions {
		fmt.Printf("%-14s %-30s %8d  %s\n",
			truncate(s.ID, 12),
			truncate(s.Title, 30),
			s.MessageCount(),
			s.LastUpdated.Format("2006-01-02 15:04"))
	}
	return nil
}

func sessionsShow(store *session.Store, args *Args) error {
	sess, err := findSessionByRef(store, args.Query)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("sessions", sess).Print()
	}

	if IsStdoutTTY() {
		fmt.Println(TitleStyle.Render(sess.Title))
		fmt.Println(DimStyle.Render(fmt.Sprintf("%s · %d messages · last updated %s",
			truncate(sess.ID, 12), sess.MessageCount(), sess.LastUpdated.Format("2006-01-02 15:04"))))
	} else {
		fmt.Printf("%s (%s)\n", sess.Title, truncate(sess.ID, 12))
	}
	fmt.Println()

	for _, msg := range sess.Messages {
		if IsStdoutTTY() {
			fmt.Println(HighlightStyle.Render(msg.Role.DisplayName() + ":"))
			fmt.Println(WrapText(msg.Content, GetTerminalWidth()))
		} else {
			fmt.Printf("%s: %s\n", msg.Role.DisplayName(), msg.Content)
		}
		fmt.Println()
	}
	return nil
}

func sessionsSearch(cfg *config.Config, histStore *storage.HistoryStore, args *Args) error {
	if args.Query == "" {
		return ErrMissingArgument("query", "studyhall sessions search photosynthesis")
	}
	if !cfg.History.IndexEnabled {
		return NewCommandError("sessions", "search",
			"history indexing is disabled in configuration", nil)
	}

	idxConfig := index.DefaultConfig(histStore.BaseDir)
	idxConfig.EnableWatch = false
	idx, err := index.NewHistoryIndex(histStore, idxConfig)
	if err != nil {
		return WrapError(err, "failed to open history index")
	}
	defer idx.Close()

	ctx := context.Background()
	if err := idx.Reindex(ctx); err != nil {
		return WrapError(err, "failed to index history")
	}

	limit := 20
	if raw := args.Options["limit"]; raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	hits, err := idx.Search(ctx, args.Query, limit)
	if err != nil {
		return WrapError(err, "search failed")
	}

	if args.JSON {
		return NewJSONResponse("sessions", hits).Print()
	}

	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, hit := range hits {
		if IsStdoutTTY() {
			fmt.Printf("%s %s\n", HighlightStyle.Render(truncate(hit.SessionID, 12)), hit.SessionTitle)
			fmt.Printf("  %s: %s\n", hit.Role, hit.Snippet)
		} else {
			fmt.Printf("%s\t%s\t%s: %s\n", truncate(hit.SessionID, 12), hit.SessionTitle, hit.Role, hit.Snippet)
		}
	}
	return nil
}

func sessionsExport(store *session.Store, args *Args) error {
	sess, err := findSessionByRef(store, args.Query)
	if err != nil {
		return err
	}

	format := args.Options["format"]
	if format == "" {
		format = "txt"
	}

	switch format {
	case "json":
		encoded, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			return WrapError(err, "failed to encode session")
		}
		fmt.Println(string(encoded))
	case "md", "markdown":
		fmt.Print(exportMarkdown(sess))
	case "txt", "text":
		fmt.Print(exportText(sess))
	default:
		return ErrUnsupportedFormat(format, []string{"json", "md", "txt"})
	}
	return nil
}

func sessionsDelete(store *session.Store, args *Args) error {
	sess, err := findSessionByRef(store, args.Query)
	if err != nil {
		return err
	}

	if args.Options["confirm"] != "true" {
		return NewValidationErrorWithExample("confirm", "",
			"deletion requires confirmation",
			fmt.Sprintf("studyhall sessions delete %s --confirm", truncate(sess.ID, 12)))
	}

	if err := store.DeleteSession(sess.ID); err != nil {
		return NewCommandError("sessions", "delete", "could not delete session", err)
	}

	if args.JSON {
		return NewJSONResponse("sessions", map[string]string{"deleted": sess.ID}).Print()
	}
	fmt.Printf("Deleted session %s (%s)\n", truncate(sess.ID, 12), sess.Title)
	return nil
}

func sessionsStats(cfg *config.Config, histStore *storage.HistoryStore, args *Args) error {
	if !cfg.History.IndexEnabled {
		return NewCommandError("sessions", "stats",
			"history indexing is disabled in configuration", nil)
	}

	idxConfig := index.DefaultConfig(histStore.BaseDir)
	idxConfig.EnableWatch = false
	idx, err := index.NewHistoryIndex(histStore, idxConfig)
	if err != nil {
		return WrapError(err, "failed to open history index")
	}
	defer idx.Close()

	if err := idx.Reindex(context.Background()); err != nil {
		return WrapError(err, "failed to index history")
	}
	stats := idx.Stats()

	if args.JSON {
		return NewJSONResponse("sessions", map[string]interface{}{
			"sessions":     stats.Sessions,
			"messages":     stats.Messages,
			"last_indexed": stats.LastIndexed,
		}).Print()
	}

	fmt.Printf("%s %d\n", RenderLabel("Sessions:"), stats.Sessions)
	fmt.Printf("%s %d\n", RenderLabel("Messages:"), stats.Messages)
	if !stats.LastIndexed.IsZero() {
		fmt.Printf("%s %s\n", RenderLabel("Last indexed:"), stats.LastIndexed.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// findSessionByRef resolves a session by ID, ID prefix, or title substring.
func findSessionByRef(store *session.Store, ref string) (*model.ChatSession, error) {
	if ref == "" {
		return nil, ErrMissingArgument("session", "studyhall sessions show <id>")
	}

	lowered := strings.ToLower(ref)
	for _, sess := range store.Sessions() {
		if sess.ID == ref || strings.HasPrefix(sess.ID, ref) {
			return sess, nil
		}
		if strings.Contains(strings.ToLower(sess.Title), lowered) {
			return sess, nil
		}
	}
	return nil, NewNotFoundError("session", ref)
}

func summarizeSession(s *model.ChatSession) sessionSummary {
	return sessionSummary{
		ID:          s.ID,
		Title:       s.Title,
		Messages:    s.MessageCount(),
		CreatedAt:   s.CreatedAt.Format("2006-01-02 15:04:05"),
		LastUpdated: s.LastUpdated.Format("2006-01-02 15:04:05"),
	}
}

func exportMarkdown(sess *model.ChatSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", sess.Title)
	fmt.Fprintf(&b, "_Session %s, last updated %s_\n\n", sess.ID, sess.LastUpdated.Format("2006-01-02 15:04"))
	for _, msg := range sess.Messages {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", msg.Role.DisplayName(), msg.Content)
	}
	return b.String()
}

func exportText(sess *model.ChatSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n\n", sess.Title, sess.ID)
	for _, msg := range sess.Messages {
		fmt.Fprintf(&b, "%s:\n%s\n\n", msg.Role.DisplayName(), msg.Content)
	}
	return b.String()
}

// truncate shortens a string to max characters.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
