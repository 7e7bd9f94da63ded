// COLEPA TUI - Consultas legales del Paraguay en la terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colepa/colepa-tui/internal/api"
	"github.com/colepa/colepa-tui/internal/cli"
	"github.com/colepa/colepa-tui/internal/config"
	"github.com/colepa/colepa-tui/internal/logging"
	"github.com/colepa/colepa-tui/internal/storage"
	"github.com/colepa/colepa-tui/internal/ui/chat"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, parser := cli.Parse(os.Args[1:])

	// Help and version need no configuration.
	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "colepa: configuración inválida: %v\n", err)
		os.Exit(1)
	}

	logger, cleanup, err := logging.New(cfg.Dir(), cfg.Log.Level)
	if err != nil {
		// A broken log file should not keep the app from starting.
		logger = logging.Discard()
		cleanup = func() {}
	}
	defer cleanup()

	store := storage.NewSessionStore(cfg.Dir(), logger)
	store.Load()
	drafts := storage.NewDraftStore(cfg.Dir(), logger)
	client := api.NewClient(cfg.API.BaseURL, logger).WithTimeout(cfg.API.Timeout())

	app := &cli.App{
		Cfg:    cfg,
		Store:  store,
		Drafts: drafts,
		Client: client,
		Log:    logger,
		Out:    os.Stdout,
	}

	switch cmd {
	case cli.CmdAsk:
		os.Exit(app.RunAsk(parser))
	case cli.CmdChat:
		os.Exit(app.RunChat(parser))
	case cli.CmdSessions:
		os.Exit(app.RunSessions(parser))
	case cli.CmdExport:
		os.Exit(app.RunExport(parser))
	case cli.CmdStatus:
		os.Exit(app.RunStatus(parser))
	case cli.CmdConfig:
		os.Exit(app.RunConfig(parser))
	default:
		os.Exit(runTUI(cfg, store, drafts, client, logger))
	}
}

// runTUI starts the full-screen interface with live config reload.
func runTUI(cfg *config.Config, store *storage.SessionStore, drafts *storage.DraftStore,
	client *api.Client, logger zerolog.Logger) int {

	var updates <-chan *config.Config
	if watcher, err := config.Watch(cfg, logger); err == nil {
		updates = watcher.C
		defer watcher.Close()
	} else {
		logger.Warn().Err(err).Msg("config watch unavailable")
	}

	m := chat.New(cfg, store, drafts, client, updates, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "colepa: %v\n", err)
		return 1
	}
	return 0
}
