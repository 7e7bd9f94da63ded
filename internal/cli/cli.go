// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/colepa/colepa-tui/internal/api"
	"github.com/colepa/colepa-tui/internal/config"
	"github.com/colepa/colepa-tui/internal/storage"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the entry point selected on the command line.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdExport
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// App bundles the dependencies every handler needs.
type App struct {
	Cfg    *config.Config
	Store  *storage.SessionStore
	Drafts *storage.DraftStore
	Client *api.Client
	Log    zerolog.Logger
	Out    io.Writer
}

const usageText = `colepa - Consultas legales del Paraguay en la terminal

Usage:
  colepa                          Abre la interfaz interactiva
  colepa ask "pregunta"           Hace una consulta y termina
  colepa chat                     Chat por líneas (terminales simples)
  colepa sessions [subcomando]    Administra consultas guardadas
  colepa export [--format f]      Exporta una consulta a un archivo
  colepa status                   Estado del backend y la configuración
  colepa config [show|path]       Muestra la configuración
  colepa version                  Versión
  colepa help                     Esta ayuda

Flags de ask:
  --legacy        Usa el endpoint de una sola pregunta, sin historial
  --json          Imprime la respuesta cruda en JSON
  --plain         Sin markdown ni efecto de tipeo

Flags de export:
  --format FORMAT text | json | markdown | html   (default: markdown)
  --session ID    Consulta a exportar (default: la más reciente)
  --out DIR       Directorio de salida

Flags de sessions:
  sessions list                Lista las consultas guardadas
  sessions show ID             Muestra una consulta
  sessions search "texto"      Busca, ignorando acentos
  sessions delete ID           Borra una consulta
`

// Parse maps the raw command line onto a command and its parser.
func Parse(raw []string) (Command, *ArgParser) {
	if len(raw) == 0 {
		return CmdTUI, NewArgParser(nil)
	}

	cmd := raw[0]
	parser := NewArgParser(raw[1:])

	switch cmd {
	case "ask", "preguntar":
		return CmdAsk, parser
	case "chat":
		return CmdChat, parser
	case "sessions", "session", "consultas":
		return CmdSessions, parser
	case "export", "exportar":
		return CmdExport, parser
	case "status", "estado":
		return CmdStatus, parser
	case "config":
		return CmdConfig, parser
	case "version", "--version", "-v":
		return CmdVersion, parser
	case "help", "--help", "-h", "ayuda":
		return CmdHelp, parser
	default:
		// A bare question works too: colepa "¿qué dice el art. 10?"
		return CmdAsk, NewArgParser(raw)
	}
}

// PrintUsage writes the help text.
func PrintUsage(out io.Writer) {
	fmt.Fprint(out, usageText)
}

// PrintVersion writes the build information.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "colepa %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// stderr is separated so tests can capture Out cleanly.
func (a *App) errf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func (a *App) outf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}
