// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/colepa/colepa-tui/internal/api"
	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/typewriter"
	"github.com/colepa/colepa-tui/internal/ui/components"
	"github.com/colepa/colepa-tui/internal/ui/styles"
)

// =============================================================================
// ASK COMMAND
// =============================================================================

// RunAsk handles "colepa ask": one question, one answer, exit code.
//
// The question is sent with no prior history. On a terminal the answer
// is revealed word by word and rendered as markdown; piped output is
// plain text so scripts stay simple.
func (a *App) RunAsk(parser *ArgParser) int {
	question := strings.TrimSpace(parser.Text())
	if question == "" {
		a.errf("colepa ask: falta la pregunta\n")
		return 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var resp *api.ConsultaResponse
	var err error
	if parser.BoolFlag("legacy") {
		resp, err = a.Client.SubmitPregunta(ctx, question)
	} else {
		resp, err = a.Client.Submit(ctx, []*model.Message{model.NewUserMessage(question)})
	}
	if err != nil {
		return a.reportError(err)
	}

	if parser.BoolFlag("json") {
		enc := json.NewEncoder(a.Out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(resp); encErr != nil {
			a.errf("colepa ask: %v\n", encErr)
			return 1
		}
		return 0
	}

	answer := model.NewAssistantMessage(resp.Respuesta, resp.Metadata())
	return a.printAnswer(answer, parser.BoolFlag("plain"))
}

// printAnswer writes one answer to Out, picking the richest rendering
// the destination supports.
func (a *App) printAnswer(answer *model.Message, plain bool) int {
	interactive := !plain && isTerminal(a.Out)

	if !interactive {
		fmt.Fprintln(a.Out, answer.Content)
		a.printExtras(answer)
		return 0
	}

	if a.Cfg.UI.Typewriter {
		tw := typewriter.New(revealOptions(a.Cfg), nil)
		// Reveal on the raw text; markdown rendering reflows lines,
		// which would make the growing prefix jump around.
		err := tw.Reveal(context.Background(), answer.Content, func(prefix string, done bool) {
			fmt.Fprint(a.Out, "\r\033[2K")
			lines := strings.Split(prefix, "\n")
			fmt.Fprint(a.Out, lines[len(lines)-1])
			if len(lines) > 1 {
				// Reprint is cheaper than cursor math for multi-line
				// answers; clear and restart from the top.
				fmt.Fprint(a.Out, "\r\033[2K"+prefix)
			}
			if done {
				fmt.Fprintln(a.Out)
			}
		})
		if err != nil {
			fmt.Fprintln(a.Out, answer.Content)
		}
		a.printExtras(answer)
		return 0
	}

	theme := styles.NewTheme()
	renderer, err := components.NewReadingRenderer(theme, terminalWidth())
	if err != nil {
		fmt.Fprintln(a.Out, answer.Content)
		a.printExtras(answer)
		return 0
	}
	out, err := renderer.Render(answer)
	if err != nil {
		fmt.Fprintln(a.Out, answer.Content)
		a.printExtras(answer)
		return 0
	}
	fmt.Fprint(a.Out, out)
	return 0
}

// printExtras appends the citation and related-question lines that the
// markdown renderer would otherwise fold in.
func (a *App) printExtras(answer *model.Message) {
	meta := answer.Metadata
	if meta == nil {
		return
	}
	if !meta.Source.IsZero() {
		src := meta.Source
		line := "Fuente: " + src.Ley
		if src.ArticuloNumero != "" {
			line += ", Art. " + src.ArticuloNumero.String()
		}
		if src.Titulo != "" {
			line += " (" + src.Titulo + ")"
		}
		fmt.Fprintln(a.Out, line)
	}
	for _, rec := range meta.Recommendations {
		fmt.Fprintln(a.Out, "  - "+rec)
	}
}

// reportError prints the user-facing message for a failed consultation
// and maps the failure onto an exit code.
func (a *App) reportError(err error) int {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		a.errf("colepa: %s\n", reqErr.UserMessage())
		a.Log.Warn().Err(err).Msg("consultation failed")
		if reqErr.Kind == api.ErrClientError {
			return 2
		}
		return 1
	}
	a.errf("colepa: %v\n", err)
	return 1
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	if w > 100 {
		return 100
	}
	return w
}
