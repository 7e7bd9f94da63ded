// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/colepa/colepa-tui/internal/api"
	"github.com/colepa/colepa-tui/internal/model"
)

// =============================================================================
// LINE CHAT COMMAND
// =============================================================================

// RunChat handles "colepa chat": a line-based conversation for
// terminals where the full-screen interface is unwelcome (ssh hops,
// screen readers, logs). The turn rules are the same as the TUI's: one
// consultation at a time, history sent in order, answers persisted.
func (a *App) RunChat(parser *ArgParser) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	conv := model.NewConversation(a.Store)
	if active, err := a.Store.Get(a.Store.ActiveID()); err == nil && parser.BoolFlag("continue") {
		conv = model.ResumeConversation(active, a.Store)
		a.outf("Retomando: %s (%d mensajes)\n", active.Title, active.MessageCount())
	}

	a.outf("COLEPA chat. Escribí tu consulta, o /ayuda para los comandos.\n\n")

	for {
		input, err := line.Prompt("❯ ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			a.outf("\nHasta luego.\n")
			return 0
		}
		if err != nil {
			a.errf("colepa chat: %v\n", err)
			return 1
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if done := a.chatCommand(conv, input); done {
				return 0
			}
			continue
		}

		ok, reason := conv.ValidateInput(input)
		if !ok {
			if reason != "" {
				a.outf("%s\n", reason)
			}
			continue
		}

		if err := conv.AppendMessage(model.NewUserMessage(input)); err != nil {
			a.Log.Error().Err(err).Msg("persisting user message failed")
		}

		conv.SetTurn(model.TurnAwaitingResponse)
		resp, err := a.Client.Submit(context.Background(), conv.HistoryForRequest())
		if err != nil {
			// The failure joins the transcript like any answer, so the
			// next request carries it and the session shows it.
			text := failureText(err)
			if appendErr := conv.AppendMessage(model.NewAssistantMessage(text, nil)); appendErr != nil {
				a.Log.Error().Err(appendErr).Msg("persisting error message failed")
			}
			conv.SetTurn(model.TurnIdle)
			a.outf("\n%s\n\n", text)
			continue
		}

		answer := model.NewAssistantMessage(resp.Respuesta, resp.Metadata())
		if err := conv.AppendMessage(answer); err != nil {
			a.Log.Error().Err(err).Msg("persisting answer failed")
		}
		conv.SetTurn(model.TurnIdle)

		a.outf("\n")
		a.printAnswer(answer, parser.BoolFlag("plain"))
		a.outf("\n")
	}
}

// chatCommand executes a slash command. Returns true when the chat
// should end.
func (a *App) chatCommand(conv *model.Conversation, input string) bool {
	switch strings.Fields(input)[0] {
	case "/salir", "/exit", "/quit":
		a.outf("Hasta luego.\n")
		return true

	case "/nueva", "/new":
		conv.StartNewSession()
		a.outf("Nueva consulta iniciada.\n")

	case "/titulo", "/title":
		a.outf("%s\n", conv.Session().Title)

	case "/ayuda", "/help":
		a.outf("/nueva   empieza otra consulta\n")
		a.outf("/titulo  muestra el título de la consulta\n")
		a.outf("/salir   termina el chat\n")

	default:
		a.outf("Comando desconocido. Probá /ayuda.\n")
	}
	return false
}

// failureText is the Spanish message a failed turn leaves in the
// transcript.
func failureText(err error) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.UserMessage()
	}
	return "Ocurrió un error inesperado. Intentá de nuevo."
}
