// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"time"

	"github.com/colepa/colepa-tui/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// WireMessage is one history entry as the backend expects it.
type WireMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConsultaRequest is the body of POST /api/consulta: the full eligible
// conversation history, oldest first.
type ConsultaRequest struct {
	Historial []WireMessage `json:"historial"`
}

// PreguntaRequest is the legacy single-shot body. Kept for the ask
// command's --legacy mode against older backend deployments.
type PreguntaRequest struct {
	Pregunta string `json:"pregunta"`
}

// ConsultaResponse is a successful answer. Respuesta is the only
// required field.
type ConsultaResponse struct {
	Respuesta           string           `json:"respuesta"`
	Fuente              *model.SourceRef `json:"fuente,omitempty"`
	Recomendaciones     []string         `json:"recomendaciones,omitempty"`
	TiempoProcesamiento int64            `json:"tiempo_procesamiento,omitempty"`
}

// Metadata converts the response extras into message metadata.
func (r *ConsultaResponse) Metadata() *model.Metadata {
	meta := &model.Metadata{
		Recommendations:  r.Recomendaciones,
		ProcessingTimeMs: r.TiempoProcesamiento,
	}
	if !r.Fuente.IsZero() {
		meta.Source = r.Fuente
	}
	if meta.IsZero() {
		return nil
	}
	return meta
}

// errorBody is the backend's error envelope. Older deployments used
// "detail", current ones "detalle".
type errorBody struct {
	Detalle string `json:"detalle"`
	Detail  string `json:"detail"`
}

func (e *errorBody) message() string {
	if e.Detalle != "" {
		return e.Detalle
	}
	return e.Detail
}

// toWire converts eligible messages into wire entries.
func toWire(msgs []*model.Message) []WireMessage {
	out := make([]WireMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, WireMessage{
			Role:      msg.Role.String(),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}
	return out
}
