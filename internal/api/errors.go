// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
)

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// ErrorKind classifies a failed consultation by what the user can do
// about it. Classification uses transport errors and HTTP status codes
// only, never response-body text matching.
type ErrorKind int

const (
	// ErrNetworkUnavailable: the request never reached the backend.
	ErrNetworkUnavailable ErrorKind = iota

	// ErrTimeout: the backend did not answer within the deadline.
	ErrTimeout

	// ErrClientError: the backend rejected the request (4xx).
	ErrClientError

	// ErrServerError: the backend failed (5xx).
	ErrServerError

	// ErrMalformedResponse: a 2xx arrived but the body was not a valid
	// answer.
	ErrMalformedResponse
)

// String returns the kind's name for logs.
func (k ErrorKind) String() string {
	switch k {
	case ErrNetworkUnavailable:
		return "network_unavailable"
	case ErrTimeout:
		return "timeout"
	case ErrClientError:
		return "client_error"
	case ErrServerError:
		return "server_error"
	case ErrMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// RequestError is a classified consultation failure.
type RequestError struct {
	Kind   ErrorKind
	Status int    // HTTP status when one was received, else 0
	Detail string // backend-provided detail when present
	Err    error  // underlying transport error when present
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("consulta failed: %s (HTTP %d)", e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("consulta failed: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("consulta failed: %s", e.Kind)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// UserMessage returns the Spanish message shown in the chat. Each kind
// maps to one fixed string, and client errors further map per status;
// backend detail is appended where it names the actual validation
// problem.
func (e *RequestError) UserMessage() string {
	switch e.Kind {
	case ErrNetworkUnavailable:
		return "No se pudo conectar con el servidor. Verificá tu conexión a internet."
	case ErrTimeout:
		return "El servidor tardó demasiado en responder. Intentá de nuevo."
	case ErrClientError:
		msg := clientErrorMessage(e.Status)
		if e.Detail != "" {
			return msg + " (" + e.Detail + ")"
		}
		return msg
	case ErrServerError:
		return "El servidor tuvo un problema procesando la consulta. Intentá más tarde."
	case ErrMalformedResponse:
		return "El servidor devolvió una respuesta inválida. Intentá de nuevo."
	default:
		return "Ocurrió un error inesperado. Intentá de nuevo."
	}
}

// clientErrorMessage maps a 4xx status onto what the user can actually
// do about it. Unknown client statuses fall back to a generic reword.
func clientErrorMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "El servicio de consultas no está disponible en este momento. Intentá más tarde."
	case http.StatusUnprocessableEntity:
		return "El servidor no pudo procesar el historial. Empezá una consulta nueva."
	case http.StatusTooManyRequests:
		return "Demasiadas consultas seguidas. Esperá un momento antes de volver a intentar."
	default:
		return "El servidor rechazó la consulta. Intentá reformularla."
	}
}

// Retryable reports whether an immediate retry of the same question
// could plausibly succeed.
func (e *RequestError) Retryable() bool {
	switch e.Kind {
	case ErrNetworkUnavailable, ErrTimeout, ErrServerError:
		return true
	default:
		return false
	}
}
