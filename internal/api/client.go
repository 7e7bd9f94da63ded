// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/colepa/colepa-tui/internal/model"
)

// DefaultTimeout bounds a single consultation end to end. The backend's
// retrieval pipeline can take tens of seconds on cold cache; anything
// past this is treated as a timeout.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
// SECURITY: A misbehaving proxy must not be able to balloon memory.
const maxResponseBytes = 4 << 20

// PERFORMANCE: One pooled transport shared by consultations and health
// probes. Connection reuse matters on high-latency links.
var sharedTransport = &http.Transport{
	MaxIdleConns:        4,
	MaxIdleConnsPerHost: 2,
	IdleConnTimeout:     90 * time.Second,
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the COLEPA backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a client for the given base URL, e.g.
// "https://colepa.example.com".
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
		},
		// One consultation per second sustained, short bursts allowed.
		// The UI already serializes turns; this guards scripted use.
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		log:     log.With().Str("component", "api").Logger(),
	}
}

// WithTimeout overrides the per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.http.Timeout = d
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit sends the conversation history and returns the backend's
// answer. History is filtered before marshalling: system messages,
// drafts, and empty-content entries never reach the wire. Failures come
// back as a *RequestError; there are no automatic retries.
func (c *Client) Submit(ctx context.Context, history []*model.Message) (*ConsultaResponse, error) {
	eligible := make([]*model.Message, 0, len(history))
	for _, msg := range history {
		if msg.Role == model.RoleSystem || msg.IsDraft() || msg.IsEmpty() {
			continue
		}
		eligible = append(eligible, msg)
	}
	if len(eligible) == 0 {
		return nil, &RequestError{Kind: ErrClientError, Detail: "historial vacío"}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classifyTransport(err)
	}

	body, err := json.Marshal(ConsultaRequest{Historial: toWire(eligible)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	start := time.Now()
	resp, err := c.post(ctx, "/api/consulta", body)
	if err != nil {
		reqErr := classifyTransport(err)
		c.log.Warn().Str("kind", reqErr.Kind.String()).Err(err).Msg("consulta failed")
		return nil, reqErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := classifyStatus(resp.StatusCode, data)
		c.log.Warn().Int("status", resp.StatusCode).Str("kind", reqErr.Kind.String()).Msg("consulta rejected")
		return nil, reqErr
	}

	var answer ConsultaResponse
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, &RequestError{Kind: ErrMalformedResponse, Status: resp.StatusCode, Err: err}
	}
	if strings.TrimSpace(answer.Respuesta) == "" {
		return nil, &RequestError{Kind: ErrMalformedResponse, Status: resp.StatusCode, Detail: "respuesta vacía"}
	}

	c.log.Debug().
		Dur("elapsed", time.Since(start)).
		Int("history", len(eligible)).
		Msg("consulta ok")
	return &answer, nil
}

// SubmitPregunta sends a single question without history, using the
// legacy single-shot endpoint shape.
func (c *Client) SubmitPregunta(ctx context.Context, question string) (*ConsultaResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, &RequestError{Kind: ErrClientError, Detail: "pregunta vacía"}
	}

	body, err := json.Marshal(PreguntaRequest{Pregunta: question})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.post(ctx, "/api/consulta", body)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, data)
	}

	var answer ConsultaResponse
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, &RequestError{Kind: ErrMalformedResponse, Status: resp.StatusCode, Err: err}
	}
	if strings.TrimSpace(answer.Respuesta) == "" {
		return nil, &RequestError{Kind: ErrMalformedResponse, Status: resp.StatusCode, Detail: "respuesta vacía"}
	}
	return &answer, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// classifyTransport maps an error from the HTTP layer to a kind.
func classifyTransport(err error) *RequestError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &RequestError{Kind: ErrTimeout, Err: err}
	case errors.Is(err, context.Canceled):
		return &RequestError{Kind: ErrNetworkUnavailable, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &RequestError{Kind: ErrTimeout, Err: err}
	}
	return &RequestError{Kind: ErrNetworkUnavailable, Err: err}
}

// classifyStatus maps a non-2xx status and its body to a kind.
func classifyStatus(status int, body []byte) *RequestError {
	var envelope errorBody
	// Detail is best effort; an unparseable error body is still an error
	// of the status-derived kind.
	_ = json.Unmarshal(body, &envelope)

	kind := ErrServerError
	if status >= 400 && status <= 499 {
		kind = ErrClientError
	}
	return &RequestError{Kind: kind, Status: status, Detail: envelope.message()}
}
