// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultHealthInterval is how often the status bar re-probes the
// backend.
const DefaultHealthInterval = 30 * time.Second

// healthTimeout is deliberately short. A probe is advisory; it must
// never hold a connection for the full consultation deadline.
const healthTimeout = 5 * time.Second

// CheckHealth probes GET /api/health. Any 2xx means online. The result
// only drives the status badge; consultations are attempted regardless.
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Msg("health probe failed")
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
