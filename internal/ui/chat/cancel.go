// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// =============================================================================
// CANCELLATION
// =============================================================================

// cancelManager guards the cancel function of the in-flight turn.
// RELIABILITY: Bubble Tea copies the model on every update; the manager
// is held by pointer so every copy cancels the same request, and the
// mutex is never copied.
type cancelManager struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// set installs the cancel function for a new turn, cancelling any
// previous one first.
func (c *cancelManager) set(fn context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = fn
}

// call cancels the in-flight request, if any.
func (c *cancelManager) call() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// clear releases the cancel function without calling it. Used when the
// request completed on its own.
func (c *cancelManager) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel = nil
}
