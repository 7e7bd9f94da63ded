// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/colepa/colepa-tui/internal/util"
)

const draftFile = "draft.txt"

// DraftStore persists the unsent input box content so a quit mid-typing
// restores the text on the next launch. Kept in its own file so frequent
// keystroke-driven saves never rewrite the history document.
type DraftStore struct {
	path string
	log  zerolog.Logger
}

// NewDraftStore creates a draft store rooted at dir.
func NewDraftStore(dir string, log zerolog.Logger) *DraftStore {
	return &DraftStore{
		path: filepath.Join(dir, draftFile),
		log:  log.With().Str("component", "draft").Logger(),
	}
}

// Save writes the draft. An empty draft removes the file.
func (d *DraftStore) Save(text string) error {
	if text == "" {
		err := os.Remove(d.path)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return util.AtomicWriteFile(d.path, []byte(text), 0600)
}

// Load returns the saved draft, or "" when none exists. Fail-soft like
// the session store: a read error logs and returns empty.
func (d *DraftStore) Load() string {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if !os.IsNotExist(err) {
			d.log.Warn().Err(err).Msg("draft unreadable")
		}
		return ""
	}
	return string(data)
}
