// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/colepa/colepa-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports a session as a standalone JSON document.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// jsonDocument is the exported shape: the session plus an export
// timestamp, independent of the store's envelope.
type jsonDocument struct {
	ExportedAt time.Time      `json:"exported_at"`
	Session    *model.Session `json:"session"`
}

// Export renders the session as pretty-printed JSON.
func (e *JSONExporter) Export(session *model.Session) ([]byte, error) {
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if len(exportable(session)) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	// Export a copy holding only exportable messages.
	clean := session.Clone()
	clean.Messages = exportable(clean)

	doc := jsonDocument{ExportedAt: time.Now(), Session: clean}
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return append(data, '\n'), nil
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
