// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/colepa/colepa-tui/internal/model"
)

// UNICODE: Searches fold case and accents so "codigo" matches "Código".
// Spanish legal text is accent-heavy and users rarely type the accents.

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases a string and strips combining marks.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// SearchSessions returns deep copies of the sessions whose title or
// message content contains the query, accent- and case-insensitively.
// An empty query returns every session.
func (s *SessionStore) SearchSessions(query string) []*model.Session {
	query = Fold(strings.TrimSpace(query))
	if query == "" {
		return s.List()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Session
	for _, session := range s.sessions {
		if sessionMatches(session, query) {
			out = append(out, session.Clone())
		}
	}
	return out
}

func sessionMatches(session *model.Session, foldedQuery string) bool {
	if strings.Contains(Fold(session.Title), foldedQuery) {
		return true
	}
	for _, msg := range session.Messages {
		if strings.Contains(Fold(msg.Content), foldedQuery) {
			return true
		}
	}
	return false
}
