// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typewriter

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls reveal pacing. Delays are per word; punctuation at
// the end of a word stretches the pause that follows it.
type Options struct {
	MinDelay       time.Duration
	MaxDelay       time.Duration
	ClauseFactor   int // multiplier after , ; :
	SentenceFactor int // multiplier after . ! ? …
}

// DefaultOptions matches a comfortable reading speed.
func DefaultOptions() Options {
	return Options{
		MinDelay:       30 * time.Millisecond,
		MaxDelay:       90 * time.Millisecond,
		ClauseFactor:   2,
		SentenceFactor: 3,
	}
}

func (o Options) normalized() Options {
	if o.MinDelay <= 0 {
		o.MinDelay = time.Millisecond
	}
	if o.MaxDelay < o.MinDelay {
		o.MaxDelay = o.MinDelay
	}
	if o.ClauseFactor < 1 {
		o.ClauseFactor = 1
	}
	if o.SentenceFactor < 1 {
		o.SentenceFactor = 1
	}
	return o
}

// =============================================================================
// TYPEWRITER
// =============================================================================

// Typewriter reveals text word by word with humanized pauses. The same
// seed yields the same schedule, which keeps tests deterministic.
//
// Not safe for concurrent use; each reveal owns its Typewriter.
type Typewriter struct {
	opts Options
	rng  *rand.Rand
}

// New creates a typewriter. A nil rng gets a time-seeded one.
func New(opts Options, rng *rand.Rand) *Typewriter {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Typewriter{opts: opts.normalized(), rng: rng}
}

// Step is one point in a reveal: the prefix to display and the pause
// before the next step.
type Step struct {
	Prefix string
	Delay  time.Duration
}

// Schedule computes the full reveal plan for a text. Words are split on
// single spaces so the final prefix is byte-identical to the input; runs
// of spaces and newlines inside the text survive untouched.
func (t *Typewriter) Schedule(text string) []Step {
	if text == "" {
		return nil
	}
	words := strings.Split(text, " ")
	steps := make([]Step, len(words))

	var prefix strings.Builder
	for i, word := range words {
		if i > 0 {
			prefix.WriteByte(' ')
		}
		prefix.WriteString(word)
		steps[i] = Step{
			Prefix: prefix.String(),
			Delay:  t.delayAfter(word),
		}
	}
	// No pause after the last word.
	steps[len(steps)-1].Delay = 0
	return steps
}

// delayAfter draws a base delay and applies the punctuation factor for
// the word just revealed.
func (t *Typewriter) delayAfter(word string) time.Duration {
	base := t.opts.MinDelay
	if span := int64(t.opts.MaxDelay - t.opts.MinDelay); span > 0 {
		base += time.Duration(t.rng.Int63n(span + 1))
	}
	return base * time.Duration(punctFactor(word, t.opts))
}

func punctFactor(word string, opts Options) int {
	trimmed := strings.TrimRight(word, "\"')]}»")
	if trimmed == "" {
		return 1
	}
	switch rune(trimmed[len(trimmed)-1]) {
	case '.', '!', '?':
		return opts.SentenceFactor
	case ',', ';', ':':
		return opts.ClauseFactor
	}
	if strings.HasSuffix(trimmed, "…") {
		return opts.SentenceFactor
	}
	return 1
}

// Reveal plays the schedule against a callback. onUpdate receives each
// successive prefix, ending with the complete text. Cancelling the
// context resolves the reveal early: the final callback delivers the
// full text immediately and the return is still nil. Reveal never
// returns an error.
func (t *Typewriter) Reveal(ctx context.Context, text string, onUpdate func(prefix string, done bool)) error {
	steps := t.Schedule(text)
	if len(steps) == 0 {
		onUpdate(text, true)
		return nil
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	if !timer.Stop() {
		<-timer.C
	}

	for i, step := range steps {
		last := i == len(steps)-1
		onUpdate(step.Prefix, last)
		if last {
			return nil
		}

		timer.Reset(step.Delay)
		select {
		case <-ctx.Done():
			// Resolve, never truncate: the full answer appears at once.
			onUpdate(text, true)
			return nil
		case <-timer.C:
		}
	}
	return nil
}
