// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typewriter

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func fastOptions() Options {
	return Options{
		MinDelay:       time.Microsecond,
		MaxDelay:       2 * time.Microsecond,
		ClauseFactor:   2,
		SentenceFactor: 3,
	}
}

// =============================================================================
// SCHEDULE TESTS
// =============================================================================

func TestScheduleReconstructsTextExactly(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"simple", "el contrato es válido"},
		{"punctuation", "Primero, el plazo. Segundo: la forma. ¿Dudas?"},
		{"double spaces preserved", "art.  123  del código"},
		{"newlines preserved", "línea uno\nlínea dos\n\nlínea tres"},
		{"single word", "sí"},
		{"trailing space", "respuesta "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := New(fastOptions(), rand.New(rand.NewSource(1)))
			steps := tw.Schedule(tt.text)
			if len(steps) == 0 {
				t.Fatal("empty schedule for non-empty text")
			}
			if got := steps[len(steps)-1].Prefix; got != tt.text {
				t.Errorf("final prefix = %q, want %q", got, tt.text)
			}
			// Every prefix extends the previous one.
			for i := 1; i < len(steps); i++ {
				if !strings.HasPrefix(steps[i].Prefix, steps[i-1].Prefix) {
					t.Errorf("step %d does not extend step %d", i, i-1)
				}
			}
		})
	}
}

func TestScheduleDeterministicUnderSeed(t *testing.T) {
	text := "La respuesta del Código Civil, artículo 1234. Consulte un abogado."

	a := New(DefaultOptions(), rand.New(rand.NewSource(42))).Schedule(text)
	b := New(DefaultOptions(), rand.New(rand.NewSource(42))).Schedule(text)

	if len(a) != len(b) {
		t.Fatalf("schedules differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("step %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSchedulePunctuationPauses(t *testing.T) {
	// Degenerate delay band makes the base deterministic.
	opts := Options{
		MinDelay:       10 * time.Millisecond,
		MaxDelay:       10 * time.Millisecond,
		ClauseFactor:   2,
		SentenceFactor: 3,
	}
	tw := New(opts, rand.New(rand.NewSource(1)))
	steps := tw.Schedule("primero, segundo. tercero")

	if steps[0].Delay != 20*time.Millisecond {
		t.Errorf("clause pause = %v, want 20ms", steps[0].Delay)
	}
	if steps[1].Delay != 30*time.Millisecond {
		t.Errorf("sentence pause = %v, want 30ms", steps[1].Delay)
	}
	if steps[2].Delay != 0 {
		t.Errorf("final pause = %v, want 0", steps[2].Delay)
	}
}

func TestScheduleDelaysWithinBand(t *testing.T) {
	opts := Options{
		MinDelay:       30 * time.Millisecond,
		MaxDelay:       90 * time.Millisecond,
		ClauseFactor:   1,
		SentenceFactor: 1,
	}
	tw := New(opts, rand.New(rand.NewSource(7)))
	steps := tw.Schedule(strings.Repeat("palabra ", 50) + "fin")

	for i, step := range steps[:len(steps)-1] {
		if step.Delay < opts.MinDelay || step.Delay > opts.MaxDelay {
			t.Errorf("step %d delay %v outside [%v, %v]", i, step.Delay, opts.MinDelay, opts.MaxDelay)
		}
	}
}

func TestScheduleEmptyText(t *testing.T) {
	tw := New(fastOptions(), rand.New(rand.NewSource(1)))
	if steps := tw.Schedule(""); steps != nil {
		t.Errorf("expected nil schedule, got %d steps", len(steps))
	}
}

func TestPunctFactorClosingQuotes(t *testing.T) {
	opts := DefaultOptions()
	if got := punctFactor(`final."`, opts); got != opts.SentenceFactor {
		t.Errorf("sentence punctuation inside quotes ignored, factor = %d", got)
	}
	if got := punctFactor("inciso),", opts); got != opts.ClauseFactor {
		t.Errorf("clause punctuation after paren ignored, factor = %d", got)
	}
	if got := punctFactor("palabra", opts); got != 1 {
		t.Errorf("plain word factor = %d, want 1", got)
	}
}

// =============================================================================
// REVEAL TESTS
// =============================================================================

func TestRevealDeliversFullText(t *testing.T) {
	text := "Primera frase. Segunda frase, con cláusula."
	tw := New(fastOptions(), rand.New(rand.NewSource(3)))

	var last string
	var doneCount int
	err := tw.Reveal(context.Background(), text, func(prefix string, done bool) {
		last = prefix
		if done {
			doneCount++
		}
	})
	if err != nil {
		t.Fatalf("Reveal returned error: %v", err)
	}
	if last != text {
		t.Errorf("final prefix = %q, want %q", last, text)
	}
	if doneCount != 1 {
		t.Errorf("done signalled %d times, want 1", doneCount)
	}
}

func TestRevealCancelResolvesEarly(t *testing.T) {
	text := strings.Repeat("palabra ", 200) + "fin"
	opts := Options{MinDelay: 50 * time.Millisecond, MaxDelay: 50 * time.Millisecond, ClauseFactor: 1, SentenceFactor: 1}
	tw := New(opts, rand.New(rand.NewSource(5)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var last string
	var sawDone bool
	start := time.Now()

	err := tw.Reveal(ctx, text, func(prefix string, done bool) {
		last = prefix
		if done {
			sawDone = true
		}
		if !done && strings.Count(prefix, " ") >= 2 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("Reveal returned error after cancel: %v", err)
	}
	if !sawDone {
		t.Fatal("cancelled reveal never signalled done")
	}
	if last != text {
		t.Errorf("cancelled reveal must resolve to the full text, got %d bytes of %d", len(last), len(text))
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancelled reveal took %v, expected early resolution", elapsed)
	}
}

func TestRevealEmptyText(t *testing.T) {
	tw := New(fastOptions(), rand.New(rand.NewSource(1)))
	var calls int
	err := tw.Reveal(context.Background(), "", func(prefix string, done bool) {
		calls++
		if !done {
			t.Error("empty reveal must complete immediately")
		}
	})
	if err != nil {
		t.Fatalf("Reveal returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single callback, got %d", calls)
	}
}
