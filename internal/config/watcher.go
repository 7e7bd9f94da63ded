// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// debounceWindow absorbs editor write bursts. Editors commonly emit
// several events per save (truncate, write, chmod, rename).
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the configuration when the file changes on disk and
// delivers each valid result on C. Invalid edits are logged and skipped;
// the running configuration stays as it was.
type Watcher struct {
	C       chan *Config
	watcher *fsnotify.Watcher
	path    string
	log     zerolog.Logger
	done    chan struct{}
}

// Watch starts watching cfg's file. The watcher observes the parent
// directory, not the file itself, so atomic-rename saves keep working.
func Watch(cfg *Config, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	path := cfg.Path()
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		C:       make(chan *Config, 1),
		watcher: fsw,
		path:    path,
		log:     log.With().Str("component", "config-watch").Logger(),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watch error")
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		w.log.Warn().Err(err).Msg("config change ignored")
		return
	}

	// Drop a stale pending config rather than block.
	select {
	case w.C <- cfg:
	default:
		select {
		case <-w.C:
		default:
		}
		w.C <- cfg
	}
	w.log.Info().Msg("configuration reloaded")
}
