// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounceWindow batches rapid successive writes (editors often emit
// several events per save) into one reload.
const defaultDebounceWindow = 500 * time.Millisecond

// Watch reloads the registry whenever a table file in its config directory
// changes. On reload failure the previous snapshot stays active.
//
// Description:
//
//	Blocks until ctx is canceled. Intended to run in its own goroutine.
//	A Registry loaded with an empty dir has nothing to watch; Watch
//	returns immediately in that case.
//
// Inputs:
//
//	ctx - Cancellation context.
//
// Outputs:
//
//	error - Non-nil if the watcher could not be created.
func (r *Registry) Watch(ctx context.Context) error {
	if r.dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return err
	}

	r.logger.Info("watching lookup tables", slog.String("dir", r.dir))

	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".yaml" {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(defaultDebounceWindow, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			if err := r.Reload(ctx); err != nil {
				r.logger.Error("table reload failed, keeping previous snapshot",
					slog.String("error", err.Error()),
				)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("table watcher error", slog.String("error", err.Error()))
		}
	}
}
