/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nomconfig

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Config file on every write, driving an
// fsnotify.Watcher's event channel from its own goroutine.
type Watcher struct {
	mtx     sync.Mutex
	path    string
	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	onLoad  func(*Config, error)
}

// WatchFile starts watching path for writes/creates and invokes onLoad
// with the freshly parsed Config each time (or the parse error, if any).
// onLoad is also called once immediately with the current contents.
func WatchFile(path string, onLoad func(*Config, error)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	cw := &Watcher{path: path, watcher: w, ctx: ctx, cancel: cancel, onLoad: onLoad}
	go cw.run()
	cw.reload()
	return cw, nil
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	w.onLoad(cfg, err)
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}
		case <-w.watcher.Errors:
			// A watch error doesn't invalidate the last-known-good
			// Config; the next successful event will still reload.
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}
