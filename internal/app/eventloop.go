package app

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dshills/scribe/internal/renderer"
	"github.com/dshills/scribe/internal/renderer/backend"
)

// runUI initializes the backend and runs the window until the user quits
// or ctx is cancelled. The backend is always shut down before returning,
// so the terminal is restored even after a panic in the loop.
func (app *Application) runUI(ctx context.Context, be backend.Backend, serveErr <-chan error) error {
	if err := be.Init(); err != nil {
		return NewComponentError("backend", "init", err)
	}

	app.mu.Lock()
	r := renderer.New(be, app.rendererOptions())
	r.SetSource(app.buf)
	app.renderer = r
	app.mu.Unlock()
	app.uiActive.Store(true)

	loopCtx, stop := context.WithCancel(ctx)
	events := make(chan backend.Event, 64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		pollEvents(loopCtx, be, events)
	}()

	err := app.safeEventLoop(loopCtx, r, events, serveErr)

	app.uiActive.Store(false)
	stop()
	be.Shutdown()
	wg.Wait()
	return err
}

// pollEvents forwards backend events until ctx is done. PollEvent blocks,
// so the backend must be shut down to release it.
func pollEvents(ctx context.Context, be backend.Backend, out chan<- backend.Event) {
	for {
		ev := be.PollEvent()
		if ctx.Err() != nil {
			return
		}
		if ev.Type == backend.EventNone {
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (app *Application) safeEventLoop(ctx context.Context, r *renderer.Renderer, events <-chan backend.Event, serveErr <-chan error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			perr := &PanicError{Value: rec, Stack: debug.Stack()}
			app.logger.Error("%v\n%s", perr, perr.Stack)
			err = NewComponentError("ui", "event loop", perr)
		}
	}()
	return app.eventLoop(ctx, r, events, serveErr)
}

// eventLoop is the main application loop.
func (app *Application) eventLoop(ctx context.Context, r *renderer.Renderer, events <-chan backend.Event, serveErr <-chan error) error {
	interval := app.currentFrameInterval()
	frameTicker := time.NewTicker(interval)
	defer frameTicker.Stop()

	app.renderFrame(r, true)

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-serveErr:
			if err != nil {
				return NewComponentError("ingress", "serve", err)
			}
			return nil

		case ev := <-events:
			app.metrics.RecordEvent()
			if err := app.handleBackendEvent(r, ev); errors.Is(err, ErrQuit) {
				app.logger.Info("quit requested")
				return nil
			}

		case <-frameTicker.C:
			if d := app.currentFrameInterval(); d != interval {
				interval = d
				frameTicker.Reset(d)
			}
			app.renderFrame(r, false)
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit. The window never edits
// the buffer, so other keys are ignored.
func (app *Application) handleBackendEvent(r *renderer.Renderer, ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		switch ev.Key {
		case backend.KeyEscape, backend.KeyCtrlC:
			return ErrQuit
		case backend.KeyCtrlL:
			app.renderFrame(r, true)
		}
	case backend.EventResize, backend.EventInterrupt:
		if r.HandleEvent(ev) {
			app.renderFrame(r, false)
		}
	}
	return nil
}

// renderFrame draws a frame and records its timing when one was drawn.
func (app *Application) renderFrame(r *renderer.Renderer, now bool) {
	timer := StartTimer()
	before := r.FrameCount()
	if now {
		r.RenderNow()
	} else {
		r.Render()
	}
	if r.FrameCount() != before {
		app.metrics.RecordFrame(timer.Elapsed())
	}
}

// wake schedules a redraw from outside the UI goroutine.
func (app *Application) wake() {
	if !app.uiActive.Load() {
		return
	}
	app.mu.RLock()
	r, be := app.renderer, app.backend
	app.mu.RUnlock()
	if r == nil || be == nil {
		return
	}
	r.MarkDirty()
	be.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: "redraw"})
}

func (app *Application) currentFrameInterval() time.Duration {
	if d := time.Duration(app.frameInterval.Load()); d > 0 {
		return d
	}
	return time.Second / 30
}

// rendererOptions maps the UI config onto the renderer (must hold app.mu).
func (app *Application) rendererOptions() renderer.Options {
	ui := app.cfg.UI
	hint := "Esc to quit"
	if addr := app.listener.Addr(); addr != nil {
		hint = addr.String() + "  " + hint
	}
	return renderer.Options{
		Theme:       ui.Theme,
		Title:       ui.Title,
		Banner:      ui.Banner,
		Placeholder: ui.Placeholder,
		Hint:        hint,
		Width:       renderer.WindowWidth,
		Height:      renderer.WindowHeight,
		MaxFPS:      ui.FrameRate,
	}
}
