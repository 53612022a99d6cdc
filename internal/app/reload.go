package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/event/events"
)

// ReloadConfig re-reads the config sources and applies the result. On
// error the previous configuration stays in effect.
func (app *Application) ReloadConfig() error {
	if app.closed.Load() {
		return ErrClosed
	}
	if _, err := app.configMgr.Reload(); err != nil {
		return NewComponentError("config", "reload", err)
	}
	return nil
}

// applyConfig is the config reload handler. Log level, buffer limit and
// window settings apply immediately; listener, log file and script
// changes are only reported.
func (app *Application) applyConfig(prev, next *config.Config) {
	app.mu.Lock()
	app.cfg = next
	r := app.renderer
	opts := app.rendererOptions()
	app.mu.Unlock()

	app.logger.SetLevel(ParseLogLevel(next.Logging.Level))
	app.buf.SetMaxLen(next.Buffer.MaxLen)
	app.frameInterval.Store(int64(next.FrameInterval()))
	if r != nil {
		r.SetOptions(opts)
		app.wake()
	}

	restart := config.RestartRequired(prev, next)
	if len(restart) > 0 {
		app.logger.Warn("changed settings need a restart: %s", strings.Join(restart, ", "))
	}
	app.metrics.RecordReload()
	app.logger.Info("config reloaded from %s", app.configMgr.Path())

	err := app.eventBus.Publish(context.Background(), event.NewEvent(events.TopicConfigReloaded, events.ConfigReloaded{
		Path:            app.configMgr.Path(),
		RestartRequired: restart,
	}, "app"))
	if err != nil && !errors.Is(err, event.ErrBusNotRunning) {
		app.logger.Warn("publish config reload: %v", err)
	}
}
