package app

import (
	"strings"
	"time"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/dispatcher"
	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/ingress"
	"github.com/dshills/scribe/internal/input/key"
	"github.com/dshills/scribe/internal/plugin/lua"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"event bus", b.initEventBus},
		{"config", b.initConfig},
		{"logger", b.initLogger},
		{"buffer", b.initBuffer},
		{"dispatcher", b.initDispatcher},
		{"translator", b.initTranslator},
		{"ingress", b.initIngress},
		{"subscriptions", b.initSubscriptions},
		{"config watch", b.initConfigWatch},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.cleanup()
			return err
		}
		b.initOrder = append(b.initOrder, step.name)
	}

	b.app.logger.Debug("initialized %s", strings.Join(b.initOrder, ", "))
	return nil
}

// cleanup releases whatever was initialized before a failure.
func (b *bootstrapper) cleanup() {
	_ = b.app.Close()
}

// initEventBus starts the bus. Handler failures are logged through the
// application logger once it exists.
func (b *bootstrapper) initEventBus() error {
	app := b.app
	app.eventBus = event.NewBus(
		event.WithErrorHandler(func(ev any, err error) {
			app.Logger().WithComponent("event").Warn("handler failed for %T: %v", ev, err)
		}),
		event.WithPanicHandler(func(ev any, recovered any) {
			app.Logger().WithComponent("event").Error("handler panic for %T: %v", ev, recovered)
		}),
	)
	if err := app.eventBus.Start(); err != nil {
		return NewComponentError("event bus", "start", err)
	}
	return nil
}

// initConfig layers defaults, the config file, the environment and the
// command-line overrides.
func (b *bootstrapper) initConfig() error {
	app := b.app
	opts := []config.Option{
		config.WithPath(b.opts.ConfigPath),
		config.WithErrorHandler(func(err error) {
			app.Logger().WithComponent("config").Warn("reload failed, keeping previous settings: %v", err)
		}),
	}
	if b.opts.IgnoreEnv {
		opts = append(opts, config.WithEnvPrefix(""))
	}
	for path, value := range b.opts.Overrides {
		opts = append(opts, config.WithOverride(path, value))
	}

	app.configMgr = config.NewManager(opts...)
	cfg, err := app.configMgr.Load()
	if err != nil {
		return NewComponentError("config", "load", err)
	}
	app.cfg = cfg
	app.frameInterval.Store(int64(cfg.FrameInterval()))
	return nil
}

func (b *bootstrapper) initLogger() error {
	app := b.app
	out := b.opts.LogOutput
	if out == nil {
		w, closer, err := openLogOutput(app.cfg.Logging.File, b.opts.Headless)
		if err != nil {
			return NewComponentError("logger", "open", err)
		}
		out, app.logCloser = w, closer
	}

	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(app.cfg.Logging.Level),
		Output: out,
		Prefix: "scribe",
	})
	if path := b.opts.ConfigPath; path != "" {
		app.logger.Info("config loaded from %s", path)
	}
	return nil
}

func (b *bootstrapper) initBuffer() error {
	b.app.buf = buffer.NewBuffer(buffer.WithMaxLen(b.app.cfg.Buffer.MaxLen))
	return nil
}

func (b *bootstrapper) initDispatcher() error {
	app := b.app
	app.dispatcher = dispatcher.New(app.buf,
		dispatcher.WithPublisher(app.eventBus),
		dispatcher.WithLogger(app.logger.WithComponent("dispatcher")),
		dispatcher.WithMetrics(dispatcher.NewMetrics()),
	)
	return nil
}

// initTranslator loads the key translation script when one is configured.
// A configured script that fails to load is fatal.
func (b *bootstrapper) initTranslator() error {
	app := b.app
	path := app.cfg.ScriptPath()
	if path == "" {
		return nil
	}

	log := app.logger.WithComponent("script")
	t, err := lua.NewTranslator(path,
		lua.WithExecutionTimeout(time.Duration(app.cfg.Plugin.Timeout)),
		lua.WithPrint(func(s string) { log.Info("%s", s) }),
	)
	if err != nil {
		return NewComponentError("translator", "load", err)
	}
	app.translator = t
	log.Info("key translation script %s loaded", path)
	return nil
}

// initIngress builds the decoder and binds the listen address.
func (b *bootstrapper) initIngress() error {
	app := b.app
	var decoderOpts []key.DecoderOption
	if app.translator != nil {
		decoderOpts = append(decoderOpts, key.WithTranslator(app.translate))
	}
	app.decoder = key.NewDecoder(decoderOpts...)

	app.listener = ingress.New(app.cfg.Listen.Address, app.dispatcher,
		ingress.WithDecoder(app.decoder),
		ingress.WithPublisher(app.eventBus),
		ingress.WithLogger(app.logger.WithComponent("ingress")),
		ingress.WithReadBufferSize(app.cfg.Listen.ReadBufferSize),
	)
	if err := app.listener.Listen(); err != nil {
		return NewComponentError("ingress", "listen", err)
	}
	return nil
}

func (b *bootstrapper) initSubscriptions() error {
	b.app.subs = newSubscriptionManager(b.app)
	if err := b.app.subs.setup(); err != nil {
		return NewComponentError("subscriptions", "setup", err)
	}
	return nil
}

// initConfigWatch registers the reload handler and watches the config
// file. A watch failure only disables live reload.
func (b *bootstrapper) initConfigWatch() error {
	app := b.app
	app.configMgr.OnReload(app.applyConfig)

	if b.opts.ConfigPath == "" || b.opts.NoWatch {
		return nil
	}
	if err := app.configMgr.Watch(); err != nil {
		app.logger.Warn("config live reload disabled: %v", err)
	}
	return nil
}

// translate runs the script on one key code. Script errors keep the
// untranslated key so one bad call never ends the connection.
func (app *Application) translate(code uint32) (uint32, bool) {
	out, keep, err := app.translator.Translate(code)
	if err != nil {
		app.logger.WithComponent("script").Warn("translate(%d) failed, using untranslated key: %v", code, err)
		return code, true
	}
	return out, keep
}
