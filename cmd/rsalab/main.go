package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kochabx/rsalab/api"
	"github.com/kochabx/rsalab/app"
	"github.com/kochabx/rsalab/config"
	"github.com/kochabx/rsalab/core/rate"
	"github.com/kochabx/rsalab/journal"
	"github.com/kochabx/rsalab/lab"
	"github.com/kochabx/rsalab/log"
	"github.com/kochabx/rsalab/metrics"
	"github.com/kochabx/rsalab/store/db"
	"github.com/kochabx/rsalab/store/redis"
	khttp "github.com/kochabx/rsalab/transport/http"
	"github.com/kochabx/rsalab/transport/http/middleware"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Config is the process configuration. RSALAB_-prefixed environment variables override it.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       log.Config      `mapstructure:"log"`
	Lab       lab.Settings    `mapstructure:"lab"`
	Journal   JournalConfig   `mapstructure:"journal"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Addr          string `mapstructure:"addr" default:":8000"`
	Mode          string `mapstructure:"mode" default:"release" validate:"oneof=debug release test"`
	CorsOrigins   string `mapstructure:"cors_origins" default:"http://localhost:3000,http://localhost:3001"`
	khttp.Options `mapstructure:",squash"`
}

// JournalConfig persists the operation journal. When disabled a no-op journal is used.
type JournalConfig struct {
	Enabled   bool `mapstructure:"enabled" default:"true"`
	db.Config `mapstructure:",squash"`
}

// RateLimitConfig is a Redis token bucket in front of prime generation.
type RateLimitConfig struct {
	Enabled  bool         `mapstructure:"enabled"`
	Capacity int          `mapstructure:"capacity" default:"5" validate:"gte=1"`
	Rate     int          `mapstructure:"rate" default:"1" validate:"gte=1"`
	Prefix   string       `mapstructure:"prefix" default:"rsalab:ratelimit"`
	Redis    redis.Config `mapstructure:"redis"`
}

func main() {
	var (
		configName = flag.String("config", "config.yaml", "config file name")
		configDir  = flag.String("config-dir", ".", "config search path")
		watch      = flag.Bool("watch", false, "reload log level when the config file changes")
	)
	flag.Parse()

	if err := run(*configName, *configDir, *watch); err != nil {
		log.Error().Err(err).Msg("rsalab exited with error")
		os.Exit(1)
	}
}

func run(configName, configDir string, watch bool) error {
	ctx := context.Background()

	cfg := new(Config)
	c := config.New(cfg,
		config.WithFile(configName, configDir),
		config.WithEnvPrefix("RSALAB"),
		config.WithOnChange(func(target any) {
			applyLogLevel(target.(*Config).Log.Level)
		}),
	)
	if err := c.Load(); err != nil {
		return err
	}

	// the instance logs everything; the global level filters and is hot-reloadable
	logger, err := log.FromConfig(cfg.Log, log.WithLevel(zerolog.TraceLevel), log.WithField("service", "rsalab"))
	if err != nil {
		return err
	}
	log.SetGlobalLogger(logger)
	applyLogLevel(cfg.Log.Level)

	if watch {
		if err := c.Watch(); err != nil {
			log.Warn().Err(err).Msg("config watch disabled")
		}
	}

	m := metrics.New(
		metrics.WithGoCollector(),
		metrics.WithProcessCollector(),
		metrics.WithBuildInfoCollector(),
	)

	selfCheck, err := lab.NewSelfCheck(cfg.Lab.SelfCheckSpec, lab.WithSelfCheckMetrics(m))
	if err != nil {
		return err
	}

	opts := []lab.Option{
		lab.WithMetrics(m),
		lab.WithSelfCheck(selfCheck),
		lab.WithVersion(version),
	}
	closers := []app.Option{
		app.WithClose("logger", func(context.Context) error { return logger.Close() }, 0),
	}

	if cfg.Journal.Enabled {
		driver, err := cfg.Journal.DriverConfig()
		if err != nil {
			return err
		}
		dbc, err := db.New(ctx, driver, db.WithLogger(logger), db.WithSlowQuery(200*time.Millisecond))
		if err != nil {
			return err
		}
		closers = append(closers, app.WithClose("db", func(context.Context) error { return dbc.Close() }, 0))
		m.RegisterDB(string(dbc.Driver()), dbc.SQL())

		store, err := journal.NewStore(dbc.DB())
		if err != nil {
			_ = dbc.Close()
			return err
		}
		opts = append(opts, lab.WithJournal(store), lab.WithProbe("database", dbc.Ping))
	}

	var limiter gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		rc, err := redis.New(ctx, &cfg.RateLimit.Redis, redis.WithLogger(logger))
		if err != nil {
			return err
		}
		closers = append(closers, app.WithClose("redis", func(context.Context) error { return rc.Close() }, 0))

		lim := rate.NewTokenBucketLimiter(rc.UniversalClient(), cfg.RateLimit.Prefix, cfg.RateLimit.Capacity, cfg.RateLimit.Rate)
		limiter = middleware.RateLimit(lim)
		opts = append(opts, lab.WithProbe("redis", rc.Ping))
	}

	svc, err := lab.NewService(cfg.Lab, opts...)
	if err != nil {
		return err
	}
	closers = append(closers, app.WithClose("pool", func(ctx context.Context) error {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		return svc.Close(timeout)
	}, 0))

	gin.SetMode(cfg.Server.Mode)
	loggerConfig := middleware.DefaultLoggerConfig()
	loggerConfig.Logger = logger
	loggerConfig.HandlerEnabled = cfg.Server.Mode == gin.DebugMode

	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.GinLoggerWithConfig(loggerConfig),
		middleware.Cors(splitOrigins(cfg.Server.CorsOrigins)...),
		middleware.Metrics(m),
	)

	var handlerOpts []api.Option
	if limiter != nil {
		handlerOpts = append(handlerOpts, api.WithGenerateLimiter(limiter))
	}
	api.NewHandler(svc, handlerOpts...).Register(engine)

	server := khttp.NewServer(cfg.Server.Addr, engine,
		khttp.WithMeta(khttp.Meta{Name: "rsalab"}),
		khttp.WithOptions(cfg.Server.Options),
		khttp.WithMetricsHandler(m.Handler()),
	)

	application := app.New(append(closers, app.WithServer(server, selfCheck))...)

	log.Info().
		Str("version", version).
		Str("addr", server.Addr()).
		Bool("journal", cfg.Journal.Enabled).
		Bool("rate_limit", cfg.RateLimit.Enabled).
		Msg("rsalab starting")

	return application.Start()
}

func applyLogLevel(level string) {
	if err := log.SetLevel(level); err != nil {
		log.Warn().Err(err).Msg("ignoring invalid log level")
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
