package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepwise/internal/server"
	"github.com/matzehuels/stepwise/pkg/cache"
	"github.com/matzehuels/stepwise/pkg/config"
	"github.com/matzehuels/stepwise/pkg/render"
	"github.com/matzehuels/stepwise/pkg/session"
)

// serveCommand creates the serve command that starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, sessionBackend, cacheBackend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve step-through sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if sessionBackend != "" {
				cfg.Session.Backend = sessionBackend
			}
			if cacheBackend != "" {
				cfg.Cache.Backend = cacheBackend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("verbose") {
				lvl, err := parseLevel(cfg.Log.Level)
				if err != nil {
					return err
				}
				c.SetLogLevel(lvl)
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&sessionBackend, "sessions", "", "session backend: memory, file, redis, mongo")
	cmd.Flags().StringVar(&cacheBackend, "cache", "", "render cache backend: file, redis, none")
	return cmd
}

// backends holds the connections opened for serve, closed in reverse order.
type backends struct {
	redis   *redis.Client
	closers []io.Closer
}

func (b *backends) close(logger *log.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			logger.Debug("close backend", "err", err)
		}
	}
}

// redisClient dials Redis once and shares the client between the session
// store and the render cache.
func (b *backends) redisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if b.redis != nil {
		return b.redis, nil
	}
	client, err := cache.DialRedis(ctx, cache.RedisOptions{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err != nil {
		return nil, err
	}
	b.redis = client
	b.closers = append(b.closers, client)
	return client, nil
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)
	var b backends
	defer b.close(logger)

	store, err := b.sessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	rc, err := b.renderCache(ctx, cfg)
	if err != nil {
		return err
	}

	mgr := session.NewManager(store,
		session.WithTTL(cfg.Session.TTL.Duration),
		session.WithMaxDepth(cfg.Session.MaxDepth),
		session.WithLogger(logger),
	)
	renderer := render.NewRenderer(cache.Instrument(rc, "render"),
		render.WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Redis.Prefix)),
		render.WithTTL(cfg.Cache.TTL.Duration),
		render.WithLogger(logger),
	)
	srv := server.New(mgr, renderer,
		server.WithLogger(logger),
		server.WithRenderDefaults(render.Options{
			Format: render.Format(cfg.Render.Format),
			View:   render.View(cfg.Render.View),
			Scale:  cfg.Render.Scale,
		}),
	)

	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(cfg.Server.Addr)))
	printDetail("sessions: %s · cache: %s", cfg.Session.Backend, cfg.Cache.Backend)
	return srv.Run(ctx, cfg.Server)
}

func (b *backends) sessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	var store session.Store
	switch cfg.Session.Backend {
	case config.BackendFile:
		dir := cfg.Session.Dir
		if dir == "" {
			base, err := config.CacheDir()
			if err != nil {
				return nil, fmt.Errorf("get cache dir: %w", err)
			}
			dir = filepath.Join(base, "sessions")
		}
		fs, err := session.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		store = fs
	case config.BackendRedis:
		client, err := b.redisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, cfg.Redis.Prefix), nil
	case config.BackendMongo:
		ms, err := session.NewMongoStore(ctx, session.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		store = ms
	default:
		store = session.NewMemoryStore()
	}
	b.closers = append(b.closers, store)
	return store, nil
}

func (b *backends) renderCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		client, err := b.redisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisCache(client), nil
	case config.BackendNone:
		return cache.NewNullCache(), nil
	}
	dir, err := renderCacheDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// displayAddr turns ":8080" into "localhost:8080" for printing.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
