package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"yatube/config"
	"yatube/internal/adapter/in/auth"
	gqlin "yatube/internal/adapter/in/graphql"
	"yatube/internal/adapter/in/web"
	memstore "yatube/internal/adapter/out/storage/inmemory"
	pgstore "yatube/internal/adapter/out/storage/postgres"
	"yatube/internal/service"
	"yatube/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	cfg  config.Config
	srv  *http.Server
	pool *pgxpool.Pool

	Posts  *service.PostService
	Groups *service.GroupService
	Users  *service.UserService
}

type storages struct {
	posts  service.PostStorage
	groups service.GroupStorage
	users  service.UserStorage
	tx     service.TxManager
	pool   *pgxpool.Pool
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	st, err := openStorages(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		pool:   st.pool,
		Posts:  service.NewPostService(st.posts, st.groups, service.WithPostsOnPage(cfg.PostsOnPage), service.WithTxManager(st.tx)),
		Groups: service.NewGroupService(st.groups, st.tx),
		Users:  service.NewUserService(st.users),
	}

	handler, err := a.routes(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	addr := ":" + cfg.HTTP.Port
	a.srv = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType, "posts_on_page", a.Posts.PostsOnPage())
	return a, nil
}

func (a *App) routes(ctx context.Context) (http.Handler, error) {
	templates, err := web.NewTemplates()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	gql, err := gqlin.NewHandler(gqlin.NewResolver(a.Posts, a.Groups))
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}

	sessions := auth.New(auth.NewCookieStore(a.cfg.Session.Secret, a.cfg.Session.Secure), a.Users)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(web.RequestLogger(logger.FromContext(ctx)))
	r.Use(middleware.Recoverer)
	r.Use(sessions.Middleware)

	r.Handle("/query", gql)
	web.RegisterRoutes(r, web.NewHandlers(templates, sessions, a.Posts, a.Groups, a.Users))
	return r, nil
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}

// Migrate applies the database migrations and exits.
func Migrate(ctx context.Context, cfg config.Config) error {
	if cfg.StorageType != config.StoragePostgres {
		return fmt.Errorf("migrations need STORAGE_TYPE=%s", config.StoragePostgres)
	}
	pool, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	return pgstore.Migrate(ctx, pool, logger.FromContext(ctx))
}

func openStorages(ctx context.Context, cfg config.Config) (storages, error) {
	switch cfg.StorageType {
	case config.StoragePostgres:
		pool, err := connect(ctx, cfg)
		if err != nil {
			return storages{}, err
		}
		if cfg.Postgres.Migrate {
			if err := pgstore.Migrate(ctx, pool, logger.FromContext(ctx)); err != nil {
				pool.Close()
				return storages{}, err
			}
		}
		return storages{
			posts:  pgstore.NewPostStorage(pool, trmpgx.DefaultCtxGetter),
			groups: pgstore.NewGroupStorage(pool, trmpgx.DefaultCtxGetter),
			users:  pgstore.NewUserStorage(pool, trmpgx.DefaultCtxGetter),
			tx:     manager.Must(trmpgx.NewDefaultFactory(pool)),
			pool:   pool,
		}, nil

	default:
		st := memstore.New()
		return storages{
			posts:  st,
			groups: st,
			users:  st,
			tx:     service.NopTxManager{},
		}, nil
	}
}

func connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Postgres.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}
