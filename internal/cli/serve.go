package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Amit91848/Leetwars/internal/cache"
	"github.com/Amit91848/Leetwars/internal/config"
	applog "github.com/Amit91848/Leetwars/internal/log"
	"github.com/Amit91848/Leetwars/internal/repository"
	"github.com/Amit91848/Leetwars/internal/repository/memory"
	"github.com/Amit91848/Leetwars/internal/repository/postgres"
	"github.com/Amit91848/Leetwars/internal/service"
	"github.com/Amit91848/Leetwars/internal/transport/rest"
	"github.com/Amit91848/Leetwars/internal/transport/ws"
)

// NewServeCmd builds the CLI subcommand that starts the API server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applog.Init(cfg.Env)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	var store repository.Store
	if cfg.Postgres.DSN != "" {
		db := postgres.NewDB(cfg.Postgres.DSN)
		if err := postgres.CreateSchema(ctx, db); err != nil {
			return err
		}
		store = postgres.NewStore(db)
		log.Info().Msg("using postgres store")
	} else {
		store = memory.NewStore()
		log.Warn().Msg("no postgres dsn configured, using in-memory store")
	}

	var sessions cache.SessionCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessions = cache.NewSessionCache(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis session cache")
	} else {
		sessions = cache.NewMemorySessionCache()
		log.Warn().Msg("no redis addr configured, using in-memory session cache")
	}

	rng := service.NewRand(time.Now().UnixNano())
	tokenTTL := config.Duration(cfg.Auth.TokenTTL, 30*24*time.Hour)

	authSvc := service.NewAuthService(store, cfg.Auth.JWTSecret, tokenTTL)
	roomSvc := service.NewRoomService(store, sessions, rng)
	submissionSvc := service.NewSubmissionService(store, sessions)
	sessionSvc := service.NewSessionService(store, sessions, rng)

	hub := ws.NewHub()
	roomSvc.SetBroadcaster(hub)
	submissionSvc.SetBroadcaster(hub)

	presence := service.NewPresenceCoordinator(roomSvc)
	presence.SetTimeouts(
		config.Duration(cfg.Presence.IdleTimeout, service.DefaultIdleTimeout),
		config.Duration(cfg.Presence.GraceTimeout, service.DefaultGraceTimeout),
	)
	roomSvc.SetPresence(presence)

	wsHandler := ws.NewHandler(hub, authSvc, sessions, presence)
	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		RoomService:       roomSvc,
		SubmissionService: submissionSvc,
		SessionService:    sessionSvc,
		WSHandler:         wsHandler,
		CORSOrigins:       cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr: ":" + finalPort,
		// No ReadTimeout: long-lived websocket connections share this
		// listener.
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
