package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/boomsweeper/internal/config"
	"github.com/vancomm/boomsweeper/internal/middleware"
	"github.com/vancomm/boomsweeper/internal/scores"
	"github.com/vancomm/boomsweeper/internal/session"
)

type App struct {
	logger   *slog.Logger
	router   *http.ServeMux
	registry *session.Registry
	best     *scores.BestTimes
	cookies  *config.Cookies
	ws       *config.WebSocket
}

func New(logger *slog.Logger) *App {
	router := http.NewServeMux()

	app := &App{
		logger: logger,
		router: router,
	}

	return app
}

func (a *App) Start(ctx context.Context) error {
	backend, closeBackend, err := openScores(ctx, a.logger)
	if err != nil {
		return fmt.Errorf("unable to open best times: %w", err)
	}
	defer closeBackend()

	a.best = scores.New(backend)

	jwt, err := config.NewJWT()
	if err != nil {
		return err
	}

	a.cookies = config.NewCookies(jwt)

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}

	a.ws = ws

	idle, err := config.SessionIdle()
	if err != nil {
		return err
	}

	a.registry = session.NewRegistry(session.Options{
		Logger: a.logger,
		Best:   a.best,
	})

	a.loadRoutes()

	var handler http.Handler = middleware.Wrap(
		a.router,
		middleware.Session(a.logger, a.cookies),
		middleware.Cors(config.CorsOrigins()...),
		middleware.Logging(a.logger),
	)
	if base := config.BasePath(); base != "" {
		handler = http.StripPrefix(base, handler)
	}

	addr := config.Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.sweep(gctx, idle)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		a.registry.CloseAll()
		a.logger.Info("server stopped")
		return err
	})

	return g.Wait()
}

const minSweepPeriod = time.Second

// sweep drops idle sessions until ctx is done.
func (a *App) sweep(ctx context.Context, idle time.Duration) {
	ticker := time.NewTicker(max(idle/2, minSweepPeriod))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.registry.Sweep(idle)
		}
	}
}
