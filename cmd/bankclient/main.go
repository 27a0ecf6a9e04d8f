package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-bank-client/bankapi"
	"github.com/jrsteele09/go-bank-client/internal/config"
	"github.com/jrsteele09/go-bank-client/session"
	"github.com/jrsteele09/go-bank-client/tokenstore"
	"github.com/jrsteele09/go-bank-client/tokenstore/memstore"
	"github.com/jrsteele09/go-bank-client/tokenstore/sqlitestore"
	"github.com/jrsteele09/go-bank-client/transport"
	"github.com/jrsteele09/go-bank-client/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxRestarts  = 3
	databaseFile = "bankclient.db"
)

func main() {
	for attempt := 1; ; attempt++ {
		err := run()
		if err == nil {
			break
		}
		log.Err(err).Int("attempt", attempt).Msg("Error running server")
		if attempt >= maxRestarts {
			os.Exit(1)
		}
		time.Sleep(1 * time.Second)
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	store, closeStore, err := openTokenStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	handler, err := buildHandler(c, store)
	if err != nil {
		return err
	}

	server := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(server)
	waitForStopSignal()
	return shutdown(server)
}

// buildHandler wires pipeline -> bank api -> session manager -> pages. The
// pipeline's forced logout needs the manager, which needs the api, so the
// handler closes over the manager variable.
func buildHandler(c config.Config, store *tokenstore.Store) (http.Handler, error) {
	var manager *session.Manager
	pipeline := transport.New(store,
		transport.WithUnauthorizedPolicy(transport.ParsePolicy(c.GetUnauthorizedPolicy())),
		transport.WithUnauthorizedHandler(func(ctx context.Context) { manager.Invalidate(ctx) }),
	)
	api := bankapi.New(c.GetAPIBaseURL(), pipeline.Client(c.GetRequestTimeout()))

	manager, err := session.New(api, store, nil)
	if err != nil {
		return nil, fmt.Errorf("session.New: %w", err)
	}
	if err := manager.Initialize(context.Background()); err != nil {
		log.Err(err).Msg("Failed to read stored token, starting signed out")
	}
	log.Info().Str("api", api.BaseURL()).Str("state", manager.State().String()).Msg("Session initialised")

	pages, err := web.New(c, manager, api, store)
	if err != nil {
		return nil, fmt.Errorf("web.New: %w", err)
	}
	return pages, nil
}

// openTokenStore opens the configured backend; the returned func releases it
func openTokenStore(c config.Config) (*tokenstore.Store, func(), error) {
	var (
		jar     tokenstore.CookieJar
		kv      tokenstore.KeyValue
		closeFn = func() {}
	)
	switch c.GetStoreBackend() {
	case config.StoreBackendMemory:
		jar, kv = memstore.NewJar(nil), memstore.NewKeyValue()
	default:
		dbPath := filepath.Join(c.GetDataFolder(), databaseFile)
		db, err := sqlitestore.Open(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlitestore.Open: %w", err)
		}
		jar, kv = db, db
		closeFn = func() {
			if err := db.Close(); err != nil {
				log.Err(err).Msg("Failed to close token database")
			}
		}
		log.Info().Str("path", dbPath).Msg("Token store opened")
	}

	store, err := tokenstore.New(jar, kv, tokenstore.WithKey(c.GetTokenKey()))
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("tokenstore.New: %w", err)
	}
	return store, closeFn, nil
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
