// Command mockbank serves the in-memory fake of the banking API for local development.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrsteele09/go-bank-client/bankapi/fakebank"
	"github.com/jrsteele09/go-bank-client/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	portEnvVar     = "MOCKBANK_PORT"
	tokenTTLEnvVar = "MOCKBANK_TOKEN_TTL"
	secretEnvVar   = "MOCKBANK_SECRET"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	options := []fakebank.Option{}
	if ttl, err := time.ParseDuration(config.GetEnv(tokenTTLEnvVar, "")); err == nil && ttl > 0 {
		options = append(options, fakebank.WithTokenTTL(ttl))
	}
	if secret := config.GetEnv(secretEnvVar, ""); secret != "" {
		options = append(options, fakebank.WithSecret([]byte(secret)))
	}

	server := &http.Server{
		Addr:              ":" + config.GetEnv(portEnvVar, "8080"),
		Handler:           fakebank.New(options...),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Mock bank listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server.ListenAndServe")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Err(err).Msg("server.Shutdown")
	}
}
