package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/izaqyos/toyMCP/auth"
	"github.com/izaqyos/toyMCP/config"
	"github.com/izaqyos/toyMCP/endpoint"
	"github.com/izaqyos/toyMCP/jsonrpc"
	"github.com/izaqyos/toyMCP/logger"
	"github.com/izaqyos/toyMCP/middleware"
	"github.com/izaqyos/toyMCP/service"
	"github.com/izaqyos/toyMCP/store"
	"github.com/izaqyos/toyMCP/token"
)

const (
	serviceName        = "toymcp"
	serviceVersion     = "1.0.0"
	serviceDescription = "A to-do list exposed over JSON-RPC 2.0."
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// The logger is configured from the same place, so report
		// config failures on stderr.
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.WithErr(err).Error("server exited")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	dialect, dsn := databaseTarget(cfg)
	db, err := store.Open(dialect, dsn, store.Options{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	initializer := &store.Initializer{
		DB:       db,
		Dialect:  dialect,
		Attempts: cfg.SchemaRetryAttempts,
		Delay:    cfg.SchemaRetryDelay,
		Log:      log,
	}
	if err := initializer.EnsureSchema(context.Background()); err != nil {
		return err
	}

	codec, err := buildCodec(cfg)
	if err != nil {
		return err
	}

	users, err := configuredUsers(cfg)
	if err != nil {
		return err
	}
	verifier := auth.NewVerifier(users, codec, log)

	svc := service.New(service.Info{
		Name:        serviceName,
		Version:     serviceVersion,
		Description: serviceDescription,
	}, store.NewSQLRepository(db, dialect, log), log)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newServerHandler(svc, verifier, codec, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":   cfg.Addr,
			"driver": cfg.DatabaseDriver,
			"codec":  cfg.TokenCodec,
		}).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithFields(map[string]interface{}{"signal": sig.String()}).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newServerHandler assembles the HTTP surface: the login route, and the
// JSON-RPC route behind the token gate.
func newServerHandler(svc *service.Service, verifier *auth.Verifier, codec token.Codec, log logger.Logger) http.Handler {
	dispatcher := jsonrpc.NewDispatcher(svc.Registry(), log)
	headers := middleware.NewAPIHeaders()
	requestLog := middleware.NewRequestLog(log)
	gate := middleware.NewTokenGate(codec, log)

	mux := http.NewServeMux()
	mux.Handle("/auth/login", endpoint.Handler(auth.LoginEndpoint(verifier, log), requestLog, headers))
	mux.Handle("/rpc", endpoint.Handler(dispatcher.Endpoint, requestLog, headers, gate))
	return mux
}

func databaseTarget(cfg *config.Config) (store.Dialect, string) {
	if cfg.DatabaseDriver == config.DriverPostgres {
		return store.Postgres, cfg.DatabaseURL
	}
	return store.SQLite, cfg.SQLitePath
}

// buildCodec picks the token implementation. Both derive from the one
// configured secret, so switching codecs only invalidates outstanding
// tokens.
func buildCodec(cfg *config.Config) (token.Codec, error) {
	if cfg.TokenCodec == config.CodecSealed {
		keys := map[string][]byte{cfg.TokenKeyID: token.DeriveKey(cfg.TokenSecret)}
		return token.NewSealedCodec(cfg.TokenKeyID, keys, cfg.TokenTTL)
	}
	return token.NewJOSECodec([]byte(cfg.TokenSecret), cfg.TokenTTL)
}

func configuredUsers(cfg *config.Config) (auth.UserSource, error) {
	hash := []byte(cfg.AuthPasswordHash)
	if len(hash) == 0 {
		h, err := auth.HashPassword(cfg.AuthPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash AUTH_PASSWORD: %w", err)
		}
		hash = h
	}
	return auth.NewStaticUsers(auth.User{ID: 1, Username: cfg.AuthUsername, PasswordHash: hash}), nil
}
