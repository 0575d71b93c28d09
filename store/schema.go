package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/izaqyos/toyMCP/logger"
)

// Initializer brings the schema up before the server accepts traffic.
// Retries cover the window where the database is still starting, which
// is the normal case when both come up together under compose.
type Initializer struct {
	DB      *sql.DB
	Dialect Dialect

	// Attempts is the total number of tries; values below 1 mean one.
	Attempts int

	// Delay is the wait between tries.
	Delay time.Duration

	Log logger.Logger

	// Sleep is replaceable in tests. nil means time.Sleep.
	Sleep func(time.Duration)
}

// EnsureSchema pings the database and applies the dialect's schema
// statements in order. Every statement is idempotent, so reruns are
// safe. The whole sequence is retried up to Attempts times with Delay
// between tries; when every attempt fails the last error is returned
// and the caller is expected to treat it as fatal.
func (i *Initializer) EnsureSchema(ctx context.Context) error {
	attempts := i.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := i.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	log := i.Log
	if log == nil {
		log = logger.NewNullLogger()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = i.apply(ctx)
		if lastErr == nil {
			if attempt > 1 {
				log.WithFields(map[string]interface{}{"attempt": attempt}).Info("schema ready after retry")
			}
			return nil
		}

		log.WithErr(lastErr).WithFields(map[string]interface{}{
			"attempt":  attempt,
			"attempts": attempts,
		}).Warn("schema initialization failed")

		if attempt < attempts {
			sleep(i.Delay)
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("schema initialization failed after %d attempts: %w", attempts, lastErr)
}

func (i *Initializer) apply(ctx context.Context) error {
	if err := i.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	for n, stmt := range i.Dialect.Schema {
		if _, err := i.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", n+1, err)
		}
	}
	return nil
}
