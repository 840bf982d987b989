package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unievents/unievents-api/internal/bootstrap"
	"github.com/unievents/unievents-api/internal/data"
	"github.com/unievents/unievents-api/internal/service"
)

const (
	sessionScanCount   = 500
	sessionDeleteBatch = 200
)

type clearSessionCacheOptions struct {
	DryRun  bool
	Yes     bool
	Timeout time.Duration
}

func runPurgeSessions(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet("purge-sessions")
	timeout := fs.Duration("timeout", defaultCommandTimeout, "Maximum duration to wait for the purge")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requirePositiveTimeout(*timeout); err != nil {
		return err
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		sessions := service.NewSessionService(service.SessionServiceOptions{
			Repo:   data.NewSessionRepo(db),
			Logger: cmdCtx.Logger,
		})
		n, err := sessions.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Info("purged expired sessions", "deleted", n)
		return nil
	})
}

func runClearSessionCache(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionCacheFlags(args)
	if err != nil {
		return err
	}

	client, err := connectRedis(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	prefix := bootstrap.SessionCacheKeyPrefix(cmdCtx.Config.Redis.KeyPrefix)
	if !opts.DryRun {
		if confirmErr := confirmOrSkip(opts.Yes, fmt.Sprintf("Delete every Redis key matching %q?", prefix+"*")); confirmErr != nil {
			return confirmErr
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	stats, err := clearSessionKeys(ctx, client, prefix, opts.DryRun)
	if err != nil {
		return err
	}
	if opts.DryRun {
		return writef(os.Stdout, "Dry run: %d cached sessions would be removed.\n", stats.Matched)
	}
	return writef(os.Stdout, "Removed %d of %d cached sessions.\n", stats.Deleted, stats.Matched)
}

func parseClearSessionCacheFlags(args []string) (clearSessionCacheOptions, error) {
	fs := newFlagSet("clear-session-cache")
	var opts clearSessionCacheOptions
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Count matching keys without deleting them")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	fs.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "Maximum duration to wait")

	if err := fs.Parse(args); err != nil {
		return clearSessionCacheOptions{}, err
	}
	if err := requirePositiveTimeout(opts.Timeout); err != nil {
		return clearSessionCacheOptions{}, err
	}
	return opts, nil
}

type sessionKeyStats struct {
	Matched int
	Deleted int64
}

// clearSessionKeys scans for keys under prefix and deletes them in batches.
// Removing cached sessions only forces the next validation to hit Postgres.
func clearSessionKeys(ctx context.Context, client redis.UniversalClient, prefix string, dryRun bool) (sessionKeyStats, error) {
	if prefix == "" {
		return sessionKeyStats{}, errors.New("refusing to scan with an empty key prefix")
	}
	var stats sessionKeyStats
	batch := make([]string, 0, sessionDeleteBatch)

	flush := func() error {
		if len(batch) == 0 || dryRun {
			batch = batch[:0]
			return nil
		}
		n, err := client.Del(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("delete session keys: %w", err)
		}
		stats.Deleted += n
		batch = batch[:0]
		return nil
	}

	iter := client.Scan(ctx, 0, prefix+"*", sessionScanCount).Iterator()
	for iter.Next(ctx) {
		stats.Matched++
		batch = append(batch, iter.Val())
		if len(batch) >= sessionDeleteBatch {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return stats, fmt.Errorf("scan session keys: %w", err)
	}
	return stats, flush()
}
