package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iudanet/vocabsync/internal/client/api"
	"github.com/iudanet/vocabsync/internal/client/pending"
	"github.com/iudanet/vocabsync/internal/client/s3kv"
	"github.com/iudanet/vocabsync/internal/client/storage"
	"github.com/iudanet/vocabsync/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/vocabsync/internal/client/sync"
	"github.com/iudanet/vocabsync/internal/config"
	"github.com/iudanet/vocabsync/internal/crdt"
	"github.com/iudanet/vocabsync/internal/logging"
)

// app собирает зависимости одного запуска команды
type app struct {
	cfg    *config.ClientConfig
	logger *slog.Logger
	store  localStore
	cloud  api.CloudKV
	queue  *pending.Queue
	engine *clientsync.Engine

	logCloser io.Closer
}

// localStore локальная БД клиента
type localStore interface {
	storage.LocalKV
	storage.MetadataStorage
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// storeOpener открывает локальную БД по настройкам клиента
type storeOpener func(ctx context.Context, cfg *config.ClientConfig) (localStore, error)

// openExclusive держит файл БД открытым до конца команды
func openExclusive(ctx context.Context, cfg *config.ClientConfig) (localStore, error) {
	store, err := boltdb.New(ctx, cfg.DBPath, boltdb.WithOpenTimeout(cfg.DBLockTimeout))
	if err != nil {
		return nil, err
	}
	return store, nil
}

// openLeased открывает файл БД только на время прохода очереди.
// Пробное открытие сразу сообщает о неверном пути.
func openLeased(ctx context.Context, cfg *config.ClientConfig) (localStore, error) {
	store := boltdb.NewShared(cfg.DBPath, boltdb.WithOpenTimeout(cfg.DBLockTimeout))
	if err := store.Acquire(ctx); err != nil {
		return nil, err
	}
	if err := store.Release(); err != nil {
		return nil, err
	}
	return store, nil
}

func loadClientConfig(cmd *cobra.Command, opts *RootOptions) (*config.ClientConfig, error) {
	loader := config.NewLoader(config.ResolveFile(opts.ConfigFile))
	if err := loader.BindFlags(cmd.Flags(), flagKeys); err != nil {
		return nil, err
	}

	cfg, err := loader.LoadClient()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openApp loads configuration and opens the local store, cloud backend and engine.
func openApp(cmd *cobra.Command, opts *RootOptions, open storeOpener) (*app, error) {
	cfg, err := loadClientConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	ctx := cmd.Context()

	store, err := open(ctx, cfg)
	if errors.Is(err, storage.ErrLocked) {
		_ = logCloser.Close()
		return nil, fmt.Errorf("local database is busy, retry or raise db_lock_timeout: %w", err)
	}
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	cloud, err := newCloud(ctx, cfg)
	if err != nil {
		_ = store.Close()
		_ = logCloser.Close()
		return nil, err
	}

	clock := crdt.SystemClock{}
	queue := pending.New(store, clock, logger)
	engine := clientsync.NewEngine(store, cloud, queue,
		clientsync.WithLogger(logger),
		clientsync.WithClock(clock),
		clientsync.WithConfig(engineConfig(cfg.Sync)),
		clientsync.WithMetadata(store),
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		cloud:     cloud,
		queue:     queue,
		engine:    engine,
		logCloser: logCloser,
	}, nil
}

// Close waits for detached sync tasks and releases the local store.
func (a *app) Close() error {
	a.engine.Wait()

	var errs []error
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}
	if err := a.logCloser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
	}
	return errors.Join(errs...)
}

// withApp opens the app, runs fn and closes the app, keeping the first error.
// The database file stays locked until fn returns.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(a *app) error) error {
	return withStore(cmd, opts, openExclusive, fn)
}

func withStore(cmd *cobra.Command, opts *RootOptions, open storeOpener, fn func(a *app) error) (err error) {
	a, err := openApp(cmd, opts, open)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

func newCloud(ctx context.Context, cfg *config.ClientConfig) (api.CloudKV, error) {
	switch cfg.Backend {
	case config.BackendS3:
		store, err := s3kv.New(ctx, s3kv.Config{
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 backend: %w", err)
		}
		return store, nil
	default:
		return api.NewClient(cfg.Server.URL, cfg.Server.Token), nil
	}
}

func engineConfig(s config.SyncSettings) clientsync.Config {
	cfg := clientsync.DefaultConfig()
	if s.BaseDelay > 0 {
		cfg.BaseDelay = s.BaseDelay
	}
	if s.MinDelay > 0 {
		cfg.MinDelay = s.MinDelay
	}
	if s.MaxDelay > 0 {
		cfg.MaxDelay = s.MaxDelay
	}
	if s.CloudTimeout > 0 {
		cfg.CloudTimeout = s.CloudTimeout
	}
	return cfg
}
