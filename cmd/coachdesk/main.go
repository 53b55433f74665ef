package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alexanderramin/coachdesk/internal/cli"
	"github.com/alexanderramin/coachdesk/internal/cli/formatter"
	"github.com/alexanderramin/coachdesk/internal/config"
	"github.com/alexanderramin/coachdesk/internal/db"
	"github.com/alexanderramin/coachdesk/internal/logging"
	"github.com/alexanderramin/coachdesk/internal/repository"
	"github.com/alexanderramin/coachdesk/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	interactive := func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	repo, closeStore, err := openStore(ctx, cfg, interactive())
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Debug("store ready", zap.String("store", string(cfg.Store)))

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewZapUseCaseObserver(logger))
	}

	store := service.NewClientStore(repo, logger)
	checklistSvc := service.NewChecklistService(store, cfg.ChecklistDebounce, observers...)
	defer func() {
		// Pending free-text edits are written before the process exits.
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := checklistSvc.Close(flushCtx); err != nil {
			logger.Error("flushing checklist edits", zap.Error(err))
		}
	}()

	app := &cli.App{
		Clients:       service.NewClientService(store, observers...),
		Billing:       service.NewBillingService(store, observers...),
		Checklist:     checklistSvc,
		IsInteractive: interactive,
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// openStore wires the ClientRepo adapter selected by COACHDESK_STORE.
func openStore(ctx context.Context, cfg config.Config, interactive bool) (repository.ClientRepo, func(), error) {
	switch cfg.Store {
	case config.StoreMongo:
		stopSpinner := spinner(interactive, "Connecting to MongoDB")
		client, err := repository.ConnectMongo(ctx, cfg.MongoURI)
		stopSpinner()
		if err != nil {
			return nil, nil, err
		}
		closer := func() { _ = client.Disconnect(context.Background()) }
		return repository.NewMongoClientRepo(client.Database(cfg.MongoDatabase)), closer, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		stopSpinner := spinner(interactive, "Connecting to Redis")
		err := rdb.Ping(ctx).Err()
		stopSpinner()
		if err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("pinging redis at %s: %w", cfg.RedisAddr, err)
		}
		return repository.NewRedisClientRepo(rdb), func() { _ = rdb.Close() }, nil

	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return repository.NewSQLiteClientRepo(database), func() { _ = database.Close() }, nil
	}
}

func spinner(interactive bool, message string) func() {
	if !interactive {
		return func() {}
	}
	return formatter.StartSpinner(os.Stderr, message)
}
