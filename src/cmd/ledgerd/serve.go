package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/events"
	"github.com/api-sage/account-ledger/src/internal/adapter/events/kafka"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/account-ledger/src/internal/config"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/ledger"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/market"
	"github.com/api-sage/account-ledger/src/internal/orders"
	"github.com/api-sage/account-ledger/src/internal/scheduler"
	"github.com/api-sage/account-ledger/src/internal/transfer"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/google/subcommands"
)

const (
	sinkBufferSize  = 4096
	shutdownTimeout = 15 * time.Second
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "runs the ledger HTTP API" }
func (*serveCmd) Usage() string {
	return `serve [-addr :8080]

Starts the HTTP API, the price feeds and the configured notification sinks.
Runs until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Overrides HTTP_ADDR.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.HTTPAddr = c.addr
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg); err != nil {
		logger.Error("ledgerd serve failed", err, nil)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func serve(ctx context.Context, cfg config.Config) error {
	table, err := cfg.Ledger.Table()
	if err != nil {
		return err
	}

	// Sinks drain during scheduler shutdown, so their backends close after it.
	var closers []io.Closer
	sched := scheduler.New(context.Background())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sched.Shutdown(shutdownCtx); err != nil {
			logger.Error("scheduler shutdown failed", err, nil)
		}
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	notifier := ledger.NewNotifier()
	var customerRepo domain.CustomerRepository = memory.NewCustomerRepository()

	if cfg.DatabaseDSN != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		closers = append(closers, db)

		applied, err := postgres.RunMigrations(ctx, db, cfg.MigrationsDir)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", logger.Fields{"count": len(applied), "files": applied})

		table, err = services.SyncCurrencyTable(ctx, postgres.NewRateRepository(db), table)
		if err != nil {
			return err
		}
		customerRepo = postgres.NewCustomerRepository(db)
		if err := startSink(sched, notifier, postgres.NewEventJournal(db)); err != nil {
			return err
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		closers = append(closers, publisher)
		if err := startSink(sched, notifier, publisher); err != nil {
			return err
		}
	}

	bank := services.NewBankService(transfer.NewProtocol(),
		ledger.WithBase(table.Base()),
		ledger.WithNotifier(notifier),
		ledger.WithLockedDeposits(cfg.AllowLockedDeposits),
	)

	catalog, err := buildCatalog(sched, cfg)
	if err != nil {
		return err
	}
	defer catalog.RetireAll()

	mux := router.New(middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
		controller.NewCustomerController(services.NewCustomerService(customerRepo)),
		controller.NewAccountController(services.NewAccountService(bank, customerRepo, table)),
		controller.NewTransferController(services.NewTransferService(bank, customerRepo)),
		controller.NewRateController(services.NewRateService(table)),
		controller.NewMarketController(services.NewMarketService(bank, catalog, orders.NewEngine(sched))),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("ledgerd listening", logger.Fields{"addr": cfg.HTTPAddr})
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("ledgerd shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func startSink(sched *scheduler.Scheduler, notifier *ledger.Notifier, w events.Writer) error {
	sink := events.NewSink(w, sinkBufferSize)
	if err := sched.Go("sink:"+w.Name(), sink.Run); err != nil {
		return err
	}
	notifier.Subscribe(sink.Publish)
	logger.Info("notification sink started", logger.Fields{"sink": w.Name()})
	return nil
}

func buildCatalog(sched *scheduler.Scheduler, cfg config.Config) (*market.Catalog, error) {
	catalog := market.NewCatalog()
	feed := market.FeedConfig{Interval: cfg.PriceTickInterval, BoundPercent: cfg.Ledger.Feed.BoundPercent}

	for _, entry := range cfg.Ledger.Instruments {
		price, err := strconv.ParseFloat(strings.TrimSpace(entry.Price), 64)
		if err != nil {
			return nil, err
		}
		inst, err := market.NewInstrument(entry.ID, entry.Name, price)
		if err != nil {
			return nil, err
		}
		if err := catalog.Add(inst); err != nil {
			return nil, err
		}
		if cfg.Ledger.Feed.Disabled {
			continue
		}
		if err := inst.StartFeed(sched, feed); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}
