/*
Package server contains the long-running node command.
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hellochain/hello-go/cli/options"
	"github.com/hellochain/hello-go/pkg/config"
	"github.com/hellochain/hello-go/pkg/core/ledger"
	"github.com/hellochain/hello-go/pkg/core/processor"
	"github.com/hellochain/hello-go/pkg/core/state"
	"github.com/hellochain/hello-go/pkg/core/storage"
	"github.com/hellochain/hello-go/pkg/services/metrics"
	"github.com/hellochain/hello-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewCommands returns 'node' and 'db' commands.
func NewCommands() []cli.Command {
	return []cli.Command{
		{
			Name:      "node",
			Usage:     "start the local ledger node serving metrics",
			UsageText: "hello-go node [--config-file file] [--debug]",
			Action:    startServer,
			Flags:     options.Common,
		},
		newDBCommand(),
	}
}

// node is a running ledger with its services.
type node struct {
	ledger     *ledger.Ledger
	store      storage.Store
	prometheus *metrics.Service
	pprof      *metrics.Service
}

func (n *node) shutdown() error {
	n.prometheus.ShutDown()
	n.pprof.ShutDown()
	return n.store.Close()
}

func newGraceContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()
	return ctx
}

// initLedgerWithMetrics opens the configured store and ledger and starts
// metrics services.
func initLedgerWithMetrics(cfg config.Config, log *zap.Logger) (*node, error) {
	store, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	if err != nil {
		return nil, fmt.Errorf("could not initialize storage: %w", err)
	}
	l, err := ledger.New(store, processor.New(log), ledger.Config{
		ProgramID:        cfg.ProgramConfiguration.ProgramID,
		AccountCacheSize: cfg.ApplicationConfiguration.AccountCacheSize,
	}, log)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("could not initialize ledger: %w", err), store.Close())
	}
	n := &node{
		ledger:     l,
		store:      store,
		prometheus: metrics.NewPrometheusService(cfg.ApplicationConfiguration.Prometheus, log),
		pprof:      metrics.NewPprofService(cfg.ApplicationConfiguration.Pprof, log),
	}
	if err := n.prometheus.Start(); err != nil {
		return nil, errors.Join(err, n.store.Close())
	}
	if err := n.pprof.Start(); err != nil {
		n.prometheus.ShutDown()
		return nil, errors.Join(err, n.store.Close())
	}
	return n, nil
}

// countAccounts returns the number of accounts and their total balance.
func countAccounts(l *ledger.Ledger) (int, uint64, error) {
	var (
		count int
		total uint64
	)
	err := l.ForEachAccount(func(_ util.PublicKey, acc *state.Account) bool {
		count++
		total += acc.Balance
		return true
	})
	return count, total, err
}

// reloadLogLevel rereads the configuration and applies its log level unless
// debug logging was forced.
func reloadLogLevel(ctx *cli.Context, level *zap.AtomicLevel, log *zap.Logger) {
	if ctx.Bool("debug") {
		return
	}
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		log.Warn("can't reread the config file, signal ignored", zap.Error(err))
		return
	}
	lvl := zapcore.InfoLevel
	if cfg.ApplicationConfiguration.LogLevel != "" {
		lvl, err = zapcore.ParseLevel(cfg.ApplicationConfiguration.LogLevel)
		if err != nil {
			log.Warn("wrong LogLevel in ApplicationConfiguration, signal ignored", zap.Error(err))
			return
		}
	}
	if lvl != level.Level() {
		log.Info("changing log level", zap.Stringer("old", level.Level()), zap.Stringer("new", lvl))
		level.SetLevel(lvl)
	}
}

func startServer(ctx *cli.Context) error {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, level, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	grace := newGraceContext()
	n, err := initLedgerWithMetrics(cfg, log)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	count, total, err := countAccounts(n.ledger)
	if err != nil {
		return cli.NewExitError(errors.Join(err, n.shutdown()), 1)
	}
	log.Info("ledger opened",
		zap.Stringer("program", n.ledger.ProgramID()),
		zap.Int("accounts", count),
		zap.Uint64("balance", total))
	fmt.Fprintln(ctx.App.Writer, "Ledger node is running, press Ctrl+C to stop")

	sighupCh := make(chan os.Signal, 1)
	signal.Notify(sighupCh, sighup)
	defer signal.Stop(sighupCh)

Main:
	for {
		select {
		case sig := <-sighupCh:
			log.Info("signal received", zap.Stringer("name", sig))
			reloadLogLevel(ctx, level, log)
		case <-grace.Done():
			break Main
		}
	}

	log.Info("shutting down")
	if err := n.shutdown(); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}
