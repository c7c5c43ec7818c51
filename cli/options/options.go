/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"errors"
	"fmt"
	"os"

	"github.com/hellochain/hello-go/pkg/config"
	"github.com/hellochain/hello-go/pkg/core/ledger"
	"github.com/hellochain/hello-go/pkg/core/processor"
	"github.com/hellochain/hello-go/pkg/core/storage"
	"github.com/hellochain/hello-go/pkg/io"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConfigFile is a flag for commands that use node configuration and provide
// path to the specific config file.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the node configuration file (" + config.DefaultConfigPath + " is used if present)",
}

// Debug is a flag for commands that allow node in debug mode usage.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (LOTS of output, overrides configuration)",
}

// Common is the set of flags every ledger command accepts.
var Common = []cli.Flag{ConfigFile, Debug}

// GetConfigFromContext returns the configuration from the file set with
// '--config-file'. Without the flag the default config file is used if it
// exists, built-in defaults otherwise.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	if configFile := ctx.String("config-file"); len(configFile) != 0 {
		return config.LoadFile(configFile)
	}
	if _, err := os.Stat(config.DefaultConfigPath); err == nil {
		return config.LoadFile(config.DefaultConfigPath)
	}
	return config.Default(), nil
}

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If logPath is configured -- function creates a dir and a file for logging.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, *zap.AtomicLevel, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := cfg.LogPath; logPath != "" {
		if err := io.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	log, err := cc.Build()
	return log, &cc.Level, err
}

// Env is everything a ledger command needs: the configuration, the logger
// and a ledger over the configured store.
type Env struct {
	Config config.Config
	Log    *zap.Logger
	Ledger *ledger.Ledger
	store  storage.Store
}

// Close releases the store and flushes the logger.
func (e *Env) Close() error {
	err := e.store.Close()
	_ = e.Log.Sync()
	return err
}

// InitLedger loads the configuration, sets up logging and opens the ledger
// for the given context.
func InitLedger(ctx *cli.Context) (*Env, cli.ExitCoder) {
	cfg, err := GetConfigFromContext(ctx)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	log, _, err := HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	store, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	if err != nil {
		return nil, cli.NewExitError(fmt.Errorf("could not initialize storage: %w", err), 1)
	}
	l, err := ledger.New(store, processor.New(log), ledger.Config{
		ProgramID:        cfg.ProgramConfiguration.ProgramID,
		AccountCacheSize: cfg.ApplicationConfiguration.AccountCacheSize,
	}, log)
	if err != nil {
		closeErr := store.Close()
		return nil, cli.NewExitError(errors.Join(fmt.Errorf("could not initialize ledger: %w", err), closeErr), 1)
	}
	return &Env{
		Config: cfg,
		Log:    log,
		Ledger: l,
		store:  store,
	}, nil
}
