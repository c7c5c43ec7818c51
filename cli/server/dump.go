package server

import (
	"errors"
	"fmt"
	"os"

	"github.com/hellochain/hello-go/cli/options"
	"github.com/hellochain/hello-go/pkg/core/ledgerdump"
	"github.com/hellochain/hello-go/pkg/core/state"
	"github.com/hellochain/hello-go/pkg/io"
	"github.com/hellochain/hello-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func newDBCommand() cli.Command {
	return cli.Command{
		Name:  "db",
		Usage: "database manipulations",
		Subcommands: []cli.Command{
			{
				Name:      "dump",
				Usage:     "dump all accounts to a file",
				UsageText: "hello-go db dump --out file [--config-file file] [--debug]",
				Action:    dumpDB,
				Flags: append([]cli.Flag{cli.StringFlag{
					Name:  "out, o",
					Usage: "output file (stdout if not given)",
				}}, options.Common...),
			},
			{
				Name:      "restore",
				Usage:     "restore accounts from a file",
				UsageText: "hello-go db restore --in file [--config-file file] [--debug]",
				Action:    restoreDB,
				Flags: append([]cli.Flag{cli.StringFlag{
					Name:  "in, i",
					Usage: "input file",
				}}, options.Common...),
			},
		},
	}
}

func dumpDB(ctx *cli.Context) error {
	env, ec := options.InitLedger(ctx)
	if ec != nil {
		return ec
	}
	defer env.Close()

	outStream := ctx.App.Writer
	if out := ctx.String("out"); out != "" {
		if err := io.MakeDirForFile(out, "dump"); err != nil {
			return cli.NewExitError(err, 1)
		}
		f, err := os.Create(out)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("can't create output file: %w", err), 1)
		}
		defer f.Close()
		outStream = f
	}
	writer := io.NewBinWriterFromIO(outStream)
	count, err := ledgerdump.Dump(env.Ledger, writer)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	env.Log.Info("accounts dumped", zap.Uint32("count", count))
	return nil
}

func restoreDB(ctx *cli.Context) error {
	in := ctx.String("in")
	if in == "" {
		return cli.NewExitError(errors.New("no input file given"), 1)
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	env, ec := options.InitLedger(ctx)
	if ec != nil {
		return ec
	}
	defer env.Close()

	count, err := ledgerdump.Restore(env.Ledger, io.NewBinReaderFromBuf(data), func(key util.PublicKey, acc *state.Account) error {
		env.Log.Debug("account restored", zap.Stringer("key", key), zap.Uint64("balance", acc.Balance))
		return nil
	})
	if err != nil {
		return cli.NewExitError(fmt.Errorf("restored %d accounts: %w", count, err), 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Restored %d accounts\n", count)
	return nil
}
