/*
Package ledger contains the commands working with the local ledger: running
the hello program instructions and managing accounts.
*/
package ledger

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hellochain/hello-go/cli/flags"
	"github.com/hellochain/hello-go/cli/options"
	"github.com/hellochain/hello-go/pkg/core/ledger"
	"github.com/hellochain/hello-go/pkg/core/state"
	"github.com/hellochain/hello-go/pkg/util"
	"github.com/urfave/cli"
)

// NewCommands returns ledger commands. Flags are created per call so that
// every application instance gets its own flag values.
func NewCommands() []cli.Command {
	txFlags := func() []cli.Flag {
		return append([]cli.Flag{
			flags.NewPublicKeyFlag("authority, a", "signing account the message is attributed to"),
			flags.NewPublicKeyFlag("account", "program-owned account storing the message"),
			cli.BoolFlag{
				Name:  "unsigned",
				Usage: "don't mark the authority as a signer",
			},
		}, options.Common...)
	}
	keyFlags := func(usage string) []cli.Flag {
		return append([]cli.Flag{flags.NewPublicKeyFlag("key, k", usage)}, options.Common...)
	}
	return []cli.Command{
		{
			Name:      "hello",
			Usage:     "store a message in the account",
			UsageText: "hello-go hello --authority <key> --account <key> [--unsigned] <message>",
			Action:    hello,
			Flags:     txFlags(),
		},
		{
			Name:      "erase",
			Usage:     "move the account balance to the authority",
			UsageText: "hello-go erase --authority <key> --account <key> [--unsigned]",
			Action:    erase,
			Flags:     txFlags(),
		},
		{
			Name:      "create-account",
			Usage:     "allocate a program-owned account",
			UsageText: "hello-go create-account --key <key> [--space <bytes>]",
			Action:    createAccount,
			Flags: append(keyFlags("key of the new account"), cli.IntFlag{
				Name:  "space",
				Value: state.HelloRecordSize,
				Usage: "size of the account data",
			}),
		},
		{
			Name:      "airdrop",
			Usage:     "credit the account balance",
			UsageText: "hello-go airdrop --key <key> <amount>",
			Action:    airdrop,
			Flags:     keyFlags("key of the credited account"),
		},
		{
			Name:      "show",
			Usage:     "print account state",
			UsageText: "hello-go show --key <key>",
			Action:    show,
			Flags:     keyFlags("key of the account"),
		},
		{
			Name:      "list",
			Usage:     "list all accounts with balances",
			UsageText: "hello-go list",
			Action:    list,
			Flags:     options.Common,
		},
	}
}

func hello(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError(errors.New("exactly one message argument is expected"), 1)
	}
	return execute(ctx, func(program, authority, storage util.PublicKey) *ledger.Transaction {
		return ledger.NewHelloTransaction(program, authority, storage, ctx.Args().First())
	})
}

func erase(ctx *cli.Context) error {
	if ctx.NArg() != 0 {
		return cli.NewExitError(fmt.Errorf("unexpected arguments: %v", ctx.Args()), 1)
	}
	return execute(ctx, ledger.NewEraseTransaction)
}

func execute(ctx *cli.Context, newTx func(program, authority, storage util.PublicKey) *ledger.Transaction) error {
	authority, err := flags.GetPublicKey(ctx, "authority")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	storage, err := flags.GetPublicKey(ctx, "account")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	env, ec := options.InitLedger(ctx)
	if ec != nil {
		return ec
	}
	defer env.Close()

	tx := newTx(env.Ledger.ProgramID(), authority, storage)
	if ctx.Bool("unsigned") {
		tx.Accounts[0].IsSigner = false
	}
	rcpt, err := env.Ledger.Execute(tx)
	if rcpt == nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Status: %d\n", rcpt.Code)
	for _, b := range rcpt.Balances {
		fmt.Fprintf(ctx.App.Writer, "%s: %d\n", b.Key, b.Balance)
	}
	if err != nil {
		return cli.NewExitError(fmt.Errorf("transaction failed: %w", err), 1)
	}
	return nil
}

func createAccount(ctx *cli.Context) error {
	key, err := flags.GetPublicKey(ctx, "key")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	space := ctx.Int("space")
	if space < 0 || space > state.MaxAccountDataSize {
		return cli.NewExitError(fmt.Errorf("invalid space: %d", space), 1)
	}
	env, ec := options.InitLedger(ctx)
	if ec != nil {
		return ec
	}
	defer env.Close()

	err = env.Ledger.CreateAccount(key, env.Ledger.ProgramID(), space)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Created %s (%d bytes)\n", key, space)
	return nil
}

func airdrop(ctx *cli.Context) error {
	key, err := flags.GetPublicKey(ctx, "key")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if ctx.NArg() != 1 {
		return cli.NewExitError(errors.New("exactly one amount argument is expected"), 1)
	}
	amount, err := strconv.ParseUint(ctx.Args().First(), 10, 64)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid amount: %w", err), 1)
	}
	env, ec := options.InitLedger(ctx)
	if ec != nil {
		return ec
	}
	defer env.Close()

	balance, err := env.Ledger.Airdrop(key, amount)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Balance: %d\n", balance)
	return nil
}

func show(ctx *cli.Context) error {
	key, err := flags.GetPublicKey(ctx, "key")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	env, ec := options.InitLedger(ctx)
	if ec != nil {
		return ec
	}
	defer env.Close()

	acc, err := env.Ledger.GetAccount(key)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Key: %s\n", key)
	fmt.Fprintf(ctx.App.Writer, "Balance: %d\n", acc.Balance)
	fmt.Fprintf(ctx.App.Writer, "Owner: %s\n", acc.Owner)
	fmt.Fprintf(ctx.App.Writer, "Data: %d bytes\n", len(acc.Data))
	if len(acc.Data) == state.HelloRecordSize && acc.Owner == env.Ledger.ProgramID() {
		rec, err := state.DecodeHelloRecordUnchecked(acc.Data)
		if err != nil {
			fmt.Fprintf(ctx.App.Writer, "Record: %s\n", err)
			return nil
		}
		fmt.Fprintf(ctx.App.Writer, "Greeter: %s\n", rec.Owner)
		fmt.Fprintf(ctx.App.Writer, "Message: %s\n", rec.Message)
	}
	return nil
}

func list(ctx *cli.Context) error {
	env, ec := options.InitLedger(ctx)
	if ec != nil {
		return ec
	}
	defer env.Close()

	err := env.Ledger.ForEachAccount(func(key util.PublicKey, acc *state.Account) bool {
		fmt.Fprintf(ctx.App.Writer, "%s: %d\n", key, acc.Balance)
		return true
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}
