package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/hellochain/hello-go/cli/ledger"
	"github.com/hellochain/hello-go/cli/server"
	"github.com/hellochain/hello-go/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "hello-go\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a hello-go instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "hello-go"
	ctl.Version = config.Version
	ctl.Usage = "Local ledger running the hello program"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, server.NewCommands()...)
	ctl.Commands = append(ctl.Commands, ledger.NewCommands()...)
	return ctl
}
