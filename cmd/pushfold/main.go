package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Advise   AdviseCmd        `cmd:"" help:"Show every seat's preflop action for one hand"`
	Serve    ServeCmd         `cmd:"" help:"Run the HTTP and websocket decision API"`
	Profiles ProfilesCmd      `cmd:"" help:"List and validate strategy profiles"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pushfold"),
		kong.Description("Preflop push/fold advisor for short-stacked poker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
