package main

import (
	"os"

	"github.com/alecthomas/kong"

	"droscher.com/BeerLog/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("beerlog"), kong.Description("Beer Log records beers you have tasted and publishes them to your site."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug, Stdout: os.Stdout})
	ctx.FatalIfErrorf(err)
}
