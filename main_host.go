//go:build !tinygo

package main

import (
	"os"

	"caekeeb/internal/buildinfo"
	"caekeeb/internal/cmd"
	"caekeeb/internal/logging"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	jsonPaths, yamlPaths, tomlPaths := cmd.ConfigPaths(cmd.FindConfig(os.Args[1:]))

	var cli cmd.CLI
	ctx := kong.Parse(&cli,
		kong.Name("caekeeb"),
		kong.Description("Keyboard firmware simulator ("+buildinfo.Short()+")"),
		kong.UsageOnError(),
		kong.Vars{"version": buildinfo.Long()},
		// Flags override values from the configuration file.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closers, err := logging.SetupLogger(cli.Log.Level, cli.Log.Format, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to set up logging: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	ctx.Bind(logger, cli.Config)
	ctx.FatalIfErrorf(ctx.Run())
}
