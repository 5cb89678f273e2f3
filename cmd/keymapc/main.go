// Command keymapc compiles a YAML or TOML key map into a Go source file.
//
//	keymapc -o app/keymap_default.go keymaps/default.yaml
package main

import (
	"caekeeb/internal/cmd"

	"github.com/alecthomas/kong"
)

func main() {
	var gen cmd.KeymapGen
	ctx := kong.Parse(&gen,
		kong.Name("keymapc"),
		kong.Description("Compile a key map file into Go source."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
