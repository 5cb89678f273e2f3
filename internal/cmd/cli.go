package cmd

import (
	"os"
	"strings"

	"caekeeb/internal/config"

	"github.com/alecthomas/kong"
)

// Log configures the host logger.
type Log struct {
	Level  string `help:"Log level (trace, debug, info, warn, error)." default:"info" enum:"trace,debug,info,warn,error"`
	Format string `help:"Log format; auto picks text on a terminal and JSON otherwise." default:"auto" enum:"auto,text,json"`
	File   string `help:"Also write every record to this file."`
}

// CLI is the caekeeb host command line. The firmware settings are global
// flags so config files can hold them at the top level.
type CLI struct {
	config.Config `embed:""`

	Log        Log              `embed:"" prefix:"log-"`
	ConfigFile string           `name:"config" help:"Configuration file (.json, .yaml, .yml or .toml)." type:"path"`
	Version    kong.VersionFlag `help:"Print the build version and exit."`

	Run    Run    `cmd:"" help:"Run the keyboard simulator."`
	Keymap Keymap `cmd:"" help:"Key map tools."`
}

// ConfigPaths routes a --config file to the loader for its extension.
func ConfigPaths(path string) (jsonPaths, yamlPaths, tomlPaths []string) {
	switch {
	case path == "":
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		yamlPaths = append(yamlPaths, path)
	case strings.HasSuffix(path, ".toml"):
		tomlPaths = append(tomlPaths, path)
	default:
		jsonPaths = append(jsonPaths, path)
	}
	return jsonPaths, yamlPaths, tomlPaths
}

// FindConfig returns the --config value before kong parses the arguments,
// falling back to $CAEKEEB_CONFIG.
func FindConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("CAEKEEB_CONFIG")
}
