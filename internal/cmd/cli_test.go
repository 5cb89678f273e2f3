package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"caekeeb/internal/config"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func TestFindConfig(t *testing.T) {
	t.Setenv("CAEKEEB_CONFIG", "")
	assert.Equal(t, "a.yaml", FindConfig([]string{"run", "--config=a.yaml"}))
	assert.Equal(t, "b.toml", FindConfig([]string{"--config", "b.toml", "run"}))
	assert.Equal(t, "", FindConfig([]string{"run", "--config"}))

	t.Setenv("CAEKEEB_CONFIG", "env.json")
	assert.Equal(t, "env.json", FindConfig([]string{"run"}))
}

func TestConfigPaths(t *testing.T) {
	j, y, tm := ConfigPaths("kb.yml")
	assert.Empty(t, j)
	assert.Equal(t, []string{"kb.yml"}, y)
	assert.Empty(t, tm)

	j, y, tm = ConfigPaths("kb.toml")
	assert.Equal(t, []string{"kb.toml"}, tm)
	assert.Empty(t, j)
	assert.Empty(t, y)

	j, _, _ = ConfigPaths("kb.conf")
	assert.Equal(t, []string{"kb.conf"}, j)

	j, y, tm = ConfigPaths("")
	assert.Empty(t, j)
	assert.Empty(t, y)
	assert.Empty(t, tm)
}

const yamlConfig = `
matrix:
  rows: 3
  cols: 4
  column-order: [1, 2, 3, 0]
debounce:
  threshold: 7
led:
  mode: chase
  chase2: 50
display:
  timeout: 250
tick:
  period: 2ms
  watchdog-timeout: 20ms
log:
  level: debug
`

const tomlConfig = `
[matrix]
rows = 3
cols = 4
column-order = [1, 2, 3, 0]

[debounce]
threshold = 7

[led]
mode = "chase"
chase2 = 50

[display]
timeout = 250

[tick]
period = "2ms"
watchdog-timeout = "20ms"

[log]
level = "debug"
`

const jsonConfig = `{
  "matrix_rows": 3,
  "matrix_cols": 4,
  "matrix_column_order": [1, 2, 3, 0],
  "debounce_threshold": 7,
  "led_mode": "chase",
  "led_chase2": 50,
  "display_timeout": 250,
  "tick_period": "2ms",
  "tick_watchdog_timeout": "20ms",
  "log_level": "debug"
}`

func fileConfig() config.Config {
	c := config.Default()
	c.Matrix.Rows = 3
	c.Matrix.Cols = 4
	c.Matrix.ColumnOrder = []int{1, 2, 3, 0}
	c.Debounce.Threshold = 7
	c.LED.Mode = "chase"
	c.LED.Chase2 = 50
	c.Display.Timeout = 250
	c.Tick.Period = 2 * time.Millisecond
	c.Tick.WatchdogTimeout = 20 * time.Millisecond
	return c
}

func parseWithFile(t *testing.T, name, body string, args ...string) (CLI, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	jsonPaths, yamlPaths, tomlPaths := ConfigPaths(path)
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("caekeeb"),
		kong.Exit(func(int) { t.Fatalf("kong exited") }),
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)
	if err != nil {
		return cli, err
	}
	_, err = parser.Parse(args)
	return cli, err
}

func TestConfigFilesSetFirmwareSettings(t *testing.T) {
	for _, tt := range []struct{ name, body string }{
		{"kb.yaml", yamlConfig},
		{"kb.toml", tomlConfig},
		{"kb.json", jsonConfig},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cli, err := parseWithFile(t, tt.name, tt.body, "run", "--headless")
			require.NoError(t, err)
			assert.Equal(t, fileConfig(), cli.Config)
			assert.Equal(t, "debug", cli.Log.Level)
			assert.True(t, cli.Run.Headless)
		})
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	cli, err := parseWithFile(t, "kb.yaml", yamlConfig, "run", "--matrix-rows=2", "--led-chase2=9")
	require.NoError(t, err)
	assert.Equal(t, 2, cli.Matrix.Rows)
	assert.Equal(t, uint16(9), cli.LED.Chase2)
	assert.Equal(t, 4, cli.Matrix.Cols, "still from the file")
}

func TestTOMLRejectsUnknownKeys(t *testing.T) {
	_, err := parseWithFile(t, "kb.toml", "[matrix]\nrowz = 3\n", "run")
	assert.ErrorContains(t, err, "unknown configuration keys")
}

func TestYAMLTagsMatchFlagLayout(t *testing.T) {
	c := config.Default()
	require.NoError(t, yaml.Unmarshal([]byte(yamlConfig), &c))
	assert.Equal(t, fileConfig(), c)
}
