package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"caekeeb/internal/keymap"
)

// Keymap groups the key map tools.
type Keymap struct {
	Check KeymapCheck `cmd:"" help:"Parse a key map file and report the first problem."`
	Gen   KeymapGen   `cmd:"" help:"Compile a key map file into Go source."`
}

type KeymapCheck struct {
	File string `arg:"" help:"Key map file (.yaml, .yml or .toml)." type:"existingfile"`
}

func (c *KeymapCheck) Run() error {
	f, err := keymap.Load(c.File)
	if err != nil {
		return err
	}
	layers, err := f.Compile()
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}
	fmt.Printf("%s: %d layers of %dx%d keys\n", f.Name, len(layers), len(layers[0]), len(layers[0][0]))
	return nil
}

type KeymapGen struct {
	File    string `arg:"" help:"Key map file (.yaml, .yml or .toml)." type:"existingfile"`
	Output  string `short:"o" help:"Output file; stdout when empty."`
	Package string `help:"Go package name." default:"app"`
	Var     string `help:"Go variable name." default:"defaultLayers"`
}

func (g *KeymapGen) Run() error {
	f, err := keymap.Load(g.File)
	if err != nil {
		return err
	}
	layers, err := f.Compile()
	if err != nil {
		return fmt.Errorf("%s: %w", g.File, err)
	}
	names := make([]string, len(f.Layers))
	for i, l := range f.Layers {
		names[i] = l.Name
	}

	var w io.Writer = os.Stdout
	if g.Output != "" {
		out, err := os.Create(g.Output)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}
	return keymap.Generate(w, layers, keymap.GenOptions{
		Package:    g.Package,
		Var:        g.Var,
		Source:     filepath.ToSlash(g.File),
		LayerNames: names,
	})
}
