package keymap

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"

	"caekeeb/core/keycode"
	"caekeeb/core/layout"
)

// GenOptions names the generated package and variable.
type GenOptions struct {
	Package string
	Var     string
	// Source is recorded in the generated header.
	Source string
	// LayerNames label each layer with a comment, when present.
	LayerNames []string
}

// Generate writes layers as a gofmt'd Go source file, so the board build
// carries the key map as static data without parsing anything at boot.
func Generate(w io.Writer, layers layout.Layers, opts GenOptions) error {
	if opts.Package == "" || opts.Var == "" {
		return fmt.Errorf("keymap: package and variable names are required")
	}
	var body bytes.Buffer
	fmt.Fprintf(&body, "var %s = layout.Layers{\n", opts.Var)
	for li, layer := range layers {
		if li < len(opts.LayerNames) && opts.LayerNames[li] != "" {
			fmt.Fprintf(&body, "// %d: %s\n", li, opts.LayerNames[li])
		}
		body.WriteString("{\n")
		for _, row := range layer {
			exprs := make([]string, len(row))
			for i, a := range row {
				exprs[i] = actionExpr(a)
			}
			fmt.Fprintf(&body, "{%s},\n", strings.Join(exprs, ", "))
		}
		body.WriteString("},\n")
	}
	body.WriteString("}\n")

	var src bytes.Buffer
	src.WriteString("// Code generated by keymapc")
	if opts.Source != "" {
		fmt.Fprintf(&src, " from %s", opts.Source)
	}
	src.WriteString(". DO NOT EDIT.\n\n")
	fmt.Fprintf(&src, "package %s\n\n", opts.Package)
	src.WriteString("import (\n")
	if bytes.Contains(body.Bytes(), []byte("keycode.")) {
		src.WriteString("\t\"caekeeb/core/keycode\"\n")
	}
	src.WriteString("\t\"caekeeb/core/layout\"\n)\n\n")
	src.Write(body.Bytes())

	out, err := format.Source(src.Bytes())
	if err != nil {
		return fmt.Errorf("keymap: generated source: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func codeExpr(c keycode.Code) string {
	if name := c.String(); name != "" {
		return "keycode." + name
	}
	return fmt.Sprintf("keycode.Code(0x%02X)", uint8(c))
}

func actionExpr(a layout.Action) string {
	switch a.Kind {
	case layout.Trans:
		return "layout.T"
	case layout.KeyCode:
		if a.NCodes == 1 {
			return "layout.K(" + codeExpr(a.Codes[0]) + ")"
		}
		codes := make([]string, a.NCodes)
		for i := range codes {
			codes[i] = codeExpr(a.Codes[i])
		}
		return "layout.Chord(" + strings.Join(codes, ", ") + ")"
	case layout.LayerHold:
		return fmt.Sprintf("layout.L(%d)", a.Layer)
	case layout.DefaultLayer:
		return fmt.Sprintf("layout.D(%d)", a.Layer)
	case layout.HoldTap:
		ht := a.HoldTap
		return fmt.Sprintf("layout.HT(%s, %s, %d, %t)", actionExpr(ht.Hold), actionExpr(ht.Tap), ht.Timeout, ht.HoldOnOtherPress)
	case layout.CustomAction:
		switch a.Custom.Kind {
		case layout.ModeSet:
			return fmt.Sprintf("layout.SetMode(%d)", a.Custom.Arg)
		case layout.ModeNext:
			return "layout.C(layout.ModeNext)"
		case layout.ModePrev:
			return "layout.C(layout.ModePrev)"
		case layout.LightsToggle:
			return "layout.C(layout.LightsToggle)"
		case layout.Bootloader:
			return "layout.C(layout.Bootloader)"
		}
	}
	return "layout.No"
}
