package debug

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/haltroy/fluxion-go/node"
)

// Dump writes a one-line-per-node indented summary of root's subtree
// to w, for inspecting a tree a codec produced or consumed. Output is
// ANSI-colored when w is a terminal (detected via go-isatty) and plain
// otherwise, so piping Dump's output to a file or CI log never embeds
// escape codes.
func Dump(w io.Writer, root *node.Node) {
	dumpNode(w, root, 0, shouldColor(w))
}

func shouldColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

var (
	nameColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	valueColor = color.New(color.FgYellow).SprintFunc()
	attrColor  = color.New(color.FgGreen).SprintFunc()
)

func dumpNode(w io.Writer, n *node.Node, depth int, colored bool) {
	indent := strings.Repeat("  ", depth)
	name := n.Name()
	if name == "" {
		name = "<anon>"
	}
	nameOut := name
	if colored {
		nameOut = nameColor(name)
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, nameOut, formatValue(n.Value(), colored))
	for _, a := range n.Attributes() {
		aname := a.Name()
		if aname == "" {
			aname = "<anon>"
		}
		aOut := "@" + aname
		if colored {
			aOut = attrColor("@" + aname)
		}
		fmt.Fprintf(w, "%s  %s %s\n", indent, aOut, formatValue(a.Value(), colored))
	}
	for _, c := range n.Children() {
		dumpNode(w, c, depth+1, colored)
	}
}

func formatValue(v node.Value, colored bool) string {
	s := fmt.Sprintf("<%s> %s", v.Type(), literal(v))
	if colored {
		return valueColor(s)
	}
	return s
}

func literal(v node.Value) string {
	switch v.Type() {
	case node.TypeNull:
		return "null"
	case node.TypeTrue, node.TypeFalse:
		return fmt.Sprintf("%v", v.Bool())
	case node.TypeU8:
		return fmt.Sprintf("%d", v.U8())
	case node.TypeI8:
		return fmt.Sprintf("%d", v.I8())
	case node.TypeU16Char:
		return fmt.Sprintf("%q", rune(v.U16Char()))
	case node.TypeI16:
		return fmt.Sprintf("%d", v.I16())
	case node.TypeU16:
		return fmt.Sprintf("%d", v.U16())
	case node.TypeI32:
		return fmt.Sprintf("%d", v.I32())
	case node.TypeU32:
		return fmt.Sprintf("%d", v.U32())
	case node.TypeI64:
		return fmt.Sprintf("%d", v.I64())
	case node.TypeU64:
		return fmt.Sprintf("%d", v.U64())
	case node.TypeF32:
		return fmt.Sprintf("%g", v.F32())
	case node.TypeF64:
		return fmt.Sprintf("%g", v.F64())
	case node.TypeString:
		return fmt.Sprintf("%q", v.Str())
	case node.TypeBytes:
		return fmt.Sprintf("%d bytes", len(v.Byt()))
	default:
		return "?"
	}
}
