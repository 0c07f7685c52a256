// Package debug has helpers producing human readable dumps.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxText limits text shown by TextBlock, longer values are cut in the
// middle.
const MaxText = 80

// TreeWriter accumulates indented lines, two spaces per level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Node writes label followed by key=value pairs. Pairs are given as
// alternating keys and values, dangling key is written without value.
func (tw TreeWriter) Node(depth int, label string, pairs ...any) {
	tw.indent(depth)
	tw.w.WriteString(label)
	for i := 0; i < len(pairs); i += 2 {
		fmt.Fprintf(tw.w, " %v", pairs[i])
		if i+1 < len(pairs) {
			fmt.Fprintf(tw.w, "=%v", pairs[i+1])
		}
	}
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	if r := []rune(raw); len(r) > MaxText {
		half := MaxText / 2
		raw = string(r[:half]) + "…" + string(r[len(r)-half:])
	}
	return strconv.Quote(raw)
}
