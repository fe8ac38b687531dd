package diag

import (
	"fmt"
	"io"
	"strings"

	"modernc.org/token"
)

const (
	colorRed   = "\033[31m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
	colorReset = "\033[0m"
)

// Formatter renders diagnostics with the offending source line underneath.
type Formatter struct {
	Color bool
	file  *token.File
	src   []byte
}

// NewFormatter returns a Formatter for diagnostics about src. A nil src
// renders headers only.
func NewFormatter(filename string, src []byte, color bool) *Formatter {
	f := &Formatter{Color: color, src: src}
	if src != nil {
		f.file = token.NewFile(filename, len(src))
		f.file.SetLinesForContent(src)
	}
	return f
}

// Line returns the text of a 1-based source line without its newline.
func (f *Formatter) Line(n int) (string, bool) {
	if f.file == nil || n < 1 || n > f.file.LineCount() {
		return "", false
	}
	start := f.file.Offset(f.file.LineStart(n))
	end := len(f.src)
	if n < f.file.LineCount() {
		end = f.file.Offset(f.file.LineStart(n + 1))
	}
	return strings.TrimRight(string(f.src[start:end]), "\r\n"), true
}

// Format writes d and, when the line is known, a numbered snippet with a
// caret under the column.
func (f *Formatter) Format(w io.Writer, d Diagnostic) {
	header := d.String()
	if f.Color {
		header = colorBold + colorRed + header + colorReset
	}
	fmt.Fprintln(w, header)

	text, ok := f.Line(d.Pos.Line)
	if !ok {
		return
	}
	gutter := fmt.Sprintf("%4d | ", d.Pos.Line)
	if f.Color {
		fmt.Fprintf(w, "%s%s%s%s\n", colorDim, gutter, colorReset, text)
	} else {
		fmt.Fprintf(w, "%s%s\n", gutter, text)
	}
	if d.Pos.Column > 0 {
		pad := strings.Repeat(" ", len(gutter)+d.Pos.Column-1)
		fmt.Fprintf(w, "%s^\n", pad)
	}
}

// FormatAll writes every diagnostic of l in order.
func (f *Formatter) FormatAll(w io.Writer, l *List) {
	for _, d := range l.All() {
		f.Format(w, d)
	}
}
