package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rubiojr/clog/ast"
	"github.com/rubiojr/clog/diag"
	"github.com/rubiojr/clog/parser"
	"github.com/rubiojr/clog/scanner"
	"github.com/urfave/cli/v3"
)

const (
	historyFile = ".clog_history"
	promptMain  = "clog> "
	promptCont  = "  ... "
	replName    = "<repl>"
)

func (a *app) replAction(ctx context.Context, cmd *cli.Command) error {
	fmt.Fprintf(a.stdout, "clog %s. Type :quit to exit.\n", cmd.Root().Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readComplete(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(a.stdout)
			return nil
		}
		input := strings.TrimSpace(src)
		switch {
		case input == "":
			continue
		case strings.HasPrefix(input, ":"):
			if strings.ToLower(input) == ":quit" {
				return nil
			}
			fmt.Fprintln(a.stdout, "unknown command. Type :quit to exit.")
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		a.eval(src)
	}
}

// readComplete prompts until the collected lines close every bracket and
// block comment. It returns false at end of input.
func readComplete(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if src := b.String(); scanner.Complete(src) {
			return src, true
		}
	}
}

// eval parses and reduces one REPL input and prints the reduced statements
// or the diagnostics. A missing final semicolon is supplied.
func (a *app) eval(src string) {
	if st := scanner.Scan(src); st.LastCode != ';' && st.LastCode != '}' {
		src += ";"
	}
	res := parser.ParseSource(src, replName, a.options(true))
	if res.Err() != nil {
		res.Diagnostics.Sort()
		diag.NewFormatter(replName, []byte(src), a.color()).FormatAll(a.stderr, &res.Diagnostics)
		return
	}
	out := ast.Format(res.Program)
	if out == "" {
		out = "// nothing left\n"
	}
	fmt.Fprint(a.stdout, out)
}
