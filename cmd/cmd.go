package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/repr"
	"github.com/rubiojr/clog/ast"
	"github.com/rubiojr/clog/config"
	"github.com/rubiojr/clog/diag"
	"github.com/rubiojr/clog/lexer"
	"github.com/rubiojr/clog/parser"
	"github.com/urfave/cli/v3"
	"github.com/ztrue/tracerr"
	"golang.org/x/term"
)

// exitStatus carries a process status out of a command action without
// printing anything more.
type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

type app struct {
	stdout io.Writer
	stderr io.Writer
	cfg    config.Config
}

// Execute runs the clog CLI with the given version string and exits.
func Execute(version string) {
	os.Exit(Run(context.Background(), os.Args, os.Stdout, os.Stderr, version))
}

// Run runs the CLI with args and returns the process status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, version string) int {
	a := &app{stdout: stdout, stderr: stderr, cfg: config.Default()}
	err := a.command(version).Run(ctx, args)
	var status exitStatus
	switch {
	case err == nil:
		return 0
	case errors.As(err, &status):
		return int(status)
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return parser.ExitRead
}

func (a *app) command(version string) *cli.Command {
	return &cli.Command{
		Name:                   "clog",
		Usage:                  "Parse, check and reduce clog programs",
		Version:                version,
		UseShortOptionHandling: true,
		Writer:                 a.stdout,
		ErrWriter:              a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Read settings from this YAML file instead of " + config.DefaultFile,
			},
			&cli.IntFlag{
				Name:  "max-passes",
				Usage: "Give up reducing after this many passes",
			},
			&cli.IntFlag{
				Name:  "node-limit",
				Usage: "Fail with out of memory after building this many nodes (0 for none)",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Trace reduction passes and read errors to stderr",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
			},
		},
		Before: a.before,
		// Allow `clog file.clog` as shorthand for `clog check file.clog`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				return a.checkAction(ctx, cmd)
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "Parse and reduce a file, reporting every error",
				ArgsUsage: "<file.clog>",
				Action:    a.checkAction,
			},
			{
				Name:      "emit",
				Usage:     "Print the reduced program",
				ArgsUsage: "<file.clog>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-reduce",
						Usage: "Print the desugared tree without reducing it",
					},
				},
				Action: a.emitAction,
			},
			{
				Name:      "dump",
				Usage:     "Dump the reduced syntax tree",
				ArgsUsage: "<file.clog>",
				Action:    a.dumpAction,
			},
			{
				Name:      "tokens",
				Usage:     "Print the token stream of a file",
				ArgsUsage: "<file.clog>",
				Action:    a.tokensAction,
			},
			{
				Name:   "repl",
				Usage:  "Reduce statements interactively",
				Action: a.replAction,
			},
		},
	}
}

// before resolves the configuration: defaults, config file, environment,
// then flags.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if cmd.IsSet("max-passes") {
		if n := cmd.Int("max-passes"); n > 0 {
			cfg.MaxPasses = n
		} else {
			return ctx, fmt.Errorf("--max-passes must be positive, got %d", n)
		}
	}
	if cmd.IsSet("node-limit") {
		cfg.NodeLimit = cmd.Int("node-limit")
	}
	if cmd.Bool("trace") {
		cfg.Trace = true
	}
	if cmd.Bool("no-color") {
		cfg.Color = false
	}
	a.cfg = cfg
	return ctx, nil
}

func (a *app) options(reduce bool) parser.Options {
	opts := parser.Options{
		NodeLimit: a.cfg.NodeLimit,
		Reduce:    reduce,
		MaxPasses: a.cfg.MaxPasses,
	}
	if a.cfg.Trace {
		opts.Trace = a.stderr
	}
	return opts
}

// color reports whether diagnostics on stderr may use ANSI colors.
func (a *app) color() bool {
	f, ok := a.stderr.(*os.File)
	return a.cfg.Color && ok && term.IsTerminal(int(f.Fd()))
}

func fileArg(cmd *cli.Command) (string, error) {
	if cmd.NArg() < 1 {
		return "", fmt.Errorf("usage: clog %s <file.clog>", cmd.Name)
	}
	return cmd.Args().First(), nil
}

// source reads the file named on the command line. Read failures are
// printed here and returned as an exit status.
func (a *app) source(cmd *cli.Command) (string, []byte, error) {
	path, err := fileArg(cmd)
	if err != nil {
		return "", nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		a.readError(tracerr.Wrap(err))
		return path, nil, exitStatus(parser.ExitRead)
	}
	return path, src, nil
}

func (a *app) readError(err error) {
	if !a.cfg.Trace {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return
	}
	if a.color() {
		fmt.Fprintln(a.stderr, tracerr.SprintSourceColor(err))
	} else {
		fmt.Fprintln(a.stderr, tracerr.SprintSource(err))
	}
}

// parse reads and parses the file named on the command line. A result that
// is not OK has already been reported.
func (a *app) parse(cmd *cli.Command, reduce bool) (*parser.Result, error) {
	path, src, err := a.source(cmd)
	if err != nil {
		return nil, err
	}
	res := parser.Parse(path, bytes.NewReader(src), a.options(reduce))
	if res.OK() {
		return res, nil
	}
	if res.ReadErr != nil {
		a.readError(res.ReadErr)
	} else {
		res.Diagnostics.Sort()
		diag.NewFormatter(path, src, a.color()).FormatAll(a.stderr, &res.Diagnostics)
	}
	return res, exitStatus(res.ExitCode())
}

func (a *app) checkAction(ctx context.Context, cmd *cli.Command) error {
	if _, err := a.parse(cmd, true); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Success!")
	return nil
}

func (a *app) emitAction(ctx context.Context, cmd *cli.Command) error {
	res, err := a.parse(cmd, !cmd.Bool("no-reduce"))
	if err != nil {
		return err
	}
	fmt.Fprint(a.stdout, ast.Format(res.Program))
	return nil
}

func (a *app) dumpAction(ctx context.Context, cmd *cli.Command) error {
	res, err := a.parse(cmd, true)
	if err != nil {
		return err
	}
	repr.New(a.stdout, repr.Indent("  "), repr.OmitEmpty(true)).Println(res.Program)
	return nil
}

func (a *app) tokensAction(ctx context.Context, cmd *cli.Command) error {
	path, src, err := a.source(cmd)
	if err != nil {
		return err
	}
	toks, err := lexer.All(path, bytes.NewReader(src))
	for _, t := range toks {
		fmt.Fprintf(a.stdout, "%d:%d\t%s\n", t.Line, t.Column, t)
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "%s:%v\n", path, err)
		return exitStatus(parser.ExitRead)
	}
	return nil
}
