package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/rill/ast"
	"github.com/pontaoski/rill/codegen"
	"github.com/pontaoski/rill/config"
	"github.com/pontaoski/rill/pipeline"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/rill", "main")

var (
	settings = config.Default()
	trace    bool
)

func report(err error) {
	if trace {
		tracerr.PrintSourceColor(err)
		return
	}
	fmt.Fprintln(os.Stderr, tracerr.Unwrap(err))
}

// setup loads the config file, lets the command line flags override it and
// configures logging.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("skip-check") {
		cfg.SkipCheck = c.Bool("skip-check")
	}
	if c.IsSet("dump-scopes") {
		cfg.DumpScopes = c.Bool("dump-scopes")
	}
	if c.IsSet("freestanding") {
		cfg.Freestanding = c.Bool("freestanding")
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, level >= capnslog.DEBUG))
	capnslog.SetGlobalLogLevel(level)

	settings = cfg
	trace = c.Bool("trace")

	plog.Debugf("settings: %s", repr.String(settings))
	return nil
}

// source returns the file named on the command line, or the configured entry.
func source(c *cli.Context) (string, *os.File, error) {
	name := c.Args().First()
	if name == "" {
		name = settings.Entry
	}

	fi, err := os.Open(name)
	if err != nil {
		return name, nil, tracerr.Wrap(err)
	}
	return name, fi, nil
}

func options(name string) pipeline.Options {
	return pipeline.Options{
		Filename:     name,
		SkipCheck:    settings.SkipCheck,
		Freestanding: settings.Freestanding,
	}
}

func main() {
	app := &cli.App{
		Name:  "rill",
		Usage: "rill interpreter and compiler",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: config.Filename,
				Usage: "project file to read settings from",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "one of CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG, TRACE",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print errors with the stack trace of where they were raised",
			},
			&cli.BoolFlag{
				Name:  "skip-check",
				Usage: "run programs without type checking them",
			},
			&cli.BoolFlag{
				Name:  "dump-scopes",
				Usage: "print the global scopes after running",
			},
			&cli.BoolFlag{
				Name:  "freestanding",
				Usage: "emit a _rill_start entry point that needs no C runtime",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "write a project file",
				Action: func(c *cli.Context) error {
					path := c.String("config")
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("%s already exists", path)
					}

					cfg := config.Default()
					if entry := c.Args().First(); entry != "" {
						cfg.Entry = entry
					}

					return config.Write(path, cfg)
				},
			},
			{
				Name:  "run",
				Usage: "check and run a file",
				Action: func(c *cli.Context) error {
					name, fi, err := source(c)
					if err != nil {
						return err
					}
					defer fi.Close()

					s := pipeline.NewSession(options(name))
					v, err := s.Eval(fi)
					if settings.DumpScopes {
						s.Dump(os.Stderr)
					}
					if err != nil {
						return err
					}

					if v != nil {
						fmt.Println(v)
					}
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "type check a file",
				Action: func(c *cli.Context) error {
					name, fi, err := source(c)
					if err != nil {
						return err
					}
					defer fi.Close()

					t, err := pipeline.Check(fi, options(name))
					if err != nil {
						return err
					}

					fmt.Printf("%s: ok, %s\n", name, t)
					return nil
				},
			},
			{
				Name:  "parse",
				Usage: "dump the syntax tree of a file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "short",
						Usage: "print the tree in prefix form instead",
					},
				},
				Action: func(c *cli.Context) error {
					name, fi, err := source(c)
					if err != nil {
						return err
					}
					defer fi.Close()

					root, err := pipeline.Parse(fi, name)
					if err != nil {
						return err
					}

					if c.Bool("short") {
						fmt.Println(ast.String(root))
					} else {
						repr.Println(root)
					}
					return nil
				},
			},
			{
				Name:  "tokens",
				Usage: "dump the tokens of a file",
				Action: func(c *cli.Context) error {
					name, fi, err := source(c)
					if err != nil {
						return err
					}
					defer fi.Close()

					toks, err := pipeline.Tokens(fi, name)
					if err != nil {
						return err
					}

					for _, tok := range toks {
						fmt.Println(tok)
					}
					return nil
				},
			},
			{
				Name:  "emit",
				Usage: "print the LLVM IR of a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
					},
				},
				Action: func(c *cli.Context) error {
					name, fi, err := source(c)
					if err != nil {
						return err
					}
					defer fi.Close()

					m, err := pipeline.Emit(fi, options(name))
					if err != nil {
						return err
					}

					if out := c.String("output"); out != "" {
						return tracerr.Wrap(ioutil.WriteFile(out, []byte(m.String()), 0644))
					}
					fmt.Print(m.String())
					return nil
				},
			},
			{
				Name:  "build",
				Usage: "compile a file to an executable with clang",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
					},
				},
				Action: func(c *cli.Context) error {
					name, fi, err := source(c)
					if err != nil {
						return err
					}
					defer fi.Close()

					out := c.String("output")
					if out == "" {
						out = strings.TrimSuffix(name, ".rill")
					}

					m, err := pipeline.Emit(fi, options(name))
					if err != nil {
						return err
					}

					tmp, err := ioutil.TempFile("", "*.ll")
					if err != nil {
						return tracerr.Wrap(err)
					}
					defer os.Remove(tmp.Name())
					defer tmp.Close()

					_, err = io.Copy(tmp, strings.NewReader(m.String()))
					if err != nil {
						return tracerr.Wrap(err)
					}

					cmd := exec.Command("clang", "-o", out)
					if settings.Freestanding {
						cmd.Args = append(cmd.Args, "-nostdlib", "-Wl,-e,_rill_start")
					}
					cmd.Args = append(cmd.Args, tmp.Name())

					cmd.Stdout = os.Stdout
					cmd.Stderr = os.Stderr

					plog.Infof("running %s", strings.Join(cmd.Args, " "))
					return tracerr.Wrap(cmd.Run())
				},
			},
			{
				Name:  "signatures",
				Usage: "dump the function signatures recorded in emitted IR",
				Action: func(c *cli.Context) error {
					sigs, err := codegen.ReadSignaturesFile(c.Args().First())
					if err != nil {
						return tracerr.Wrap(err)
					}

					repr.Println(sigs)
					return nil
				},
			},
			{
				Name:  "repl",
				Usage: "evaluate statements interactively",
				Action: func(c *cli.Context) error {
					return repl(options("repl"))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		report(err)
		os.Exit(1)
	}
}
