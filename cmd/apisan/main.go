// Command apisan mines API-misuse bugs from a symbolic-execution trace
// corpus. It mirrors bin/main.py's two-subcommand shape (build, check),
// assembled the way the teacher's cmd/lci/main.go assembles its
// urfave/cli App: global profiling flags handled in Before, one Action
// function per (sub)command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/apisan/internal/buildcmd"
	"github.com/standardbeagle/apisan/internal/check"
	"github.com/standardbeagle/apisan/internal/config"
	"github.com/standardbeagle/apisan/internal/diag"
	"github.com/standardbeagle/apisan/internal/explore"
	"github.com/standardbeagle/apisan/internal/rank"
	"github.com/standardbeagle/apisan/internal/report"
	"github.com/standardbeagle/apisan/internal/store"
	"github.com/standardbeagle/apisan/internal/trace"
	"github.com/standardbeagle/apisan/internal/version"
)

var cleanupFuncs []func()

func main() {
	app := &cli.App{
		Name:    "apisan",
		Usage:   "mine API-misuse bugs from a symbolic-execution trace corpus",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:   "profile-cpu",
				Usage:  "write a CPU profile to this file for the duration of the run",
				Hidden: true,
			},
		},
		Commands: []*cli.Command{
			buildCommand(),
			checkCommand(),
		},
		Before: func(c *cli.Context) error {
			if path := c.String("profile-cpu"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create cpu profile: %w", err)
				}
				if err := pprof.StartCPUProfile(f); err != nil {
					f.Close()
					return fmt.Errorf("start cpu profile: %w", err)
				}
				cleanupFuncs = append(cleanupFuncs, func() {
					pprof.StopCPUProfile()
					f.Close()
				})
			}
			return nil
		},
	}

	defer func() {
		for _, cleanup := range cleanupFuncs {
			cleanup()
		}
	}()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "apisan: %v\n", err)
		os.Exit(1)
	}
}

// buildCommand wraps the extractor-enabled scan-build invocation
// (internal/buildcmd), matching bin/main.py's add_build_command/handle_build.
func buildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "make a symbolic context database",
		ArgsUsage: "<cmds...>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scan-build", Usage: "path to the scan-build binary"},
			&cli.StringFlag{Name: "clang", Usage: "path to the clang binary used as the analyzer"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("usage: apisan build <cmds...>", 1)
			}
			opts := buildcmd.Options{
				ScanBuildPath: c.String("scan-build"),
				ClangPath:     c.String("clang"),
			}
			return buildcmd.Run(c.Context, opts, c.Args().Slice())
		},
	}
}

// checkCommand runs one checker over a trace corpus, matching
// bin/main.py's add_check_command/handle_check, extended with
// --parallel/--watch/--json per SPEC_FULL.md §2.3.
func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "check for an API misuse pattern",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "checker",
				Usage:    fmt.Sprintf("checker to run (%v)", check.Names()),
				Required: true,
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "trace corpus directory (default: ./as-out)",
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "minimum evidence score [threshold, 1) to report a bug",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "parallel",
				Usage: "explore with one worker per file",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "keep running, re-analyzing when the corpus changes",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print bugs as a JSON array instead of text",
			},
			&cli.StringFlag{
				Name:   "profile-cpu",
				Usage:  "write a CPU profile to this file for the duration of the run",
				Hidden: true,
			},
		},
		Action: runCheck,
	}
}

func runCheck(c *cli.Context) error {
	checkerName := c.String("checker")
	checker, ok := check.Lookup(checkerName)
	if !ok {
		return cli.Exit(fmt.Sprintf("unknown checker %q (have: %v)", checkerName, check.Names()), 1)
	}

	db := c.String("db")
	if db == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		db = filepath.Join(cwd, "as-out")
	}

	cfg := config.Default(db)
	if loaded, err := config.LoadKDL(db); err != nil {
		return fmt.Errorf("load .apisan.kdl: %w", err)
	} else if loaded != nil {
		cfg = loaded
	}
	if threshold := c.Float64("threshold"); threshold > 0 {
		cfg.Analysis.Threshold = threshold
	}

	if _, err := rank.LoadOverrides(db); err != nil {
		return fmt.Errorf("load .apisan-keywords.toml: %w", err)
	}
	rank.Configure(cfg.Analysis.FuzzyKeywords)

	exp := explore.New(checker, trace.NewReader(nil), cfg)
	formatter := report.NewFormatter(outputFormat(c), checkerName)

	if c.Bool("watch") {
		ctx, cancel := context.WithCancel(c.Context)
		defer cancel()
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		return exp.Watch(ctx, db, func(bugs []store.BugReport, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "apisan: %v\n", err)
			}
			_ = formatter.Write(os.Stdout, bugs)
		})
	}

	var (
		bugs []store.BugReport
		err  error
	)
	if c.Bool("parallel") {
		bugs, err = exp.ExploreParallel(c.Context, db)
	} else {
		bugs, err = exp.Explore(c.Context, db)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "apisan: %v\n", err)
	}

	diag.LogExplore("check %s: %d bugs found", checkerName, len(bugs))
	if werr := formatter.Write(os.Stdout, bugs); werr != nil {
		return werr
	}

	if err != nil {
		return cli.Exit("", 1)
	}
	return nil
}

func outputFormat(c *cli.Context) report.Format {
	if c.Bool("json") {
		return report.JSON
	}
	return report.Text
}
