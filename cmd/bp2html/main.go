package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// run dispatches args to a command and returns the process exit code.
// Anything that is not a command name renders.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Fprintf(env.Stdout, "bp2html %s\n", Version)
			return ExitSuccess
		case "help":
			return runHelp(args[1:], env)
		case "completion":
			return report(env.Stderr, runCompletion(args[1:], env), false)
		case "doctor":
			return runDoctorCmd(args[1:], env)
		}
	}

	flags, positional, err := parseRenderFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "%v\nRun 'bp2html --help' for usage.\n", err)
		return ExitUsage
	}

	setMaxProcs(flags.common.verbose, env.Stderr)

	return report(env.Stderr, runRender(ctx, positional, flags, env), flags.common.quiet)
}

// report prints err, with the source excerpt of parse errors unless quiet,
// and returns the matching exit code.
func report(w io.Writer, err error, quiet bool) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(w, err)
	if !quiet {
		printParseExcerpt(w, err)
	}
	return exitCodeFor(err)
}

// setMaxProcs configures GOMAXPROCS for the container CPU quota, which
// sizes the batch worker pool.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}
