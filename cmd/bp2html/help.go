package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bp2html [flags] [input...]")
	fmt.Fprintln(w, "       bp2html <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render API Blueprint documents to HTML, or to PDF when the output ends in .pdf.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -i, --input <path>        Input file, directory, or - for stdin")
	fmt.Fprintln(w, "  -o, --output <path>       Output file, directory, or - for stdout")
	fmt.Fprintln(w, "  -c, --compile             Write the input with includes expanded, do not render")
	fmt.Fprintln(w, "  -l, --list                List available templates")
	fmt.Fprintln(w, "      --pdf                 Derive .pdf output names instead of .html")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers for several inputs (0 = auto)")
	fmt.Fprintln(w, "      --timeout <d>         PDF page load timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Template:")
	fmt.Fprintln(w, "  -t, --template <s>        Template name or file path (default: default)")
	fmt.Fprintln(w, "      --template-dir <dir>  Directory replacing the built-in templates")
	fmt.Fprintln(w, "      --include-path <dir>  Directory include paths are resolved from")
	fmt.Fprintln(w, "      --no-filter           Do not normalize line endings and tabs")
	fmt.Fprintln(w, "      --no-condense         List every action in the navigation")
	fmt.Fprintln(w, "      --full-width          Use the full window width")
	fmt.Fprintln(w, "      --local <key=value>   Template local, value parsed as YAML (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "      --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log format: console, json, pretty")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  doctor     Check PDF output prerequisites")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Includes:")
	fmt.Fprintln(w, "  <!-- include(path/to/file.apib) -->  is replaced by the file, indented like the marker.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  BP2HTML_CONFIG, BP2HTML_TEMPLATE, BP2HTML_TEMPLATE_DIR, BP2HTML_INCLUDE_PATH,")
	fmt.Fprintln(w, "  BP2HTML_OUTPUT_DIR, BP2HTML_TIMEOUT, BP2HTML_WORKERS")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX (PDF output)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'bp2html help <command>' for details on a specific command.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render":
		printUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: bp2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: bp2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
