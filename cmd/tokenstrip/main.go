package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/pkg/cli"
)

const tokenstripVersion = "0.4.0"

const helpText = `
Usage:
  tokenstrip [options] [files]

Options:
  --transforms=...          Comma-separated transforms to apply (jsx,
                            typescript, flow, imports)
  --outdir=...              The output directory (required for multiple files)
  --sourcemap               Emit a source map
  --sourcefile=...          Set the file name for stdin (errors and source maps)
  --jobs=...                How many files to transform at once (default: CPU count)
  --color=...               Force use of color terminal escapes (true or false)
  --log-level=...           Set the log level (debug, info, warning, error,
                            silent, default info)

Advanced options:
  --version                                 Print the current version and exit (` + tokenstripVersion + `)
  --options=...                             Read transform options from a JSON file
  --out-extension=...                       The extension of output files (default .js)
  --disable-es-transforms                   Keep optional chaining, nullish coalescing,
                                            numeric separators and optional catch bindings
  --jsx-runtime=...                         Only "preserve" is supported
  --keep-unused-imports                     Only remove imports marked with "type"
  --preserve-dynamic-import                 Don't convert "import()" to "require()"
  --inject-create-require-for-import-require  Use "createRequire" for
                                            "import x = require(...)" in ES modules
  --enable-legacy-typescript-module-interop Use TypeScript's interop without
                                            "esModuleInterop"
  --enable-legacy-babel5-module-interop     Set "module.exports" for a lone default export
  --dynamic-import-function=...             Call this instead of "import()"
  --timeout=...                             Stop starting new files after this long (e.g. 30s)
  --error-limit=...                         Maximum error count or 0 to disable (default 10)
  --log-format=...                          The format of debug logs (console or json)
  --format-tokens[=json]                    Print the tokens instead of the code

Examples:
  # Remove types from a single file
  tokenstrip --transforms=typescript input.ts > output.js

  # Convert a source tree to CommonJS with source maps
  tokenstrip --transforms=typescript,imports --sourcemap --outdir=dist src/*.ts

  # Provide input via stdin, get output via stdout
  tokenstrip --transforms=flow,jsx < input.js > output.js
`

func main() {
	osArgs := os.Args[1:]
	traceFile := ""
	cpuprofileFile := ""

	// Do an initial scan over the argument list
	argsEnd := 0
	for _, arg := range osArgs {
		switch {
		// Show help if a common help flag is provided
		case arg == "-h", arg == "-help", arg == "--help", arg == "/?":
			fmt.Fprintf(os.Stderr, "%s\n", helpText)
			os.Exit(0)

		// Special-case the version flag here
		case arg == "--version":
			fmt.Fprintf(os.Stderr, "%s\n", tokenstripVersion)
			os.Exit(0)

		case strings.HasPrefix(arg, "--trace="):
			traceFile = arg[len("--trace="):]

		case strings.HasPrefix(arg, "--cpuprofile="):
			cpuprofileFile = arg[len("--cpuprofile="):]

		default:
			// Strip any arguments that were handled above
			osArgs[argsEnd] = arg
			argsEnd++
		}
	}
	osArgs = osArgs[:argsEnd]

	// Print help text when there are no arguments
	if len(osArgs) == 0 && logger.GetTerminalInfo(os.Stdin).IsTTY {
		fmt.Fprintf(os.Stderr, "%s\n", helpText)
		os.Exit(0)
	}

	// Capture the defer statements below so the profiles are written before exiting
	exitCode := 1
	func() {
		// To view a CPU trace, use "go tool trace [file]"
		if traceFile != "" {
			f, err := os.Create(traceFile)
			if err != nil {
				logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
					"Failed to create trace file: %s", err.Error()))
				return
			}
			defer f.Close()
			trace.Start(f)
			defer trace.Stop()
		}

		if cpuprofileFile != "" {
			f, err := os.Create(cpuprofileFile)
			if err != nil {
				logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
					"Failed to create cpuprofile file: %s", err.Error()))
				return
			}
			defer f.Close()
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		// An interrupt stops new files from being started
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		exitCode = cli.RunContext(ctx, osArgs)
	}()

	os.Exit(exitCode)
}
