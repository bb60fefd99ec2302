package cli

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/pkg/api"
)

type tokenFormat uint8

const (
	tokenFormatNone tokenFormat = iota
	tokenFormatTable
	tokenFormatJSON
)

type runOptions struct {
	transform api.TransformOptions
	files     []string

	outdir       string
	outExtension string
	sourceMap    bool
	sourceFile   string
	formatTokens tokenFormat

	jobs    int
	timeout time.Duration

	color      logger.StderrColor
	errorLimit int
	logLevel   logger.LogLevel
	debugLog   bool
	jsonLog    bool
}

func newRunOptions() runOptions {
	return runOptions{
		outExtension: ".js",
		jobs:         runtime.NumCPU(),
		errorLimit:   10,
		logLevel:     logger.LevelInfo,
	}
}

func parseTransforms(value string) ([]api.TransformKind, error) {
	var transforms []api.TransformKind
	for _, name := range strings.Split(value, ",") {
		if name == "" {
			continue
		}
		var kind api.TransformKind
		if err := kind.UnmarshalText([]byte(name)); err != nil {
			return nil, err
		}
		transforms = append(transforms, kind)
	}
	return transforms, nil
}

// Settings from "--options" are applied first regardless of where the flag
// appears, so that every other flag overrides the file
func parseArgs(osArgs []string, readFile func(string) ([]byte, error)) (runOptions, error) {
	options := newRunOptions()

	for _, arg := range osArgs {
		if strings.HasPrefix(arg, "--options=") {
			path := arg[len("--options="):]
			contents, err := readFile(path)
			if err != nil {
				return runOptions{}, fmt.Errorf("Could not read options file %q: %s", path, err.Error())
			}
			if err := json.Unmarshal(contents, &options.transform, json.RejectUnknownMembers(true)); err != nil {
				return runOptions{}, fmt.Errorf("Invalid options file %q: %s", path, err.Error())
			}
		}
	}

	for _, arg := range osArgs {
		switch {
		case strings.HasPrefix(arg, "--options="):

		case strings.HasPrefix(arg, "--transforms="):
			transforms, err := parseTransforms(arg[len("--transforms="):])
			if err != nil {
				return runOptions{}, err
			}
			options.transform.Transforms = transforms

		case arg == "--disable-es-transforms":
			options.transform.DisableESTransforms = true

		case strings.HasPrefix(arg, "--jsx-runtime="):
			if err := options.transform.JSXRuntime.UnmarshalText([]byte(arg[len("--jsx-runtime="):])); err != nil {
				return runOptions{}, err
			}

		case arg == "--keep-unused-imports":
			options.transform.KeepUnusedImports = true

		case arg == "--preserve-dynamic-import":
			options.transform.PreserveDynamicImport = true

		case arg == "--inject-create-require-for-import-require":
			options.transform.InjectCreateRequireForImportRequire = true

		case arg == "--enable-legacy-typescript-module-interop":
			options.transform.EnableLegacyTypeScriptModuleInterop = true

		case arg == "--enable-legacy-babel5-module-interop":
			options.transform.EnableLegacyBabel5ModuleInterop = true

		case strings.HasPrefix(arg, "--dynamic-import-function="):
			options.transform.DynamicImportFunction = arg[len("--dynamic-import-function="):]

		case arg == "--sourcemap":
			options.sourceMap = true

		case strings.HasPrefix(arg, "--sourcefile="):
			options.sourceFile = arg[len("--sourcefile="):]

		case arg == "--format-tokens":
			options.formatTokens = tokenFormatTable

		case strings.HasPrefix(arg, "--format-tokens="):
			switch value := arg[len("--format-tokens="):]; value {
			case "table":
				options.formatTokens = tokenFormatTable
			case "json":
				options.formatTokens = tokenFormatJSON
			default:
				return runOptions{}, fmt.Errorf("Invalid token format: %q (valid: table, json)", value)
			}

		case strings.HasPrefix(arg, "--outdir="):
			options.outdir = arg[len("--outdir="):]

		case strings.HasPrefix(arg, "--out-extension="):
			value := arg[len("--out-extension="):]
			if !strings.HasPrefix(value, ".") {
				return runOptions{}, fmt.Errorf("Invalid output extension: %q (it must start with \".\")", value)
			}
			options.outExtension = value

		case strings.HasPrefix(arg, "--jobs="):
			value, err := strconv.Atoi(arg[len("--jobs="):])
			if err != nil || value < 1 {
				return runOptions{}, fmt.Errorf("Invalid job count: %q", arg[len("--jobs="):])
			}
			options.jobs = value

		case strings.HasPrefix(arg, "--timeout="):
			value, err := time.ParseDuration(arg[len("--timeout="):])
			if err != nil || value < 0 {
				return runOptions{}, fmt.Errorf("Invalid timeout: %q (e.g. 30s)", arg[len("--timeout="):])
			}
			options.timeout = value

		case strings.HasPrefix(arg, "--color="):
			value := arg[len("--color="):]
			switch value {
			case "false":
				options.color = logger.ColorNever
			case "true":
				options.color = logger.ColorAlways
			default:
				return runOptions{}, fmt.Errorf("Invalid color: %q (valid: false, true)", value)
			}

		case strings.HasPrefix(arg, "--error-limit="):
			value, err := strconv.Atoi(arg[len("--error-limit="):])
			if err != nil || value < 0 {
				return runOptions{}, fmt.Errorf("Invalid error limit: %q", arg[len("--error-limit="):])
			}
			options.errorLimit = value

		case strings.HasPrefix(arg, "--log-level="):
			value := arg[len("--log-level="):]
			switch value {
			case "debug":
				options.logLevel = logger.LevelInfo
				options.debugLog = true
			case "info":
				options.logLevel = logger.LevelInfo
			case "warning":
				options.logLevel = logger.LevelWarning
			case "error":
				options.logLevel = logger.LevelError
			case "silent":
				options.logLevel = logger.LevelSilent
			default:
				return runOptions{}, fmt.Errorf("Invalid log level: %q (valid: debug, info, warning, error, silent)", value)
			}

		case strings.HasPrefix(arg, "--log-format="):
			value := arg[len("--log-format="):]
			switch value {
			case "console":
				options.jsonLog = false
			case "json":
				options.jsonLog = true
			default:
				return runOptions{}, fmt.Errorf("Invalid log format: %q (valid: console, json)", value)
			}

		case strings.HasPrefix(arg, "-"):
			return runOptions{}, fmt.Errorf("Invalid flag: %q", arg)

		default:
			options.files = append(options.files, arg)
		}
	}

	if len(options.files) > 1 && options.outdir == "" {
		return runOptions{}, fmt.Errorf("Must use \"--outdir\" when there are multiple input files")
	}
	if options.formatTokens != tokenFormatNone && (options.outdir != "" || options.sourceMap) {
		return runOptions{}, fmt.Errorf("Cannot use \"--format-tokens\" with \"--outdir\" or \"--sourcemap\"")
	}
	if len(options.files) == 0 && options.outdir != "" {
		return runOptions{}, fmt.Errorf("Cannot use \"--outdir\" without input files")
	}
	if len(options.files) == 0 && options.sourceMap && options.sourceFile == "" {
		return runOptions{}, fmt.Errorf("Must use \"--sourcefile\" with \"--sourcemap\" when transforming stdin")
	}
	return options, nil
}
