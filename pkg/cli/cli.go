// This package implements the command-line tool. Each input file is an
// independent call to "api.Transform". Files are transformed in parallel and
// a failure in one file doesn't stop the others.
package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/tokenstrip/tokenstrip/internal/exitcode"
	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/pkg/api"
)

type environment struct {
	stdin           io.Reader
	stdout          io.Writer
	stdinIsTerminal bool
	readFile        func(string) ([]byte, error)
	writeFile       func(string, []byte) error

	// Created from the options once they have been parsed
	newLog func(logger.StderrOptions) logger.Log
}

func writeFileCreatingDirectories(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}

func Run(osArgs []string) int {
	return RunContext(context.Background(), osArgs)
}

func RunContext(ctx context.Context, osArgs []string) int {
	return run(ctx, osArgs, environment{
		stdin:           os.Stdin,
		stdout:          os.Stdout,
		stdinIsTerminal: term.IsTerminal(int(os.Stdin.Fd())),
		readFile:        os.ReadFile,
		writeFile:       writeFileCreatingDirectories,
		newLog:          logger.NewStderrLog,
	})
}

func run(ctx context.Context, osArgs []string, env environment) int {
	options, err := parseArgs(osArgs, env.readFile)
	if err != nil {
		log := env.newLog(logger.StderrOptions{})
		log.AddError(nil, logger.Loc{}, err.Error())
		log.Done()
		return exitcode.Get(exitcode.Set(err, exitcode.Usage))
	}

	if options.debugLog {
		l, err := newRunLogger(options.jsonLog)
		if err != nil {
			log := env.newLog(logger.StderrOptions{})
			log.AddError(nil, logger.Loc{}, fmt.Sprintf("Failed to create logger: %s", err.Error()))
			log.Done()
			return exitcode.Failure
		}
		SetLogger(l)
		defer l.Sync()
	}

	if options.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.timeout)
		defer cancel()
	}

	log := env.newLog(logger.StderrOptions{
		IncludeSource: true,
		ErrorLimit:    options.errorLimit,
		Color:         options.color,
		LogLevel:      options.logLevel,
	})

	if len(options.files) == 0 {
		err = runStdin(options, env, log)
	} else if options.outdir == "" {
		err = runSingleFile(options, env, log)
	} else {
		err = runBatch(ctx, options, env, log)
	}

	// Problems with individual files were already logged as they happened.
	// Anything left over is about the run itself.
	for _, err := range multierr.Errors(err) {
		if _, ok := err.(transformError); !ok {
			log.AddError(nil, logger.Loc{}, err.Error())
		}
	}
	log.Done()
	return exitcode.Get(err)
}

// The messages have already been logged
type transformError struct {
	path  string
	count int
}

func (err transformError) Error() string {
	return fmt.Sprintf("%s: %d error(s)", err.path, err.count)
}

func addMessages(log logger.Log, msgs []api.Message) {
	for _, msg := range msgs {
		internal := logger.Msg{Kind: logger.Error, Text: msg.Text}
		if loc := msg.Location; loc != nil {
			internal.Location = &logger.MsgLocation{
				File:     loc.File,
				Line:     loc.Line,
				Column:   loc.Column,
				Length:   loc.Length,
				LineText: loc.LineText,
			}
		}
		log.AddMsg(internal)
	}
}

func logPhases(path string, phases []api.Phase) {
	for _, phase := range phases {
		Logger().Debug("phase",
			zap.String("file", path),
			zap.String("name", phase.Name),
			zap.Int("depth", phase.Depth),
			zap.Duration("time", phase.Duration))
	}
}

func inlineSourceMapComment(sourceMap []byte) string {
	return "\n//# sourceMappingURL=data:application/json;base64," + base64.StdEncoding.EncodeToString(sourceMap) + "\n"
}

// Returns the output for code written to stdout
func transformToStdout(code string, path string, options runOptions, log logger.Log) ([]byte, error) {
	transformOptions := options.transform
	transformOptions.FilePath = path

	switch options.formatTokens {
	case tokenFormatTable:
		table, errors := api.FormatTokens(code, transformOptions)
		if len(errors) > 0 {
			addMessages(log, errors)
			return nil, transformError{path: path, count: len(errors)}
		}
		return []byte(table), nil

	case tokenFormatJSON:
		json, errors := api.FormatTokensJSON(code, transformOptions)
		if len(errors) > 0 {
			addMessages(log, errors)
			return nil, transformError{path: path, count: len(errors)}
		}
		return append(json, '\n'), nil
	}

	if options.sourceMap {
		transformOptions.SourceMapOptions = &api.SourceMapOptions{}
	}
	transformOptions.Timing = options.debugLog
	result := api.Transform(code, transformOptions)
	if len(result.Errors) > 0 {
		addMessages(log, result.Errors)
		return nil, transformError{path: path, count: len(result.Errors)}
	}
	logPhases(path, result.Phases)
	output := []byte(result.Code)
	if result.SourceMap != nil {
		output = append(output, inlineSourceMapComment(result.SourceMap)...)
	}
	return output, nil
}

func runStdin(options runOptions, env environment, log logger.Log) error {
	if env.stdinIsTerminal {
		return fmt.Errorf("No input files were given and stdin is a terminal")
	}
	contents, err := io.ReadAll(env.stdin)
	if err != nil {
		return fmt.Errorf("Could not read from stdin: %s", err.Error())
	}

	start := time.Now()
	output, err := transformToStdout(string(contents), options.sourceFile, options, log)
	if err != nil {
		return err
	}
	if _, err := env.stdout.Write(output); err != nil {
		return fmt.Errorf("Failed to write to stdout: %s", err.Error())
	}
	Logger().Debug("transformed stdin",
		zap.Int("bytes", len(output)),
		zap.Duration("time", time.Since(start)))
	return nil
}

func runSingleFile(options runOptions, env environment, log logger.Log) error {
	path := options.files[0]
	contents, err := env.readFile(path)
	if err != nil {
		return fmt.Errorf("Could not read %q: %s", path, err.Error())
	}

	start := time.Now()
	output, err := transformToStdout(string(contents), path, options, log)
	if err != nil {
		return err
	}
	if _, err := env.stdout.Write(output); err != nil {
		return fmt.Errorf("Failed to write to stdout: %s", err.Error())
	}
	Logger().Debug("transformed file",
		zap.String("file", path),
		zap.Int("bytes", len(output)),
		zap.Duration("time", time.Since(start)))
	return nil
}

func transformFile(path string, outPath string, options runOptions, env environment, log logger.Log) error {
	start := time.Now()
	Logger().Debug("transforming file", zap.String("file", path), zap.String("output", outPath))

	contents, err := env.readFile(path)
	if err != nil {
		return fmt.Errorf("Could not read %q: %s", path, err.Error())
	}

	transformOptions := options.transform
	transformOptions.FilePath = path
	if options.sourceMap {
		transformOptions.SourceMapOptions = &api.SourceMapOptions{CompiledFilename: filepath.Base(outPath)}
	}
	transformOptions.Timing = options.debugLog

	result := api.Transform(string(contents), transformOptions)
	if len(result.Errors) > 0 {
		addMessages(log, result.Errors)
		Logger().Warn("failed to transform file",
			zap.String("file", path),
			zap.Int("errors", len(result.Errors)))
		return transformError{path: path, count: len(result.Errors)}
	}
	logPhases(path, result.Phases)

	code := result.Code
	if result.SourceMap != nil {
		mapPath := outPath + ".map"
		if err := env.writeFile(mapPath, result.SourceMap); err != nil {
			return fmt.Errorf("Failed to write to output file %q: %s", mapPath, err.Error())
		}
		code += "\n//# sourceMappingURL=" + filepath.Base(mapPath) + "\n"
	}
	if err := env.writeFile(outPath, []byte(code)); err != nil {
		return fmt.Errorf("Failed to write to output file %q: %s", outPath, err.Error())
	}

	Logger().Debug("transformed file",
		zap.String("file", path),
		zap.Int("bytes", len(code)),
		zap.Duration("time", time.Since(start)))
	return nil
}

func runBatch(ctx context.Context, options runOptions, env environment, log logger.Log) error {
	absPaths := make([]string, len(options.files))
	for i, path := range options.files {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("Invalid path %q: %s", path, err.Error())
		}
		absPaths[i] = absPath
	}
	baseAbsDir := lowestCommonAncestorDirectory(absPaths)

	start := time.Now()
	var mutex sync.Mutex
	var errs error
	failed := 0

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(options.jobs)
	for i, path := range options.files {
		path := path
		outPath := outputPath(options.outdir, baseAbsDir, absPaths[i], options.outExtension)
		group.Go(func() error {
			// Stop starting new files once the deadline has passed
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := transformFile(path, outPath, options, env, log); err != nil {
				mutex.Lock()
				errs = multierr.Append(errs, err)
				failed++
				mutex.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("Stopped before all files were transformed: %s", err.Error()))
	}

	Logger().Info("finished",
		zap.Int("files", len(options.files)),
		zap.Int("failed", failed),
		zap.Int("jobs", options.jobs),
		zap.Duration("time", time.Since(start)))
	return errs
}
