package transform

// Transforms are applied by walking the token array once from start to end.
// At each token the root transformer asks each rule set in turn whether it
// wants to handle the code starting there. The first one that says yes moves
// the cursor past everything it consumed. If none does, the token is copied
// as it is. Rule sets recurse back into the root transformer for the code
// nested inside what they handle, so every token is visited exactly once.

import (
	"github.com/tokenstrip/tokenstrip/internal/config"
	"github.com/tokenstrip/tokenstrip/internal/helpers"
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_parser"
	"github.com/tokenstrip/tokenstrip/internal/js_printer"
	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/renamer"
	"github.com/tokenstrip/tokenstrip/internal/runtime"
	"github.com/tokenstrip/tokenstrip/internal/shadow"
	"github.com/tokenstrip/tokenstrip/internal/sourcemap"
)

// A rule set. "Process" is called with the cursor at the next unprocessed
// token. It either consumes one or more tokens and returns true, or leaves
// the cursor and the output alone and returns false.
type Transformer interface {
	Process() bool

	// Code for the start of the file. This is emitted before helpers.
	PrefixCode() string

	// Code for the start of the file that goes after helpers
	HoistedCode() string

	// Code for the end of the file
	SuffixCode() string
}

type transformerDefaults struct{}

func (transformerDefaults) PrefixCode() string  { return "" }
func (transformerDefaults) HoistedCode() string { return "" }
func (transformerDefaults) SuffixCode() string  { return "" }

type Result struct {
	JS []byte

	// Only present when source map options were given
	SourceMap []byte

	// The tokens after all annotations, for debugging
	Tokens []js_ast.Token

	// The timer from the options, with every phase ended
	Timer *helpers.Timer
}

// Everything that's created once per file and shared by the rule sets
type context struct {
	source  logger.Source
	options config.Options
	tokens  []js_ast.Token
	scopes  []js_ast.Scope
	names   *renamer.NameManager
	helpers *runtime.Manager
	cursor  *js_printer.Cursor

	// This is only present when converting to CommonJS
	imports *cjsImportProcessor
}

func newContext(source logger.Source, file js_parser.File, options config.Options) *context {
	names := renamer.NewNameManager(source, file.Tokens)
	helpers := runtime.NewManager(names, options.DynamicImportFunction)
	cursor := js_printer.NewCursor(source, file.Tokens, js_printer.Options{
		IsFlow:              options.IsFlow(),
		DisableESTransforms: options.DisableESTransforms,
	}, helpers)

	ctx := &context{
		source:  source,
		options: options,
		tokens:  file.Tokens,
		scopes:  file.Scopes,
		names:   names,
		helpers: helpers,
		cursor:  cursor,
	}

	elidesUnusedImports := options.IsTypeScript() && !options.KeepUnusedImports
	if options.Format == config.ModuleFormatCommonJS {
		ctx.imports = newCJSImportProcessor(ctx)
		ctx.imports.preprocessTokens()

		// Shadowing must be known before pruning since an import is only used
		// if a reference to it isn't shadowed
		shadow.IdentifyShadowedGlobals(source, file.Tokens, file.Scopes, ctx.imports.globalNames())
		if elidesUnusedImports {
			ctx.imports.pruneTypeOnlyImports()
		}
	} else if elidesUnusedImports {
		shadow.IdentifyShadowedGlobals(source, file.Tokens, file.Scopes, tsImportedNames(ctx))
	}
	return ctx
}

// Syntax errors are reported to the log and return false. Inconsistencies in
// the token stream panic with "js_printer.InternalError" and are left for
// the caller to recover.
func Transform(log logger.Log, source logger.Source, options config.Options) (Result, bool) {
	timer := options.Timer
	timer.Begin("Parse")
	file, ok := js_parser.Parse(log, source, options.ParserOptions())
	timer.End("Parse")
	if !ok {
		return Result{}, false
	}

	timer.Begin("Analyze")
	ctx := newContext(source, file, options)
	timer.End("Analyze")

	timer.Begin("Rewrite")
	js, mappings := newRootTransformer(ctx).transform()
	timer.End("Rewrite")
	result := Result{JS: js, Tokens: file.Tokens, Timer: timer}

	if options.SourceMap != nil {
		timer.Begin("Source map")
		result.SourceMap = sourcemap.Generate(sourcemap.Input{
			Source:           source,
			SourcePath:       options.FilePath,
			CompiledFilename: options.SourceMap.CompiledFilename,
			Output:           js,
			Tokens:           file.Tokens,
			Mappings:         mappings,
		})
		timer.End("Source map")
	}
	return result, true
}
