package config

import (
	"github.com/tokenstrip/tokenstrip/internal/helpers"
	"github.com/tokenstrip/tokenstrip/internal/js_parser"
)

type ModuleFormat uint8

const (
	// Imports and exports stay ES module syntax. Only type-only imports and
	// exports are removed.
	ModuleFormatPreserve ModuleFormat = iota

	// Imports become "require" calls and exports become assignments to
	// properties of "exports"
	ModuleFormatCommonJS
)

type SourceMapOptions struct {
	// The "file" field of the generated source map
	CompiledFilename string
}

// These are the options for a single transform after validation. The
// "pkg/api" layer converts its public options into this.
type Options struct {
	JSX         bool
	TypeDialect js_parser.TypeDialect
	Format      ModuleFormat

	// Optional chaining, nullish coalescing, numeric separators and optional
	// catch bindings are left as they are
	DisableESTransforms bool

	// Only imports and exports that say "type" are removed. Imports that are
	// only used as types are kept.
	KeepUnusedImports bool

	// When converting to CommonJS, "import()" is left alone
	PreserveDynamicImport bool

	// With ES modules, "import x = require('x')" gets a "require" made with
	// "createRequire" from the "module" package
	InjectCreateRequireForImportRequire bool

	// Match the TypeScript compiler with "esModuleInterop: false", where a
	// default import is the "default" property of the module and "import *"
	// is the module itself
	EnableLegacyTypeScriptModuleInterop bool

	// Match Babel 5, where a module with only a default export sets
	// "module.exports" to that value
	EnableLegacyBabel5ModuleInterop bool

	// Called with the raw text of each import path including the quotes. The
	// result replaces it.
	RewriteImportSpecifier func(string) string

	// If set, "import(x)" calls this function instead
	DynamicImportFunction string

	// Used in error messages and the "sources" array of source maps
	FilePath string

	SourceMap *SourceMapOptions

	// Records how long each phase took. May be nil.
	Timer *helpers.Timer
}

func (options *Options) ParserOptions() js_parser.Options {
	return js_parser.Options{
		JSX:         options.JSX,
		TypeDialect: options.TypeDialect,
	}
}

func (options *Options) IsTypeScript() bool {
	return options.TypeDialect == js_parser.DialectTypeScript
}

func (options *Options) IsFlow() bool {
	return options.TypeDialect == js_parser.DialectFlow
}
