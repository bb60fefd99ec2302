package api

import (
	"fmt"

	"github.com/tokenstrip/tokenstrip/internal/config"
	"github.com/tokenstrip/tokenstrip/internal/js_parser"
	"github.com/tokenstrip/tokenstrip/internal/logger"
)

type parseFlags struct {
	jsx     bool
	dialect js_parser.TypeDialect
	format  config.ModuleFormat
}

func validateTransforms(log logger.Log, transforms []TransformKind) parseFlags {
	var flags parseFlags
	hasTypeScript := false
	hasFlow := false

	for _, kind := range transforms {
		switch kind {
		case TransformJSX:
			flags.jsx = true
		case TransformTypeScript:
			hasTypeScript = true
			flags.dialect = js_parser.DialectTypeScript
		case TransformFlow:
			hasFlow = true
			flags.dialect = js_parser.DialectFlow
		case TransformImports:
			flags.format = config.ModuleFormatCommonJS
		default:
			log.AddError(nil, logger.Loc{}, fmt.Sprintf("Invalid transform: %d", kind))
		}
	}

	if hasTypeScript && hasFlow {
		log.AddError(nil, logger.Loc{}, "Cannot use both the \"typescript\" and \"flow\" transforms")
		flags.dialect = js_parser.DialectNone
	}
	return flags
}

func validateJSXRuntime(log logger.Log, runtime JSXRuntime) {
	switch runtime {
	case JSXRuntimePreserve:
	case JSXRuntimeClassic, JSXRuntimeAutomatic:
		log.AddError(nil, logger.Loc{}, fmt.Sprintf(
			"The JSX runtime %q is not supported, only \"preserve\" is", runtime.String()))
	default:
		log.AddError(nil, logger.Loc{}, fmt.Sprintf("Invalid JSX runtime: %d", runtime))
	}
}

func validateSourceMap(log logger.Log, options *SourceMapOptions, filePath string) *config.SourceMapOptions {
	if options == nil {
		return nil
	}
	if filePath == "" {
		log.AddError(nil, logger.Loc{}, "filePath must be specified when generating a source map.")
		return nil
	}
	return &config.SourceMapOptions{CompiledFilename: options.CompiledFilename}
}

func validateTransformOptions(log logger.Log, options TransformOptions) config.Options {
	flags := validateTransforms(log, options.Transforms)
	validateJSXRuntime(log, options.JSXRuntime)

	return config.Options{
		JSX:                                 flags.jsx,
		TypeDialect:                         flags.dialect,
		Format:                              flags.format,
		DisableESTransforms:                 options.DisableESTransforms,
		KeepUnusedImports:                   options.KeepUnusedImports,
		PreserveDynamicImport:               options.PreserveDynamicImport,
		InjectCreateRequireForImportRequire: options.InjectCreateRequireForImportRequire,
		EnableLegacyTypeScriptModuleInterop: options.EnableLegacyTypeScriptModuleInterop,
		EnableLegacyBabel5ModuleInterop:     options.EnableLegacyBabel5ModuleInterop,
		RewriteImportSpecifier:              options.RewriteImportSpecifier,
		DynamicImportFunction:               options.DynamicImportFunction,
		FilePath:                            options.FilePath,
		SourceMap:                           validateSourceMap(log, options.SourceMapOptions, options.FilePath),
	}
}
