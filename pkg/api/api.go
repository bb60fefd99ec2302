// This API exposes the token-level transform. Every call is independent and
// may run concurrently with other calls. Problems with the input are returned
// as messages instead of being printed, and a failed call never returns
// partial output.
//
// Transform from TypeScript to JavaScript:
//
//	result := api.Transform("let x: number = 1", api.TransformOptions{
//	    Transforms: []api.TransformKind{api.TransformTypeScript},
//	})
//	if len(result.Errors) == 0 {
//	    fmt.Printf("%s\n", result.Code)
//	}
package api

import (
	"fmt"
	"time"
)

type TransformKind uint8

const (
	// Parse JSX syntax. JSX is always left as it is.
	TransformJSX TransformKind = iota + 1

	// Remove TypeScript types and convert enums and parameter properties
	TransformTypeScript

	// Remove Flow types
	TransformFlow

	// Convert ES module imports and exports to CommonJS
	TransformImports
)

func (kind TransformKind) String() string {
	switch kind {
	case TransformJSX:
		return "jsx"
	case TransformTypeScript:
		return "typescript"
	case TransformFlow:
		return "flow"
	case TransformImports:
		return "imports"
	default:
		return "unknown"
	}
}

func (kind TransformKind) MarshalText() ([]byte, error) {
	return []byte(kind.String()), nil
}

func (kind *TransformKind) UnmarshalText(text []byte) error {
	for k := TransformJSX; k <= TransformImports; k++ {
		if string(text) == k.String() {
			*kind = k
			return nil
		}
	}
	return fmt.Errorf("Invalid transform: %q (valid: jsx, typescript, flow, imports)", text)
}

type JSXRuntime uint8

const (
	JSXRuntimePreserve JSXRuntime = iota
	JSXRuntimeClassic
	JSXRuntimeAutomatic
)

func (runtime JSXRuntime) String() string {
	switch runtime {
	case JSXRuntimeClassic:
		return "classic"
	case JSXRuntimeAutomatic:
		return "automatic"
	default:
		return "preserve"
	}
}

func (runtime JSXRuntime) MarshalText() ([]byte, error) {
	return []byte(runtime.String()), nil
}

func (runtime *JSXRuntime) UnmarshalText(text []byte) error {
	for r := JSXRuntimePreserve; r <= JSXRuntimeAutomatic; r++ {
		if string(text) == r.String() {
			*runtime = r
			return nil
		}
	}
	return fmt.Errorf("Invalid JSX runtime: %q (valid: preserve, classic, automatic)", text)
}

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

////////////////////////////////////////////////////////////////////////////////
// Transform API

type SourceMapOptions struct {
	// The "file" field of the source map
	CompiledFilename string
}

type TransformOptions struct {
	Transforms []TransformKind `json:"transforms"`

	DisableESTransforms bool       `json:"disableESTransforms"`
	JSXRuntime          JSXRuntime `json:"jsxRuntime"`

	KeepUnusedImports                   bool `json:"keepUnusedImports"`
	PreserveDynamicImport               bool `json:"preserveDynamicImport"`
	InjectCreateRequireForImportRequire bool `json:"injectCreateRequireForImportRequire"`
	EnableLegacyTypeScriptModuleInterop bool `json:"enableLegacyTypeScriptModuleInterop"`
	EnableLegacyBabel5ModuleInterop     bool `json:"enableLegacyBabel5ModuleInterop"`

	// Called with each import path including its quotes. The result replaces
	// the path.
	RewriteImportSpecifier func(string) string `json:"-"`

	// An expression for the function that "import()" calls instead
	DynamicImportFunction string `json:"dynamicImportFunction"`

	SourceMapOptions *SourceMapOptions `json:"sourceMapOptions"`

	// Used in error messages and as the source of a source map
	FilePath string `json:"filePath"`

	// Fills in "TransformResult.Phases"
	Timing bool `json:"-"`
}

type TransformResult struct {
	Errors []Message

	Code string

	// Only present when "SourceMapOptions" is set
	SourceMap []byte

	// Only present when "Timing" is set
	Phases []Phase
}

type Phase struct {
	Name     string
	Depth    int
	Duration time.Duration
}

func Transform(code string, options TransformOptions) TransformResult {
	return transformImpl(code, options)
}

// Returns a table of the tokens of the input after every analysis the
// transform does, one token per line. This is meant for debugging.
func FormatTokens(code string, options TransformOptions) (string, []Message) {
	return formatTokensImpl(code, options)
}

// Like "FormatTokens" but returns the tokens as a JSON array
func FormatTokensJSON(code string, options TransformOptions) ([]byte, []Message) {
	return formatTokensJSONImpl(code, options)
}

////////////////////////////////////////////////////////////////////////////////
// Parse API

type Token struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`

	ContextualKeyword string `json:"contextualKeyword,omitzero"`
	IdentifierRole    string `json:"identifierRole,omitzero"`
	ScopeDepth        int    `json:"scopeDepth,omitzero"`
	IsType            bool   `json:"isType,omitzero"`
	ShadowsGlobal     bool   `json:"shadowsGlobal,omitzero"`

	// -1 if not present
	ContextID   int `json:"contextId"`
	RHSEndIndex int `json:"rhsEndIndex"`
}

type Scope struct {
	StartTokenIndex int
	EndTokenIndex   int
	IsFunctionScope bool
}

type TokenizeOptions struct {
	FilePath string
}

type TokenizeResult struct {
	Errors []Message
	Tokens []Token
}

// Splits plain JavaScript into tokens
func Tokenize(code string, options TokenizeOptions) TokenizeResult {
	return tokenizeImpl(code, options)
}

type ParseOptions struct {
	// Only "jsx", "typescript" and "flow" affect parsing
	Transforms []TransformKind

	FilePath string
}

type ParseResult struct {
	Errors []Message
	Tokens []Token

	// Sorted by end index, so inner scopes come before the scopes that
	// contain them
	Scopes []Scope

	file *parsedFile
}

func ParseScopes(code string, options ParseOptions) ParseResult {
	return parseScopesImpl(code, options)
}

// Sets "ShadowsGlobal" on every identifier token in the result that refers
// to a local declaration with one of the given names instead of the
// top-level one
func ComputeShadowedGlobals(result *ParseResult, code string, globalNames map[string]bool) {
	computeShadowedGlobalsImpl(result, code, globalNames)
}

////////////////////////////////////////////////////////////////////////////////
// Message API

type FormatMessagesOptions struct {
	Color         bool
	IncludeSource bool
}

// Renders each message the way the command-line tool prints it
func FormatMessages(msgs []Message, options FormatMessagesOptions) []string {
	return formatMessagesImpl(msgs, options)
}
