package api_test

import (
	"strings"
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/test"
	"github.com/tokenstrip/tokenstrip/pkg/api"
)

var typeScript = []api.TransformKind{api.TransformTypeScript}

func expectTransformError(t *testing.T, name string, code string, options api.TransformOptions, expected string) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		result := api.Transform(code, options)
		if len(result.Errors) == 0 {
			t.Fatalf("Expected an error but got %q", result.Code)
		}
		test.AssertEqualWithDiff(t, result.Errors[0].Text, expected)
		test.AssertEqual(t, result.Code, "")
	})
}

func TestTransform(t *testing.T) {
	result := api.Transform("let x: number = 1;", api.TransformOptions{Transforms: typeScript})
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqualWithDiff(t, result.Code, "let x = 1;")
	test.AssertEqual(t, len(result.SourceMap), 0)

	result = api.Transform("import a from 'a';\nexport const b = a;", api.TransformOptions{
		Transforms:                          []api.TransformKind{api.TransformImports},
		EnableLegacyTypeScriptModuleInterop: true,
	})
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqualWithDiff(t, result.Code,
		"\"use strict\";Object.defineProperty(exports, \"__esModule\", {value: true});"+
			"var _a = require('a');\n const b = _a.default; exports.b = b;")
}

func TestTransformTiming(t *testing.T) {
	result := api.Transform("a;", api.TransformOptions{})
	test.AssertEqual(t, len(result.Phases), 0)

	result = api.Transform("a;", api.TransformOptions{
		Timing:           true,
		FilePath:         "a.js",
		SourceMapOptions: &api.SourceMapOptions{},
	})
	var names []string
	for _, phase := range result.Phases {
		names = append(names, phase.Name)
	}
	test.AssertDeepEqual(t, names, []string{"Parse", "Analyze", "Rewrite", "Source map"})
}

func TestTransformOptionErrors(t *testing.T) {
	expectTransformError(t, "dialects", "x", api.TransformOptions{
		Transforms: []api.TransformKind{api.TransformTypeScript, api.TransformFlow},
	}, "Cannot use both the \"typescript\" and \"flow\" transforms")

	expectTransformError(t, "jsx runtime", "x", api.TransformOptions{
		Transforms: []api.TransformKind{api.TransformJSX},
		JSXRuntime: api.JSXRuntimeClassic,
	}, "The JSX runtime \"classic\" is not supported, only \"preserve\" is")

	expectTransformError(t, "source map", "x", api.TransformOptions{
		SourceMapOptions: &api.SourceMapOptions{CompiledFilename: "out.js"},
	}, "filePath must be specified when generating a source map.")

	// Options are checked before the code is looked at
	expectTransformError(t, "before lexing", "let x = ;", api.TransformOptions{
		Transforms: []api.TransformKind{api.TransformTypeScript, api.TransformFlow},
	}, "Cannot use both the \"typescript\" and \"flow\" transforms")
}

func TestTransformSyntaxError(t *testing.T) {
	result := api.Transform("let x = ;", api.TransformOptions{FilePath: "a.js"})
	test.AssertDeepEqual(t, result.Errors, []api.Message{{
		Text: "Error transforming a.js: Unexpected \";\"",
		Location: &api.Location{
			File:     "a.js",
			Line:     1,
			Column:   8,
			Length:   1,
			LineText: "let x = ;",
		},
	}})

	// Without a file path there is no prefix
	result = api.Transform("let x = ;", api.TransformOptions{})
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, result.Errors[0].Text, "Unexpected \";\"")
	test.AssertEqual(t, result.Errors[0].Location.File, "<stdin>")
}

func TestTransformSourceMap(t *testing.T) {
	result := api.Transform("let x: number = 1;", api.TransformOptions{
		Transforms:       typeScript,
		FilePath:         "in.ts",
		SourceMapOptions: &api.SourceMapOptions{CompiledFilename: "out.js"},
	})
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqualWithDiff(t, string(result.SourceMap),
		`{"version":3,"file":"out.js","names":[],"sources":["in.ts"],"mappings":"AAAA,IAAI,CAAC,CAAS,EAAE,CAAC"}`)
}

func TestTokenize(t *testing.T) {
	result := api.Tokenize("a + 1", api.TokenizeOptions{})
	test.AssertEqual(t, len(result.Errors), 0)
	var kinds []string
	for _, token := range result.Tokens {
		kinds = append(kinds, token.Kind+" "+token.Text)
	}
	test.AssertEqualWithDiff(t, strings.Join(kinds, ", "), "identifier a, \"+\" +, number 1")

	// Types are a syntax error in plain JavaScript
	result = api.Tokenize("let x: number;", api.TokenizeOptions{})
	test.AssertEqual(t, len(result.Errors), 1)
}

func TestParseScopes(t *testing.T) {
	code := "import a from 'a'; function f(a) { return a; } a;"
	result := api.ParseScopes(code, api.ParseOptions{})
	test.AssertEqual(t, len(result.Errors), 0)

	// The module scope ends last
	last := result.Scopes[len(result.Scopes)-1]
	test.AssertDeepEqual(t, last, api.Scope{StartTokenIndex: 0, EndTokenIndex: len(result.Tokens)})

	api.ComputeShadowedGlobals(&result, code, map[string]bool{"a": true})
	var parts []string
	for _, token := range result.Tokens {
		text := token.Text
		if token.ShadowsGlobal {
			text += "*"
		}
		parts = append(parts, text)
	}
	test.AssertEqualWithDiff(t, strings.Join(parts, " "),
		"import a from 'a' ; function f ( a* ) { return a* ; } a ;")

	result = api.ParseScopes("x", api.ParseOptions{
		Transforms: []api.TransformKind{api.TransformFlow, api.TransformTypeScript},
	})
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, len(result.Tokens), 0)

	// Nothing happens for a result with errors
	api.ComputeShadowedGlobals(&result, "x", map[string]bool{"x": true})
}

func TestFormatTokens(t *testing.T) {
	table, errors := api.FormatTokens("1;\nx", api.TransformOptions{})
	test.AssertEqual(t, len(errors), 0)
	lines := strings.Split(table, "\n")
	test.AssertEqual(t, len(lines), 5)
	test.AssertEqualWithDiff(t, lines[0], "Location  Label       Raw  Info")
	test.AssertEqualWithDiff(t, lines[1], "1:1-1:2   number      1")
	test.AssertEqualWithDiff(t, lines[2], "1:2-1:3   \";\"         ;")
	if !strings.HasPrefix(lines[3], "2:1-2:2   identifier  x    role=") {
		t.Fatalf("Unexpected row %q", lines[3])
	}
	test.AssertEqual(t, lines[4], "")

	_, errors = api.FormatTokens("let x = ;", api.TransformOptions{FilePath: "a.js"})
	test.AssertEqual(t, len(errors), 1)
}

func TestFormatTokensJSON(t *testing.T) {
	json, errors := api.FormatTokensJSON("1;", api.TransformOptions{})
	test.AssertEqual(t, len(errors), 0)
	test.AssertEqualWithDiff(t, string(json),
		`[{"kind":"number","text":"1","start":0,"end":1,"contextId":-1,"rhsEndIndex":-1},`+
			`{"kind":"\";\"","text":";","start":1,"end":2,"contextId":-1,"rhsEndIndex":-1}]`)
}

func TestFormatMessages(t *testing.T) {
	msgs := []api.Message{
		{Text: "No location"},
		{Text: "Unexpected \"@\"", Location: &api.Location{
			File:     "file.js",
			Line:     2,
			Column:   8,
			Length:   1,
			LineText: "let y = @;",
		}},
	}

	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{IncludeSource: true})
	test.AssertEqualWithDiff(t, formatted[0], "error: No location\n")
	test.AssertEqualWithDiff(t, formatted[1], "file.js:2:8: error: Unexpected \"@\"\nlet y = @;\n        ^\n")

	formatted = api.FormatMessages(msgs[1:], api.FormatMessagesOptions{})
	test.AssertEqualWithDiff(t, formatted[0], "file.js: error: Unexpected \"@\"\n")
}

func TestTransformKindText(t *testing.T) {
	var kind api.TransformKind
	test.AssertEqual(t, kind.UnmarshalText([]byte("flow")), nil)
	test.AssertEqual(t, kind, api.TransformFlow)
	if err := kind.UnmarshalText([]byte("css")); err == nil {
		t.Fatalf("Expected an error")
	}

	var runtime api.JSXRuntime
	test.AssertEqual(t, runtime.UnmarshalText([]byte("automatic")), nil)
	test.AssertEqual(t, runtime, api.JSXRuntimeAutomatic)
}
