package transform

import (
	"strings"
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/config"
	"github.com/tokenstrip/tokenstrip/internal/js_parser"
	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

const useStrict = "\"use strict\";"
const esModule = "Object.defineProperty(exports, \"__esModule\", {value: true});"
const interopRequireDefault = " function _interopRequireDefault(obj) { return obj && obj.__esModule ? obj : { default: obj }; }"

var typeScript = config.Options{TypeDialect: js_parser.DialectTypeScript}
var typeScriptCJS = config.Options{TypeDialect: js_parser.DialectTypeScript, Format: config.ModuleFormatCommonJS}
var flow = config.Options{TypeDialect: js_parser.DialectFlow}
var commonJS = config.Options{Format: config.ModuleFormatCommonJS}

func transformForTest(t *testing.T, contents string, options config.Options) Result {
	t.Helper()
	log := logger.NewDeferLog()
	result, ok := Transform(log, test.SourceForTest(contents), options)
	if !ok {
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
		}
		t.Fatalf("Failed to transform %q:\n%s", contents, text)
	}
	return result
}

func expectPrinted(t *testing.T, contents string, options config.Options, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		test.AssertEqualWithDiff(t, string(transformForTest(t, contents, options).JS), expected)
	})
}

func expectPrintedSuffix(t *testing.T, contents string, options config.Options, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		js := string(transformForTest(t, contents, options).JS)
		if !strings.HasSuffix(js, expected) {
			t.Fatalf("Expected output to end with %q but got %q", expected, js)
		}
	})
}

func expectTransformError(t *testing.T, contents string, options config.Options, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		_, ok := Transform(log, test.SourceForTest(contents), options)
		text := ""
		for _, msg := range log.Done() {
			text += msg.Text + "\n"
		}
		test.AssertEqualWithDiff(t, text, expected)
		test.AssertEqual(t, ok, false)
	})
}

func TestUnchangedWithoutTransforms(t *testing.T) {
	options := config.Options{DisableESTransforms: true}
	for _, contents := range []string{
		"",
		"let x = 1; /* c */ x?.y ?? z;\n",
		"#!/usr/bin/env node\nfoo(`a${b}c`)\n",
		"try {} catch {}\nconst n = 1_000;",
	} {
		expectPrinted(t, contents, options, contents)
	}
	expectPrinted(t, "const el = <div a=\"1\">{b}</div>;", config.Options{JSX: true, DisableESTransforms: true},
		"const el = <div a=\"1\">{b}</div>;")
}

func TestTypeScriptTypes(t *testing.T) {
	expectPrinted(t, "let x: number = 1;", typeScript, "let x = 1;")
	expectPrinted(t, "function f(a: string): void {}", typeScript, "function f(a) {}")
	expectPrinted(t, "const f = (a: number): number => a;", typeScript, "const f = (a) => a;")
	expectPrinted(t, "const f = async <T>(x: T) => x;", typeScript, "const f = async (x) => x;")
	expectPrinted(t, "interface A { x: number }\nlet y;", typeScript, "\nlet y;")
	expectPrinted(t, "let y = x as any;", typeScript, "let y = x ;")
	expectPrinted(t, "a!.b;", typeScript, "a.b;")
	expectPrinted(t, "module.exports = 1;", typeScript, "module.exports = 1;")
	expectPrinted(t, "export = 1;", typeScript, "module.exports = 1;")
}

func TestTypeScriptNamespaces(t *testing.T) {
	expectPrinted(t, "namespace N { export type A = string; }\nlet x;", typeScript, "\nlet x;")
	expectPrinted(t, "declare namespace N { const x: number; }\nlet x;", typeScript, "\nlet x;")
	expectPrinted(t, "namespace A.B { namespace C { interface I {} } }\nlet x;", typeScript, "\nlet x;")
	expectTransformError(t, "namespace N { export const x = 1; }\nN.x;", typeScript,
		"Non-type namespaces are not supported\n")
	expectTransformError(t, "namespace N { function f() {} }", typeScript,
		"Non-type namespaces are not supported\n")
}

func TestTypeScriptIsIdempotent(t *testing.T) {
	contents := "function f<T>(a: T, b?: string): T { return a as T; }\ntype U = string;\nlet x: U;"
	once := string(transformForTest(t, contents, typeScript).JS)
	twice := string(transformForTest(t, once, typeScript).JS)
	test.AssertEqualWithDiff(t, twice, once)
}

func TestTypeScriptClasses(t *testing.T) {
	expectPrinted(t, "class A { constructor(private x: number) {} }", typeScript,
		"class A { constructor( x) {;this.x = x;} }")
	expectPrinted(t, "class A extends B { constructor(readonly x) { super(); f(); } }", typeScript,
		"class A extends B { constructor( x) { super();this.x = x;; f(); } }")
	expectPrinted(t, "class A { x: number; y = 1; }", typeScript, "class A {  y = 1; }")
	expectPrinted(t, "class A { x; }", config.Options{}, "class A { x; }")
}

func TestTypeScriptEnums(t *testing.T) {
	expectPrinted(t, "enum E { A, B }", typeScript,
		"var E; (function (E) { const A = 0; E[E[\"A\"] = A] = \"A\"; const B = A + 1; E[E[\"B\"] = B] = \"B\"; })(E || (E = {}));")
	expectPrinted(t, "enum E { A = \"a\" }", typeScript,
		"var E; (function (E) { const A = \"a\"; E[\"A\"] = A; })(E || (E = {}));")
	expectPrinted(t, "enum E { A = 2 }", typeScript,
		"var E; (function (E) { const A = 2; E[E[\"A\"] = A] = \"A\"; })(E || (E = {}));")
	expectPrinted(t, "enum E { 'a-b' = 1 }", typeScript,
		"var E; (function (E) { E[E['a-b'] = 1] = 'a-b'; })(E || (E = {}));")
	expectPrinted(t, "export enum E {}", typeScript, "export var E; (function (E) {})(E || (E = {}));")
	expectPrinted(t, "export enum E {}", typeScriptCJS,
		useStrict+esModule+"var E; (function (E) {})(E || (exports.E = E = {}));")
}

func TestTypeScriptImportElision(t *testing.T) {
	expectPrinted(t, "import {A} from 'a';\nlet x: A;", typeScript, "\nlet x;")
	expectPrinted(t, "import {A, B} from 'a';\nlet x: A = B;", typeScript, "import { B} from 'a';\nlet x = B;")
	expectPrinted(t, "import {A} from 'a';\nlet x: A;", config.Options{TypeDialect: js_parser.DialectTypeScript, KeepUnusedImports: true},
		"import {A} from 'a';\nlet x;")
	expectPrinted(t, "import 'a';", typeScript, "import 'a';")
	expectPrinted(t, "type T = number;\nexport default T;", typeScript, "\n;")
	expectPrinted(t, "import fs = require('fs');\nfs.readFileSync();", typeScript, "const fs = require('fs');\nfs.readFileSync();")
	expectPrinted(t, "import fs = require('fs');\nfs.readFileSync();",
		config.Options{TypeDialect: js_parser.DialectTypeScript, InjectCreateRequireForImportRequire: true},
		" import {createRequire as _createRequire} from \"module\"; const _require = _createRequire(import.meta.url);"+
			"const fs = _require('fs');\nfs.readFileSync();")
}

func TestRewriteImportSpecifier(t *testing.T) {
	options := config.Options{RewriteImportSpecifier: func(path string) string {
		return strings.Replace(path, ".ts", ".js", 1)
	}}
	expectPrinted(t, "import a from './a.ts';", options, "import a from './a.js';")
	expectPrinted(t, "export * from './a.ts';", options, "export * from './a.js';")
	expectPrinted(t, "export {a} from './a.ts';", options, "export {a} from './a.js';")
}

func TestFlow(t *testing.T) {
	expectPrinted(t, "// @flow\nfunction f(x: number): string { return x; }", flow, "// \nfunction f(x) { return x; }")
	expectPrinted(t, "import type {A} from 'a';\nlet x;", flow, "\nlet x;")
}

func TestESTransforms(t *testing.T) {
	expectPrintedSuffix(t, "a?.b;", config.Options{}, "_optionalChain([a, 'optionalAccess', _ => _.b]);")
	expectPrintedSuffix(t, "a ?? b;", config.Options{}, "_nullishCoalesce(a, () => ( b));")
	expectPrinted(t, "1_000n;", config.Options{}, "1000n;")
	expectPrinted(t, "try {} catch {}", config.Options{}, "try {} catch (e) {}")
	expectPrinted(t, "let e; try {} catch {}", config.Options{}, "let e; try {} catch (e2) {}")
	expectPrinted(t, "1_0.5_0e1_0;", config.Options{}, "10.50e10;")
}

func TestOptionalChainDelete(t *testing.T) {
	expectPrintedSuffix(t, "delete a?.b.c;", config.Options{},
		" _optionalChainDelete([a, 'optionalAccess', _ => _.b, 'access', _2 => delete _2.c]);")
	expectPrintedSuffix(t, "delete a?.b;", config.Options{},
		" _optionalChainDelete([a, 'optionalAccess', _ => delete _.b]);")
}

func TestOptionalChainAsync(t *testing.T) {
	expectPrintedSuffix(t, "async function f() { a?.b(await c); }", config.Options{},
		"async function f() { await _asyncOptionalChain([a, 'optionalAccess', async _ => _.b, 'call', async _2 => _2(await c)]); }")
}

func TestOptionalChainSuper(t *testing.T) {
	expectPrintedSuffix(t, "const o = { m() { super.a?.b(); } };", config.Options{},
		"const o = { m() { _optionalChain([super.a, 'optionalAccess', _ => _.b, 'call', _2 => _2()]); } };")
	expectPrintedSuffix(t, "const o = { m() { super.a?.(); } };", config.Options{},
		"const o = { m() { _optionalChain([super.a.bind(this), 'optionalCall', _ => _()]); } };")
}

func TestCommonJSImports(t *testing.T) {
	expectPrinted(t, "import a from 'a'; a();", commonJS,
		useStrict+interopRequireDefault+"var _a = require('a'); var _a2 = _interopRequireDefault(_a); _a2.default.call(void 0, );")
	expectPrinted(t, "import {a} from 'a';\nfunction f(a) { return a; }\na;", commonJS,
		useStrict+"var _a = require('a');\nfunction f(a) { return a; }\n_a.a;")
	expectPrinted(t, "import {a} from 'a';\n(a)();", commonJS,
		useStrict+"var _a = require('a');\n((0, _a.a))();")
	expectPrinted(t, "import {a} from 'a';\nx = {a};", commonJS,
		useStrict+"var _a = require('a');\nx = {a: _a.a};")
	expectPrinted(t, "import 'a';", commonJS, useStrict+"require('a');")
	expectPrinted(t, "import {A} from 'a';\nlet x: A;", typeScriptCJS, useStrict+"\nlet x;")
	expectPrinted(t, "import('a');", config.Options{Format: config.ModuleFormatCommonJS, EnableLegacyTypeScriptModuleInterop: true},
		useStrict+"Promise.resolve().then(() => require('a'));")
	expectPrinted(t, "import('a');", config.Options{Format: config.ModuleFormatCommonJS, PreserveDynamicImport: true},
		useStrict+"import('a');")
}

func TestCommonJSExports(t *testing.T) {
	expectPrinted(t, "export const a = 1;", commonJS,
		useStrict+esModule+" const a = 1; exports.a = a;")
	expectPrinted(t, "export function f() {}\nf = 1;", commonJS,
		useStrict+esModule+" function f() {} exports.f = f;\nf = exports.f = 1;")
	expectPrinted(t, "export class A {}", commonJS,
		useStrict+esModule+" class A {} exports.A = A;")
	expectPrinted(t, "export default 1 + 2;", commonJS,
		useStrict+esModule+"exports. default = 1 + 2;")
	expectPrinted(t, "import {b} from 'b';\nexport {b};", commonJS,
		useStrict+esModule+"var _b = require('b');\nexports.b = _b.b;")
	expectPrinted(t, "let x = 1;\nexport {x};\nx++;", commonJS,
		useStrict+esModule+"let x = 1;\nexports.x = x;\n(x = exports.x = x + 1, x - 1);")
	expectPrinted(t, "export * as ns from 'a';", config.Options{Format: config.ModuleFormatCommonJS, EnableLegacyTypeScriptModuleInterop: true},
		useStrict+esModule+"var _a = require('a'); exports.ns = _a;")
	expectPrinted(t, "export default 1;", config.Options{Format: config.ModuleFormatCommonJS, EnableLegacyBabel5ModuleInterop: true},
		useStrict+esModule+"exports. default = 1;\nmodule.exports = exports.default;\n")
}

func TestCommonJSExportDeclarators(t *testing.T) {
	expectPrinted(t, "export let a = 1, b = 2; b++;", commonJS,
		useStrict+esModule+" exports.a = 1, exports.b = 2; exports.b++;")
	expectPrinted(t, "export var {p} = o, q = 3;", commonJS,
		useStrict+esModule+"( {p: exports.p} = o), exports.q = 3;")
	expectPrinted(t, "export let a, [b] = c;", commonJS,
		useStrict+esModule+" exports.a, [exports.b] = c;")
	expectPrinted(t, "export const a: number = 1, b: string = 'b';", typeScriptCJS,
		useStrict+esModule+" exports.a = 1, exports.b = 'b';")
}

func TestHashbang(t *testing.T) {
	expectPrinted(t, "#!/usr/bin/env node\nexport const a = 1;", commonJS,
		"#!/usr/bin/env node\n"+useStrict+esModule+" const a = 1; exports.a = a;")
}

func TestSyntaxError(t *testing.T) {
	log := logger.NewDeferLog()
	_, ok := Transform(log, test.SourceForTest("let x = ;"), config.Options{})
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, log.HasErrors(), true)
}

func TestSourceMap(t *testing.T) {
	options := typeScript
	options.FilePath = "in.ts"
	options.SourceMap = &config.SourceMapOptions{CompiledFilename: "out.js"}
	result := transformForTest(t, "let x: number = 1;", options)
	test.AssertEqualWithDiff(t, string(result.JS), "let x = 1;")
	test.AssertEqualWithDiff(t, string(result.SourceMap),
		`{"version":3,"file":"out.js","names":[],"sources":["in.ts"],"mappings":"AAAA,IAAI,CAAC,CAAS,EAAE,CAAC"}`)
}
