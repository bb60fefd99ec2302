package js_parser

import (
	"strings"
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

var (
	optionsJS   = Options{}
	optionsJSX  = Options{JSX: true}
	optionsTS   = Options{TypeDialect: DialectTypeScript}
	optionsTSX  = Options{JSX: true, TypeDialect: DialectTypeScript}
	optionsFlow = Options{JSX: true, TypeDialect: DialectFlow}
)

func parseForTest(t *testing.T, contents string, options Options) File {
	t.Helper()
	log := logger.NewDeferLog()
	file, ok := Parse(log, test.SourceForTest(contents), options)
	text := ""
	for _, msg := range log.Done() {
		text += msg.Text + "\n"
	}
	test.AssertEqualWithDiff(t, text, "")
	if !ok {
		t.Fatal("Parse failed without an error message")
	}
	return file
}

// Lists every identifier and JSX name that isn't part of a type along with
// its role
func formatRoles(contents string, file File) string {
	var parts []string
	for _, token := range file.Tokens {
		if (token.Type != js_lexer.TIdentifier && token.Type != js_lexer.TJSXName) || token.IsType {
			continue
		}
		text := contents[token.Start:token.End]
		if token.IdentifierRole != js_ast.RoleNone {
			text += ":" + token.IdentifierRole.String()
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// Joins the text of every token that isn't part of a type
func formatValueTokens(contents string, file File) string {
	var parts []string
	for _, token := range file.Tokens {
		if !token.IsType {
			parts = append(parts, contents[token.Start:token.End])
		}
	}
	return strings.Join(parts, " ")
}

func expectRoles(t *testing.T, options Options, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		file := parseForTest(t, contents, options)
		test.AssertEqualWithDiff(t, formatRoles(contents, file), expected)
	})
}

func expectValueTokens(t *testing.T, options Options, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		file := parseForTest(t, contents, options)
		test.AssertEqualWithDiff(t, formatValueTokens(contents, file), expected)
	})
}

func expectScopes(t *testing.T, options Options, contents string, expected []js_ast.Scope) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		file := parseForTest(t, contents, options)
		test.AssertDeepEqual(t, file.Scopes, expected)
	})
}

func expectParseError(t *testing.T, options Options, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		_, ok := Parse(log, test.SourceForTest(contents), options)
		text := ""
		for _, msg := range log.Done() {
			text += msg.Text + "\n"
		}
		test.AssertEqualWithDiff(t, text, expected)
		test.AssertEqual(t, ok, false)
	})
}

func TestDeclarationRoles(t *testing.T) {
	expectRoles(t, optionsJS, "let a = b; function f(c) { var d = c; }",
		"let a:TopLevelDeclaration b:Access f:TopLevelDeclaration c:FunctionScopedDeclaration d:FunctionScopedDeclaration c:Access")
	expectRoles(t, optionsJS, "{ let a; const b = 1; var c; }",
		"let a:BlockScopedDeclaration b:BlockScopedDeclaration c:FunctionScopedDeclaration")
	expectRoles(t, optionsJS, "class A extends B { m(x) { return x; } }",
		"A:TopLevelDeclaration B:Access m:ObjectKey x:FunctionScopedDeclaration x:Access")
	expectRoles(t, optionsJS, "try {} catch (e) { e; }",
		"e:BlockScopedDeclaration e:Access")
	expectRoles(t, optionsJS, "for (const x of y) x;",
		"x:BlockScopedDeclaration of y:Access x:Access")
	expectRoles(t, optionsJS, "label: for (;;) break label;",
		"label label")
}

func TestPatternRoles(t *testing.T) {
	expectRoles(t, optionsJS, "const {a, b: c, ...d} = e;",
		"a:ObjectShorthandTopLevelDeclaration b:ObjectKey c:TopLevelDeclaration d:TopLevelDeclaration e:Access")
	expectRoles(t, optionsJS, "function f({a = 1}, [b, , c]) {}",
		"f:TopLevelDeclaration a:ObjectShorthandFunctionScopedDeclaration b:FunctionScopedDeclaration c:FunctionScopedDeclaration")
	expectRoles(t, optionsJS, "x = {a, b: c, d() {}, [e]: f, get g() {}};",
		"x:Access a:ObjectShorthand b:ObjectKey c:Access d:ObjectKey e:Access f:Access get g:ObjectKey")
}

func TestArrowRoles(t *testing.T) {
	expectRoles(t, optionsJS, "a => a",
		"a:FunctionScopedDeclaration a:Access")
	expectRoles(t, optionsJS, "(a, b = c) => a + b",
		"a:FunctionScopedDeclaration b:FunctionScopedDeclaration c:Access a:Access b:Access")
	expectRoles(t, optionsJS, "(a, b)",
		"a:Access b:Access")
	expectRoles(t, optionsJS, "async x => x",
		"async x:FunctionScopedDeclaration x:Access")
	expectRoles(t, optionsJS, "async (x) => x",
		"async x:FunctionScopedDeclaration x:Access")
	expectRoles(t, optionsJS, "async(x)",
		"async:Access x:Access")
}

func TestImportExportRoles(t *testing.T) {
	expectRoles(t, optionsJS, "import a, {b as c, d} from 'x'; import * as e from 'y';",
		"a:ImportDeclaration b:ImportAccess as c:ImportDeclaration d:ImportDeclaration from as e:ImportDeclaration from")
	expectRoles(t, optionsJS, "export {a, b as c};",
		"a:ExportAccess b:ExportAccess as c")
	expectRoles(t, optionsJS, "export {a} from 'b';",
		"a from")
	expectRoles(t, optionsJS, "export default a;",
		"a:Access")
	expectRoles(t, optionsJS, "export const a = 1;",
		"a:TopLevelDeclaration")
}

func TestScopes(t *testing.T) {
	expectScopes(t, optionsJS, "function f(a) { var b; }", []js_ast.Scope{
		{StartTokenIndex: 5, EndTokenIndex: 10, IsFunctionScope: true},
		{StartTokenIndex: 2, EndTokenIndex: 10, IsFunctionScope: true},
		{StartTokenIndex: 0, EndTokenIndex: 10},
	})
	expectScopes(t, optionsJS, "{ x; }", []js_ast.Scope{
		{StartTokenIndex: 0, EndTokenIndex: 4},
		{StartTokenIndex: 0, EndTokenIndex: 4},
	})
	expectScopes(t, optionsJS, "a => a", []js_ast.Scope{
		{StartTokenIndex: 0, EndTokenIndex: 3, IsFunctionScope: true},
		{StartTokenIndex: 0, EndTokenIndex: 3},
	})
}

func TestScopesAreNested(t *testing.T) {
	contents := `
		function outer(a) {
			for (let i = 0; i < a; i++) {
				try { inner(() => i) } catch { }
			}
			return class { m() { return { x: () => 1 } } }
		}
	`
	file := parseForTest(t, contents, optionsJS)
	scopes := file.Scopes
	last := scopes[len(scopes)-1]
	test.AssertEqual(t, last.StartTokenIndex, int32(0))
	test.AssertEqual(t, last.EndTokenIndex, int32(len(file.Tokens)))
	for i, scope := range scopes {
		if i > 0 && scope.EndTokenIndex < scopes[i-1].EndTokenIndex {
			t.Fatalf("Scope %d ends before the scope before it", i)
		}
		for _, other := range scopes {
			overlaps := scope.StartTokenIndex < other.EndTokenIndex && other.StartTokenIndex < scope.EndTokenIndex
			nested := (scope.StartTokenIndex <= other.StartTokenIndex && other.EndTokenIndex <= scope.EndTokenIndex) ||
				(other.StartTokenIndex <= scope.StartTokenIndex && scope.EndTokenIndex <= other.EndTokenIndex)
			if overlaps && !nested {
				t.Fatalf("Scopes %v and %v overlap without nesting", scope, other)
			}
		}
	}
}

func TestOptionalChainAnnotations(t *testing.T) {
	contents := "a?.b.c(d);"
	file := parseForTest(t, contents, optionsJS)
	tokens := file.Tokens

	// a ?. b . c ( d ) ;
	test.AssertEqual(t, tokens[0].IsOptionalChainStart, true)
	test.AssertEqual(t, tokens[1].SubscriptStartIndex, int32(0))
	test.AssertEqual(t, tokens[3].SubscriptStartIndex, int32(0))
	test.AssertEqual(t, tokens[5].SubscriptStartIndex, int32(0))
	test.AssertEqual(t, tokens[7].IsOptionalChainEnd, true)
	test.AssertEqual(t, tokens[8].IsOptionalChainEnd, false)

	// Member expressions without "?." are never chain starts
	file = parseForTest(t, "a.b.c;", optionsJS)
	test.AssertEqual(t, file.Tokens[0].IsOptionalChainStart, false)
	test.AssertEqual(t, file.Tokens[1].SubscriptStartIndex, int32(0))
	test.AssertEqual(t, file.Tokens[4].IsOptionalChainEnd, false)
}

func TestNullishAnnotations(t *testing.T) {
	contents := "x = a ?? b ?? c;"
	file := parseForTest(t, contents, optionsJS)
	tokens := file.Tokens

	// x = a ?? b ?? c ;
	test.AssertEqual(t, tokens[2].NumNullishCoalesceStarts, int32(2))
	test.AssertEqual(t, tokens[3].NullishStartIndex, int32(2))
	test.AssertEqual(t, tokens[4].NumNullishCoalesceEnds, int32(1))
	test.AssertEqual(t, tokens[5].NullishStartIndex, int32(2))
	test.AssertEqual(t, tokens[6].NumNullishCoalesceEnds, int32(1))

	// The right operand extends over tighter binding operators
	file = parseForTest(t, "a ?? b.c + 1;", optionsJS)
	test.AssertEqual(t, file.Tokens[0].NumNullishCoalesceStarts, int32(1))
	test.AssertEqual(t, file.Tokens[6].NumNullishCoalesceEnds, int32(1))
}

func TestContextIDs(t *testing.T) {
	contents := "class A { m() {} }"
	file := parseForTest(t, contents, optionsJS)
	tokens := file.Tokens

	// class A { m ( ) { } }
	classID := tokens[0].ContextID
	if classID == js_ast.NoIndex {
		t.Fatal("Expected the class keyword to have a context ID")
	}
	test.AssertEqual(t, tokens[2].ContextID, classID)
	test.AssertEqual(t, tokens[8].ContextID, classID)

	methodID := tokens[4].ContextID
	if methodID == js_ast.NoIndex || methodID == classID {
		t.Fatal("Expected the method to have its own context ID")
	}
	test.AssertEqual(t, tokens[5].ContextID, methodID)
	test.AssertEqual(t, tokens[6].ContextID, methodID)
	test.AssertEqual(t, tokens[7].ContextID, methodID)
}

func TestExpressionFlags(t *testing.T) {
	file := parseForTest(t, "class A {} x = class {}; function f() {} y = function() {};", optionsJS)
	var flags []bool
	for _, token := range file.Tokens {
		if token.Type == js_lexer.TClass || token.Type == js_lexer.TFunction {
			flags = append(flags, token.IsExpression)
		}
	}
	test.AssertDeepEqual(t, flags, []bool{false, true, false, true})
}

func TestRHSEndIndex(t *testing.T) {
	// let a = 1 , b = c ;
	file := parseForTest(t, "let a = 1, b = c;", optionsJS)
	test.AssertEqual(t, file.Tokens[2].RHSEndIndex, int32(4))
	test.AssertEqual(t, file.Tokens[6].RHSEndIndex, int32(8))
}

func TestRegExpAndTemplates(t *testing.T) {
	expectValueTokens(t, optionsJS, "a = /x/g.test(`a${b}c${d}e`)",
		"a = /x/g . test ( `a${ b }c${ d }e` )")
	expectValueTokens(t, optionsJS, "a / b / c", "a / b / c")
	expectValueTokens(t, optionsJS, "if (x) /re/.test(y)", "if ( x ) /re/ . test ( y )")
}

func TestAwaitAndYield(t *testing.T) {
	expectRoles(t, optionsJS, "async function f() { await g(); }",
		"async f:TopLevelDeclaration await g:Access")
	expectRoles(t, optionsJS, "function* f() { yield x; }",
		"f:TopLevelDeclaration yield x:Access")
	expectRoles(t, optionsJS, "yield(x)",
		"yield:Access x:Access")
}

func TestJSX(t *testing.T) {
	expectRoles(t, optionsJSX, "<div className={a}>{b}<Foo.Bar /></div>",
		"div className:ObjectKey a:Access b:Access Foo:Access Bar div")
	expectRoles(t, optionsJSX, "<Foo {...props} x:y='1' />",
		"Foo:Access props:Access x y")
	expectValueTokens(t, optionsJSX, "<>a {b} c</>", "< > a  { b }  c < / >")
}

func TestSyntaxErrors(t *testing.T) {
	expectParseError(t, optionsJS, "let = ;", "Unexpected \";\"\n")
	expectParseError(t, optionsJS, "(a, b", "Expected \",\" but found end of file\n")
	expectParseError(t, optionsJS, "import {a: b} from 'c'",
		"ES2015 named imports do not support destructuring (use \"as\")\n")
	expectParseError(t, optionsJS, "x = 'abc", "Unterminated string constant\n")
}
