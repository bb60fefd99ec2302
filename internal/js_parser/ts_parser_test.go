package js_parser

import (
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

func TestTSTypeAnnotations(t *testing.T) {
	expectValueTokens(t, optionsTS, "let x: number = 1;", "let x = 1 ;")
	expectValueTokens(t, optionsTS, "let x!: number;", "let x ;")
	expectValueTokens(t, optionsTS, "function f<T>(a: T, b?: string): void {}", "function f ( a , b ) { }")
	expectValueTokens(t, optionsTS, "function f(this: Window, a) {}", "function f ( a ) { }")
	expectValueTokens(t, optionsTS, "function isString(x: unknown): x is string { return true; }",
		"function isString ( x ) { return true ; }")
	expectValueTokens(t, optionsTS, "let m: Map<string, Array<number>> = new Map();", "let m = new Map ( ) ;")
	expectValueTokens(t, optionsTS, "let f: (a: number) => void;", "let f ;")
	expectValueTokens(t, optionsTS, "let o: { a: string; b?: number } | null;", "let o ;")
	expectValueTokens(t, optionsTS, "try {} catch (e: unknown) {}", "try { } catch ( e ) { }")
}

func TestTSExpressions(t *testing.T) {
	expectValueTokens(t, optionsTS, "const y = x as any;", "const y = x ;")
	expectValueTokens(t, optionsTS, "const y = x satisfies T;", "const y = x ;")
	expectValueTokens(t, optionsTS, "const y = [1] as const;", "const y = [ 1 ] ;")
	expectValueTokens(t, optionsTS, "const z = <any>x;", "const z = x ;")
	expectValueTokens(t, optionsTS, "a!.b;", "a . b ;")
	expectValueTokens(t, optionsTS, "f<T>(x);", "f ( x ) ;")
	expectValueTokens(t, optionsTS, "new C<T>();", "new C ( ) ;")
	expectValueTokens(t, optionsTS, "a < b > c;", "a < b > c ;")
	expectValueTokens(t, optionsTS, "const f = (a: number): string => a;", "const f = ( a ) => a ;")
	expectValueTokens(t, optionsTS, "const g = <T,>(x: T) => x;", "const g = ( x ) => x ;")
	expectValueTokens(t, optionsTS, "const h = async <T>(x: T) => x;", "const h = async ( x ) => x ;")
	expectValueTokens(t, optionsTS, "x = a ? (b) : c;", "x = a ? ( b ) : c ;")
}

func TestTSDeclarations(t *testing.T) {
	expectValueTokens(t, optionsTS, "interface A extends B { x: number }", "")
	expectValueTokens(t, optionsTS, "type A<T> = T | null;", "")
	expectValueTokens(t, optionsTS, "declare const x: number;", "")
	expectValueTokens(t, optionsTS, "declare module 'x' { export const y: number; }", "")
	expectValueTokens(t, optionsTS, "namespace N { export type A = string; }", "")
	expectValueTokens(t, optionsTS, "namespace N {}", "")
	expectValueTokens(t, optionsTS, "export namespace A.B { namespace C { interface I {} } }", "")
	expectValueTokens(t, optionsTS, "declare namespace N { const x: number; }", "")
	expectValueTokens(t, optionsTS, "module M { type T = 1; }", "")
	expectValueTokens(t, optionsTS, "export interface A {}", "")
	expectValueTokens(t, optionsTS, "export default interface Foo {}", "")
	expectValueTokens(t, optionsTS, "export declare function f(): void;", "")
	expectValueTokens(t, optionsTS, "function f(a: string): void;\nfunction f(a) {}", "function f ( a ) { }")
	expectValueTokens(t, optionsTS, "abstract class A {}", "class A { }")
}

func TestTSValueNamespaces(t *testing.T) {
	expectParseError(t, optionsTS, "namespace N { export const x = 1; }", "Non-type namespaces are not supported\n")
	expectParseError(t, optionsTS, "export namespace N { function f() {} }", "Non-type namespaces are not supported\n")
	expectParseError(t, optionsTS, "module M { let x; }", "Non-type namespaces are not supported\n")
}

func TestTSClasses(t *testing.T) {
	expectValueTokens(t, optionsTS,
		"class C<T> extends D<T> implements I { private x?: number; constructor(public y: T) { super(); } abstract m(): void; }",
		"class C extends D { x ; constructor ( y ) { super ( ) ; } }")
	expectValueTokens(t, optionsTS, "class C { [key: string]: any; declare d: number; static s = 1; }",
		"class C { static s = 1 ; }")
	expectValueTokens(t, optionsTS, "class C { readonly x = 1; m?(): void; get v(): number { return 1; } }",
		"class C { x = 1 ; get v ( ) { return 1 ; } }")
}

func TestTSImportsAndExports(t *testing.T) {
	expectValueTokens(t, optionsTS, "import type { A } from './a';", "")
	expectValueTokens(t, optionsTS, "import type A from './a';", "")
	expectValueTokens(t, optionsTS, "import { type A, B } from './a';", "import { , B } from './a' ;")
	expectValueTokens(t, optionsTS, "import type from './a';", "import type from './a' ;")
	expectValueTokens(t, optionsTS, "export type { A } from './a';", "")
	expectValueTokens(t, optionsTS, "export { type A, B };", "export { , B } ;")
	expectValueTokens(t, optionsTS, "import x = require('x');", "import x = require ( 'x' ) ;")
	expectValueTokens(t, optionsTS, "import type x = require('x');", "")

	expectRoles(t, optionsTS, "import { a as b, type c as d } from 'e';",
		"a:ImportAccess as b:ImportDeclaration from")
	expectRoles(t, optionsTS, "import x = require('x');",
		"x:ImportDeclaration require")
}

func TestTSEnums(t *testing.T) {
	expectValueTokens(t, optionsTS, "enum E { A, B = 2 }", "enum E { A , B = 2 }")
	expectValueTokens(t, optionsTS, "const enum E { A }", "const enum E { A }")
	expectValueTokens(t, optionsTS, "declare enum E { A }", "")
}

func TestTSTypesAreNotDeclarations(t *testing.T) {
	// Parameter names inside function types are not bindings
	contents := "function foo(f: (a: number) => void) { a; }"
	file := parseForTest(t, contents, optionsTS)
	var names []string
	for _, token := range file.Tokens {
		if !token.IsType && js_ast.IsDeclaration(&token) {
			names = append(names, contents[token.Start:token.End])
		}
	}
	test.AssertDeepEqual(t, names, []string{"foo", "f"})
}

func TestTSSyntaxErrors(t *testing.T) {
	expectParseError(t, optionsTS, "let x: = 1;", "Unexpected \"=\"\n")
	expectParseError(t, optionsTS, "interface {}", "Expected \";\" but found \"{\"\n")
}
