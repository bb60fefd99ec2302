package js_parser

import (
	"testing"
)

func TestFlowTypeAnnotations(t *testing.T) {
	expectValueTokens(t, optionsFlow, "type A<T> = ?number; const f = (): number => 3;", "const f = ( ) => 3 ;")
	expectValueTokens(t, optionsFlow, "const x: a => b = 2;", "const x = 2 ;")
	expectValueTokens(t, optionsFlow,
		"function partition<T>(list: T[], test: (T, number, T[]) => ?boolean,): [T[], T[]] { return []; }",
		"function partition ( list , test , ) { return [ ] ; }")
	expectValueTokens(t, optionsFlow, "function foo(): {| x: number |} { return 3; }", "function foo ( ) { return 3 ; }")
	expectValueTokens(t, optionsFlow, "function f(x: mixed): boolean %checks { return !!x; }",
		"function f ( x ) { return ! ! x ; }")
	expectValueTokens(t, optionsFlow, "let o: { [key: string]: number, ...Other } = {};", "let o = { } ;")
	expectValueTokens(t, optionsFlow, "let e: Array<*> = [];", "let e = [ ] ;")
}

func TestFlowExactObjectTypes(t *testing.T) {
	expectValueTokens(t, optionsFlow, "type A = {| x: number |};", "")
	expectValueTokens(t, optionsFlow, "type A = {| x: number | string |};", "")
	expectValueTokens(t, optionsFlow, "type A = {| x: number, y: A | B |};", "")
	expectValueTokens(t, optionsFlow, "type A = {||};", "")
	expectValueTokens(t, optionsFlow, "let o: {| a: {| b: 1 |} |} = x;", "let o = x ;")
}

func TestFlowExpressions(t *testing.T) {
	expectValueTokens(t, optionsFlow, "const y = (x: any);", "const y = ( x ) ;")
	expectValueTokens(t, optionsFlow, "f<T>(x);", "f ( x ) ;")
	expectValueTokens(t, optionsFlow, "const g = <T>(x: T): T => x;", "const g = ( x ) => x ;")
}

func TestFlowDeclarations(t *testing.T) {
	expectValueTokens(t, optionsFlow, "opaque type T = string;", "")
	expectValueTokens(t, optionsFlow, "declare function f(): void;", "")
	expectValueTokens(t, optionsFlow, "declare export var x: number;", "")
	expectValueTokens(t, optionsFlow, "interface I { m(): void }", "")
	expectValueTokens(t, optionsFlow, "export type A = number;", "")
	expectValueTokens(t, optionsFlow, "export interface I {}", "")
	expectValueTokens(t, optionsFlow, "type = 1;", "type = 1 ;")
}

func TestFlowClasses(t *testing.T) {
	expectValueTokens(t, optionsFlow, "class C { +foo: number; -bar: number; }", "class C { foo ; bar ; }")
	expectValueTokens(t, optionsFlow, "class C<T> extends D<T> implements I { declare x: T; }", "class C extends D { }")
}

func TestFlowImports(t *testing.T) {
	expectValueTokens(t, optionsFlow, "import type A from 'a';", "")
	expectValueTokens(t, optionsFlow, "import typeof B from 'b';", "")
	expectValueTokens(t, optionsFlow, "import type, {C} from 'c';", "import type , { C } from 'c' ;")
	expectValueTokens(t, optionsFlow, "import {type D, E} from 'd';", "import { , E } from 'd' ;")

	expectRoles(t, optionsFlow, "import {type D, E} from 'd';", "E:ImportDeclaration from")
}

func TestFlowErrors(t *testing.T) {
	expectParseError(t, optionsFlow, "enum E { A }", "Flow enums are not supported\n")
}
