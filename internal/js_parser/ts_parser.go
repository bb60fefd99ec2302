// This file contains code for parsing TypeScript syntax. Type expressions are
// recorded like any other tokens but in a type context, so every token that
// belongs to a type is marked and can be removed later without any knowledge
// of what the type means.

package js_parser

import (
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
)

func (p *parser) tsParseBinding() {
	switch p.lexer.Token {
	case js_lexer.TIdentifier, js_lexer.TThis:
		p.next()

	case js_lexer.TOpenBracket:
		p.next()

		// "[, , a]"
		for p.lexer.Token == js_lexer.TComma {
			p.next()
		}

		// "[a, b]"
		for p.lexer.Token != js_lexer.TCloseBracket {
			p.tsParseBinding()
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.next()
		}

		p.expect(js_lexer.TCloseBracket)

	case js_lexer.TOpenBrace:
		p.next()

		for p.lexer.Token != js_lexer.TCloseBrace {
			foundIdentifier := false

			switch p.lexer.Token {
			case js_lexer.TDotDotDot:
				// "{...x}"
				p.next()
				if p.lexer.Token != js_lexer.TIdentifier {
					p.lexer.Unexpected()
				}
				foundIdentifier = true
				p.next()

			case js_lexer.TIdentifier:
				// "{x}" or "{x: y}"
				foundIdentifier = true
				p.next()

			case js_lexer.TStringLiteral, js_lexer.TNumericLiteral:
				// "{1: y}" or "{'x': y}"
				p.next()

			default:
				if !p.lexer.IsIdentifierOrKeyword() {
					p.lexer.Unexpected()
				}
				// "{if: x}"
				p.next()
			}

			if p.lexer.Token == js_lexer.TColon || !foundIdentifier {
				p.expect(js_lexer.TColon)
				p.tsParseBinding()
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.next()
		}

		p.expect(js_lexer.TCloseBrace)

	default:
		p.lexer.Unexpected()
	}
}

func (p *parser) tsParseFnArgs() {
	p.expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		// "(...a)"
		p.eat(js_lexer.TDotDotDot)

		p.tsParseBinding()

		// "(a?)"
		p.eat(js_lexer.TQuestion)

		// "(a: any)"
		if p.eat(js_lexer.TColon) {
			p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
		}

		// "(a, b)"
		if !p.eat(js_lexer.TComma) {
			break
		}
	}

	p.expect(js_lexer.TCloseParen)
}

// The grammar is ambiguous here. All of these are valid:
//
//	let x = (y: any): (() => {}) => { };
//	let x = (y: any): () => {} => { };
//	let x = (y: any): (y) => {} => { };
//	let x = (y: any): (y[]) => {};
//	let x = (y: any): (a | b) => {};
//
// And these aren't:
//
//	let x = (y: any): (y) => {};
//	let x = (y: any): (y) => {return 0};
//	let x = (y: any): asserts y is (y) => {};
func (p *parser) tsParseParenOrFnType() {
	if p.tryParse(func() {
		p.tsParseFnArgs()
		p.expect(js_lexer.TEqualsGreaterThan)
	}) {
		p.tsParseReturnType()
		return
	}

	p.expect(js_lexer.TOpenParen)
	p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
	p.expect(js_lexer.TCloseParen)
}

func (p *parser) tsParseReturnType() {
	p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{isReturnType: true})
}

// Parses a complete type in a type context
func (p *parser) tsParseType() {
	oldIsType := p.pushTypeContext(0)
	p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
	p.popTypeContext(oldIsType)
}

type tsTypeOpts struct {
	isReturnType     bool
	allowTupleLabels bool
}

type tsTypeIdentifierKind uint8

const (
	tsTypeIdentifierNormal tsTypeIdentifierKind = iota
	tsTypeIdentifierUnique
	tsTypeIdentifierAbstract
	tsTypeIdentifierAsserts
	tsTypeIdentifierPrefix
	tsTypeIdentifierPrimitive
)

var tsTypeIdentifierMap = map[string]tsTypeIdentifierKind{
	"unique":   tsTypeIdentifierUnique,
	"abstract": tsTypeIdentifierAbstract,
	"asserts":  tsTypeIdentifierAsserts,

	"keyof":    tsTypeIdentifierPrefix,
	"readonly": tsTypeIdentifierPrefix,
	"infer":    tsTypeIdentifierPrefix,

	"any":       tsTypeIdentifierPrimitive,
	"never":     tsTypeIdentifierPrimitive,
	"unknown":   tsTypeIdentifierPrimitive,
	"undefined": tsTypeIdentifierPrimitive,
	"object":    tsTypeIdentifierPrimitive,
	"number":    tsTypeIdentifierPrimitive,
	"string":    tsTypeIdentifierPrimitive,
	"boolean":   tsTypeIdentifierPrimitive,
	"bigint":    tsTypeIdentifierPrimitive,
	"symbol":    tsTypeIdentifierPrimitive,
}

func (p *parser) tsParseTypeWithOpts(level js_ast.L, opts tsTypeOpts) {
	for {
		switch p.lexer.Token {
		case js_lexer.TNumericLiteral, js_lexer.TBigIntegerLiteral, js_lexer.TStringLiteral,
			js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTrue, js_lexer.TFalse,
			js_lexer.TNull, js_lexer.TVoid, js_lexer.TConst:
			p.next()

		case js_lexer.TThis:
			p.next()

			// "function check(): this is boolean"
			if p.isContextual(js_lexer.ContextualIs) && !p.lexer.HasNewlineBefore {
				p.next()
				p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
				return
			}

		case js_lexer.TMinus:
			// "-123" or "-123n"
			p.next()
			if !p.eat(js_lexer.TBigIntegerLiteral) {
				p.expect(js_lexer.TNumericLiteral)
			}

		case js_lexer.TAmpersand, js_lexer.TBar:
			// "type Foo = | A | B" and "type Foo = & A & B"
			p.next()
			continue

		case js_lexer.TImport:
			// "import('fs')"
			p.next()

			// "[import: number]"
			if opts.allowTupleLabels && p.lexer.Token == js_lexer.TColon {
				return
			}

			p.expect(js_lexer.TOpenParen)
			p.expect(js_lexer.TStringLiteral)
			p.expect(js_lexer.TCloseParen)

		case js_lexer.TNew:
			// "new () => Foo" or "new <T>() => Foo<T>"
			p.next()

			// "[new: number]"
			if opts.allowTupleLabels && p.lexer.Token == js_lexer.TColon {
				return
			}

			p.tsParseTypeParametersBody()
			p.tsParseParenOrFnType()

		case js_lexer.TLessThan:
			// "<T>() => Foo<T>"
			p.tsParseTypeParametersBody()
			p.tsParseParenOrFnType()

		case js_lexer.TOpenParen:
			// "(number | string)"
			p.tsParseParenOrFnType()

		case js_lexer.TIdentifier:
			kind := tsTypeIdentifierMap[p.lexer.Identifier]

			if kind == tsTypeIdentifierPrefix {
				p.next()

				// "{[keyof: string]: number}"
				if p.lexer.Token != js_lexer.TColon {
					p.tsParseTypeWithOpts(js_ast.LPrefix, tsTypeOpts{})
				}
				break
			}

			checkTypeArguments := true

			switch kind {
			case tsTypeIdentifierUnique:
				p.next()

				// "let foo: unique symbol"
				if p.isContextual(js_lexer.ContextualSymbol) {
					p.next()
					checkTypeArguments = false
				}

			case tsTypeIdentifierAbstract:
				p.next()

				// "let foo: abstract new () => {}"
				if p.lexer.Token == js_lexer.TNew {
					continue
				}

			case tsTypeIdentifierAsserts:
				p.next()

				// "function assert(x: boolean): asserts x"
				// "function assert(x: boolean): asserts x is boolean"
				if opts.isReturnType && !p.lexer.HasNewlineBefore &&
					(p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TThis) {
					p.next()
				}

			case tsTypeIdentifierPrimitive:
				p.next()
				checkTypeArguments = false

			default:
				p.next()
			}

			// "function assert(x: any): x is boolean"
			if p.isContextual(js_lexer.ContextualIs) && !p.lexer.HasNewlineBefore {
				p.next()
				p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
				return
			}

			// "let foo: any \n <number>foo" must not become a single type
			if checkTypeArguments && !p.lexer.HasNewlineBefore {
				p.tsParseTypeArgumentsBody()
			}

		case js_lexer.TTypeof:
			p.next()

			// "[typeof: number]"
			if opts.allowTupleLabels && p.lexer.Token == js_lexer.TColon {
				return
			}

			// "typeof import('fs')"
			if p.lexer.Token == js_lexer.TImport {
				continue
			}

			// "typeof x" or "typeof x.y"
			for {
				if !p.lexer.IsIdentifierOrKeyword() && p.lexer.Token != js_lexer.TPrivateIdentifier {
					p.lexer.Expected(js_lexer.TIdentifier)
				}
				p.next()
				if !p.eat(js_lexer.TDot) {
					break
				}
			}

			// "typeof x<T>"
			if !p.lexer.HasNewlineBefore {
				p.tsParseTypeArgumentsBody()
			}

		case js_lexer.TOpenBracket:
			// "[number, string]" or "[first: number, second: string]"
			p.next()
			for p.lexer.Token != js_lexer.TCloseBracket {
				p.eat(js_lexer.TDotDotDot)
				p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{allowTupleLabels: true})
				p.eat(js_lexer.TQuestion)
				if p.eat(js_lexer.TColon) {
					p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
				}
				if !p.eat(js_lexer.TComma) {
					break
				}
			}
			p.expect(js_lexer.TCloseBracket)

		case js_lexer.TOpenBrace:
			p.tsParseObjectType()

		case js_lexer.TTemplateHead:
			// "`${'a' | 'b'}-${'c' | 'd'}`"
			p.next()
			for {
				p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
				p.lexer.RescanCloseBraceAsTemplateToken()
				isTail := p.lexer.Token == js_lexer.TTemplateTail
				p.next()
				if isTail {
					break
				}
			}

		default:
			// "[function: number]"
			if opts.allowTupleLabels && p.lexer.IsIdentifierOrKeyword() {
				p.next()
				if p.lexer.Token != js_lexer.TColon {
					p.lexer.Expected(js_lexer.TColon)
				}
				return
			}

			p.lexer.Unexpected()
		}
		break
	}

	for {
		switch p.lexer.Token {
		case js_lexer.TBar:
			if level >= js_ast.LBitwiseOr {
				return
			}
			p.next()
			p.tsParseTypeWithOpts(js_ast.LBitwiseOr, tsTypeOpts{})

		case js_lexer.TAmpersand:
			if level >= js_ast.LBitwiseAnd {
				return
			}
			p.next()
			p.tsParseTypeWithOpts(js_ast.LBitwiseAnd, tsTypeOpts{})

		case js_lexer.TExclamation:
			// A postfix "!" is allowed in JSDoc types. It has to be consumed
			// here so that it isn't parsed as the start of an expression.
			if p.lexer.HasNewlineBefore {
				return
			}
			p.next()

		case js_lexer.TDot:
			p.next()
			if !p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Expected(js_lexer.TIdentifier)
			}
			p.next()

			// "{ <A extends B>(): c.d \n <E extends F>(): g.h }" must not become a single type
			if !p.lexer.HasNewlineBefore {
				p.tsParseTypeArgumentsBody()
			}

		case js_lexer.TOpenBracket:
			// "{ ['x']: string \n ['y']: string }" must not become a single type
			if p.lexer.HasNewlineBefore {
				return
			}
			p.next()
			if p.lexer.Token != js_lexer.TCloseBracket {
				p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
			}
			p.expect(js_lexer.TCloseBracket)

		case js_lexer.TExtends:
			// "{ x: number \n extends: boolean }" must not become a single type
			if p.lexer.HasNewlineBefore || level >= js_ast.LConditional {
				return
			}
			p.next()

			// The type following "extends" is not permitted to be another conditional type
			p.tsParseTypeWithOpts(js_ast.LConditional, tsTypeOpts{})
			p.expect(js_lexer.TQuestion)
			p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
			p.expect(js_lexer.TColon)
			p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})

		default:
			return
		}
	}
}

func (p *parser) tsParseObjectType() {
	p.expect(js_lexer.TOpenBrace)

	for p.lexer.Token != js_lexer.TCloseBrace {
		// "{ -readonly [K in keyof T]: T[K] }"
		// "{ +readonly [K in keyof T]: T[K] }"
		if p.lexer.Token == js_lexer.TPlus || p.lexer.Token == js_lexer.TMinus {
			p.next()
		}

		// Modifiers and the property name
		foundKey := false
		for p.lexer.IsIdentifierOrKeyword() || p.lexer.Token == js_lexer.TStringLiteral || p.lexer.Token == js_lexer.TNumericLiteral {
			p.next()
			foundKey = true
		}

		if p.eat(js_lexer.TOpenBracket) {
			// Index signature or computed property
			p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})

			// "{ [key: string]: number }"
			// "{ readonly [K in keyof T]: T[K] }"
			if p.eat(js_lexer.TColon) {
				p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
			} else if p.eat(js_lexer.TIn) {
				p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})

				// "{ [K in keyof T as `get-${K}`]: T[K] }"
				if p.eatContextual(js_lexer.ContextualAs) {
					p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
				}
			}

			p.expect(js_lexer.TCloseBracket)

			// "{ [K in keyof T]+?: T[K] }"
			// "{ [K in keyof T]-?: T[K] }"
			if p.lexer.Token == js_lexer.TPlus || p.lexer.Token == js_lexer.TMinus {
				p.next()
			}

			foundKey = true
		}

		// "?" is an optional property and "!" is an initialization assertion
		if foundKey && (p.lexer.Token == js_lexer.TQuestion || p.lexer.Token == js_lexer.TExclamation) {
			p.next()
		}

		p.tsParseTypeParametersBody()

		switch p.lexer.Token {
		case js_lexer.TColon:
			// Regular property
			if !foundKey {
				p.lexer.Expected(js_lexer.TIdentifier)
			}
			p.next()
			p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})

		case js_lexer.TOpenParen:
			// Method signature
			p.tsParseFnArgs()
			if p.eat(js_lexer.TColon) {
				p.tsParseReturnType()
			}

		default:
			if !foundKey {
				p.lexer.Unexpected()
			}
		}

		switch p.lexer.Token {
		case js_lexer.TCloseBrace:

		case js_lexer.TComma, js_lexer.TSemicolon:
			p.next()

		default:
			if !p.lexer.HasNewlineBefore {
				p.lexer.Unexpected()
			}
		}
	}

	p.expect(js_lexer.TCloseBrace)
}

// Type parameter declarations go with classes, functions, methods, type
// aliases, and interfaces
func (p *parser) tsParseTypeParametersBody() {
	if p.lexer.Token != js_lexer.TLessThan {
		return
	}
	p.next()

	for {
		// "<const T>" and "<in out T>"
		for p.lexer.Token == js_lexer.TConst || p.lexer.Token == js_lexer.TIn || p.isContextual(js_lexer.ContextualOut) {
			if next, _ := p.lexer.LookaheadType(); next != js_lexer.TIdentifier {
				break
			}
			p.next()
		}

		p.expect(js_lexer.TIdentifier)

		// "class Foo<T extends number> {}"
		if p.eat(js_lexer.TExtends) {
			p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
		}

		// "class Foo<T = void> {}"
		if p.eat(js_lexer.TEquals) {
			p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
		}

		if !p.eat(js_lexer.TComma) {
			break
		}
		if p.lexer.Token == js_lexer.TGreaterThan {
			break
		}
	}

	p.expectGreaterThan()
}

func (p *parser) tsParseTypeArgumentsBody() bool {
	switch p.lexer.Token {
	case js_lexer.TLessThan, js_lexer.TLessThanEquals, js_lexer.TLessThanLessThan, js_lexer.TLessThanLessThanEquals:
	default:
		return false
	}

	p.expectLessThan()
	for {
		p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
		if !p.eat(js_lexer.TComma) {
			break
		}
	}

	// This type argument list must end with a ">"
	p.expectGreaterThan()
	return true
}

func (p *parser) tsParseTypeParameters() {
	if p.lexer.Token != js_lexer.TLessThan {
		p.lexer.Expected(js_lexer.TLessThan)
	}
	oldIsType := p.pushTypeContext(0)
	p.tsParseTypeParametersBody()
	p.popTypeContext(oldIsType)
}

func (p *parser) tsTryParseTypeParameters() {
	if p.lexer.Token == js_lexer.TLessThan {
		p.tsParseTypeParameters()
	}
}

func (p *parser) tsParseTypeArguments() {
	oldIsType := p.pushTypeContext(0)
	if !p.tsParseTypeArgumentsBody() {
		p.lexer.Expected(js_lexer.TLessThan)
	}
	p.popTypeContext(oldIsType)
}

// "f<T>(x)" and "f<T>" are type arguments but "a < b > c" is not
func (p *parser) tsTryParseTypeArgumentsInExpression() bool {
	return p.tryParse(func() {
		p.tsParseTypeArguments()
		if !p.canFollowTypeArgumentsInExpression() {
			p.lexer.Unexpected()
		}
	})
}

// This function is taken from the official TypeScript compiler source code:
// https://github.com/microsoft/TypeScript/blob/master/src/compiler/parser.ts
func (p *parser) canFollowTypeArgumentsInExpression() bool {
	switch p.lexer.Token {
	case
		// These are the only tokens can legally follow a type argument list. So we
		// definitely want to treat them as type arg lists.
		js_lexer.TOpenParen,                     // foo<x>(
		js_lexer.TNoSubstitutionTemplateLiteral, // foo<T> `...`
		js_lexer.TTemplateHead:                  // foo<T> `...${100}...`
		return true

	case
		// These cases can't legally follow a type arg list. However, they're not
		// legal expressions either. The user is probably in the middle of a
		// generic type. So treat it as such.
		js_lexer.TDot,                     // foo<x>.
		js_lexer.TCloseParen,              // foo<x>)
		js_lexer.TCloseBracket,            // foo<x>]
		js_lexer.TColon,                   // foo<x>:
		js_lexer.TSemicolon,               // foo<x>;
		js_lexer.TQuestion,                // foo<x>?
		js_lexer.TEqualsEquals,            // foo<x> ==
		js_lexer.TEqualsEqualsEquals,      // foo<x> ===
		js_lexer.TExclamationEquals,       // foo<x> !=
		js_lexer.TExclamationEqualsEquals, // foo<x> !==
		js_lexer.TAmpersandAmpersand,      // foo<x> &&
		js_lexer.TBarBar,                  // foo<x> ||
		js_lexer.TQuestionQuestion,        // foo<x> ??
		js_lexer.TCaret,                   // foo<x> ^
		js_lexer.TAmpersand,               // foo<x> &
		js_lexer.TBar,                     // foo<x> |
		js_lexer.TCloseBrace,              // foo<x> }
		js_lexer.TEndOfFile:               // foo<x>
		return true

	default:
		// Anything else treat as an expression
		return false
	}
}

func (p *parser) tsParseTypeAnnotation() {
	oldIsType := p.pushTypeContext(0)
	p.expect(js_lexer.TColon)
	p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
	p.popTypeContext(oldIsType)
}

func (p *parser) tsTryParseTypeAnnotation() {
	if p.lexer.Token == js_lexer.TColon {
		p.tsParseTypeAnnotation()
	}
}

// Return types may be type predicates such as "x is string"
func (p *parser) tsParseTypeOrTypePredicateAnnotation() {
	oldIsType := p.pushTypeContext(0)
	p.expect(js_lexer.TColon)
	p.tsParseReturnType()
	p.popTypeContext(oldIsType)
}

// "<T>x"
func (p *parser) tsParseTypeAssertion() {
	oldIsType := p.pushTypeContext(0)
	p.expect(js_lexer.TLessThan)
	if !p.eat(js_lexer.TConst) {
		p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
	}
	p.expectGreaterThan()
	p.popTypeContext(oldIsType)
}

////////////////////////////////////////////////////////////////////////////////
// Modifiers

type tsModifiers uint16

const (
	tsModifierPublic tsModifiers = 1 << iota
	tsModifierPrivate
	tsModifierProtected
	tsModifierReadonly
	tsModifierOverride
	tsModifierAbstract
	tsModifierDeclare
)

const (
	tsParameterModifiers   = tsModifierPublic | tsModifierPrivate | tsModifierProtected | tsModifierReadonly | tsModifierOverride
	tsClassMemberModifiers = tsParameterModifiers | tsModifierAbstract | tsModifierDeclare
)

var tsModifierKeywords = map[js_lexer.ContextualKeyword]tsModifiers{
	js_lexer.ContextualPublic:    tsModifierPublic,
	js_lexer.ContextualPrivate:   tsModifierPrivate,
	js_lexer.ContextualProtected: tsModifierProtected,
	js_lexer.ContextualReadonly:  tsModifierReadonly,
	js_lexer.ContextualOverride:  tsModifierOverride,
	js_lexer.ContextualAbstract:  tsModifierAbstract,
	js_lexer.ContextualDeclare:   tsModifierDeclare,
}

func canFollowModifier(next *js_lexer.Lexer) bool {
	if next.HasNewlineBefore {
		return false
	}
	switch next.Token {
	case js_lexer.TOpenBracket, js_lexer.TOpenBrace, js_lexer.TAsterisk, js_lexer.TDotDotDot, js_lexer.TPrivateIdentifier,
		js_lexer.TStringLiteral, js_lexer.TNumericLiteral, js_lexer.TBigIntegerLiteral:
		return true
	}
	return next.IsIdentifierOrKeyword()
}

// Consumes modifiers such as "private" and "readonly" and marks them as
// types. A modifier that is actually the name of a member is left alone.
func (p *parser) parseTypeScriptModifiers(allowed tsModifiers) (found tsModifiers) {
	for p.lexer.Token == js_lexer.TIdentifier {
		modifier, ok := tsModifierKeywords[p.lexer.ContextualKeyword]
		if !ok || allowed&modifier == 0 {
			break
		}
		next := p.lexer.Lookahead()
		if !canFollowModifier(&next) {
			break
		}
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.popTypeContext(oldIsType)
		found |= modifier
	}
	return
}

////////////////////////////////////////////////////////////////////////////////
// Classes

func (p *parser) tsAfterParseClassSuper(hasSuper bool) {
	// "class A extends B<T> {}"
	if hasSuper && p.lexer.Token == js_lexer.TLessThan {
		p.tsParseTypeArguments()
	}

	// "class A implements B, C {}"
	if p.isContextual(js_lexer.ContextualImplements) {
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.tsParseHeritageClause()
		p.popTypeContext(oldIsType)
	}
}

func (p *parser) tsParseHeritageClause() {
	for {
		p.parseIdentifier()
		for p.eat(js_lexer.TDot) {
			p.parseIdentifier()
		}
		p.tsParseTypeArgumentsBody()
		if !p.eat(js_lexer.TComma) {
			break
		}
	}
}

// "[key: string]: any" inside a class body
func (p *parser) tsTryParseIndexSignature() bool {
	if p.lexer.Token != js_lexer.TOpenBracket {
		return false
	}
	next := p.lexer.Lookahead()
	if !next.IsIdentifierOrKeyword() {
		return false
	}
	if afterNext := next.Lookahead(); afterNext.Token != js_lexer.TColon {
		return false
	}

	oldIsType := p.pushTypeContext(0)
	p.expect(js_lexer.TOpenBracket)
	p.parseIdentifier()
	p.tsParseTypeAnnotation()
	p.expect(js_lexer.TCloseBracket)
	p.tsTryParseTypeAnnotation()
	p.eat(js_lexer.TSemicolon)
	p.popTypeContext(oldIsType)
	return true
}

////////////////////////////////////////////////////////////////////////////////
// Statements

// The name of the interface is the current token. Type names are declarations
// too, which lets exports of them be recognized as type-only.
func (p *parser) tsParseInterface() {
	oldIsType := p.pushTypeContext(0)
	p.expect(js_lexer.TIdentifier)
	p.markPriorBindingIdentifier(false /* isBlockScope */)
	p.tsParseTypeParametersBody()

	if p.eat(js_lexer.TExtends) {
		for {
			p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
			if !p.eat(js_lexer.TComma) {
				break
			}
		}
	}

	if p.eatContextual(js_lexer.ContextualImplements) {
		for {
			p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
			if !p.eat(js_lexer.TComma) {
				break
			}
		}
	}

	p.tsParseObjectType()
	p.popTypeContext(oldIsType)
}

// The name of the type alias is the current token
func (p *parser) tsParseTypeAlias() {
	oldIsType := p.pushTypeContext(0)
	p.expect(js_lexer.TIdentifier)
	p.markPriorBindingIdentifier(false /* isBlockScope */)
	p.tsParseTypeParametersBody()
	p.expect(js_lexer.TEquals)
	p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
	p.expectOrInsertSemicolon()
	p.popTypeContext(oldIsType)
}

// "namespace A.B {}" and "module 'x' {}". The keyword has already been
// consumed. Only namespaces without any values can be removed, so a body
// that declares a value is an error unless it's inside "declare".
func (p *parser) tsParseModuleOrNamespace() {
	isAmbient := p.isType
	nameRange := p.lexer.Range()
	oldIsType := p.pushTypeContext(0)
	if p.eat(js_lexer.TStringLiteral) {
		isAmbient = true
	} else {
		p.parseIdentifier()
		for p.eat(js_lexer.TDot) {
			p.parseIdentifier()
		}
	}

	if p.lexer.Token != js_lexer.TOpenBrace {
		// "declare module 'x';"
		p.expectOrInsertSemicolon()
		p.popTypeContext(oldIsType)
		return
	}

	if isAmbient {
		p.parseBlock(false, js_ast.NoIndex)
		p.popTypeContext(oldIsType)
		return
	}

	// Parse the body as values to find out whether it has any
	p.popTypeContext(oldIsType)
	bodyStart := len(p.tokens)
	p.parseBlock(false, js_ast.NoIndex)
	for i := bodyStart + 1; i < len(p.tokens)-1; i++ {
		if !p.tokens[i].IsType {
			p.lexer.AddRangeErrorAtAndPanic(nameRange, "Non-type namespaces are not supported")
		}
	}
}

// The current token is an identifier at the start of a statement. Returns
// true if it started a declaration that only exists in the type system.
func (p *parser) tsTryParseDeclaration() bool {
	next := p.lexer.Lookahead()
	if next.HasNewlineBefore {
		return false
	}
	startIndex := len(p.tokens)

	switch p.lexer.ContextualKeyword {
	case js_lexer.ContextualType:
		if next.Token != js_lexer.TIdentifier {
			return false
		}
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.popTypeContext(oldIsType)
		p.tsParseTypeAlias()

	case js_lexer.ContextualInterface:
		if next.Token != js_lexer.TIdentifier {
			return false
		}
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.popTypeContext(oldIsType)
		p.tsParseInterface()

	case js_lexer.ContextualNamespace:
		if next.Token != js_lexer.TIdentifier {
			return false
		}
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.popTypeContext(oldIsType)
		p.tsParseModuleOrNamespace()

	case js_lexer.ContextualModule:
		if next.Token != js_lexer.TIdentifier && next.Token != js_lexer.TStringLiteral {
			return false
		}
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.popTypeContext(oldIsType)
		p.tsParseModuleOrNamespace()

	case js_lexer.ContextualGlobal:
		// "declare global {}"
		if next.Token != js_lexer.TOpenBrace {
			return false
		}
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.parseBlock(false, js_ast.NoIndex)
		p.popTypeContext(oldIsType)

	case js_lexer.ContextualAbstract:
		// "abstract class A {}" keeps the class
		if next.Token != js_lexer.TClass {
			return false
		}
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.popTypeContext(oldIsType)
		p.parseClass(true /* isStatement */, false /* optionalID */)
		return true

	case js_lexer.ContextualDeclare:
		if !tsCanFollowDeclare(&next) {
			return false
		}
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.parseStmt()
		p.popTypeContext(oldIsType)

	default:
		return false
	}

	p.markTokensAsTypeFrom(startIndex)
	return true
}

func tsCanFollowDeclare(next *js_lexer.Lexer) bool {
	switch next.Token {
	case js_lexer.TClass, js_lexer.TFunction, js_lexer.TVar, js_lexer.TConst, js_lexer.TEnum:
		return true

	case js_lexer.TIdentifier:
		switch next.ContextualKeyword {
		case js_lexer.ContextualAbstract, js_lexer.ContextualAsync, js_lexer.ContextualInterface, js_lexer.ContextualType,
			js_lexer.ContextualNamespace, js_lexer.ContextualModule, js_lexer.ContextualGlobal:
			return true
		}
		return next.Identifier == "let"
	}
	return false
}

// "enum E { A, B = 2, C = 'c' }" and "const enum E {}". The current token
// is "enum".
func (p *parser) parseTypeScriptEnum() {
	p.expect(js_lexer.TEnum)
	p.parseBindingIdentifier(true /* isBlockScope */)
	p.expect(js_lexer.TOpenBrace)

	for !p.eat(js_lexer.TCloseBrace) {
		if p.lexer.Token == js_lexer.TStringLiteral {
			p.next()
		} else {
			p.parseIdentifier()
		}

		if p.eat(js_lexer.TEquals) {
			eqIndex := len(p.tokens) - 1
			p.parseMaybeAssign(false)
			p.tokens[eqIndex].RHSEndIndex = int32(len(p.tokens))
		}

		if p.lexer.Token != js_lexer.TCloseBrace {
			p.expect(js_lexer.TComma)
		}
	}
}

// "import A = require('a')" and "import A = B.C". The current token is the
// name being declared.
func (p *parser) parseTypeScriptImportEquals() {
	p.parseIdentifier()
	p.lastToken().IdentifierRole = js_ast.RoleImportDeclaration
	p.expect(js_lexer.TEquals)

	if p.isContextual(js_lexer.ContextualRequire) {
		if next, _ := p.lexer.LookaheadType(); next == js_lexer.TOpenParen {
			p.next()
			p.expect(js_lexer.TOpenParen)
			p.expect(js_lexer.TStringLiteral)
			p.expect(js_lexer.TCloseParen)
			p.expectOrInsertSemicolon()
			return
		}
	}

	p.parseIdentifier()
	p.lastToken().IdentifierRole = js_ast.RoleAccess
	for p.eat(js_lexer.TDot) {
		p.parseIdentifier()
	}
	p.expectOrInsertSemicolon()
}

// Handles the forms of "export" that only exist in TypeScript. The "export"
// keyword is the token at "exportIndex".
func (p *parser) tryParseTypeScriptExport(exportIndex int) bool {
	switch p.lexer.Token {
	case js_lexer.TImport:
		// "export import A = B.C"
		next, keyword := p.lexer.LookaheadType()
		if next != js_lexer.TIdentifier {
			return false
		}
		p.next()
		if keyword == js_lexer.ContextualType {
			if afterType := p.lexer.Lookahead(); afterType.Token == js_lexer.TIdentifier {
				// "export import type A = require('a')"
				p.next()
				p.parseTypeScriptImportEquals()
				p.markTokensAsTypeFrom(exportIndex)
				return true
			}
		}
		p.parseTypeScriptImportEquals()
		return true

	case js_lexer.TEquals:
		// "export = x"
		p.next()
		p.parseExpr(false)
		p.expectOrInsertSemicolon()
		return true

	case js_lexer.TIdentifier:
		switch p.lexer.ContextualKeyword {
		case js_lexer.ContextualAs:
			// "export as namespace A"
			p.next()
			p.expectContextual(js_lexer.ContextualNamespace)
			p.parseIdentifier()
			p.expectOrInsertSemicolon()
			p.markTokensAsTypeFrom(exportIndex)
			return true

		case js_lexer.ContextualType:
			next, _ := p.lexer.LookaheadType()
			if next == js_lexer.TOpenBrace {
				// "export type {T}" and "export type {T} from 'path'"
				p.next()
				p.parseExportClause()
				p.markTokensAsTypeFrom(exportIndex)
				return true
			}
			if next == js_lexer.TAsterisk {
				// "export type * from 'path'"
				p.next()
				p.next()
				if p.eatContextual(js_lexer.ContextualAs) {
					p.parseIdentifier()
				}
				p.expectContextual(js_lexer.ContextualFrom)
				p.expect(js_lexer.TStringLiteral)
				p.expectOrInsertSemicolon()
				p.markTokensAsTypeFrom(exportIndex)
				return true
			}
		}

		if p.tsTryParseDeclaration() {
			p.markExportAsTypeIfDeclarationIsType(exportIndex)
			return true
		}
	}

	return false
}

// "export" is itself a type token when everything it exports is a type
func (p *parser) markExportAsTypeIfDeclarationIsType(exportIndex int) {
	for i := exportIndex + 1; i < len(p.tokens); i++ {
		if !p.tokens[i].IsType {
			return
		}
	}
	p.tokens[exportIndex].IsType = true
}

// Flow and TypeScript both have declarations that start with a contextual
// keyword and that are removed entirely
func (p *parser) tryParseTypeDeclarationStmt() bool {
	switch p.options.TypeDialect {
	case DialectTypeScript:
		return p.tsTryParseDeclaration()
	case DialectFlow:
		return p.flowTryParseDeclaration()
	}
	return false
}

// "<Foo<T> prop />" inside a JSX element. The "<" has been lexed as the
// start of a JSX tag.
func (p *parser) tsParseJSXTypeArguments() {
	oldIsType := p.pushTypeContext(0)
	p.lexer.Token = js_lexer.TLessThan
	p.next()
	for {
		p.tsParseTypeWithOpts(js_ast.LLowest, tsTypeOpts{})
		if !p.eat(js_lexer.TComma) {
			break
		}
	}
	if p.lexer.Token != js_lexer.TGreaterThan {
		p.lexer.Expected(js_lexer.TGreaterThan)
	}
	p.recordToken()
	p.lexer.NextInsideJSXElement()
	p.popTypeContext(oldIsType)
}
